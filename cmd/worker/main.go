package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/property-api/internal/app"
	"github.com/jwalitptl/property-api/internal/config"
	internalworker "github.com/jwalitptl/property-api/internal/worker"
	"github.com/jwalitptl/property-api/pkg/logger"
	"github.com/jwalitptl/property-api/pkg/messaging/redis"
	"github.com/jwalitptl/property-api/pkg/metrics"
	"github.com/jwalitptl/property-api/pkg/security"
	"github.com/jwalitptl/property-api/pkg/worker"
)

func main() {
	configFile := flag.String("config", "", "path to config file")
	healthAddr := flag.String("health-addr", ":8081", "address for health and metrics")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := app.NewLogger(cfg.Logging)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := app.OpenStore(cfg.Database, false, log)
	if err != nil {
		log.Fatal(err, "failed to open store")
	}
	defer closeStore()

	broker, err := redis.NewRedisBroker(ctx, redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, log)
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	registry := prometheus.NewRegistry()
	m := metrics.New(cfg.Metrics.Namespace, registry)
	svc := app.NewServices(cfg, store, m, app.NewMailer(cfg.Email, log), security.NewBcryptHasher(bcrypt.DefaultCost), log)

	processor := worker.NewOutboxProcessor(store.Tx, store.Outbox, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
	}, log, m)
	sweeper := internalworker.NewOverdueSweeper(store.Organizations, svc.Invoices, cfg.Sweeper.Interval, log)

	srv := healthServer(*healthAddr, store.Ping, registry, log)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		processor.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		sweeper.Start(ctx)
	}()

	<-ctx.Done()
	log.Info("shutting down worker")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "health server forced to shutdown")
	}
	wg.Wait()
	log.Info("worker exited")
}

func healthServer(addr string, ping func(context.Context) error, gatherer prometheus.Gatherer, log *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, "health server failed")
		}
	}()
	return srv
}
