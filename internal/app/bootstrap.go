package app

import (
	"fmt"
	"os"
	"time"

	"github.com/jwalitptl/property-api/internal/config"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/repository/memory"
	"github.com/jwalitptl/property-api/internal/repository/postgres"
	"github.com/jwalitptl/property-api/pkg/logger"
)

// NewLogger builds the process logger from the logging section.
func NewLogger(cfg config.LoggingConfig) *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Level),
		Format:     cfg.Format,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})
}

// OpenStore connects the configured backend. The returned close func
// releases the connection pool; it is a no-op for the memory store.
func OpenStore(cfg config.DatabaseConfig, migrate bool, log *logger.Logger) (*repository.Store, func() error, error) {
	switch cfg.Driver {
	case "memory":
		log.Warn("using in-memory store; data is lost on exit")
		return memory.NewStore(), func() error { return nil }, nil
	case "postgres":
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	db, err := postgres.NewDB(PostgresConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	if migrate {
		if err := postgres.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("database migrated")
	}
	return postgres.NewStore(db), db.Close, nil
}

func PostgresConfig(cfg config.DatabaseConfig) postgres.Config {
	return postgres.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Name:            cfg.Name,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
}
