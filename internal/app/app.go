// Package app wires the store, services, handlers and router together. The
// API, the worker and the CLI all build on it.
package app

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/property-api/internal/config"
	"github.com/jwalitptl/property-api/internal/email"
	"github.com/jwalitptl/property-api/internal/handler"
	applicationHandler "github.com/jwalitptl/property-api/internal/handler/application"
	calendarHandler "github.com/jwalitptl/property-api/internal/handler/calendar"
	dashboardHandler "github.com/jwalitptl/property-api/internal/handler/dashboard"
	expenseHandler "github.com/jwalitptl/property-api/internal/handler/expense"
	invoiceHandler "github.com/jwalitptl/property-api/internal/handler/invoice"
	leaseHandler "github.com/jwalitptl/property-api/internal/handler/lease"
	listingHandler "github.com/jwalitptl/property-api/internal/handler/listing"
	maintenanceHandler "github.com/jwalitptl/property-api/internal/handler/maintenance"
	memberHandler "github.com/jwalitptl/property-api/internal/handler/member"
	organizationHandler "github.com/jwalitptl/property-api/internal/handler/organization"
	paymentHandler "github.com/jwalitptl/property-api/internal/handler/payment"
	permissionHandler "github.com/jwalitptl/property-api/internal/handler/permission"
	propertyHandler "github.com/jwalitptl/property-api/internal/handler/property"
	subscriptionHandler "github.com/jwalitptl/property-api/internal/handler/subscription"
	tenantHandler "github.com/jwalitptl/property-api/internal/handler/tenant"
	unitHandler "github.com/jwalitptl/property-api/internal/handler/unit"
	userHandler "github.com/jwalitptl/property-api/internal/handler/user"
	vendorHandler "github.com/jwalitptl/property-api/internal/handler/vendor"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/router"
	"github.com/jwalitptl/property-api/internal/service/access"
	"github.com/jwalitptl/property-api/internal/service/application"
	"github.com/jwalitptl/property-api/internal/service/calendar"
	"github.com/jwalitptl/property-api/internal/service/dashboard"
	"github.com/jwalitptl/property-api/internal/service/event"
	"github.com/jwalitptl/property-api/internal/service/expense"
	"github.com/jwalitptl/property-api/internal/service/invoice"
	"github.com/jwalitptl/property-api/internal/service/lease"
	"github.com/jwalitptl/property-api/internal/service/listing"
	"github.com/jwalitptl/property-api/internal/service/maintenance"
	"github.com/jwalitptl/property-api/internal/service/member"
	"github.com/jwalitptl/property-api/internal/service/organization"
	"github.com/jwalitptl/property-api/internal/service/payment"
	"github.com/jwalitptl/property-api/internal/service/property"
	"github.com/jwalitptl/property-api/internal/service/subscription"
	"github.com/jwalitptl/property-api/internal/service/tenant"
	"github.com/jwalitptl/property-api/internal/service/unit"
	"github.com/jwalitptl/property-api/internal/service/user"
	"github.com/jwalitptl/property-api/internal/service/vendor"
	"github.com/jwalitptl/property-api/pkg/auth"
	"github.com/jwalitptl/property-api/pkg/logger"
	"github.com/jwalitptl/property-api/pkg/metrics"
	"github.com/jwalitptl/property-api/pkg/security"
)

// Options carries what the caller builds itself. Nil optional fields are
// derived from Config.
type Options struct {
	Config *config.Config
	Store  *repository.Store
	Logger *logger.Logger

	// Registry receives the metrics and backs /metrics. Defaults to a fresh
	// registry.
	Registry *prometheus.Registry
	Mailer   email.Service
	Hasher   security.SecretHasher
	Tokens   auth.Verifier
}

// Services exposes the domain services to the worker and the CLI.
type Services struct {
	Access        *access.Service
	Users         *user.Service
	Organizations *organization.Service
	Members       *member.Service
	Subscriptions *subscription.Service
	Properties    *property.Service
	Units         *unit.Service
	Tenants       *tenant.Service
	Leases        *lease.Service
	Invoices      *invoice.Service
	Payments      *payment.Service
	Listings      *listing.Service
	Maintenance   *maintenance.Service
	Calendar      *calendar.Service
	Expenses      *expense.Service
	Vendors       *vendor.Service
	Applications  *application.Service
	Dashboard     *dashboard.Service
}

type App struct {
	Config   *config.Config
	Store    *repository.Store
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
	Services Services
	Router   *router.Router
}

// NewServices builds the service graph without any HTTP surface.
func NewServices(cfg *config.Config, store *repository.Store, m *metrics.Metrics, mailer email.Service, hasher security.SecretHasher, log *logger.Logger) Services {
	emitter := event.NewEmitter(store.Outbox)
	accessSvc := access.NewService(store.Users, store.Members, cfg.Cache.IdentityTTL)
	subs := subscription.NewService(store, log)
	invoices := invoice.NewService(store, emitter, mailer, m, invoice.Config{
		DueDays:        cfg.Billing.InvoiceDueDays,
		DefaultLateFee: cfg.Billing.DefaultLateFee,
		AppURL:         cfg.Email.AppURL,
	}, log)

	return Services{
		Access:        accessSvc,
		Users:         user.NewService(store.Users, accessSvc, log),
		Organizations: organization.NewService(store, subs, cfg.Billing.TrialDays, log),
		Members:       member.NewService(store, subs, log),
		Subscriptions: subs,
		Properties:    property.NewService(store, subs, log),
		Units:         unit.NewService(store, subs),
		Tenants:       tenant.NewService(store, mailer, log),
		Leases:        lease.NewService(store, emitter, log),
		Invoices:      invoices,
		Payments:      payment.NewService(store, invoices, emitter, m, log),
		Listings:      listing.NewService(store, log),
		Maintenance:   maintenance.NewService(store, emitter, log),
		Calendar:      calendar.NewService(store),
		Expenses:      expense.NewService(store, log),
		Vendors:       vendor.NewService(store),
		Applications: application.NewService(store, hasher, mailer, emitter, application.Config{
			AppURL:    cfg.Email.AppURL,
			InviteTTL: cfg.Billing.InviteTTL,
		}, log),
		Dashboard: dashboard.NewService(store),
	}
}

func New(opts Options) (*App, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := metrics.New(cfg.Metrics.Namespace, registry)

	mailer := opts.Mailer
	if mailer == nil {
		mailer = NewMailer(cfg.Email, log)
	}
	hasher := opts.Hasher
	if hasher == nil {
		hasher = security.NewBcryptHasher(bcrypt.DefaultCost)
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = auth.NewJWTService(auth.Config{
			Secret:   cfg.Auth.JWTSecret,
			Issuer:   cfg.Auth.Issuer,
			Audience: cfg.Auth.Audience,
		})
	}

	svc := NewServices(cfg, opts.Store, m, mailer, hasher, log)
	guard := middleware.NewAuthMiddleware(tokens, svc.Access)

	handlers := router.Handlers{
		System:       handler.NewHandler(opts.Store.Ping, registry),
		User:         userHandler.NewHandler(svc.Users),
		Permission:   permissionHandler.NewHandler(),
		Organization: organizationHandler.NewHandler(svc.Organizations, guard),
		Subscription: subscriptionHandler.NewHandler(svc.Subscriptions, guard),
		Listing:      listingHandler.NewHandler(svc.Listings, guard),
		Application:  applicationHandler.NewHandler(svc.Applications, guard),
		Resources: []router.Handler{
			memberHandler.NewHandler(svc.Members, guard),
			propertyHandler.NewHandler(svc.Properties, guard),
			unitHandler.NewHandler(svc.Units, guard),
			tenantHandler.NewHandler(svc.Tenants, guard),
			leaseHandler.NewHandler(svc.Leases, guard),
			invoiceHandler.NewHandler(svc.Invoices, guard),
			paymentHandler.NewHandler(svc.Payments, guard),
			maintenanceHandler.NewHandler(svc.Maintenance, guard),
			calendarHandler.NewHandler(svc.Calendar, guard),
			expenseHandler.NewHandler(svc.Expenses, guard),
			vendorHandler.NewHandler(svc.Vendors, guard),
			dashboardHandler.NewHandler(svc.Dashboard, guard),
		},
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	cors := middleware.DefaultCORSConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		cors.AllowOrigins = cfg.Server.CORSOrigins
	}
	cors.AllowCredentials = !containsWildcard(cfg.Server.CORSOrigins)

	r, err := router.NewRouter(guard, handlers, m, log, router.RouterConfig{
		RateLimit:         cfg.Server.RateLimitRPS,
		RateBurst:         cfg.Server.RateLimitBurst,
		CORSConfig:        cors,
		RequestTimeout:    cfg.Server.RequestTimeout,
		MaxBodyBytes:      cfg.Server.MaxBodyBytes,
		MetricsPath:       metricsPath,
		MarketplaceMaxAge: int((time.Minute).Seconds()),
	})
	if err != nil {
		return nil, err
	}
	r.Setup()

	return &App{
		Config:   cfg,
		Store:    opts.Store,
		Metrics:  m,
		Registry: registry,
		Services: svc,
		Router:   r,
	}, nil
}

// NewMailer sends over SMTP when a host is configured and only logs
// otherwise.
func NewMailer(cfg config.EmailConfig, log *logger.Logger) email.Service {
	return email.NewService(email.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
		AppURL:   cfg.AppURL,
	}, log)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return len(origins) == 0
}
