package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/handler/application"
	"github.com/jwalitptl/property-api/internal/handler/listing"
	"github.com/jwalitptl/property-api/internal/handler/organization"
	"github.com/jwalitptl/property-api/internal/handler/subscription"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/pkg/logger"
	"github.com/jwalitptl/property-api/pkg/metrics"
	pkgvalidator "github.com/jwalitptl/property-api/pkg/validator"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Handlers groups what the router mounts. Resources are mounted on the
// organization-scoped group; the named handlers also expose public or
// account-level routes.
type Handlers struct {
	System       *handler.Handler
	User         Handler
	Permission   Handler
	Organization *organization.Handler
	Subscription *subscription.Handler
	Listing      *listing.Handler
	Application  *application.Handler
	Resources    []Handler
}

type RouterConfig struct {
	RateLimit      float64
	RateBurst      int
	CORSConfig     middleware.CORSConfig
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	MetricsPath    string
	// MarketplaceMaxAge is the public cache lifetime of marketplace pages,
	// in seconds.
	MarketplaceMaxAge int
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	config   RouterConfig
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, m *metrics.Metrics, log *logger.Logger, config RouterConfig) (*Router, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Metrics(m),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(config.CORSConfig),
		middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RPS:   config.RateLimit,
			Burst: config.RateBurst,
		}).RateLimit(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
		middleware.SizeLimit(config.MaxBodyBytes),
		middleware.ErrorHandler(log),
	)

	return &Router{engine: engine, auth: auth, handlers: handlers, config: config}, nil
}

// RegisterValidators installs the custom binding tags on gin's validator.
// Safe to call more than once.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := pkgvalidator.Register(v); err != nil {
		return err
	}
	if err := pkgvalidator.RegisterString(v, "role", func(s string) bool {
		return permission.Role(s).Valid()
	}); err != nil {
		return err
	}
	return pkgvalidator.RegisterString(v, "permission", func(s string) bool {
		return permission.Registered(permission.Permission(s))
	})
}

func (r *Router) Setup() {
	h := r.handlers

	if r.config.MetricsPath != "" && h.System != nil {
		r.engine.GET(r.config.MetricsPath, h.System.MetricsHandler())
	}

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	if h.System != nil {
		h.System.RegisterRoutes(api)
	}
	r.setupPublicRoutes(api)

	authed := api.Group("", middleware.NoStore(), r.auth.Authenticate())
	r.setupAccountRoutes(authed)
	r.setupScopedRoutes(authed)
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	h := r.handlers
	if h.Subscription != nil {
		h.Subscription.RegisterPublicRoutes(rg)
	}
	if h.Listing != nil {
		h.Listing.RegisterPublicRoutes(rg.Group("", middleware.PublicCache(r.config.MarketplaceMaxAge)))
	}
	if h.Application != nil {
		h.Application.RegisterPublicRoutes(rg.Group("", middleware.NoStore()))
	}
}

// setupAccountRoutes mounts routes that need a caller but no organization.
func (r *Router) setupAccountRoutes(rg *gin.RouterGroup) {
	h := r.handlers
	if h.User != nil {
		h.User.RegisterRoutes(rg)
	}
	if h.Permission != nil {
		h.Permission.RegisterRoutes(rg)
	}
	if h.Organization != nil {
		h.Organization.RegisterAccountRoutes(rg.Group("", r.auth.RequireUser()))
	}
}

// setupScopedRoutes mounts routes guarded per route by RequirePermission.
func (r *Router) setupScopedRoutes(rg *gin.RouterGroup) {
	h := r.handlers
	if h.Organization != nil {
		h.Organization.RegisterRoutes(rg)
	}
	if h.Subscription != nil {
		h.Subscription.RegisterRoutes(rg)
	}
	if h.Listing != nil {
		h.Listing.RegisterRoutes(rg)
	}
	if h.Application != nil {
		h.Application.RegisterRoutes(rg)
	}
	for _, res := range h.Resources {
		res.RegisterRoutes(rg)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
