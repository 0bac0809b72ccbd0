package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/cc103/storefront/docs"
	"github.com/cc103/storefront/internal/api/handler"
	"github.com/cc103/storefront/internal/api/middleware"
	"github.com/cc103/storefront/internal/core/domain"
	"github.com/cc103/storefront/internal/core/ports"
	"github.com/cc103/storefront/internal/infrastructure/http/handlers"
)

// RateLimit bounds requests per client IP. RPS <= 0 disables limiting.
type RateLimit struct {
	RPS   float64
	Burst int
}

// Deps carries everything NewRouter needs.
type Deps struct {
	Auth     ports.AuthService
	Products ports.ProductService
	Tokens   middleware.TokenVerifier
	Logger   zerolog.Logger
	Profile  domain.Profile

	// ProtectCatalog requires a bearer token on product writes.
	ProtectCatalog bool
	AuthRateLimit  RateLimit

	// Readiness checks keyed by dependency name, served on /health/ready.
	Readiness map[string]handlers.Check

	// Registry receives HTTP request metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger, deps.Profile)

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Registerer: registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	productHandler := handler.NewProductHandler(deps.Products)

	// --- Auth routes ---
	authGroup := e.Group("/api/auth")
	if deps.AuthRateLimit.RPS > 0 {
		authGroup.Use(rateLimiter(deps.AuthRateLimit))
	}
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/register", authHandler.Register)
	authGroup.GET("/verify/:token", authHandler.Verify)
	authGroup.GET("/user/:id", authHandler.GetUser)

	// --- Catalog routes ---
	var writeGuard []echo.MiddlewareFunc
	if deps.ProtectCatalog {
		writeGuard = append(writeGuard, middleware.Auth(deps.Tokens))
	}
	products := e.Group("/api/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.GET("/by-name/:name", productHandler.GetByName)
	products.POST("", productHandler.Add, writeGuard...)
	products.PUT("/:id", productHandler.Update, writeGuard...)
	products.DELETE("/:id", productHandler.Delete, writeGuard...)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{registry, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func rateLimiter(cfg RateLimit) echo.MiddlewareFunc {
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(cfg.RPS) + 1
	}

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RPS),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
		},
	})
}
