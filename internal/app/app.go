package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/cc103/storefront/internal/api"
	"github.com/cc103/storefront/internal/core/domain"
	"github.com/cc103/storefront/internal/core/service"
	redisstore "github.com/cc103/storefront/internal/infrastructure/db/redis"
	"github.com/cc103/storefront/internal/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// App owns the wired services and the HTTP server.
type App struct {
	cfg   *config.Config
	log   zerolog.Logger
	store *Store
	redis *goredis.Client

	Auth     *service.AuthService
	Products *service.ProductService
	Echo     *echo.Echo
}

// New opens the store, builds every service and registers the routes.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	if err := store.Migrate(ctx, "up"); err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("prepare %s store: %w", cfg.StoreBackend, err)
	}

	a := &App{cfg: cfg, log: log, store: store}
	if err := a.build(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.cfg
	profile := domain.Profile(cfg.Auth.Profile)

	key, err := signingKey(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		a.log.Warn().Msg("JWT_SECRET not set, using a generated key; tokens will not survive a restart")
	}
	tokens, err := service.NewTokenService(key, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	hasher, err := service.NewPasswordHasher(cfg.Auth.PasswordHasher)
	if err != nil {
		return err
	}

	opts := []service.AuthOption{
		service.WithProfile(profile),
		service.WithLogger(a.log.With().Str("component", "auth").Logger()),
	}

	readiness := a.store.Readiness()
	if cfg.Redis.Enabled {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		a.redis = client
		opts = append(opts, service.WithLoginThrottle(
			redisstore.NewLoginThrottle(client, cfg.Auth.MaxFailures, cfg.Auth.LockoutWindow),
		))
		readiness["redis"] = redisstore.Pinger(client)
	}

	a.Auth = service.NewAuthService(a.store.Users, tokens, hasher, opts...)
	a.Products = service.NewProductService(a.store.Products, a.log.With().Str("component", "catalog").Logger())

	a.Echo = api.NewRouter(api.Deps{
		Auth:           a.Auth,
		Products:       a.Products,
		Tokens:         tokens,
		Logger:         a.log,
		Profile:        profile,
		ProtectCatalog: cfg.Catalog.Protect,
		AuthRateLimit:  api.RateLimit{RPS: cfg.Auth.RateLimitRPS, Burst: cfg.Auth.RateLimitBurst},
		Readiness:      readiness,
	})
	return nil
}

func signingKey(secret string) ([]byte, error) {
	if secret != "" {
		return []byte(secret), nil
	}
	return service.GenerateSigningKey()
}

// Seed inserts the demo users and products, skipping any that exist.
func (a *App) Seed(ctx context.Context) (service.SeedReport, error) {
	return service.NewSeeder(a.Auth, a.Products, a.log).Seed(ctx)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.SeedDemoData {
		if _, err := a.Seed(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	addr := ":" + a.cfg.Port
	serveErr := make(chan error, 1)
	go func() {
		a.log.Info().
			Str("addr", addr).
			Str("store", a.store.Backend).
			Str("profile", a.cfg.Auth.Profile).
			Msg("http server listening")
		serveErr <- a.Echo.Start(addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-serveErr
	return nil
}

// Close releases the store and the redis client.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close(ctx))
	}
	return errors.Join(errs...)
}
