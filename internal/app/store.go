package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cc103/storefront/internal/core/ports"
	"github.com/cc103/storefront/internal/infrastructure/db/memory"
	mongostore "github.com/cc103/storefront/internal/infrastructure/db/mongo"
	pgstore "github.com/cc103/storefront/internal/infrastructure/db/postgres"
	"github.com/cc103/storefront/internal/infrastructure/http/handlers"
	"github.com/cc103/storefront/internal/pkg/config"
)

// Store is the record store selected by STORE_BACKEND.
type Store struct {
	Backend  string
	Users    ports.UserRepository
	Products ports.ProductRepository

	ping    handlers.Check
	migrate func(ctx context.Context, direction string) error
	close   func(ctx context.Context) error
}

// OpenStore connects to the configured backend without touching its schema.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		s, err := mongostore.Open(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		return &Store{
			Backend:  cfg.StoreBackend,
			Users:    s.Users,
			Products: s.Products,
			ping:     s.Ping,
			migrate: func(ctx context.Context, direction string) error {
				if direction != "up" {
					return fmt.Errorf("mongo only supports migrate up (index creation)")
				}
				return s.EnsureIndexes(ctx)
			},
			close: s.Close,
		}, nil

	case config.BackendPostgres:
		s, err := pgstore.Open(ctx, pgstore.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, err
		}
		return &Store{
			Backend:  cfg.StoreBackend,
			Users:    s.Users,
			Products: s.Products,
			ping:     s.Ping,
			migrate: func(ctx context.Context, direction string) error {
				switch direction {
				case "up":
					return s.Migrate(ctx)
				case "down":
					return pgstore.MigrateDown(ctx, s.DB())
				case "status":
					return pgstore.MigrateStatus(ctx, s.DB())
				}
				return fmt.Errorf("unknown migrate direction %q", direction)
			},
			close: func(context.Context) error { return s.Close() },
		}, nil

	default:
		return &Store{
			Backend:  config.BackendMemory,
			Users:    memory.NewUserRepository(),
			Products: memory.NewProductRepository(),
			migrate:  func(context.Context, string) error { return nil },
			close:    func(context.Context) error { return nil },
		}, nil
	}
}

// Migrate runs schema changes: goose for postgres, index creation for mongo.
func (s *Store) Migrate(ctx context.Context, direction string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	return s.migrate(ctx, direction)
}

// Readiness returns the checks served on /health/ready.
func (s *Store) Readiness() map[string]handlers.Check {
	if s.ping == nil {
		return map[string]handlers.Check{}
	}
	return map[string]handlers.Check{s.Backend: s.ping}
}

func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}
