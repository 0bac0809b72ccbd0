package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetAppName("storefront"))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Store groups the repositories that share one database.
type Store struct {
	client   *mongo.Client
	Users    *UserRepository
	Products *ProductRepository
}

// Open connects and builds the repositories.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client, db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{
		client:   client,
		Users:    NewUserRepository(db),
		Products: NewProductRepository(db),
	}, nil
}

// EnsureIndexes creates the indexes every repository relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if err := s.Users.EnsureIndexes(ctx); err != nil {
		return err
	}
	return s.Products.EnsureIndexes(ctx)
}

// Ping is a readiness check.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
