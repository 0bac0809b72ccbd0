package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

const (
	defaultTimeout = 5 * time.Second

	// uniqueViolation is the SQLSTATE for a unique index conflict.
	uniqueViolation = "23505"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Config holds the connection settings for the postgres backend.
type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// Store groups the repositories that share one connection pool.
type Store struct {
	db       *sqlx.DB
	Users    *UserRepository
	Products *ProductRepository
}

// Open connects through the pgx stdlib driver and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	db, err := sqlx.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return NewStore(db), nil
}

// NewStore wraps an existing handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:       db,
		Users:    NewUserRepository(db),
		Products: NewProductRepository(db),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate applies every pending migration.
func (s *Store) Migrate(ctx context.Context) error {
	return MigrateUp(ctx, s.db.DB)
}

func setupGoose() error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return nil
}

// MigrateUp applies pending migrations.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// MigrateDown rolls back the latest migration.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// MigrateStatus logs the state of every migration through goose's logger.
func MigrateStatus(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.StatusContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("migrate status: %w", err)
	}
	return nil
}

// DB exposes the underlying pool for migration commands.
func (s *Store) DB() *sql.DB {
	return s.db.DB
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
