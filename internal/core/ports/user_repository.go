package ports

import (
	"context"

	"github.com/cc103/storefront/internal/core/domain"
)

// UserRepository defines persistence for user records.
type UserRepository interface {
	// Create assigns an id and stores user. Returns domain.ErrUserExists when
	// the username is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByUsername returns domain.ErrUserNotFound when no user matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound when no user matches.
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}
