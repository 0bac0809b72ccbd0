package ports

import (
	"context"
	"time"

	"github.com/cc103/storefront/internal/core/domain"
)

// LoginResult is returned by a successful login. Token is empty when the
// minimal profile is active.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService covers registration, credential checks and token verification.
type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*domain.User, error)
	// Authenticate reports ok=false, err=nil when the credentials do not match.
	Authenticate(ctx context.Context, username, password string) (*domain.User, bool, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// VerifyToken returns the username asserted by token, or domain.ErrInvalidToken.
	VerifyToken(ctx context.Context, token string) (string, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

// TokenIssuer mints and checks session tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
	// Verify fails closed: any malformed, forged or expired token yields ok=false.
	Verify(token string) (username string, ok bool)
}

// PasswordHasher encodes and checks stored credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(encoded, password string) bool
}

// LoginThrottle tracks failed logins per username.
type LoginThrottle interface {
	Blocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}
