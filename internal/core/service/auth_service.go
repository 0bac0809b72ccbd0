package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/cc103/storefront/internal/core/domain"
	"github.com/cc103/storefront/internal/core/ports"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// AuthService implements registration, login and token verification.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenIssuer
	hasher   ports.PasswordHasher
	throttle ports.LoginThrottle
	profile  domain.Profile
	log      zerolog.Logger
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithProfile selects strict or minimal behaviour. Unknown values are ignored.
func WithProfile(p domain.Profile) AuthOption {
	return func(s *AuthService) {
		if p.Valid() {
			s.profile = p
		}
	}
}

// WithLoginThrottle enables failed-login tracking.
func WithLoginThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

// WithLogger attaches a logger; the default discards output.
func WithLogger(log zerolog.Logger) AuthOption {
	return func(s *AuthService) { s.log = log }
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer, hasher ports.PasswordHasher, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:    repo,
		tokens:  tokens,
		hasher:  hasher,
		profile: domain.ProfileStrict,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profile reports the active profile.
func (s *AuthService) Profile() domain.Profile { return s.profile }

func (s *AuthService) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	if err := s.validateRegistration(username, password, email); err != nil {
		return nil, err
	}

	_, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (s *AuthService) validateRegistration(username, password, email string) error {
	if strings.TrimSpace(username) == "" {
		return domain.NewValidationError("username", "Username is required")
	}
	if s.profile == domain.ProfileMinimal {
		return nil
	}

	if utf8.RuneCountInString(username) < minUsernameLen {
		return domain.NewValidationError("username", fmt.Sprintf("Username must be at least %d characters", minUsernameLen))
	}
	if strings.TrimSpace(password) == "" {
		return domain.NewValidationError("password", "Password is required")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return domain.NewValidationError("password", fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	}
	if strings.TrimSpace(email) == "" {
		return domain.NewValidationError("email", "Email is required")
	}
	if !strings.Contains(email, "@") {
		return domain.NewValidationError("email", "Invalid email format")
	}
	return nil
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, bool, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("authenticate: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, false, nil
	}
	return user, true, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if s.throttle != nil {
		blocked, err := s.throttle.Blocked(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("login throttle check failed, continuing")
		} else if blocked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, ok, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login throttle")
		}
	}

	result := &ports.LoginResult{User: user}
	if s.profile == domain.ProfileStrict {
		token, expiresAt, err := s.tokens.Issue(user)
		if err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
		result.Token = token
		result.ExpiresAt = expiresAt
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user logged in")
	return result, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}

func (s *AuthService) VerifyToken(ctx context.Context, token string) (string, error) {
	username, ok := s.tokens.Verify(token)
	if !ok {
		return "", domain.ErrInvalidToken
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", fmt.Errorf("verify token: %w", err)
	}
	return user.Username, nil
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
