package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cc103/storefront/internal/core/domain"
)

const (
	// DefaultTokenTTL is how long an issued session token stays valid.
	DefaultTokenTTL = 24 * time.Hour

	// MinSigningKeyLen is the shortest accepted HMAC key (256 bits).
	MinSigningKeyLen = 32

	generatedKeyLen = 64
)

var signingMethod = jwt.SigningMethodHS512

// GenerateSigningKey returns fresh random key material for a TokenService.
// Tokens signed with it stop verifying once the process exits.
func GenerateSigningKey() ([]byte, error) {
	key := make([]byte, generatedKeyLen)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return key, nil
}

// TokenService issues and verifies HS512 session tokens with a single key
// that is fixed for the lifetime of the service.
type TokenService struct {
	key    []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService builds a TokenService. ttl <= 0 falls back to DefaultTokenTTL.
func NewTokenService(key []byte, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(key) < MinSigningKeyLen {
		return nil, fmt.Errorf("signing key must be at least %d bytes, got %d", MinSigningKeyLen, len(key))
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	s := &TokenService{
		key: append([]byte(nil), key...),
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	return s, nil
}

// Issue signs a token asserting user.Username as subject.
func (s *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	if user == nil || user.Username == "" {
		return "", time.Time{}, errors.New("issue token: empty subject")
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   user.Username,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt.Truncate(time.Second), nil
}

// Verify returns the subject of a valid token. It never returns an error:
// any parse, signature or expiry failure is reported as ok=false.
func (s *TokenService) Verify(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil || !parsed.Valid {
		return "", false
	}
	if claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
