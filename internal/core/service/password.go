package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/cc103/storefront/internal/core/domain"
	"github.com/cc103/storefront/internal/core/ports"
)

// Supported PASSWORD_HASHER values.
const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
	HasherPlain    = "plain"
)

// NewPasswordHasher returns the hasher registered under name.
func NewPasswordHasher(name string) (ports.PasswordHasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", HasherBcrypt:
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	case HasherArgon2id:
		return DefaultArgon2idHasher(), nil
	case HasherPlain:
		return PlainHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// maxBcryptPasswordLen is the most input bcrypt accepts.
const maxBcryptPasswordLen = 72

// BcryptHasher stores bcrypt digests.
type BcryptHasher struct {
	Cost int
}

// Hash rejects passwords longer than 72 bytes with a *domain.ValidationError.
func (h BcryptHasher) Hash(password string) (string, error) {
	if len(password) > maxBcryptPasswordLen {
		return "", domain.NewValidationError("password",
			fmt.Sprintf("Password must be at most %d bytes", maxBcryptPasswordLen))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

func (h BcryptHasher) Compare(encoded, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}

// Argon2idHasher stores PHC-formatted argon2id digests:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
type Argon2idHasher struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	SaltLen int
	KeyLen  uint32
}

// DefaultArgon2idHasher uses the RFC 9106 second recommended parameter set.
func DefaultArgon2idHasher() Argon2idHasher {
	return Argon2idHasher{Time: 3, Memory: 64 * 1024, Threads: 4, SaltLen: 16, KeyLen: 32}
}

func (h Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2id salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.Time, h.Memory, h.Threads, h.KeyLen)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.Memory, h.Time, h.Threads, b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

func (h Argon2idHasher) Compare(encoded, password string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := b64.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

// PlainHasher stores the password as given. It exists for parity with
// deployments that predate hashing and should not be used otherwise.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) { return password, nil }

func (PlainHasher) Compare(encoded, password string) bool {
	return subtle.ConstantTimeCompare([]byte(encoded), []byte(password)) == 1
}
