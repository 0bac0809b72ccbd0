package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/cc103/storefront/internal/core/domain"
)

func TestNewPasswordHasher(t *testing.T) {
	cases := map[string]string{
		"":         "service.BcryptHasher",
		"bcrypt":   "service.BcryptHasher",
		"ARGON2ID": "service.Argon2idHasher",
		"plain":    "service.PlainHasher",
	}
	for name, want := range cases {
		h, err := NewPasswordHasher(name)
		if err != nil {
			t.Fatalf("NewPasswordHasher(%q): %v", name, err)
		}
		if got := fmt.Sprintf("%T", h); got != want {
			t.Fatalf("NewPasswordHasher(%q) = %s, want %s", name, got, want)
		}
	}

	if _, err := NewPasswordHasher("md5"); err == nil {
		t.Fatalf("expected error for unknown hasher")
	}
}

func TestPasswordHashers_RoundTrip(t *testing.T) {
	hashers := map[string]interface {
		Hash(string) (string, error)
		Compare(string, string) bool
	}{
		"bcrypt":   BcryptHasher{Cost: bcrypt.MinCost},
		"argon2id": Argon2idHasher{Time: 1, Memory: 8 * 1024, Threads: 1, SaltLen: 16, KeyLen: 32},
		"plain":    PlainHasher{},
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			encoded, err := h.Hash("password123")
			if err != nil {
				t.Fatalf("Hash: %v", err)
			}
			if !h.Compare(encoded, "password123") {
				t.Fatalf("expected match")
			}
			if h.Compare(encoded, "password124") {
				t.Fatalf("expected mismatch")
			}
		})
	}
}

func TestArgon2idHasher_Format(t *testing.T) {
	h := Argon2idHasher{Time: 1, Memory: 8 * 1024, Threads: 1, SaltLen: 16, KeyLen: 32}

	a, _ := h.Hash("secret")
	b, _ := h.Hash("secret")
	if a == b {
		t.Fatalf("expected random salt to produce distinct digests")
	}
	if !strings.HasPrefix(a, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected encoding: %s", a)
	}

	for _, bad := range []string{"", "secret", "$argon2i$v=19$m=8192,t=1,p=1$AAAA$AAAA", "$argon2id$v=18$m=8192,t=1,p=1$AAAA$AAAA"} {
		if h.Compare(bad, "secret") {
			t.Fatalf("malformed digest %q should not match", bad)
		}
	}
}

func TestBcryptHasher_RejectsOverlongPassword(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	if _, err := h.Hash(strings.Repeat("p", 72)); err != nil {
		t.Fatalf("72-byte password should hash, got %v", err)
	}

	_, err := h.Hash(strings.Repeat("p", 73))
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "password" {
		t.Fatalf("expected password ValidationError, got %v", err)
	}
}
