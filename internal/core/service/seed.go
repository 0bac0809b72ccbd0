package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cc103/storefront/internal/core/domain"
	"github.com/cc103/storefront/internal/core/ports"
)

// DemoPassword is the password given to every seeded demo account.
const DemoPassword = "password123"

type demoUser struct {
	username string
	email    string
}

var demoUsers = []demoUser{
	{"testuser", "test@example.com"},
	{"admin", "admin@example.com"},
	{"john", "john@example.com"},
	{"jane", "jane@example.com"},
}

var demoProducts = []ports.ProductInput{
	{Name: "Laptop", Description: "High-performance laptop with 16GB RAM", Price: 999.99, Stock: 10},
	{Name: "Mouse", Description: "Wireless mouse with precision tracking", Price: 29.99, Stock: 50},
	{Name: "Keyboard", Description: "Mechanical keyboard with RGB lighting", Price: 79.99, Stock: 25},
	{Name: "Monitor", Description: "4K UHD 27-inch display", Price: 349.99, Stock: 15},
	{Name: "Headphones", Description: "Noise-cancelling wireless headphones", Price: 149.99, Stock: 30},
}

// SeedReport counts the records a Seed call created.
type SeedReport struct {
	Users    int
	Products int
}

// Seeder loads demo accounts and products through the regular services, so
// seeded data obeys the same validation and hashing as API traffic.
type Seeder struct {
	auth     ports.AuthService
	products ports.ProductService
	log      zerolog.Logger
}

func NewSeeder(auth ports.AuthService, products ports.ProductService, log zerolog.Logger) *Seeder {
	return &Seeder{auth: auth, products: products, log: log}
}

// Seed inserts whatever demo records are missing. Running it twice is a no-op.
func (s *Seeder) Seed(ctx context.Context) (SeedReport, error) {
	var report SeedReport

	for _, u := range demoUsers {
		_, err := s.auth.Register(ctx, u.username, DemoPassword, u.email)
		switch {
		case err == nil:
			report.Users++
		case errors.Is(err, domain.ErrUserExists):
		default:
			return report, fmt.Errorf("seed user %s: %w", u.username, err)
		}
	}

	for _, p := range demoProducts {
		_, err := s.products.Add(ctx, p)
		switch {
		case err == nil:
			report.Products++
		case errors.Is(err, domain.ErrProductExists):
		default:
			return report, fmt.Errorf("seed product %s: %w", p.Name, err)
		}
	}

	s.log.Info().Int("users", report.Users).Int("products", report.Products).Msg("demo data seeded")
	return report, nil
}
