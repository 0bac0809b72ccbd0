package ports

import (
	"context"

	"github.com/cc103/storefront/internal/core/domain"
)

// ProductInput carries the mutable product fields.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
}

// ProductService defines catalog use cases.
type ProductService interface {
	Add(ctx context.Context, in ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Product, error)
	// GetByID and GetByName report found=false, err=nil when nothing matches.
	GetByID(ctx context.Context, id int64) (*domain.Product, bool, error)
	GetByName(ctx context.Context, name string) (*domain.Product, bool, error)
}
