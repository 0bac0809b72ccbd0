package ports

import (
	"context"

	"github.com/cc103/storefront/internal/core/domain"
)

// ProductRepository defines persistence for catalog records. Lookups and
// mutations on an unknown id return domain.ErrProductNotFound.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	// Update replaces name, description, price and stock of the record with
	// p.ID in a single write and returns the stored result.
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByName(ctx context.Context, name string) (*domain.Product, error)
}
