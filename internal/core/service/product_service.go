package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cc103/storefront/internal/core/domain"
	"github.com/cc103/storefront/internal/core/ports"
)

type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// Add creates a product. The name must not already be taken.
func (s *ProductService) Add(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	_, err := s.repo.FindByName(ctx, product.Name)
	switch {
	case err == nil:
		return nil, domain.ErrProductExists
	case !errors.Is(err, domain.ErrProductNotFound):
		return nil, fmt.Errorf("add product: %w", err)
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
		return nil, fmt.Errorf("add product: %w", err)
	}

	s.logger.Info().Int64("product_id", created.ID).Str("name", created.Name).Msg("product created")
	return created, nil
}

// Update replaces all mutable fields of an existing product. Name uniqueness
// is only enforced on creation; concurrent updates of one id are last-writer-wins.
func (s *ProductService) Update(ctx context.Context, id int64, in ports.ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return err
		}
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []*domain.Product{}
	}
	return products, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*domain.Product, bool, error) {
	return lookup(s.repo.FindByID(ctx, id))
}

func (s *ProductService) GetByName(ctx context.Context, name string) (*domain.Product, bool, error) {
	return lookup(s.repo.FindByName(ctx, name))
}

func lookup(p *domain.Product, err error) (*domain.Product, bool, error) {
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("find product: %w", err)
	}
	return p, true, nil
}
