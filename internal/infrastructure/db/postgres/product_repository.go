package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cc103/storefront/internal/core/domain"
)

const productColumns = `id, name, description, price, stock, created_at, updated_at`

type ProductRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

type productRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	Stock       int       `db:"stock"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r productRow) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `INSERT INTO products (name, description, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns

	var row productRow
	err := r.db.QueryRowxContext(ctx, query,
		p.Name, p.Description, p.Price, p.Stock, p.CreatedAt, p.UpdatedAt,
	).StructScan(&row)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return row.toDomain(), nil
}

// Update writes every mutable column in one statement; created_at is untouched.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, updated_at = $5
		WHERE id = $6
		RETURNING ` + productColumns

	var row productRow
	err := r.db.QueryRowxContext(ctx, query,
		p.Name, p.Description, p.Price, p.Stock, p.UpdatedAt, p.ID,
	).StructScan(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+productColumns+` FROM products ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]*domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// FindByName matches the exact name, lowest id first.
func (r *ProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE name = $1 ORDER BY id LIMIT 1`, name)
}

func (r *ProductRepository) get(ctx context.Context, query string, arg any) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row productRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return row.toDomain(), nil
}
