package domain

import (
	"strings"
	"time"
)

// Product is a catalog record.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks the field invariants every persisted product must hold.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "Product name is required")
	}
	if p.Price <= 0 {
		return NewValidationError("price", "Price must be greater than 0")
	}
	if p.Stock < 0 {
		return NewValidationError("stock", "Stock cannot be negative")
	}
	return nil
}
