package handler

import (
	"github.com/cc103/storefront/internal/core/domain"
	"github.com/cc103/storefront/internal/core/ports"
)

type productRequest struct {
	Name        string  `json:"name"        validate:"notblank" label:"Product name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gt=0"     label:"Price"`
	Stock       int     `json:"stock"       validate:"gte=0"    label:"Stock"`
}

func (r productRequest) toInput() ports.ProductInput {
	return ports.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
	}
}

// productMutationResponse wraps the result of add, update and delete.
type productMutationResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Product *domain.Product `json:"product,omitempty"`
}
