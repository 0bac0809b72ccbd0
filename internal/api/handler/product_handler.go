package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cc103/storefront/internal/api/metrics"
	"github.com/cc103/storefront/internal/core/domain"
	"github.com/cc103/storefront/internal/core/ports"
)

// ProductHandler handles HTTP requests for catalog operations.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// Add handles POST /api/products.
//
// @Summary      Add a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body      productRequest  true  "Product fields"
// @Success      201   {object}  productMutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Add(c echo.Context) error {
	req, err := bindProduct(c)
	if err != nil {
		recordMutation("add", err)
		return err
	}

	product, err := h.service.Add(c.Request().Context(), req.toInput())
	recordMutation("add", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, productMutationResponse{
		Success: true,
		Message: "Product added successfully",
		Product: product,
	})
}

// List handles GET /api/products.
//
// @Summary      List all products
// @Tags         products
// @Produce      json
// @Success      200  {array}   domain.Product
// @Failure      500  {object}  errorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Get handles GET /api/products/:id.
//
// @Summary      Get a product by id
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, found, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrProductNotFound
	}
	return c.JSON(http.StatusOK, product)
}

// GetByName handles GET /api/products/by-name/:name.
//
// @Summary      Get a product by name
// @Tags         products
// @Produce      json
// @Param        name  path      string  true  "Exact product name"
// @Success      200   {object}  domain.Product
// @Failure      404   {object}  errorResponse
// @Router       /api/products/by-name/{name} [get]
func (h *ProductHandler) GetByName(c echo.Context) error {
	product, found, err := h.service.GetByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrProductNotFound
	}
	return c.JSON(http.StatusOK, product)
}

// Update handles PUT /api/products/:id.
//
// @Summary      Replace a product's fields
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Product id"
// @Param        body  body      productRequest  true  "Product fields"
// @Success      200   {object}  productMutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		recordMutation("update", err)
		return err
	}
	req, err := bindProduct(c)
	if err != nil {
		recordMutation("update", err)
		return err
	}

	product, err := h.service.Update(c.Request().Context(), id, req.toInput())
	recordMutation("update", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, productMutationResponse{
		Success: true,
		Message: "Product updated successfully",
		Product: product,
	})
}

// Delete handles DELETE /api/products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product id"
// @Success      200  {object}  productMutationResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		recordMutation("delete", err)
		return err
	}

	err = h.service.Delete(c.Request().Context(), id)
	recordMutation("delete", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, productMutationResponse{
		Success: true,
		Message: "Product deleted successfully",
	})
}

func bindProduct(c echo.Context) (productRequest, error) {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return req, errInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}

func productID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid product id")
	}
	return id, nil
}

func recordMutation(operation string, err error) {
	metrics.CatalogMutationsTotal.WithLabelValues(operation, metrics.ResultOf(err, isClientError)).Inc()
}
