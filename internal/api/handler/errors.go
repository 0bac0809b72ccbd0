package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cc103/storefront/internal/core/domain"
)

var errInvalidBody = echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")

// isClientError reports whether err was caused by the request rather than by
// a backend failure.
func isClientError(err error) bool {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code < http.StatusInternalServerError
	}
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrUserExists,
		domain.ErrUserNotFound,
		domain.ErrInvalidCredentials,
		domain.ErrInvalidToken,
		domain.ErrTooManyAttempts,
		domain.ErrProductExists,
		domain.ErrProductNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
