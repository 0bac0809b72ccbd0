package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ContextKeyUsername is the echo context key holding the authenticated username.
const ContextKeyUsername = "username"

// TokenVerifier checks a session token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (username string, ok bool)
}

// Auth validates the bearer token and injects the username into context.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header")
			}

			username, ok := verifier.Verify(strings.TrimSpace(parts[1]))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(ContextKeyUsername, username)
			return next(c)
		}
	}
}
