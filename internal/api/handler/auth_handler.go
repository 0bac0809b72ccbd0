package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cc103/storefront/internal/api/metrics"
	"github.com/cc103/storefront/internal/core/domain"
	"github.com/cc103/storefront/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.AuthLoginsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return errInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		metrics.AuthLoginsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		label := metrics.ResultOf(err, isClientError)
		if errors.Is(err, domain.ErrTooManyAttempts) {
			label = metrics.ResultThrottled
		}
		metrics.AuthLoginsTotal.WithLabelValues(label).Inc()
		return err
	}
	metrics.AuthLoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()

	resp := loginResponse{
		Success:  true,
		Message:  "Login successful",
		Token:    result.Token,
		UserID:   result.User.ID,
		Username: result.User.Username,
		Email:    result.User.Email,
	}
	if result.Token != "" {
		resp.ExpiresAt = &result.ExpiresAt
	}
	return c.JSON(http.StatusOK, resp)
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.AuthRegistrationsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return errInvalidBody
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.Email)
	metrics.AuthRegistrationsTotal.WithLabelValues(metrics.ResultOf(err, isClientError)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Success:  true,
		Message:  "User registered successfully",
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Verify checks a session token.
//
// @Summary      Verify a session token
// @Tags         auth
// @Produce      json
// @Param        token  path      string  true  "Session token"
// @Success      200    {object}  verifyResponse
// @Failure      401    {object}  errorResponse
// @Router       /api/auth/verify/{token} [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	username, err := h.authService.VerifyToken(c.Request().Context(), c.Param("token"))
	metrics.AuthTokenVerificationsTotal.WithLabelValues(metrics.ResultOf(err, isClientError)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, verifyResponse{Valid: true, Username: username})
}

// GetUser returns the public fields of a user.
//
// @Summary      Get a user by id
// @Tags         auth
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/auth/user/{id} [get]
func (h *AuthHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	user, err := h.authService.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}
