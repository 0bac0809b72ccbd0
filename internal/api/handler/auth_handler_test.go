package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cc103/storefront/internal/core/domain"
	"github.com/cc103/storefront/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password, email string) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	verifyFn   func(ctx context.Context, token string) (string, error)
	getUserFn  func(ctx context.Context, id int64) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	return s.registerFn(ctx, username, password, email)
}

func (s *stubAuthService) Authenticate(context.Context, string, string) (*domain.User, bool, error) {
	return nil, false, errors.New("not used")
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) VerifyToken(ctx context.Context, token string) (string, error) {
	return s.verifyFn(ctx, token)
}

func (s *stubAuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password, email string) (*domain.User, error) {
			if username != "alice" || password != "secret1" || email != "a@example.com" {
				t.Fatalf("unexpected args: %s %s %s", username, password, email)
			}
			return &domain.User{ID: 7, Username: username, Email: email}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret1","email":"a@example.com"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true || resp["userId"] != float64(7) || resp["username"] != "alice" || resp["email"] != "a@example.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["message"] != "User registered successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	if _, leaked := resp["passwordHash"]; leaked {
		t.Fatalf("password hash must not be serialised")
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password, email string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := jsonContext(e, http.MethodPost, "/api/auth/register", `{"username":"bob"}`)
	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password, email string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := jsonContext(e, http.MethodPost, "/api/auth/register", "not-json")
	err := handler.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "alice" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &ports.LoginResult{
				Token:     "token123",
				ExpiresAt: expires,
				User:      &domain.User{ID: 1, Username: "alice", Email: "a@example.com"},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"secret1"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["success"] != true || resp["userId"] != float64(1) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["expiresAt"] != "2030-01-02T03:04:05Z" {
		t.Fatalf("unexpected expiresAt: %v", resp["expiresAt"])
	}
}

func TestAuthHandler_Login_WithoutToken(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			return &ports.LoginResult{User: &domain.User{ID: 1, Username: "alice"}}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"x"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if _, ok := resp["token"]; ok {
		t.Fatalf("token should be omitted, got %+v", resp)
	}
	if _, ok := resp["expiresAt"]; ok {
		t.Fatalf("expiresAt should be omitted, got %+v", resp)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	cases := map[string]string{
		`{"password":"secret1"}`:                  "Username is required",
		`{"username":"   ","password":"secret1"}`: "Username is required",
		`{"username":"alice"}`:                    "Password is required",
	}
	for body, want := range cases {
		c, _ := jsonContext(e, http.MethodPost, "/api/auth/login", body)
		err := handler.Login(c)

		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", body, err)
		}
		if ve.Message != want {
			t.Fatalf("%s: expected %q, got %q", body, want, ve.Message)
		}
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := jsonContext(e, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"wrong"}`)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Verify(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, token string) (string, error) {
			if token == "good" {
				return "alice", nil
			}
			return "", domain.ErrInvalidToken
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodGet, "/", "")
	c.SetParamNames("token")
	c.SetParamValues("good")
	if err := handler.Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp verifyResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Valid || resp.Username != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	c, _ = jsonContext(e, http.MethodGet, "/", "")
	c.SetParamNames("token")
	c.SetParamValues("bad")
	if err := handler.Verify(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthHandler_GetUser(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		getUserFn: func(ctx context.Context, id int64) (*domain.User, error) {
			if id == 3 {
				return &domain.User{ID: 3, Username: "carol", Email: "c@example.com", PasswordHash: "h"}, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := handler.GetUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"id":3,"username":"carol","email":"c@example.com"}` {
		t.Fatalf("unexpected body: %s", got)
	}

	c, _ = jsonContext(e, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	if err := handler.GetUser(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	c, _ = jsonContext(e, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	var he *echo.HTTPError
	if err := handler.GetUser(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %v", err)
	}
}
