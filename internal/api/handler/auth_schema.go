package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Invalid username or password"`
}

// --- Request / Response types ---

type loginRequest struct {
	Username string `json:"username" validate:"notblank" label:"Username"`
	Password string `json:"password" validate:"notblank" label:"Password"`
}

// registerRequest is not tag-validated: field rules depend on the auth profile
// and are enforced by the credential service.
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	UserID    int64      `json:"userId"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
}

type registerResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type verifyResponse struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
