package dto

// LoginRequest represents the request payload for POST /api/authenticate
type LoginRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// TokenResponse carries the issued bearer token
type TokenResponse struct {
	IDToken string `json:"id_token"`
}

// UserResponse represents a login account in the user picker
type UserResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the response structure for health checks
type HealthResponse struct {
	Status  string `json:"status"`
	Details any    `json:"details,omitempty"`
}
