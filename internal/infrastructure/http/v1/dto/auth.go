package dto

import (
	"time"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/auth"
)

// LoginRequest for institution authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and institution profile.
type LoginResponse struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Institution any       `json:"institution"`
}

// FromSession creates LoginResponse from an auth session.
func FromSession(s *auth.Session) LoginResponse {
	return LoginResponse{
		Token:       s.Token,
		ExpiresAt:   s.ExpiresAt,
		Institution: s.Institution,
	}
}
