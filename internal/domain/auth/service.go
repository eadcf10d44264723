package auth

import (
	"context"
	"time"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/institution"
	"github.com/Edmilson-999/Sistema-stock-sv/pkg/logger"
)

// InstitutionFinder locates institutions for login.
type InstitutionFinder interface {
	FindByUsername(ctx context.Context, username string) (*institution.Institution, error)
}

// Session is a successful login result.
type Session struct {
	Token       string                   `json:"token"`
	ExpiresAt   time.Time                `json:"expiresAt"`
	Institution *institution.Institution `json:"institution"`
}

// Service authenticates institutions.
type Service struct {
	institutions InstitutionFinder
	issuer       *TokenIssuer
}

// NewService creates an auth service.
func NewService(institutions InstitutionFinder, issuer *TokenIssuer) *Service {
	return &Service{institutions: institutions, issuer: issuer}
}

// Login verifies credentials and issues a token. Pending and deactivated
// institutions are refused with a distinct message so callers can tell a
// bad password from an unapproved account.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	inst, err := s.institutions.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if inst == nil || !inst.CheckPassword(password) {
		return nil, apperror.NewUnauthorized("invalid username or password")
	}
	if !inst.CanLogin() {
		if !inst.Approved {
			return nil, apperror.NewForbidden("institution is pending administrative approval")
		}
		return nil, apperror.NewForbidden("institution is deactivated")
	}

	token, expires, err := s.issuer.Issue(inst.ID, inst.Username, inst.Name, inst.IsAdmin)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "institution logged in", "username", inst.Username, "admin", inst.IsAdmin)
	return &Session{Token: token, ExpiresAt: expires, Institution: inst}, nil
}
