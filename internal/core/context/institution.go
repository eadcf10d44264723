// Package context provides request-scoped values extraction.
package context

import (
	"context"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
)

// InstitutionContext contains the authenticated institution identity.
// The HTTP layer resolves it from the JWT; the core never authenticates.
type InstitutionContext struct {
	InstitutionID id.ID
	Username      string
	Name          string
	IsAdmin       bool
}

type institutionContextKey struct{}

// WithInstitution adds InstitutionContext to context.
func WithInstitution(ctx context.Context, inst *InstitutionContext) context.Context {
	return context.WithValue(ctx, institutionContextKey{}, inst)
}

// GetInstitution returns InstitutionContext from context.
func GetInstitution(ctx context.Context) *InstitutionContext {
	if v, ok := ctx.Value(institutionContextKey{}).(*InstitutionContext); ok {
		return v
	}
	return nil
}

// GetInstitutionID returns the institution ID from context or the nil ID.
func GetInstitutionID(ctx context.Context) id.ID {
	if i := GetInstitution(ctx); i != nil {
		return i.InstitutionID
	}
	return id.Nil()
}

// IsAdmin reports whether the context carries an administrative institution.
func IsAdmin(ctx context.Context) bool {
	if i := GetInstitution(ctx); i != nil {
		return i.IsAdmin
	}
	return false
}
