package beneficiary

import (
	"context"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
)

// ListFilter narrows institution-scoped beneficiary listings.
type ListFilter struct {
	// Search matches name, NIF or zone (case-insensitive substring)
	Search string
	Limit  int
	Offset int
}

// Repository defines the interface for beneficiary persistence.
type Repository interface {
	Create(ctx context.Context, b *Beneficiary) error
	Update(ctx context.Context, b *Beneficiary) error

	// GetByNIF fetches a beneficiary globally (any institution) or
	// returns a NOT_FOUND AppError.
	GetByNIF(ctx context.Context, nif string) (*Beneficiary, error)

	// Exists reports whether a NIF is already registered.
	Exists(ctx context.Context, nif string) (bool, error)

	// ListByInstitution returns beneficiaries registered by one
	// institution, ordered by name.
	ListByInstitution(ctx context.Context, institutionID id.ID, filter ListFilter) ([]Beneficiary, error)

	// Count returns the total number of registered beneficiaries.
	Count(ctx context.Context) (int64, error)

	// ReassignOwner moves all beneficiaries registered by one
	// institution to another (the fallback). Returns rows touched.
	ReassignOwner(ctx context.Context, from, to id.ID) (int64, error)
}
