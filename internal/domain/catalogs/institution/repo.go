package institution

import (
	"context"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
)

// Stats summarizes the registration pipeline.
type Stats struct {
	Total        int64  `json:"total"`
	Approved     int64  `json:"approved"`
	Pending      int64  `json:"pending"`
	Active       int64  `json:"active"`
	ApprovalRate string `json:"approvalRate"` // percentage, 1 decimal
}

// Repository defines the interface for institution persistence.
type Repository interface {
	Create(ctx context.Context, inst *Institution) error
	Update(ctx context.Context, inst *Institution) error

	// Delete removes the row. Callers must reassign owned records first;
	// the service wraps this in a transaction with the orphaning steps.
	Delete(ctx context.Context, institutionID id.ID) error

	// GetByID returns the institution or a NOT_FOUND AppError.
	GetByID(ctx context.Context, institutionID id.ID) (*Institution, error)

	// FindByUsername / FindByEmail return nil when absent.
	FindByUsername(ctx context.Context, username string) (*Institution, error)
	FindByEmail(ctx context.Context, email string) (*Institution, error)

	// ListPending returns unapproved institutions, newest first.
	ListPending(ctx context.Context) ([]Institution, error)

	// ListApproved returns approved institutions ordered by name.
	ListApproved(ctx context.Context) ([]Institution, error)

	// FindFallbackAdmin returns the administrative institution that
	// absorbs orphaned beneficiaries, or a NOT_FOUND AppError if the
	// deployment has none (an invariant violation).
	FindFallbackAdmin(ctx context.Context) (*Institution, error)

	Stats(ctx context.Context) (Stats, error)
}
