package reports

import (
	"context"
	"time"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
)

// Repository is the read side of the ledger used for reporting.
type Repository interface {
	// CountBeneficiaries counts all registered beneficiaries.
	CountBeneficiaries(ctx context.Context) (int64, error)

	// CountServedSince counts distinct beneficiaries with at least one
	// exit since the given time.
	CountServedSince(ctx context.Context, since time.Time) (int64, error)

	// ExitsByZone groups exits since the given time by beneficiary zone.
	ExitsByZone(ctx context.Context, since time.Time) ([]ZoneCount, error)

	// TopServed returns beneficiaries with the most exits since the given
	// time, most first.
	TopServed(ctx context.Context, since time.Time, limit int) ([]ServedBeneficiary, error)

	// LeastServed returns served beneficiaries with the fewest exits since
	// the given time, fewest first. Beneficiaries with zero exits rank first.
	LeastServed(ctx context.Context, since time.Time, limit int) ([]ServedBeneficiary, error)

	// MonthlyTotals aggregates one institution's movements for a calendar
	// month, per item, plus overall counts.
	MonthlyTotals(ctx context.Context, institutionID id.ID, from, to time.Time) (movements int64, aided int64, items []ItemMovementTotal, err error)
}

// ArchiveStore persists generated monthly reports as compressed blobs.
type ArchiveStore interface {
	// Put stores the gzip-compressed report, replacing any previous
	// archive for the same institution and month.
	Put(ctx context.Context, institutionID id.ID, year, month int, compressed []byte) error

	// Get returns the compressed blob or a NOT_FOUND AppError.
	Get(ctx context.Context, institutionID id.ID, year, month int) ([]byte, error)

	// List returns the archive entries for one institution, newest first.
	List(ctx context.Context, institutionID id.ID) ([]ArchiveEntry, error)
}
