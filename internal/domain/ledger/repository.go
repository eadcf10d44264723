package ledger

import (
	"context"
	"time"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
)

// MovementFilter narrows movement listings for one institution.
type MovementFilter struct {
	Direction *Direction
	ItemID    *id.ID
	FromDate  *time.Time
	ToDate    *time.Time
	Limit     int
	Offset    int
}

// ServedCount is a beneficiary with its number of recent distributions.
type ServedCount struct {
	NIF   string `db:"nif"`
	Name  string `db:"name"`
	Zone  string `db:"zone"`
	Count int    `db:"total"`
}

// ItemStockSummary aggregates one institution's movements for one item.
type ItemStockSummary struct {
	ItemID       id.ID          `db:"item_id" json:"itemId"`
	ItemName     string         `db:"item_name" json:"itemName"`
	ItemUnit     string         `db:"item_unit" json:"itemUnit"`
	ItemCategory string         `db:"item_category" json:"itemCategory,omitempty"`
	Entries      types.Quantity `db:"entries" json:"entries"`
	Exits        types.Quantity `db:"exits" json:"exits"`

	// OnHand is entries minus exits, derived by the service. May be
	// negative: institutions draw from the shared pool.
	OnHand types.Quantity `db:"-" json:"onHand"`

	RecentMovements int64 `db:"recent_count" json:"recentMovements"`
}

// Repository defines persistence operations over the movement ledger.
type Repository interface {
	// Append inserts exactly one ledger row. Rows are immutable afterwards.
	Append(ctx context.Context, entry *Entry) error

	// LockItem serializes check-then-commit sequences for one item.
	// Must be called inside a transaction; the lock is released on
	// commit or rollback.
	LockItem(ctx context.Context, itemID id.ID) error

	// OnHand returns entries minus exits for an item over all institutions.
	OnHand(ctx context.Context, itemID id.ID) (types.Quantity, error)

	// OnHandForInstitution filters the same formula by attribution.
	// The result may be negative: institutions draw from a shared pool.
	OnHandForInstitution(ctx context.Context, itemID, institutionID id.ID) (types.Quantity, error)

	// SumExitsForBeneficiaryItem sums exit quantities of one item to one
	// beneficiary since the given time, across all institutions.
	SumExitsForBeneficiaryItem(ctx context.Context, nif string, itemID id.ID, since time.Time) (types.Quantity, error)

	// CountExitsForBeneficiaryItem counts such exits.
	CountExitsForBeneficiaryItem(ctx context.Context, nif string, itemID id.ID, since time.Time) (int, error)

	// CountExitsForBeneficiary counts all exits to one beneficiary since
	// the given time, any item, any institution.
	CountExitsForBeneficiary(ctx context.Context, nif string, since time.Time) (int, error)

	// ExitsForBeneficiary returns the full cross-institution exit history
	// (joined with item and institution display data), newest first.
	ExitsForBeneficiary(ctx context.Context, nif string) ([]ExitRecord, error)

	// LeastServed returns beneficiaries with the fewest distributions in
	// a category since the given time, fewest first.
	LeastServed(ctx context.Context, category string, since time.Time, limit int) ([]ServedCount, error)

	// ListByInstitution returns one institution's movements, newest first.
	ListByInstitution(ctx context.Context, institutionID id.ID, filter MovementFilter) ([]Entry, error)

	// GetByID returns a single movement or a NOT_FOUND AppError.
	GetByID(ctx context.Context, entryID id.ID) (*Entry, error)

	// SummaryByInstitution aggregates one institution's entry and exit
	// totals per item, with a movement count since the given time.
	// Items the institution never moved are omitted.
	SummaryByInstitution(ctx context.Context, institutionID id.ID, recentSince time.Time) ([]ItemStockSummary, error)

	// OrphanByInstitution detaches all movements of a removed institution
	// (attribution becomes Orphaned). Returns the number of rows touched;
	// no row is ever deleted.
	OrphanByInstitution(ctx context.Context, institutionID id.ID) (int64, error)
}
