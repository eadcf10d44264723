// Package ledger provides the append-only stock movement ledger.
// The ledger is the only source of truth for quantities: on-hand figures
// are always derived by summing entries minus exits, never stored.
package ledger

import (
	"time"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
)

// Direction of a stock movement.
type Direction string

const (
	DirectionEntry Direction = "entrada" // donation received
	DirectionExit  Direction = "saida"   // distribution to a beneficiary
)

// Attribution records which institution a movement belongs to.
// A movement survives the deletion of its institution: the attribution
// then becomes Orphaned rather than a dangling reference.
type Attribution struct {
	institutionID id.ID
	known         bool
}

// Known attributes a movement to an institution.
func Known(institutionID id.ID) Attribution {
	return Attribution{institutionID: institutionID, known: true}
}

// Orphaned marks a movement whose institution was removed.
func Orphaned() Attribution {
	return Attribution{}
}

// InstitutionID returns the attributed institution, ok=false when orphaned.
func (a Attribution) InstitutionID() (id.ID, bool) {
	return a.institutionID, a.known
}

// IsOrphaned reports whether the movement lost its institution.
func (a Attribution) IsOrphaned() bool { return !a.known }

// AttributionFromNullable builds an Attribution from a nullable column value.
func AttributionFromNullable(institutionID *id.ID) Attribution {
	if institutionID == nil || id.IsNil(*institutionID) {
		return Orphaned()
	}
	return Known(*institutionID)
}

// Nullable returns the column value for storage (nil when orphaned).
func (a Attribution) Nullable() *id.ID {
	if !a.known {
		return nil
	}
	instID := a.institutionID
	return &instID
}

// Entry is one append-only ledger row. Quantity is always positive; the
// direction decides the sign in aggregates. Rows are never mutated after
// commit except for free-text annotations, and never deleted.
type Entry struct {
	ID     id.ID `db:"id" json:"id"`
	ItemID id.ID `db:"item_id" json:"itemId"`

	Institution Attribution `db:"-" json:"-"`

	// BeneficiaryNIF is set on exits only
	BeneficiaryNIF *string `db:"beneficiary_nif" json:"beneficiaryNif,omitempty"`

	Direction Direction      `db:"direction" json:"direction"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`

	OccurredAt time.Time `db:"occurred_at" json:"occurredAt"`

	Reason       string `db:"reason" json:"reason,omitempty"`
	Observations string `db:"observations" json:"observations,omitempty"`

	// DonationSource is set on entries, DeliveryLocation on exits
	DonationSource   string `db:"donation_source" json:"donationSource,omitempty"`
	DeliveryLocation string `db:"delivery_location" json:"deliveryLocation,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// EntryMetadata carries the free-text fields of a donation entry.
type EntryMetadata struct {
	Reason         string
	Observations   string
	DonationSource string
}

// ExitMetadata carries the free-text fields of a distribution exit.
type ExitMetadata struct {
	Reason           string
	Observations     string
	DeliveryLocation string
}

// NewEntry creates a donation-received movement.
func NewEntry(itemID, institutionID id.ID, qty types.Quantity, meta EntryMetadata) *Entry {
	now := time.Now().UTC()
	return &Entry{
		ID:             id.New(),
		ItemID:         itemID,
		Institution:    Known(institutionID),
		Direction:      DirectionEntry,
		Quantity:       qty,
		OccurredAt:     now,
		Reason:         meta.Reason,
		Observations:   meta.Observations,
		DonationSource: meta.DonationSource,
		CreatedAt:      now,
	}
}

// NewExit creates a distribution movement to a beneficiary.
func NewExit(itemID, institutionID id.ID, beneficiaryNIF string, qty types.Quantity, meta ExitMetadata) *Entry {
	now := time.Now().UTC()
	nif := beneficiaryNIF
	return &Entry{
		ID:               id.New(),
		ItemID:           itemID,
		Institution:      Known(institutionID),
		BeneficiaryNIF:   &nif,
		Direction:        DirectionExit,
		Quantity:         qty,
		OccurredAt:       now,
		Reason:           meta.Reason,
		Observations:     meta.Observations,
		DeliveryLocation: meta.DeliveryLocation,
		CreatedAt:        now,
	}
}

// Validate checks ledger invariants before append.
func (e *Entry) Validate() error {
	if id.IsNil(e.ItemID) {
		return apperror.NewValidation("item is required").
			WithDetail("field", "itemId")
	}
	if !e.Quantity.IsPositive() {
		return apperror.NewInvalidInput("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("quantity", e.Quantity)
	}
	switch e.Direction {
	case DirectionEntry:
		if e.BeneficiaryNIF != nil {
			return apperror.NewValidation("entries cannot reference a beneficiary")
		}
	case DirectionExit:
		if e.BeneficiaryNIF == nil || *e.BeneficiaryNIF == "" {
			return apperror.NewValidation("exit requires a beneficiary").
				WithDetail("field", "beneficiaryNif")
		}
	default:
		return apperror.NewValidation("unknown movement direction").
			WithDetail("direction", string(e.Direction))
	}
	return nil
}

// ExitRecord is an exit joined with item and institution display data,
// used by the cross-institution lookup and beneficiary history.
type ExitRecord struct {
	EntryID         id.ID          `db:"id"`
	ItemID          id.ID          `db:"item_id"`
	ItemName        string         `db:"item_name"`
	ItemUnit        string         `db:"item_unit"`
	InstitutionID   *id.ID         `db:"institution_id"`
	InstitutionName string         `db:"institution_name"`
	InstitutionType string         `db:"institution_type"`
	BeneficiaryNIF  string         `db:"beneficiary_nif"`
	Quantity        types.Quantity `db:"quantity"`
	OccurredAt      time.Time      `db:"occurred_at"`

	// Detail fields: only exposed to the owning institution
	Reason           string `db:"reason"`
	Observations     string `db:"observations"`
	DeliveryLocation string `db:"delivery_location"`
}

// Attribution returns the record's attribution as a checked sum type.
func (r ExitRecord) Attribution() Attribution {
	return AttributionFromNullable(r.InstitutionID)
}
