// Package beneficiary provides the disaster-relief beneficiary registry.
// The national ID (NIF) is the primary key: every lookup and ledger
// reference uses it directly, which is what makes cross-institution
// duplicate detection possible.
package beneficiary

import (
	"strings"
	"time"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
)

// Beneficiary represents a person receiving aid. Owned by the
// institution that registered it, but readable system-wide for
// duplicate-prevention.
type Beneficiary struct {
	NIF  string `db:"nif" json:"nif"`
	Name string `db:"name" json:"name"`

	Age            *int   `db:"age" json:"age,omitempty"`
	Address        string `db:"address" json:"address,omitempty"`
	Contact        string `db:"contact" json:"contact,omitempty"`
	HouseholdSize  *int   `db:"household_size" json:"householdSize,omitempty"`
	Needs          string `db:"needs" json:"needs,omitempty"`
	Observations   string `db:"observations" json:"observations,omitempty"`
	Zone           string `db:"zone" json:"zone,omitempty"`
	ReportedLosses string `db:"reported_losses" json:"reportedLosses,omitempty"`

	// RegisteredBy is nullable: reassigned to the fallback institution
	// when the owner is removed, never left dangling.
	RegisteredBy *id.ID `db:"registered_by" json:"registeredBy,omitempty"`

	RegisteredAt time.Time `db:"registered_at" json:"registeredAt"`
}

// NewBeneficiary creates a beneficiary registered by an institution.
func NewBeneficiary(nif, name string, registeredBy id.ID) *Beneficiary {
	instID := registeredBy
	return &Beneficiary{
		NIF:          strings.TrimSpace(nif),
		Name:         strings.TrimSpace(name),
		RegisteredBy: &instID,
		RegisteredAt: time.Now().UTC(),
	}
}

// Validate checks required fields.
func (b *Beneficiary) Validate() error {
	if strings.TrimSpace(b.NIF) == "" {
		return apperror.NewValidation("NIF is required").
			WithDetail("field", "nif")
	}
	if strings.TrimSpace(b.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
