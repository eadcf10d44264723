// Package distribution orchestrates the exit flow: stock check, policy
// evaluation, cross-institution warnings and the serialized ledger write.
package distribution

import (
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/ledger"
)

// Status of a distribution request.
type Status string

const (
	// StatusRequiresConfirmation means policy alerts were raised and the
	// caller must resubmit with force=true to proceed. Nothing was written.
	StatusRequiresConfirmation Status = "requires_confirmation"

	// StatusCommitted means the exit was appended to the ledger.
	StatusCommitted Status = "committed"
)

// BeneficiarySummary is the beneficiary context echoed in outcomes.
type BeneficiarySummary struct {
	NIF  string `json:"nif"`
	Name string `json:"name"`
	Zone string `json:"zone,omitempty"`
}

// ItemSummary is the item context echoed in outcomes.
type ItemSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Category string `json:"category,omitempty"`
}

// Outcome is the result of a distribution request. When Status is
// StatusRequiresConfirmation the Entry is nil and Alerts explains what
// needs confirming; when StatusCommitted the same alerts are carried as
// informational context alongside the written entry.
type Outcome struct {
	Status      Status             `json:"status"`
	Beneficiary BeneficiarySummary `json:"beneficiary"`
	Item        ItemSummary        `json:"item"`
	Quantity    types.Quantity     `json:"quantity"`

	Alerts      []string `json:"alerts"`
	Suggestions []string `json:"suggestions"`

	Entry *ledger.Entry `json:"entry,omitempty"`
}

// RequiresConfirmation reports whether the caller must resubmit with force.
func (o *Outcome) RequiresConfirmation() bool {
	return o.Status == StatusRequiresConfirmation
}
