// Package lookup resolves beneficiaries across institution boundaries.
// Every institution can find any beneficiary by NIF (duplicate-aid
// prevention requires global visibility), but history detail is
// partitioned: full records for the requester's own exits, redacted
// records for everyone else's.
package lookup

import (
	"time"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/beneficiary"
)

// OwnExit is a distribution made by the requesting institution: full detail.
type OwnExit struct {
	EntryID          id.ID          `json:"entryId"`
	Date             time.Time      `json:"date"`
	ItemName         string         `json:"itemName"`
	ItemUnit         string         `json:"itemUnit"`
	Quantity         types.Quantity `json:"quantity"`
	Reason           string         `json:"reason,omitempty"`
	Observations     string         `json:"observations,omitempty"`
	DeliveryLocation string         `json:"deliveryLocation,omitempty"`
}

// RedactedExit is a distribution by another institution. By design it
// has no reason, observations or delivery location fields at all:
// redaction is structural, not a presentation concern.
type RedactedExit struct {
	Date            time.Time      `json:"date"`
	ItemName        string         `json:"itemName"`
	Quantity        types.Quantity `json:"quantity"`
	InstitutionName string         `json:"institutionName"`
	InstitutionType string         `json:"institutionType"`
}

// InstitutionRef identifies a registering institution in results.
type InstitutionRef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Result is a resolved beneficiary with partitioned history.
type Result struct {
	Beneficiary  *beneficiary.Beneficiary `json:"beneficiary"`
	RegisteredBy *InstitutionRef          `json:"registeredBy,omitempty"`

	Mine   []OwnExit      `json:"mine"`
	Others []RedactedExit `json:"others"`

	TotalMine   int `json:"totalMine"`
	TotalOthers int `json:"totalOthers"`

	// HelpedBy lists the distinct institutions that ever distributed to
	// this beneficiary (including the requester, when applicable).
	HelpedBy []string `json:"helpedBy"`

	// Warnings carries fraud-relevant signals about recent aid.
	Warnings []string `json:"warnings"`
}
