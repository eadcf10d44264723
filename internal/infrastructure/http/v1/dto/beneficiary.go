package dto

import (
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/beneficiary"
)

// RegisterBeneficiaryRequest creates a beneficiary owned by the caller.
type RegisterBeneficiaryRequest struct {
	NIF            string `json:"nif" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Age            *int   `json:"age"`
	Address        string `json:"address"`
	Contact        string `json:"contact"`
	HouseholdSize  *int   `json:"householdSize"`
	Needs          string `json:"needs"`
	Observations   string `json:"observations"`
	Zone           string `json:"zone"`
	ReportedLosses string `json:"reportedLosses"`
}

// ToEntity converts the request to a domain beneficiary.
func (r *RegisterBeneficiaryRequest) ToEntity(registeredBy id.ID) *beneficiary.Beneficiary {
	b := beneficiary.NewBeneficiary(r.NIF, r.Name, registeredBy)
	b.Age = r.Age
	b.Address = r.Address
	b.Contact = r.Contact
	b.HouseholdSize = r.HouseholdSize
	b.Needs = r.Needs
	b.Observations = r.Observations
	b.Zone = r.Zone
	b.ReportedLosses = r.ReportedLosses
	return b
}

// UpdateBeneficiaryRequest updates a profile. The NIF never changes.
type UpdateBeneficiaryRequest struct {
	Name           *string `json:"name"`
	Age            *int    `json:"age"`
	Address        *string `json:"address"`
	Contact        *string `json:"contact"`
	HouseholdSize  *int    `json:"householdSize"`
	Needs          *string `json:"needs"`
	Observations   *string `json:"observations"`
	Zone           *string `json:"zone"`
	ReportedLosses *string `json:"reportedLosses"`
}

// ApplyTo copies set fields onto the beneficiary.
func (r *UpdateBeneficiaryRequest) ApplyTo(b *beneficiary.Beneficiary) {
	if r.Name != nil {
		b.Name = *r.Name
	}
	if r.Age != nil {
		b.Age = r.Age
	}
	if r.Address != nil {
		b.Address = *r.Address
	}
	if r.Contact != nil {
		b.Contact = *r.Contact
	}
	if r.HouseholdSize != nil {
		b.HouseholdSize = r.HouseholdSize
	}
	if r.Needs != nil {
		b.Needs = *r.Needs
	}
	if r.Observations != nil {
		b.Observations = *r.Observations
	}
	if r.Zone != nil {
		b.Zone = *r.Zone
	}
	if r.ReportedLosses != nil {
		b.ReportedLosses = *r.ReportedLosses
	}
}
