package dto

import (
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/institution"
)

// RegisterInstitutionRequest is the self-service signup payload.
type RegisterInstitutionRequest struct {
	Name          string `json:"name" binding:"required"`
	Username      string `json:"username" binding:"required"`
	Password      string `json:"password" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	ContactName   string `json:"contactName" binding:"required"`
	Type          string `json:"type" binding:"required"`
	LegalDocument string `json:"legalDocument"`
	Description   string `json:"description"`
}

// ToRegistration converts the request to the domain payload.
func (r *RegisterInstitutionRequest) ToRegistration() institution.Registration {
	return institution.Registration{
		Name:          r.Name,
		Username:      r.Username,
		Password:      r.Password,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		ContactName:   r.ContactName,
		Type:          r.Type,
		LegalDocument: r.LegalDocument,
		Description:   r.Description,
	}
}

// RejectInstitutionRequest carries the rejection reason.
type RejectInstitutionRequest struct {
	Reason string `json:"reason" binding:"required"`
}
