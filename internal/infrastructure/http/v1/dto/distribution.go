package dto

import (
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/distribution"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/ledger"
)

// DistributionRequest attempts an exit to a beneficiary.
type DistributionRequest struct {
	ItemID           string         `json:"itemId" binding:"required"`
	BeneficiaryNIF   string         `json:"beneficiaryNif" binding:"required"`
	Quantity         types.Quantity `json:"quantity" binding:"required"`
	Reason           string         `json:"reason"`
	Observations     string         `json:"observations"`
	DeliveryLocation string         `json:"deliveryLocation"`

	// Force commits despite policy alerts
	Force bool `json:"force"`
}

// ToRequest converts the payload to the domain request.
func (r *DistributionRequest) ToRequest() (distribution.Request, error) {
	itemID, err := id.Parse(r.ItemID)
	if err != nil {
		return distribution.Request{}, err
	}
	return distribution.Request{
		ItemID:         itemID,
		BeneficiaryNIF: r.BeneficiaryNIF,
		Quantity:       r.Quantity,
		Metadata: ledger.ExitMetadata{
			Reason:           r.Reason,
			Observations:     r.Observations,
			DeliveryLocation: r.DeliveryLocation,
		},
		Force: r.Force,
	}, nil
}

// EvaluateRequest previews policy checks without writing.
type EvaluateRequest struct {
	ItemID         string         `json:"itemId" binding:"required"`
	BeneficiaryNIF string         `json:"beneficiaryNif" binding:"required"`
	Quantity       types.Quantity `json:"quantity" binding:"required"`
}
