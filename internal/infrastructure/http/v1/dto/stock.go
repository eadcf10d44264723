package dto

import (
	"time"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/ledger"
)

// RegisterEntryRequest records a donation received.
type RegisterEntryRequest struct {
	ItemID         string         `json:"itemId" binding:"required"`
	Quantity       types.Quantity `json:"quantity" binding:"required"`
	Reason         string         `json:"reason"`
	Observations   string         `json:"observations"`
	DonationSource string         `json:"donationSource"`
}

// Metadata extracts the free-text fields.
func (r *RegisterEntryRequest) Metadata() ledger.EntryMetadata {
	return ledger.EntryMetadata{
		Reason:         r.Reason,
		Observations:   r.Observations,
		DonationSource: r.DonationSource,
	}
}

// MovementListQuery filters an institution's movement history.
type MovementListQuery struct {
	Direction string     `form:"direction"`
	ItemID    string     `form:"itemId"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Limit     int        `form:"limit"`
	Offset    int        `form:"offset"`
}

// ToFilter converts the query to a domain filter.
func (q *MovementListQuery) ToFilter() (ledger.MovementFilter, error) {
	filter := ledger.MovementFilter{
		FromDate: q.From,
		ToDate:   q.To,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if q.Direction != "" {
		d := ledger.Direction(q.Direction)
		filter.Direction = &d
	}
	if q.ItemID != "" {
		itemID, err := id.Parse(q.ItemID)
		if err != nil {
			return filter, err
		}
		filter.ItemID = &itemID
	}
	return filter, nil
}

// OnHandResponse reports derived stock for one item.
type OnHandResponse struct {
	ItemID   string         `json:"itemId"`
	Quantity types.Quantity `json:"quantity"`

	// InstitutionQuantity is present when scoped to the caller; it can be
	// negative because institutions draw from a shared pool.
	InstitutionQuantity *types.Quantity `json:"institutionQuantity,omitempty"`
}
