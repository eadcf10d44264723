// Package item provides the donated stock item catalog.
// Items carry no stored quantity: on-hand is always derived from the ledger.
package item

import (
	"strings"
	"time"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
)

// Item represents a distributable stock item (rice, blankets, soap, ...).
type Item struct {
	ID id.ID `db:"id" json:"id"`

	// Name is unique across the whole system
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`

	// Unit of measure: kg, litro, unidade, par
	Unit string `db:"unit" json:"unit"`

	// Category groups items for distribution policy: alimentação, vestuário, ...
	Category string `db:"category" json:"category,omitempty"`

	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewItem creates a new active item with generated ID.
func NewItem(name, unit, category string) *Item {
	if unit == "" {
		unit = "unidade"
	}
	return &Item{
		ID:        id.New(),
		Name:      strings.TrimSpace(name),
		Unit:      unit,
		Category:  strings.TrimSpace(category),
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks required fields.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return apperror.NewValidation("item name is required").
			WithDetail("field", "name")
	}
	if strings.TrimSpace(i.Unit) == "" {
		return apperror.NewValidation("item unit is required").
			WithDetail("field", "unit")
	}
	return nil
}
