// Package reports builds equity and activity reports from the ledger.
// All figures are derived on demand; reports never feed back into stock.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
)

// ZoneCount is the number of distributions made into one zone.
type ZoneCount struct {
	Zone  string `db:"zone" json:"zone"`
	Count int64  `db:"total" json:"count"`
}

// ServedBeneficiary is a beneficiary ranked by distributions received.
type ServedBeneficiary struct {
	NIF   string `db:"nif" json:"nif"`
	Name  string `db:"name" json:"name"`
	Zone  string `db:"zone" json:"zone,omitempty"`
	Count int64  `db:"total" json:"count"`
}

// EquityReport shows how evenly aid is spread across the beneficiary
// base over a rolling window.
type EquityReport struct {
	WindowDays int       `json:"windowDays"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`

	TotalBeneficiaries int64 `json:"totalBeneficiaries"`
	ServedCount        int64 `json:"servedCount"`

	// CoveragePercent is served / total, one decimal place. Zero when no
	// beneficiaries are registered.
	CoveragePercent decimal.Decimal `json:"coveragePercent"`

	ByZone      []ZoneCount         `json:"byZone"`
	TopServed   []ServedBeneficiary `json:"topServed"`
	LeastServed []ServedBeneficiary `json:"leastServed"`
}

// ItemMovementTotal aggregates one item's entries and exits in a period.
type ItemMovementTotal struct {
	ItemID   string         `db:"item_id" json:"itemId"`
	ItemName string         `db:"item_name" json:"itemName"`
	ItemUnit string         `db:"item_unit" json:"itemUnit"`
	Entries  types.Quantity `db:"entries" json:"entries"`
	Exits    types.Quantity `db:"exits" json:"exits"`
}

// MonthlyReport summarizes one institution's activity for a month.
type MonthlyReport struct {
	InstitutionID   string    `json:"institutionId"`
	InstitutionName string    `json:"institutionName"`
	Year            int       `json:"year"`
	Month           int       `json:"month"`
	GeneratedAt     time.Time `json:"generatedAt"`

	MovementCount      int64               `json:"movementCount"`
	BeneficiariesAided int64               `json:"beneficiariesAided"`
	Items              []ItemMovementTotal `json:"items"`
}

// ArchiveEntry describes one stored monthly report.
type ArchiveEntry struct {
	InstitutionID string    `db:"institution_id" json:"institutionId"`
	Year          int       `db:"year" json:"year"`
	Month         int       `db:"month" json:"month"`
	SizeBytes     int64     `db:"size_bytes" json:"sizeBytes"`
	StoredAt      time.Time `db:"stored_at" json:"storedAt"`
}
