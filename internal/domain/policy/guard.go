package policy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/beneficiary"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/item"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/ledger"
)

const (
	// shortIntervalDays flags a repeat hand-out of the same item.
	shortIntervalDays = 7

	// frequencyThreshold flags beneficiaries with this many
	// distributions (any item) in the last shortIntervalDays.
	frequencyThreshold = 5

	// leastServedWindowDays and leastServedSuggestions drive the
	// load-balancing nudge.
	leastServedWindowDays  = 30
	leastServedSuggestions = 3
)

// Evaluation is the advisory result of a pre-distribution check.
// CanDistribute is false only when the item or beneficiary cannot be
// resolved; policy breaches never block by themselves.
type Evaluation struct {
	CanDistribute bool     `json:"pode_distribuir"`
	Alerts        []string `json:"alerts"`
	Suggestions   []string `json:"suggestions"`
}

// LedgerReader is the slice of ledger queries the guard consumes.
type LedgerReader interface {
	SumExitsForBeneficiaryItem(ctx context.Context, nif string, itemID id.ID, since time.Time) (types.Quantity, error)
	CountExitsForBeneficiaryItem(ctx context.Context, nif string, itemID id.ID, since time.Time) (int, error)
	CountExitsForBeneficiary(ctx context.Context, nif string, since time.Time) (int, error)
	LeastServed(ctx context.Context, category string, since time.Time, limit int) ([]ledger.ServedCount, error)
}

// ItemReader resolves items for policy matching.
type ItemReader interface {
	GetByID(ctx context.Context, itemID id.ID) (*item.Item, error)
}

// BeneficiaryReader resolves beneficiaries globally.
type BeneficiaryReader interface {
	GetByNIF(ctx context.Context, nif string) (*beneficiary.Beneficiary, error)
}

// Guard evaluates distribution requests against the configured limits.
type Guard struct {
	cfg           Config
	movements     LedgerReader
	items         ItemReader
	beneficiaries BeneficiaryReader
	now           func() time.Time
}

// NewGuard creates a guard with the given policy configuration.
func NewGuard(cfg Config, movements LedgerReader, items ItemReader, beneficiaries BeneficiaryReader) *Guard {
	return &Guard{
		cfg:           cfg,
		movements:     movements,
		items:         items,
		beneficiaries: beneficiaries,
		now:           time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	g.now = now
	return g
}

// Evaluate checks a prospective exit of proposedQty of an item to a
// beneficiary. Identical inputs with no intervening ledger writes yield
// identical results; the evaluation itself writes nothing.
func (g *Guard) Evaluate(ctx context.Context, nif string, itemID id.ID, proposedQty types.Quantity) (Evaluation, error) {
	result := Evaluation{CanDistribute: true}

	it, err := g.items.GetByID(ctx, itemID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return notFoundEvaluation(), nil
		}
		return Evaluation{}, fmt.Errorf("resolve item: %w", err)
	}

	ben, err := g.beneficiaries.GetByNIF(ctx, nif)
	if err != nil {
		if apperror.IsNotFound(err) {
			return notFoundEvaluation(), nil
		}
		return Evaluation{}, fmt.Errorf("resolve beneficiary: %w", err)
	}

	limit, configured := g.cfg.Match(it.Category)
	if !configured {
		// No policy for this category: default allow, nothing to report.
		return result, nil
	}

	now := g.now().UTC()

	// Cap check over the category's rolling window.
	if capQty, hasCap := limit.CapFor(it.Name); hasCap {
		windowStart := now.AddDate(0, 0, -limit.WindowDays)
		received, err := g.movements.SumExitsForBeneficiaryItem(ctx, nif, itemID, windowStart)
		if err != nil {
			return Evaluation{}, fmt.Errorf("sum window exits: %w", err)
		}

		projected := received + proposedQty
		if projected > capQty {
			result.Alerts = append(result.Alerts, fmt.Sprintf(
				"%s already received %s%s of %s in the last %d days; this distribution of %s%s would total %s%s, exceeding the recommended cap of %s%s",
				ben.Name, received, it.Unit, it.Name, limit.WindowDays,
				proposedQty, it.Unit, projected, it.Unit, capQty, it.Unit,
			))

			if remainder := capQty - received; remainder.IsPositive() {
				result.Suggestions = append(result.Suggestions, fmt.Sprintf(
					"distribute at most %s%s of %s to stay within the cap",
					remainder, it.Unit, it.Name,
				))
			} else {
				result.Suggestions = append(result.Suggestions, fmt.Sprintf(
					"consider another %s item or waiting a few days before a new distribution",
					it.Category,
				))
			}
		}
	}

	// Same item handed out within the short interval, by any institution.
	shortStart := now.AddDate(0, 0, -shortIntervalDays)
	recentSame, err := g.movements.CountExitsForBeneficiaryItem(ctx, nif, itemID, shortStart)
	if err != nil {
		return Evaluation{}, fmt.Errorf("count recent item exits: %w", err)
	}
	if recentSame > 0 {
		result.Alerts = append(result.Alerts, fmt.Sprintf(
			"%s already received %s within the last %d days; verify the need before repeating",
			ben.Name, it.Name, shortIntervalDays,
		))
	}

	// High overall distribution frequency.
	recentTotal, err := g.movements.CountExitsForBeneficiary(ctx, nif, shortStart)
	if err != nil {
		return Evaluation{}, fmt.Errorf("count recent exits: %w", err)
	}
	if recentTotal >= frequencyThreshold {
		result.Alerts = append(result.Alerts, fmt.Sprintf(
			"%s received %d distributions in the last %d days; consider prioritizing other beneficiaries",
			ben.Name, recentTotal, shortIntervalDays,
		))
	}

	// Load-balancing nudge: who got the least in this category lately.
	leastStart := now.AddDate(0, 0, -leastServedWindowDays)
	least, err := g.movements.LeastServed(ctx, it.Category, leastStart, leastServedSuggestions)
	if err != nil {
		return Evaluation{}, fmt.Errorf("find least served: %w", err)
	}
	if len(least) > 0 {
		names := make([]string, 0, len(least))
		for _, served := range least {
			names = append(names, served.Name)
		}
		result.Suggestions = append(result.Suggestions, fmt.Sprintf(
			"consider prioritizing %s (fewest %s distributions recently)",
			strings.Join(names, ", "), it.Category,
		))
	}

	return result, nil
}

func notFoundEvaluation() Evaluation {
	return Evaluation{
		CanDistribute: false,
		Alerts:        []string{"item or beneficiary not found"},
	}
}
