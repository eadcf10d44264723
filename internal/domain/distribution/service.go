package distribution

import (
	"context"
	"fmt"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/tx"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/item"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/ledger"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/lookup"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/policy"
	"github.com/Edmilson-999/Sistema-stock-sv/pkg/logger"
)

// Request is one distribution attempt by an institution.
type Request struct {
	ItemID         id.ID
	BeneficiaryNIF string
	Quantity       types.Quantity
	Metadata       ledger.ExitMetadata

	// Force commits despite policy alerts. A forced request re-runs every
	// check; nothing is carried over from the refused attempt.
	Force bool
}

// Service runs the distribution flow end to end.
type Service struct {
	movements ledger.Repository
	items     item.Repository
	lookups   *lookup.Service
	guard     *policy.Guard
	txManager tx.Manager
}

// NewService creates a distribution service.
func NewService(movements ledger.Repository, items item.Repository, lookups *lookup.Service, guard *policy.Guard, txManager tx.Manager) *Service {
	return &Service{
		movements: movements,
		items:     items,
		lookups:   lookups,
		guard:     guard,
		txManager: txManager,
	}
}

// Evaluate runs the advisory checks without touching the ledger, so a
// client can preview alerts before submitting.
func (s *Service) Evaluate(ctx context.Context, itemID id.ID, nif string, qty types.Quantity) (policy.Evaluation, error) {
	return s.guard.Evaluate(ctx, nif, itemID, qty)
}

// RequestExit attempts a distribution. The flow is:
// resolve item and beneficiary, check shared on-hand stock, evaluate
// policy and recent-aid warnings, then either stop for confirmation or
// append the exit under a per-item lock. Insufficient stock always
// blocks; policy alerts only block until forced.
func (s *Service) RequestExit(ctx context.Context, institutionID id.ID, req Request) (*Outcome, error) {
	if !req.Quantity.IsPositive() {
		return nil, apperror.NewInvalidInput("quantity must be positive").
			WithDetail("quantity", req.Quantity)
	}

	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	// Beneficiaries must exist before receiving aid; exits never create
	// them implicitly.
	found, err := s.lookups.Resolve(ctx, req.BeneficiaryNIF, institutionID)
	if err != nil {
		return nil, err
	}
	ben := found.Beneficiary

	available, err := s.movements.OnHand(ctx, req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("check on-hand stock: %w", err)
	}
	if available < req.Quantity {
		return nil, apperror.NewInsufficientStock(it.ID.String(), req.Quantity.Float64(), available.Float64())
	}

	eval, err := s.guard.Evaluate(ctx, req.BeneficiaryNIF, req.ItemID, req.Quantity)
	if err != nil {
		return nil, fmt.Errorf("evaluate policy: %w", err)
	}
	if !eval.CanDistribute {
		return nil, apperror.NewNotFound("beneficiary", req.BeneficiaryNIF)
	}

	outcome := &Outcome{
		Beneficiary: BeneficiarySummary{NIF: ben.NIF, Name: ben.Name, Zone: ben.Zone},
		Item:        ItemSummary{ID: it.ID.String(), Name: it.Name, Unit: it.Unit, Category: it.Category},
		Quantity:    req.Quantity,
		Alerts:      append(eval.Alerts, found.Warnings...),
		Suggestions: eval.Suggestions,
	}

	if len(outcome.Alerts) > 0 && !req.Force {
		outcome.Status = StatusRequiresConfirmation
		logger.Info(ctx, "distribution held for confirmation",
			"item", it.Name, "nif", ben.NIF, "alerts", len(outcome.Alerts))
		return outcome, nil
	}

	entry, err := s.commitExit(ctx, institutionID, req)
	if err != nil {
		return nil, err
	}

	outcome.Status = StatusCommitted
	outcome.Entry = entry

	logger.Info(ctx, "distribution committed",
		"entry_id", entry.ID,
		"item", it.Name,
		"nif", ben.NIF,
		"quantity", req.Quantity,
		"forced", req.Force,
	)
	return outcome, nil
}

// commitExit appends the exit under a per-item advisory lock, re-checking
// stock inside the transaction. A serialization failure is retried once;
// the stock may have changed underneath, so the whole check runs again.
func (s *Service) commitExit(ctx context.Context, institutionID id.ID, req Request) (*ledger.Entry, error) {
	var entry *ledger.Entry

	attempt := func(ctx context.Context) error {
		if err := s.movements.LockItem(ctx, req.ItemID); err != nil {
			return fmt.Errorf("lock item: %w", err)
		}

		onHand, err := s.movements.OnHand(ctx, req.ItemID)
		if err != nil {
			return fmt.Errorf("recheck on-hand stock: %w", err)
		}
		if onHand < req.Quantity {
			return apperror.NewInsufficientStock(req.ItemID.String(), req.Quantity.Float64(), onHand.Float64())
		}

		entry = ledger.NewExit(req.ItemID, institutionID, req.BeneficiaryNIF, req.Quantity, req.Metadata)
		if err := entry.Validate(); err != nil {
			return err
		}
		return s.movements.Append(ctx, entry)
	}

	err := s.txManager.RunInTransaction(ctx, attempt)
	if apperror.IsConcurrentModification(err) {
		logger.Warn(ctx, "distribution hit a write race, retrying once",
			"item_id", req.ItemID, "nif", req.BeneficiaryNIF)
		err = s.txManager.RunInTransaction(ctx, attempt)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}
