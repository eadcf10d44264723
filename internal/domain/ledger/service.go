package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/item"
	"github.com/Edmilson-999/Sistema-stock-sv/pkg/logger"
)

// Service provides the stock aggregator and donation entry registration.
// Exits go through the distribution orchestrator instead; this service
// never writes exit rows.
type Service struct {
	repo  Repository
	items item.Repository
}

// NewService creates a new ledger service.
func NewService(repo Repository, items item.Repository) *Service {
	return &Service{repo: repo, items: items}
}

// TotalOnHand computes global on-hand for an item: sum of all entries
// minus all exits, over every institution. Always a fresh aggregate.
func (s *Service) TotalOnHand(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return 0, err
	}
	return s.repo.OnHand(ctx, itemID)
}

// OnHandForInstitution computes the same formula filtered to one
// institution's movements. The result can be negative because
// institutions distribute from the shared global pool; that is accepted
// behavior, not an inconsistency to correct.
func (s *Service) OnHandForInstitution(ctx context.Context, itemID, institutionID id.ID) (types.Quantity, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return 0, err
	}
	return s.repo.OnHandForInstitution(ctx, itemID, institutionID)
}

// RegisterEntry appends a donation-received movement. Entries are never
// rate-limited; only exits pass through the distribution policy.
func (s *Service) RegisterEntry(ctx context.Context, itemID, institutionID id.ID, qty types.Quantity, meta EntryMetadata) (*Entry, error) {
	if !qty.IsPositive() {
		return nil, apperror.NewInvalidInput("quantity must be positive").
			WithDetail("quantity", qty)
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	entry := NewEntry(itemID, institutionID, qty, meta)
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append entry: %w", err)
	}

	logger.Info(ctx, "stock entry registered",
		"entry_id", entry.ID,
		"item_id", itemID,
		"quantity", qty,
		"source", meta.DonationSource,
	)

	return entry, nil
}

// recentWindowDays is the lookback for the summary movement count.
const recentWindowDays = 30

// StockSummary returns per-item totals for one institution's dashboard:
// entries, exits, derived on-hand and a recent movement count.
func (s *Service) StockSummary(ctx context.Context, institutionID id.ID) ([]ItemStockSummary, error) {
	since := time.Now().UTC().AddDate(0, 0, -recentWindowDays)

	summaries, err := s.repo.SummaryByInstitution(ctx, institutionID, since)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	for i := range summaries {
		summaries[i].OnHand = summaries[i].Entries - summaries[i].Exits
	}
	return summaries, nil
}

// ListMovements returns one institution's movement history.
func (s *Service) ListMovements(ctx context.Context, institutionID id.ID, filter MovementFilter) ([]Entry, error) {
	return s.repo.ListByInstitution(ctx, institutionID, filter)
}

// GetMovement returns a single movement if it belongs to the institution.
func (s *Service) GetMovement(ctx context.Context, entryID, institutionID id.ID) (*Entry, error) {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if instID, ok := entry.Institution.InstitutionID(); !ok || instID != institutionID {
		return nil, apperror.NewNotFound("movement", entryID)
	}
	return entry, nil
}
