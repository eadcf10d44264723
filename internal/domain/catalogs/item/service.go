package item

import (
	"context"
	"fmt"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/pkg/logger"
)

// Service provides business operations for the item catalog.
type Service struct {
	repo Repository
}

// NewService creates a new item catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new item. Names are unique system-wide.
func (s *Service) Create(ctx context.Context, it *Item) error {
	if err := it.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.FindByName(ctx, it.Name)
	if err != nil {
		return fmt.Errorf("check item name: %w", err)
	}
	if existing != nil {
		return apperror.NewDuplicate("item", "name", it.Name)
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	logger.Info(ctx, "item created", "id", it.ID, "name", it.Name, "category", it.Category)
	return nil
}

// GetByID retrieves an item.
func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

// List retrieves items with optional search and category filters.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Item, error) {
	return s.repo.List(ctx, filter)
}

// Categories returns the distinct categories in use.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Deactivate marks an item inactive. Ledger history is never touched.
func (s *Service) Deactivate(ctx context.Context, itemID id.ID) error {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !it.Active {
		return nil
	}
	it.Active = false
	if err := s.repo.Update(ctx, it); err != nil {
		return fmt.Errorf("deactivate item: %w", err)
	}

	logger.Info(ctx, "item deactivated", "id", it.ID, "name", it.Name)
	return nil
}
