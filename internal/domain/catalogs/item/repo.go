package item

import (
	"context"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
)

// ListFilter narrows item listings.
type ListFilter struct {
	// Search matches name or description (case-insensitive substring)
	Search string

	// Category filters by exact category
	Category string

	// ActiveOnly excludes deactivated items
	ActiveOnly bool
}

// Repository defines the interface for item persistence.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error

	// GetByID returns the item or a NOT_FOUND AppError.
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)

	// FindByName retrieves an item by its unique name, nil if absent.
	FindByName(ctx context.Context, name string) (*Item, error)

	List(ctx context.Context, filter ListFilter) ([]Item, error)

	// Categories returns the distinct non-empty categories of active items.
	Categories(ctx context.Context) ([]string, error)
}
