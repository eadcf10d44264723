// Package catalog_repo provides PostgreSQL implementations for the
// item, beneficiary and institution catalogs.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/item"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/storage/postgres"
)

const itemsTable = "items"

var itemCols = []string{"id", "name", "description", "unit", "category", "active", "created_at"}

var _ item.Repository = (*ItemRepo)(nil)

// ItemRepo implements item.Repository.
type ItemRepo struct {
	tm *postgres.TxManager
}

// NewItemRepo creates a new item repository.
func NewItemRepo(tm *postgres.TxManager) *ItemRepo {
	return &ItemRepo{tm: tm}
}

func (r *ItemRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new item.
func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	q := r.builder().
		Insert(itemsTable).
		Columns(itemCols...).
		Values(it.ID, it.Name, it.Description, it.Unit, it.Category, it.Active, it.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Update modifies an existing item.
func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	q := r.builder().
		Update(itemsTable).
		Set("name", it.Name).
		Set("description", it.Description).
		Set("unit", it.Unit).
		Set("category", it.Category).
		Set("active", it.Active).
		Where(squirrel.Eq{"id": it.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", it.ID.String())
	}
	return nil
}

// GetByID retrieves an item by ID.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	q := r.builder().
		Select(itemCols...).
		From(itemsTable).
		Where(squirrel.Eq{"id": itemID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var it item.Item
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", itemID.String())
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// FindByName retrieves an item by its unique name, nil if absent.
func (r *ItemRepo) FindByName(ctx context.Context, name string) (*item.Item, error) {
	q := r.builder().
		Select(itemCols...).
		From(itemsTable).
		Where(squirrel.Expr("LOWER(name) = LOWER(?)", name)).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var it item.Item
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find item by name: %w", err)
	}
	return &it, nil
}

// List retrieves items with filtering.
func (r *ItemRepo) List(ctx context.Context, filter item.ListFilter) ([]item.Item, error) {
	q := r.builder().
		Select(itemCols...).
		From(itemsTable).
		OrderBy("name ASC")

	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"active": true})
	}
	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var items []item.Item
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Categories returns the distinct non-empty categories of active items.
func (r *ItemRepo) Categories(ctx context.Context) ([]string, error) {
	q := r.builder().
		Select("DISTINCT category").
		From(itemsTable).
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.NotEq{"category": ""}).
		OrderBy("category ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build categories query: %w", err)
	}

	var categories []string
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &categories, sql, args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
