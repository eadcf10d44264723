package dto

import (
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/item"
)

// CreateItemRequest registers a new stock item.
type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Category    string `json:"category"`
}

// ToEntity converts the request to a domain item.
func (r *CreateItemRequest) ToEntity() *item.Item {
	it := item.NewItem(r.Name, r.Unit, r.Category)
	it.Description = r.Description
	return it
}

// ItemListQuery filters item listings.
type ItemListQuery struct {
	Search     string `form:"search"`
	Category   string `form:"category"`
	ActiveOnly bool   `form:"activeOnly"`
}

// ToFilter converts the query to a domain filter.
func (q *ItemListQuery) ToFilter() item.ListFilter {
	return item.ListFilter{
		Search:     q.Search,
		Category:   q.Category,
		ActiveOnly: q.ActiveOnly,
	}
}
