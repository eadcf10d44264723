package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/item"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/http/v1/dto"
)

// ItemHandler handles the shared item catalog.
type ItemHandler struct {
	*BaseHandler
	service *item.Service
}

// NewItemHandler creates a new item handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHandler {
	return &ItemHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers item endpoints.
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/items", h.Create)
	rg.GET("/items", h.List)
	rg.GET("/items/:id", h.Get)
	rg.GET("/items/categories", h.Categories)
	rg.POST("/items/:id/deactivate", h.Deactivate)
}

// Create registers a new stock item.
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), it); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, it.ID.String())
}

// List returns items with optional search and category filters.
func (h *ItemHandler) List(c *gin.Context) {
	var query dto.ItemListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	items, err := h.service.List(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}

// Get returns one item.
func (h *ItemHandler) Get(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	it, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, it)
}

// Categories returns the distinct categories in use.
func (h *ItemHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, categories)
}

// Deactivate marks an item inactive.
func (h *ItemHandler) Deactivate(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Deactivate(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "item deactivated")
}
