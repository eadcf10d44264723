package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/ledger"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/http/v1/dto"
)

// StockHandler handles donation entries, movement history and on-hand queries.
type StockHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *ledger.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers stock endpoints.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/stock/entries", h.RegisterEntry)
	rg.GET("/stock/movements", h.ListMovements)
	rg.GET("/stock/summary", h.Summary)
	rg.GET("/stock/movements/:id", h.GetMovement)
	rg.GET("/stock/items/:id/on-hand", h.OnHand)
}

// RegisterEntry records a donation received by the calling institution.
func (h *StockHandler) RegisterEntry(c *gin.Context) {
	var req dto.RegisterEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid item id").WithDetail("itemId", req.ItemID))
		return
	}

	entry, err := h.service.RegisterEntry(c.Request.Context(), itemID, h.InstitutionID(c), req.Quantity, req.Metadata())
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(201, entry)
}

// ListMovements returns the calling institution's movement history.
func (h *StockHandler) ListMovements(c *gin.Context) {
	var query dto.MovementListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid item id").WithDetail("itemId", query.ItemID))
		return
	}
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	movements, err := h.service.ListMovements(c.Request.Context(), h.InstitutionID(c), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: movements, Count: len(movements)})
}

// Summary returns the calling institution's per-item stock dashboard.
func (h *StockHandler) Summary(c *gin.Context) {
	summaries, err := h.service.StockSummary(c.Request.Context(), h.InstitutionID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: summaries, Count: len(summaries)})
}

// GetMovement returns one of the calling institution's movements.
func (h *StockHandler) GetMovement(c *gin.Context) {
	entryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	entry, err := h.service.GetMovement(c.Request.Context(), entryID, h.InstitutionID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entry)
}

// OnHand returns derived stock for one item: global, plus the caller's
// own slice when scope=institution is passed.
func (h *StockHandler) OnHand(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	total, err := h.service.TotalOnHand(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.OnHandResponse{ItemID: itemID.String(), Quantity: total}

	if c.Query("scope") == "institution" {
		own, err := h.service.OnHandForInstitution(c.Request.Context(), itemID, h.InstitutionID(c))
		if err != nil {
			h.Error(c, err)
			return
		}
		resp.InstitutionQuantity = &own
	}

	h.OK(c, resp)
}
