package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/distribution"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/http/v1/dto"
)

// DistributionHandler handles exits to beneficiaries.
type DistributionHandler struct {
	*BaseHandler
	service *distribution.Service
}

// NewDistributionHandler creates a new distribution handler.
func NewDistributionHandler(base *BaseHandler, service *distribution.Service) *DistributionHandler {
	return &DistributionHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers distribution endpoints.
func (h *DistributionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/distributions", h.Request)
	rg.POST("/distributions/evaluate", h.Evaluate)
}

// Request attempts a distribution. A 200 with requires_confirmation
// means policy alerts were raised and nothing was written; resubmitting
// with force=true commits despite them.
func (h *DistributionHandler) Request(c *gin.Context) {
	var req dto.DistributionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToRequest()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid item id").WithDetail("itemId", req.ItemID))
		return
	}

	outcome, err := h.service.RequestExit(c.Request.Context(), h.InstitutionID(c), domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	status := http.StatusCreated
	if outcome.RequiresConfirmation() {
		status = http.StatusOK
	}
	c.JSON(status, outcome)
}

// Evaluate previews the advisory checks without writing anything.
func (h *DistributionHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid item id").WithDetail("itemId", req.ItemID))
		return
	}

	eval, err := h.service.Evaluate(c.Request.Context(), itemID, req.BeneficiaryNIF, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, eval)
}
