package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/institution"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/http/v1/dto"
)

// InstitutionHandler handles the administrative institution pipeline.
type InstitutionHandler struct {
	*BaseHandler
	service *institution.Service
}

// NewInstitutionHandler creates a new institution handler.
func NewInstitutionHandler(base *BaseHandler, service *institution.Service) *InstitutionHandler {
	return &InstitutionHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers admin-only institution endpoints.
func (h *InstitutionHandler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/institutions/pending", h.ListPending)
	admin.GET("/institutions", h.ListApproved)
	admin.GET("/institutions/stats", h.Stats)
	admin.POST("/institutions/:id/approve", h.Approve)
	admin.POST("/institutions/:id/reject", h.Reject)
	admin.POST("/institutions/:id/deactivate", h.Deactivate)
	admin.DELETE("/institutions/:id", h.Remove)
}

// ListPending returns institutions awaiting approval.
func (h *InstitutionHandler) ListPending(c *gin.Context) {
	list, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: list, Count: len(list)})
}

// ListApproved returns approved institutions.
func (h *InstitutionHandler) ListApproved(c *gin.Context) {
	list, err := h.service.ListApproved(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: list, Count: len(list)})
}

// Stats returns the registration pipeline statistics.
func (h *InstitutionHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, stats)
}

// Approve activates a pending institution.
func (h *InstitutionHandler) Approve(c *gin.Context) {
	institutionID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	approver := h.Institution(c)
	if err := h.service.Approve(c.Request.Context(), institutionID, approver.Username); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "institution approved")
}

// Reject annotates and removes a pending institution.
func (h *InstitutionHandler) Reject(c *gin.Context) {
	institutionID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.RejectInstitutionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rejecter := h.Institution(c)
	if err := h.service.Reject(c.Request.Context(), institutionID, req.Reason, rejecter.Username); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "institution rejected")
}

// Deactivate suspends an institution without touching its records.
func (h *InstitutionHandler) Deactivate(c *gin.Context) {
	institutionID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Deactivate(c.Request.Context(), institutionID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "institution deactivated")
}

// Remove deletes an institution, orphaning its movements and reassigning
// its beneficiaries to the fallback administrative institution.
func (h *InstitutionHandler) Remove(c *gin.Context) {
	institutionID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), institutionID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
