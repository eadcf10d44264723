package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/beneficiary"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/lookup"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/http/v1/dto"
)

// BeneficiaryHandler handles beneficiary registration and lookup.
type BeneficiaryHandler struct {
	*BaseHandler
	service *beneficiary.Service
	lookups *lookup.Service
}

// NewBeneficiaryHandler creates a new beneficiary handler.
func NewBeneficiaryHandler(base *BaseHandler, service *beneficiary.Service, lookups *lookup.Service) *BeneficiaryHandler {
	return &BeneficiaryHandler{BaseHandler: base, service: service, lookups: lookups}
}

// RegisterRoutes registers beneficiary endpoints.
func (h *BeneficiaryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/beneficiaries", h.Register)
	rg.GET("/beneficiaries", h.ListOwn)
	rg.PUT("/beneficiaries/:nif", h.Update)

	// Cross-institution lookup: any institution may resolve any NIF, but
	// only its own exits come back with full detail.
	rg.GET("/beneficiaries/:nif", h.Lookup)
}

// Register creates a beneficiary owned by the calling institution.
func (h *BeneficiaryHandler) Register(c *gin.Context) {
	var req dto.RegisterBeneficiaryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b := req.ToEntity(h.InstitutionID(c))
	if err := h.service.Register(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(201, b)
}

// ListOwn returns the calling institution's registered beneficiaries.
func (h *BeneficiaryHandler) ListOwn(c *gin.Context) {
	filter := beneficiary.ListFilter{
		Search: c.Query("search"),
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	list, err := h.service.ListOwn(c.Request.Context(), h.InstitutionID(c), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: list, Count: len(list)})
}

// Update modifies a beneficiary profile. Only the registering
// institution may edit.
func (h *BeneficiaryHandler) Update(c *gin.Context) {
	nif := c.Param("nif")

	current, err := h.service.GetByNIF(c.Request.Context(), nif)
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateBeneficiaryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.ApplyTo(current)

	if err := h.service.UpdateProfile(c.Request.Context(), current, h.InstitutionID(c)); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, current)
}

// Lookup resolves a beneficiary by NIF with partitioned history: full
// detail for the caller's own exits, redacted records for all others.
func (h *BeneficiaryHandler) Lookup(c *gin.Context) {
	result, err := h.lookups.Resolve(c.Request.Context(), c.Param("nif"), h.InstitutionID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
