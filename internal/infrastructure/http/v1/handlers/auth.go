package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/auth"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/institution"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication and self-service registration.
type AuthHandler struct {
	*BaseHandler
	authService  *auth.Service
	institutions *institution.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, authService *auth.Service, institutions *institution.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, authService: authService, institutions: institutions}
}

// RegisterRoutes registers auth endpoints.
func (h *AuthHandler) RegisterRoutes(public *gin.RouterGroup) {
	public.POST("/login", h.Login)
	public.POST("/register", h.Register)
}

// Login authenticates an institution and returns a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSession(session))
}

// Register creates a pending institution awaiting approval.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterInstitutionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inst, err := h.institutions.Register(c.Request.Context(), req.ToRegistration())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, inst.ID.String())
}
