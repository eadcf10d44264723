// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/auth"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/beneficiary"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/institution"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/item"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/distribution"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/ledger"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/lookup"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/reports"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/http/v1/handlers"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/http/v1/middleware"
	"github.com/Edmilson-999/Sistema-stock-sv/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	Pool    *pgxpool.Pool
	Logger  *logger.Logger
	Version string

	TokenVerifier middleware.TokenVerifier

	AuthService         *auth.Service
	InstitutionService  *institution.Service
	ItemService         *item.Service
	BeneficiaryService  *beneficiary.Service
	LookupService       *lookup.Service
	LedgerService       *ledger.Service
	DistributionService *distribution.Service
	ReportsService      *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	healthHandler.RegisterRoutes(router.Group("/health"))

	api := router.Group("/api/v1")
	{
		// Public: login and self-service registration
		authHandler := handlers.NewAuthHandler(base, cfg.AuthService, cfg.InstitutionService)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Protected: every other route requires an authenticated institution
		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.TokenVerifier))

		handlers.NewItemHandler(base, cfg.ItemService).RegisterRoutes(protected)
		handlers.NewBeneficiaryHandler(base, cfg.BeneficiaryService, cfg.LookupService).RegisterRoutes(protected)
		handlers.NewStockHandler(base, cfg.LedgerService).RegisterRoutes(protected)
		handlers.NewDistributionHandler(base, cfg.DistributionService).RegisterRoutes(protected)
		handlers.NewReportsHandler(base, cfg.ReportsService).RegisterRoutes(protected)

		// Admin-only: institution approval pipeline
		admin := protected.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		handlers.NewInstitutionHandler(base, cfg.InstitutionService).RegisterRoutes(admin)
	}

	return router
}
