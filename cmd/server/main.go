// Package main is the entry point for the stock distribution API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/auth"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/beneficiary"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/institution"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/item"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/distribution"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/ledger"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/lookup"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/policy"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/reports"
	v1 "github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/http/v1"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/storage/postgres"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/storage/postgres/ledger_repo"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/storage/postgres/report_repo"
	"github.com/Edmilson-999/Sistema-stock-sv/pkg/logger"
)

const version = "1.0.0"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stock distribution server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	itemRepo := catalog_repo.NewItemRepo(txManager)
	beneficiaryRepo := catalog_repo.NewBeneficiaryRepo(txManager)
	institutionRepo := catalog_repo.NewInstitutionRepo(txManager)
	ledgerRepo := ledger_repo.NewLedgerRepo(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)
	archiveRepo := report_repo.NewArchiveRepo(txManager)

	// --- Domain services ---
	itemService := item.NewService(itemRepo)
	beneficiaryService := beneficiary.NewService(beneficiaryRepo)
	institutionService := institution.NewService(institutionRepo, beneficiaryRepo, ledgerRepo, txManager)
	ledgerService := ledger.NewService(ledgerRepo, itemRepo)
	lookupService := lookup.NewService(beneficiaryRepo, ledgerRepo, institutionRepo)

	guard := policy.NewGuard(policy.DefaultConfig(), ledgerRepo, itemRepo, beneficiaryRepo)
	distributionService := distribution.NewService(ledgerRepo, itemRepo, lookupService, guard, txManager)

	reportsService := reports.NewService(reportRepo, archiveRepo, institutionRepo)

	// --- Auth ---
	jwtSecret := getEnv("JWT_SECRET", "change-me-in-production")
	tokenTTL := getEnvDuration("JWT_TTL", 12*time.Hour)
	issuer := auth.NewTokenIssuer(jwtSecret, tokenTTL)
	authService := auth.NewService(institutionRepo, issuer)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:                pool.Pool,
		Logger:              log,
		Version:             version,
		TokenVerifier:       issuer,
		AuthService:         authService,
		InstitutionService:  institutionService,
		ItemService:         itemService,
		BeneficiaryService:  beneficiaryService,
		LookupService:       lookupService,
		LedgerService:       ledgerService,
		DistributionService: distributionService,
		ReportsService:      reportsService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
