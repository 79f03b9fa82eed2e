package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobboard-backend/config"
	_ "jobboard-backend/docs"
	v1 "jobboard-backend/internal/delivery/http/v1"
	"jobboard-backend/internal/repository/postgres"
	"jobboard-backend/internal/usecase"
	"jobboard-backend/pkg/audit"
	"jobboard-backend/pkg/auth"
	"jobboard-backend/pkg/database"
	"jobboard-backend/pkg/logger"
	"jobboard-backend/pkg/redis"
	"jobboard-backend/pkg/storage"
	"jobboard-backend/pkg/validation"

	"github.com/getsentry/sentry-go"
)

// @title           Job Board API
// @version         1.0
// @description     Candidate onboarding, job postings and applications.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.AppEnv)
	auditLog := audit.Init("jobboard-backend", cfg.AppEnv)
	defer auditLog.Sync()
	logger.Log.Info("Starting job board backend", "port", cfg.Port, "env", cfg.AppEnv)

	// 3. Error reporting
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			logger.Log.Warn("Sentry disabled", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// 4. Setup Database
	ctx := context.Background()
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, database.Options{SimpleProtocol: cfg.DBSimpleProtocol})
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 5. Redis backs the rate limiter; without it limits are per instance
	if err := redis.Initialize(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
	}
	defer redis.Close()

	// 6. Object storage
	var presigner usecase.Presigner
	storageClient, err := storage.NewClient(ctx, storage.Config{
		Provider:        storage.Provider(cfg.S3Provider),
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		PublicBaseURL:   cfg.S3PublicBaseURL,
		WasabiEndpoint:  cfg.WasabiEndpoint,
		URLTTL:          time.Duration(cfg.UploadURLTTLMinutes) * time.Minute,
	})
	switch {
	case err == nil:
		presigner = storageClient
	case errors.Is(err, storage.ErrNotConfigured):
		logger.Log.Warn("Object storage not configured - uploads will be unavailable")
	default:
		logger.Log.Error("Failed to create storage client", "error", err)
	}

	// 7. Setup Repositories
	tx := postgres.NewTransactor(dbPool)
	userRepo := postgres.NewUserRepository(dbPool)
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	companyProfileRepo := postgres.NewCompanyProfileRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	catalogRepo := postgres.NewCatalogRepository(dbPool)
	locationRepo := postgres.NewLocationRepository(dbPool)
	adminRepo := postgres.NewAdminRepository(dbPool)

	// 8. Setup UseCases
	validate := validation.New()
	catalogUC := usecase.NewCatalogUsecase(catalogRepo)
	authUC := usecase.NewAuthUsecase(userRepo, candidateRepo, companyProfileRepo, tx, validate)
	wizardUC := usecase.NewWizardUsecase(candidateRepo, catalogUC, tx, validate, usecase.WizardOptions{
		RequirePersonalInfo: cfg.WizardRequirePersonalInfo,
	})
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, applicationRepo, validate)
	companyProfileUC := usecase.NewCompanyProfileUsecase(companyProfileRepo, validate)
	jobUC := usecase.NewJobUsecase(jobRepo, companyProfileRepo, catalogUC, tx, validate)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, candidateRepo, companyProfileRepo, tx, validate, usecase.ApplicationOptions{
		EnforceStatusGraph: cfg.EnforceStatusGraph,
	})
	locationUC := usecase.NewLocationUsecase(locationRepo)
	uploadUC := usecase.NewUploadUsecase(presigner, validate)
	healthUC := usecase.NewHealthUsecase(dbPool)
	adminUC := usecase.NewAdminUsecase(adminRepo)

	// 9. Token verification: JWKS when configured, HS256 secret otherwise
	var jwksProvider *auth.Provider
	if cfg.JWKSURL != "" {
		jwksProvider = auth.NewProvider(cfg.JWKSURL)
	}
	verifier := auth.NewVerifier(cfg.JWTSecret, jwksProvider)

	// 10. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:           authUC,
		WizardUC:         wizardUC,
		CandidateUC:      candidateUC,
		CompanyProfileUC: companyProfileUC,
		JobUC:            jobUC,
		ApplicationUC:    applicationUC,
		CatalogUC:        catalogUC,
		LocationUC:       locationUC,
		UploadUC:         uploadUC,
		HealthUC:         healthUC,
		AdminUC:          adminUC,
		Verifier:         verifier,
		Config:           cfg,
	})

	// 11. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
