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

	"campus-placement-backend/config"
	_ "campus-placement-backend/docs" // Important for Swagger
	"campus-placement-backend/internal/delivery/http/middleware"
	v1 "campus-placement-backend/internal/delivery/http/v1"
	"campus-placement-backend/internal/domain"
	"campus-placement-backend/internal/repository/memory"
	"campus-placement-backend/internal/repository/postgres"
	"campus-placement-backend/internal/usecase"
	"campus-placement-backend/pkg/audit"
	"campus-placement-backend/pkg/auth"
	"campus-placement-backend/pkg/database"
	"campus-placement-backend/pkg/httpclient"
	"campus-placement-backend/pkg/jobfeed"
	"campus-placement-backend/pkg/logger"
	"campus-placement-backend/pkg/redis"
	"campus-placement-backend/pkg/storage"
	"campus-placement-backend/pkg/validation"
)

// @title           Campus Placement API
// @version         1.0
// @description     Placement portal backend: eligibility-filtered job listings and the application lifecycle.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(logger.LevelFor(cfg.Environment))
	logger.Log.Info("Starting campus placement backend", "port", cfg.Port, "env", cfg.Environment)

	auditLog := audit.New("campus-placement-backend", cfg.Environment, func(ctx context.Context) (string, string) {
		actor, _ := domain.ActorFromContext(ctx)
		return actor.UserID, domain.RequestIDFromContext(ctx)
	})
	defer auditLog.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Setup Store, chosen once for the life of the process
	probes := make(map[string]usecase.HealthProbe)
	repos, driver, degraded, closeStore := openStore(ctx, cfg, probes)
	defer closeStore()

	// 4. Setup Redis (optional)
	redisClient, err := redis.Connect(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
	case err != nil:
		logger.Log.Warn("Redis unavailable, rate limiting uses in-memory counters", "error", err)
		redisClient = nil
	default:
		defer redisClient.Close()
		probes["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	// 5. Setup external job sources
	feedClient := httpclient.NewHttpClient(time.Duration(cfg.JobFeedTimeoutSeconds) * time.Second)
	var sources []jobfeed.Source
	if cfg.AdzunaAppID != "" && cfg.AdzunaAppKey != "" {
		sources = append(sources, jobfeed.NewAdzunaSource(feedClient, jobfeed.AdzunaConfig{
			AppID: cfg.AdzunaAppID, AppKey: cfg.AdzunaAppKey, Country: cfg.AdzunaCountry, Query: cfg.JobFeedQuery,
		}))
	}
	if cfg.JSearchAPIKey != "" {
		sources = append(sources, jobfeed.NewJSearchSource(feedClient, jobfeed.JSearchConfig{
			APIKey: cfg.JSearchAPIKey, Query: cfg.JobFeedQuery,
		}))
	}
	if len(sources) == 0 {
		logger.Log.Warn("No external job sources configured - sync-external will be unavailable")
	}

	// 6. Setup export archive (optional)
	var archiver usecase.Archiver
	if cfg.ArchiveEnabled() {
		s3Archiver, err := storage.NewS3Archiver(ctx, storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			logger.Log.Warn("Export archive disabled", "error", err)
		} else {
			archiver = s3Archiver
		}
	}

	// 7. Setup UseCases
	validate := validation.New()
	authUC := usecase.NewAuthUsecase(repos.Users, auditLog)
	jobUC := usecase.NewJobUsecase(repos.Jobs, repos.Applications, repos.Profiles, repos.Institutions, validate, auditLog, sources...)
	applicationUC := usecase.NewApplicationUsecase(repos.Applications, repos.Jobs, repos.Profiles, repos.Institutions, archiver, validate, auditLog)
	profileUC := usecase.NewProfileUsecase(repos.Profiles, repos.Institutions, validate, auditLog)
	institutionUC := usecase.NewInstitutionUsecase(repos.Institutions, validate, auditLog)
	healthUC := usecase.NewHealthUsecase(driver, degraded, probes)

	// 8. Setup Auth (shared secret for HS256, JWKS for RS256)
	var jwksProvider *auth.Provider
	if cfg.SupabaseUrl != "" {
		jwksProvider = auth.NewProvider(cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json")
	}
	if cfg.SupabaseJWTSecret == "" && jwksProvider == nil {
		logger.Log.Warn("Neither SUPABASE_JWT_SECRET nor SUPABASE_URL is set - every authenticated request will be rejected")
	}

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		JobUC:         jobUC,
		ApplicationUC: applicationUC,
		ProfileUC:     profileUC,
		InstitutionUC: institutionUC,
		HealthUC:      healthUC,
		Verifier:      auth.NewVerifier(cfg.SupabaseJWTSecret, jwksProvider),
		RateLimiter:   middleware.NewRateLimiter(ctx, redisClient),
		Config:        cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// openStore connects to Postgres unless the memory store was requested.
// An unreachable database degrades to the seeded memory store.
func openStore(ctx context.Context, cfg *config.Config, probes map[string]usecase.HealthProbe) (domain.Repositories, string, bool, func()) {
	if cfg.StoreDriver == config.StoreDriverPostgres {
		dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err == nil && cfg.AutoMigrate {
			if err = postgres.Migrate(ctx, dbPool); err != nil {
				dbPool.Close()
			}
		}
		if err == nil {
			probes["database"] = dbPool.Ping
			return domain.Repositories{
				Jobs:         postgres.NewJobRepository(dbPool),
				Applications: postgres.NewApplicationRepository(dbPool),
				Profiles:     postgres.NewProfileRepository(dbPool),
				Institutions: postgres.NewInstitutionRepository(dbPool),
				Users:        postgres.NewUserRepository(dbPool),
			}, config.StoreDriverPostgres, false, dbPool.Close
		}
		logger.Log.Warn("Database unavailable, serving the in-memory sample store", "error", err)
		store := memory.NewStore()
		store.Seed()
		return store.Repositories(), config.StoreDriverMemory, true, func() {}
	}

	logger.Log.Info("Using the in-memory sample store")
	store := memory.NewStore()
	store.Seed()
	return store.Repositories(), config.StoreDriverMemory, false, func() {}
}
