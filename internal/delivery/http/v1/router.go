package v1

import (
	"net/http"
	"time"

	"campus-placement-backend/config"
	"campus-placement-backend/internal/delivery/http/middleware"
	"campus-placement-backend/internal/delivery/http/response"
	"campus-placement-backend/internal/domain"
	"campus-placement-backend/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	ProfileUC     domain.ProfileUsecase
	InstitutionUC domain.InstitutionUsecase
	HealthUC      usecase.HealthUsecase
	Verifier      middleware.TokenVerifier
	RateLimiter   *middleware.RateLimiter
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	if !deps.Config.IsProduction() {
		r.Use(gin.Logger())
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(middleware.ErrorHandler())

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Route not found", nil)
	})

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second
	globalLimit := deps.RateLimiter.Middleware(middleware.RateLimitConfig{
		Limit:     deps.Config.RateLimitGlobalThreshold,
		Window:    window,
		KeyPrefix: "rl:global:",
	})
	writeLimit := deps.RateLimiter.Middleware(middleware.RateLimitConfig{
		Limit:     deps.Config.RateLimitWriteThreshold,
		Window:    window,
		KeyPrefix: "rl:write:",
	})

	v1 := r.Group("/api/v1")

	health := &HealthHandler{healthUC: deps.HealthUC}
	v1.GET("/health", health.Health)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier, deps.AuthUC), globalLimit)
	{
		NewAuthHandler(protected, deps.AuthUC, writeLimit)
		NewJobHandler(protected, deps.JobUC, writeLimit)
		NewApplicationHandler(protected, deps.ApplicationUC, writeLimit)
		NewProfileHandler(protected, deps.ProfileUC, writeLimit)
		NewInstitutionHandler(protected, deps.InstitutionUC, writeLimit)
	}

	return r
}
