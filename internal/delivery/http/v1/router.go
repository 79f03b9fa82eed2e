package v1

import (
	"time"

	"jobboard-backend/config"
	"jobboard-backend/internal/delivery/http/middleware"
	"jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC           domain.AuthUsecase
	WizardUC         domain.WizardUsecase
	CandidateUC      domain.CandidateUsecase
	CompanyProfileUC domain.CompanyProfileUsecase
	JobUC            domain.JobUsecase
	ApplicationUC    domain.ApplicationUsecase
	CatalogUC        domain.CatalogUsecase
	LocationUC       domain.LocationUsecase
	UploadUC         domain.UploadUsecase
	HealthUC         domain.HealthUsecase
	AdminUC          domain.AdminUsecase
	Verifier         middleware.TokenVerifier
	Config           *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	// CORS must be first so preflight requests never hit auth
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL, deps.Config.IsProduction()))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))

	writeLimit := middleware.RateLimitMiddleware(middleware.WriteRateLimitConfig(deps.Config.RateLimitApplyThreshold, window))

	v1 := r.Group(middleware.APIBasePath)

	NewHealthHandler(v1, deps.HealthUC)
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes see the caller when a valid token is sent
	public := v1.Group("")
	public.Use(middleware.OptionalAuth(deps.Verifier, deps.AuthUC))
	{
		NewCatalogHandler(public, deps.CatalogUC)
		NewLocationHandler(public, deps.LocationUC)
	}

	// Registration only needs a valid token; the local user does not exist yet
	registration := v1.Group("")
	registration.Use(
		middleware.TokenOnly(deps.Verifier),
		middleware.RateLimitMiddleware(middleware.RegistrationRateLimitConfig(deps.Config.RateLimitApplyThreshold, window)),
	)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier, deps.AuthUC))

	candidates := protected.Group("/candidates")
	employers := protected.Group("/employers")
	employers.Use(middleware.RequireRole(domain.RoleCompany))
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(domain.RoleAdmin))

	NewAuthHandler(registration, protected, deps.AuthUC)
	NewWizardHandler(protected, deps.WizardUC)
	NewCandidateHandler(candidates, deps.CandidateUC)
	NewJobHandler(public, employers, deps.JobUC)
	NewApplicationHandler(candidates, employers, deps.ApplicationUC, writeLimit)
	NewCompanyProfileHandler(public, employers, deps.CompanyProfileUC, deps.JobUC)
	NewUploadHandler(protected, deps.UploadUC, writeLimit, middleware.UploadQuota(deps.Config.UploadsPerDay))
	NewAdminHandler(admin, deps.AdminUC)

	return r
}
