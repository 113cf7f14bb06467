package v1

import (
	"net/http"

	"go-application-form/config"
	"go-application-form/internal/delivery/http/middleware"
	"go-application-form/internal/delivery/http/response"
	"go-application-form/internal/delivery/http/web"
	"go-application-form/internal/domain"
	"go-application-form/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	FormUC   domain.FormSessionUsecase
	HealthUC usecase.HealthUsecase
	// NewForm builds the fresh controller each HTML page post runs against
	NewForm func() domain.ApplicationForm
	Config  *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	cfg := deps.Config

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, cfg.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, cfg.RateLimitWindow())))

	submitLimit := middleware.RateLimitMiddleware(middleware.SubmitRateLimitConfig(cfg.RateLimitSubmitThreshold, cfg.RateLimitWindow()))

	v1 := r.Group("/v1")

	// Swagger UI ships inline scripts, so it stays outside the strict CSP
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := v1.Group("")
	api.Use(middleware.SecurityHeadersMiddleware(cfg.SecureCookies))
	{
		api.GET("/health", func(c *gin.Context) {
			response.Success(c, http.StatusOK, "System operational", deps.HealthUC.Check(c.Request.Context()))
		})
		NewFormHandler(api, deps.FormUC, submitLimit)
	}

	page := r.Group("")
	page.Use(middleware.SecurityHeadersMiddleware(cfg.SecureCookies))
	page.Use(middleware.CSRFMiddleware(cfg.SecureCookies))
	web.NewFormPage(page, deps.NewForm, submitLimit)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, web.ApplyPath)
	})

	return r
}
