package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignatzorin/shareholder-portal/internal/config"
	"github.com/ignatzorin/shareholder-portal/internal/http/handlers"
	"github.com/ignatzorin/shareholder-portal/internal/http/middleware"
	"github.com/ignatzorin/shareholder-portal/internal/interface/http/handler"
)

func SetupRouter(
	cfg *config.Config,
	verificationHandler *handler.VerificationHandler,
	contactHandler *handler.ContactHandler,
	trailHandler *handler.TrailHandler,
	healthHandler *handlers.HealthHandler,
	registry *prometheus.Registry,
) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	api.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	verification := api.Group("/verification")
	{
		verification.POST("/check", verificationHandler.Check)
		verification.POST("/code", verificationHandler.IssueCode)
		verification.POST("/verify", verificationHandler.Verify)
	}

	api.PUT("/shareholders/:code/contact", contactHandler.UpdateContact)
	api.GET("/sessions/:logId/trail", middleware.UUIDValidator("logId"), trailHandler.GetTrail)

	return r
}
