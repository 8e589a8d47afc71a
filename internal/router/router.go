package router

import (
	"github.com/gin-gonic/gin"

	"medrep/internal/config"
	"medrep/internal/handler"
	"medrep/internal/middleware"
	"medrep/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	fileH *handler.FileHandler,
	reportH *handler.ReportHandler,
	batchH *handler.BatchHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/token", authH.IssueToken)

	// Protected routes - require valid bearer token
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// File routes
	files := protected.Group("/files")
	files.POST("/upload", fileH.Upload)
	files.GET("", fileH.List)
	files.GET("/:id", fileH.GetByID)
	files.DELETE("/:id", fileH.Delete)

	// Single-report analysis routes
	reports := protected.Group("/reports")
	reports.POST("/analyze", reportH.Analyze)
	reports.GET("/:id", reportH.GetByID)

	// Batch analysis routes
	batches := protected.Group("/batches")
	batches.POST("", batchH.Create)
	batches.GET("", batchH.List)
	batches.GET("/:id", batchH.GetByID)
	batches.GET("/:id/export", batchH.Export)

	return r
}
