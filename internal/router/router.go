package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "iolist/docs"
	"iolist/internal/handler"
	"iolist/internal/metrics"
	"iolist/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	logger *zap.Logger,
	corsOrigins []string,
	ioListH *handler.IOListHandler,
	catalogH *handler.CatalogHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(corsOrigins))

	// Health checks and metrics
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", metrics.Handler())

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	registerIOList(v1, ioListH)
	v1.GET("/component_db", catalogH.Get)
	v1.PUT("/component_db", catalogH.Import)

	// Unversioned paths served to the upload page.
	legacy := r.Group("/api")
	legacy.POST("/upload", ioListH.Upload)
	legacy.GET("/results", ioListH.Latest)
	r.GET("/component_db", catalogH.Get)

	return r
}

func registerIOList(g *gin.RouterGroup, h *handler.IOListHandler) {
	g.POST("/upload", h.Upload)
	g.GET("/runs", h.ListRuns)

	results := g.Group("/results")
	results.GET("", h.Latest)
	results.GET("/:id", h.GetResult)
	results.PATCH("/:id/devices/:sequence", h.ReassignDevice)
	results.GET("/:id/export.xlsx", h.ExportXLSX)
	results.GET("/:id/export.csv", h.ExportCSV)
	results.GET("/:id/drawing", h.DrawingURL)
}
