package router

import (
	"github.com/gin-gonic/gin"

	"verinews/internal/handler"
	"verinews/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	allowedOrigins []string,
	analysisH *handler.AnalysisHandler,
	remoteH *handler.RemoteHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.POST("/analyze", analysisH.Analyze)

	remote := v1.Group("/remote")
	remote.GET("/status", remoteH.Status)

	return r
}
