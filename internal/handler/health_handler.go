package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"verinews/internal/service"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	analysisService service.AnalysisService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(analysisService service.AnalysisService) *HealthHandler {
	return &HealthHandler{analysisService: analysisService}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. The service is ready with either classifier
// variant; remote configuration is informational.
func (h *HealthHandler) Readiness(c *gin.Context) {
	r := h.analysisService.Readiness()
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"classifier_variant": r.ClassifierVariant,
		"remote_configured":  r.RemoteConfigured,
	})
}
