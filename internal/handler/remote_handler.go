package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"verinews/internal/service"
)

// RemoteHandler exposes the remote judge connectivity probe.
type RemoteHandler struct {
	analysisService service.AnalysisService
}

// NewRemoteHandler creates a new RemoteHandler.
func NewRemoteHandler(analysisService service.AnalysisService) *RemoteHandler {
	return &RemoteHandler{analysisService: analysisService}
}

// Status handles GET /api/v1/remote/status
// @Summary Probe the remote judge
// @Tags remote
// @Produce json
// @Success 200 {object} domain.ProbeResult
// @Router /remote/status [get]
func (h *RemoteHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.analysisService.ProbeRemote(c.Request.Context()))
}
