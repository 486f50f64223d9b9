package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"verinews/internal/domain"
	"verinews/internal/handler"
	"verinews/internal/service"
	"verinews/mocks"
)

func TestRemoteHandler_Status(t *testing.T) {
	mockSvc := new(mocks.MockAnalysisService)
	mockSvc.On("ProbeRemote", mock.Anything).Return(domain.ProbeResult{OK: false, Message: "Invalid API key"})
	h := handler.NewRemoteHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/remote/status", http.NoBody)
	h.Status(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Invalid API key", resp["message"])
}

func TestHealthHandler(t *testing.T) {
	mockSvc := new(mocks.MockAnalysisService)
	mockSvc.On("Readiness").Return(service.Readiness{
		ClassifierVariant: domain.ClassifierVariantHeuristic,
		RemoteConfigured:  false,
	})
	h := handler.NewHealthHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	h.Liveness(c)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	h.Readiness(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "heuristic", resp["classifier_variant"])
	assert.Equal(t, false, resp["remote_configured"])
}

func TestMapDomainError(t *testing.T) {
	status, code, _ := handler.MapDomainError(domain.ErrContentRequired)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "CONTENT_REQUIRED", code)

	status, code, _ = handler.MapDomainError(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", code)
}
