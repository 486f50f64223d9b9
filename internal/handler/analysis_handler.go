package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"verinews/internal/domain"
	"verinews/internal/service"
)

// AnalysisHandler handles article analysis endpoints.
type AnalysisHandler struct {
	analysisService service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// AnalyzeRequest is the body of POST /api/v1/analyze. use_gemini is accepted
// as an alias of use_remote. Content is classified as sent unless
// enhance_short_content is true.
type AnalyzeRequest struct {
	Content             string `json:"content"`
	Title               string `json:"title"`
	Source              string `json:"source"`
	UseRemote           *bool  `json:"use_remote"`
	UseGemini           *bool  `json:"use_gemini"`
	EnhanceShortContent bool   `json:"enhance_short_content"`
}

func (r *AnalyzeRequest) useRemote() bool {
	if r.UseRemote != nil {
		return *r.UseRemote
	}
	return r.UseGemini != nil && *r.UseGemini
}

// AnalyzeFailure is the body returned when analysis itself fails.
type AnalyzeFailure struct {
	Error       string              `json:"error"`
	Verdict     domain.Verdict      `json:"verdict"`
	Confidence  float64             `json:"confidence"`
	Diagnostics *domain.Diagnostics `json:"diagnostics,omitempty"`
}

// Analyze handles POST /api/v1/analyze
// @Summary Analyze an article
// @Description Classify article text as Fake, Real or Uncertain, optionally with a remote second opinion.
// @Tags analysis
// @Accept json
// @Produce json
// @Success 200 {object} service.AnalysisResult
// @Failure 400 {object} APIResponse "Missing content"
// @Failure 500 {object} AnalyzeFailure "Analysis failed"
// @Router /analyze [post]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be a JSON object")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			requestID, _ := c.Get("request_id")
			log.Printf("[%s] analysis panicked: %v", requestID, r)
			c.JSON(http.StatusInternalServerError, AnalyzeFailure{
				Error:      fmt.Sprint(r),
				Verdict:    domain.VerdictError,
				Confidence: domain.ErrorConfidence,
			})
		}
	}()

	result, err := h.analysisService.Analyze(c.Request.Context(), &service.AnalyzeInput{
		Content:             req.Content,
		Title:               req.Title,
		Source:              req.Source,
		UseRemote:           req.useRemote(),
		EnhanceShortContent: req.EnhanceShortContent,
	})
	if err != nil {
		if errors.Is(err, domain.ErrContentRequired) {
			HandleError(c, err)
			return
		}
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] analysis failed: %v", requestID, err)
		c.JSON(http.StatusInternalServerError, AnalyzeFailure{
			Error:      err.Error(),
			Verdict:    domain.VerdictError,
			Confidence: domain.ErrorConfidence,
		})
		return
	}

	if result.Verdict == domain.VerdictError {
		c.JSON(http.StatusInternalServerError, AnalyzeFailure{
			Error:       result.Diagnostics.Error,
			Verdict:     domain.VerdictError,
			Confidence:  result.Confidence,
			Diagnostics: &result.Diagnostics,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
