package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"verinews/internal/domain"
)

// APIResponse is the standard envelope for non-analysis API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrContentRequired):
		return http.StatusBadRequest, "CONTENT_REQUIRED", "content is required"
	case errors.Is(err, domain.ErrNoContent):
		return http.StatusBadRequest, "CONTENT_REQUIRED", "no article content provided"
	case errors.Is(err, domain.ErrTextTooShort):
		return http.StatusBadRequest, "TEXT_TOO_SHORT", "article text too short for meaningful analysis"
	case errors.Is(err, domain.ErrRemoteNotConfigured):
		return http.StatusServiceUnavailable, "REMOTE_NOT_CONFIGURED", "remote judge not configured"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
