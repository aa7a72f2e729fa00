package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labdan/Dashboard-sub000/internal/api/middleware"
	"github.com/labdan/Dashboard-sub000/internal/domain/company"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the error body: {"error": "..."} plus tracing fields
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// Error codes
const (
	ErrCodeInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrCodeInvalidParameter = "INVALID_PARAMETER"
	ErrCodeMisconfigured    = "MISCONFIGURED"
	ErrCodeNotFound         = "NOT_FOUND"
)

// Error sends an error response
func Error(c *gin.Context, statusCode int, code, message string) {
	requestID := middleware.GetRequestID(c)

	event := log.Warn()
	if statusCode >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.
		Str("request_id", requestID).
		Str("error_code", code).
		Str("message", message).
		Int("status", statusCode).
		Msg("API error response")

	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestID,
	})
}

// BadRequest sends a 400 Bad Request error
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, ErrCodeInvalidParameter, message)
}

// NotFound sends a 404 Not Found error
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, ErrCodeNotFound, message)
}

// Misconfigured sends a 500 for missing credentials or connection info
func Misconfigured(c *gin.Context, err error) {
	Error(c, http.StatusInternalServerError, ErrCodeMisconfigured, err.Error())
}

// InternalError sends a 500 Internal Server Error.
// The cause is logged but not echoed to the client.
func InternalError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
		log.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Msg("Internal server error")
	}
	Error(c, http.StatusInternalServerError, ErrCodeInternalServer, "An unexpected error occurred")
}

// StatusClientClosedRequest is recorded when the caller went away mid-request
const StatusClientClosedRequest = 499

// ClientClosed aborts quietly; nobody is left to read a body
func ClientClosed(c *gin.Context) {
	log.Debug().
		Str("request_id", middleware.GetRequestID(c)).
		Str("path", c.Request.URL.Path).
		Msg("Client closed request")
	c.AbortWithStatus(StatusClientClosedRequest)
}

// FromError maps a domain error onto a response
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		ClientClosed(c)
	case errors.Is(err, company.ErrBadRequest), errors.Is(err, company.ErrInvalidTicker):
		BadRequest(c, err.Error())
	case errors.Is(err, company.ErrMisconfigured):
		Misconfigured(c, err)
	default:
		InternalError(c, err)
	}
}
