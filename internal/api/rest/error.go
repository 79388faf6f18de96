package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/api/middleware"
	"github.com/feral-file/ff-events/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-events/internal/api/shared/errors"
	"github.com/feral-file/ff-events/internal/logger"
)

// metadata builds the envelope metadata from the request start time set by middleware
func metadata(c *gin.Context) dto.ResponseMetadata {
	now := time.Now()
	start := now
	if v, ok := c.Get(middleware.REQUEST_START_KEY); ok {
		if t, ok := v.(time.Time); ok {
			start = t
		}
	}
	return dto.ResponseMetadata{
		RequestID:    middleware.GetRequestID(c),
		ResponseTime: now.Sub(start).Milliseconds(),
		Timestamp:    now.UTC(),
	}
}

// respondOK sends a successful envelope
func respondOK(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, dto.Envelope{
		Success:  true,
		Data:     data,
		Metadata: metadata(c),
	})
}

// respondWithError sends an error envelope
func respondWithError(c *gin.Context, statusCode int, apiErr *apierrors.APIError) {
	c.JSON(statusCode, dto.Envelope{
		Success:  false,
		Error:    apiErr,
		Metadata: metadata(c),
	})
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, apierrors.NewValidationError(details))
}

// respondDomainError maps an orchestration error to its status and logs server side failures
func respondDomainError(c *gin.Context, err error, fields ...zap.Field) {
	status, apiErr := apierrors.FromDomainError(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorCtx(c.Request.Context(), err, fields...)
	} else {
		logger.WarnCtx(c.Request.Context(), "Request rejected", append(fields, zap.Error(err))...)
	}
	respondWithError(c, status, apiErr)
}
