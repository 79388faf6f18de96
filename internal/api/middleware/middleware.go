package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-events/internal/api/shared/errors"
	"github.com/feral-file/ff-events/internal/logger"
)

const (
	// REQUEST_START_KEY holds the request start time used for the envelope responseTime
	REQUEST_START_KEY contextKey = "request_start"
	// REQUEST_ID_KEY holds the id echoed in the X-Request-ID header and the envelope
	REQUEST_ID_KEY contextKey = "request_id"
)

const REQUEST_ID_HEADER = "X-Request-ID"

// maxRequestIDLength bounds client supplied request ids
const maxRequestIDLength = 128

// RequestID stamps every request with an id and a start time.
// A client supplied X-Request-ID is kept when it is short enough.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(REQUEST_START_KEY, time.Now())

		id := c.GetHeader(REQUEST_ID_HEADER)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(REQUEST_ID_KEY, id)
		c.Header(REQUEST_ID_HEADER, id)

		c.Next()
	}
}

// GetRequestID returns the id set by RequestID
func GetRequestID(c *gin.Context) string {
	v, ok := c.Get(REQUEST_ID_KEY)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

// Logger writes one access log line per request, at warn for 4xx and error for 5xx
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.WarnCtx(c.Request.Context(), "API request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.InfoCtx(c.Request.Context(), "API request rejected", fields...)
		case c.FullPath() == "/health":
			logger.DebugCtx(c.Request.Context(), "API request", fields...)
		default:
			logger.InfoCtx(c.Request.Context(), "API request", fields...)
		}
	}
}

// Recovery turns a handler panic into a 500 envelope
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorCtx(c.Request.Context(), fmt.Errorf("panic recovered: %v", r),
					zap.String("request_id", GetRequestID(c)),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Envelope{
					Success: false,
					Error:   apierrors.NewInternalError("Internal server error"),
					Metadata: dto.ResponseMetadata{
						RequestID: GetRequestID(c),
						Timestamp: time.Now().UTC(),
					},
				})
			}
		}()
		c.Next()
	}
}
