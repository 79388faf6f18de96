package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/api/middleware"
	"github.com/feral-file/ff-events/internal/api/rest"
	"github.com/feral-file/ff-events/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-events/internal/api/shared/errors"
	"github.com/feral-file/ff-events/internal/health"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/orchestrator"
)

// Config holds the server configuration
type Config struct {
	Debug          bool
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	// MaxBodySize caps request bodies, zero leaves them unbounded
	MaxBodySize int64
	Auth        middleware.AuthConfig
}

// Addr returns the listen address
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Server serves the events REST API
type Server struct {
	config     Config
	handler    rest.Handler
	httpServer *http.Server
}

// New creates a new API server
func New(cfg Config, orch orchestrator.Orchestrator, monitor health.Monitor, reconciler health.Reconciler) *Server {
	return &Server{
		config:  cfg,
		handler: rest.NewHandler(orch, monitor, reconciler),
	}
}

// Router builds the gin engine with middleware and routes
func (s *Server) Router() *gin.Engine {
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	_ = router.SetTrustedProxies(nil)

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.SetupCORS(s.config.AllowedOrigins),
	)
	if s.config.MaxBodySize > 0 {
		router.Use(limitBody(s.config.MaxBodySize))
	}

	router.NoRoute(notFound("route not found"))
	router.NoMethod(func(c *gin.Context) {
		abort(c, http.StatusMethodNotAllowed, apierrors.NewBadRequestError("Method not allowed", c.Request.Method))
	})

	rest.SetupRoutes(router, s.handler, s.config.Auth)
	return router
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

func notFound(detail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		abort(c, http.StatusNotFound, apierrors.NewNotFoundError("Not found", detail))
	}
}

func abort(c *gin.Context, status int, apiErr *apierrors.APIError) {
	c.AbortWithStatusJSON(status, dto.Envelope{
		Success: false,
		Error:   apiErr,
		Metadata: dto.ResponseMetadata{
			RequestID: middleware.GetRequestID(c),
			Timestamp: time.Now().UTC(),
		},
	})
}

// Start listens until Shutdown is called
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.Router(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	logger.Info("Starting API server", zap.String("address", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests, bounded by ctx
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	logger.Info("Shutting down API server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
