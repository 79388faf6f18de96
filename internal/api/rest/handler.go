package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/api/middleware"
	"github.com/feral-file/ff-events/internal/api/shared/dto"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/health"
	"github.com/feral-file/ff-events/internal/orchestrator"
)

// IDEMPOTENCY_KEY_HEADER overrides the idempotencyKey body field when present
const IDEMPOTENCY_KEY_HEADER = "Idempotency-Key"

// Handler defines the interface for REST API handlers
type Handler interface {
	// CreateEvent prepares a new event and returns the operation to sign
	// POST /api/v1/events
	CreateEvent(c *gin.Context)

	// FinalizeEvent submits the signed operation and activates the event
	// POST /api/v1/events/:id/finalize
	FinalizeEvent(c *gin.Context)

	// ListEvents lists events with optional filters
	// GET /api/v1/events?category=&location=&status=&visibility=&creator=&search=&min_price=&max_price=&from=&to=&page=&limit=&sort=&order=
	ListEvents(c *gin.Context)

	// GetEvent retrieves a single event
	// GET /api/v1/events/:id
	GetEvent(c *gin.Context)

	// HealthCheck returns the overall and per-provider health
	// GET /health
	HealthCheck(c *gin.Context)

	// GetMetrics returns provider latency and failure statistics
	// GET /api/v1/health/metrics
	GetMetrics(c *gin.Context)

	// RunConsistencyCheck compares the database against the ledger
	// POST /api/v1/admin/consistency-check
	RunConsistencyCheck(c *gin.Context)

	// RunDataSync repairs divergences following the field policy
	// POST /api/v1/admin/data-sync
	RunDataSync(c *gin.Context)

	// ListRuns returns recent consistency check and data sync summaries
	// GET /api/v1/admin/runs
	ListRuns(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	orchestrator orchestrator.Orchestrator
	monitor      health.Monitor
	reconciler   health.Reconciler
}

// NewHandler creates a new REST API handler
func NewHandler(orch orchestrator.Orchestrator, monitor health.Monitor, reconciler health.Reconciler) Handler {
	return &handler{
		orchestrator: orch,
		monitor:      monitor,
		reconciler:   reconciler,
	}
}

// CreateEvent prepares a new event
func (h *handler) CreateEvent(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.CreatorID == "" {
		// wallet sessions create events as themselves
		req.CreatorID = middleware.WalletSubject(c)
	}

	result, err := h.orchestrator.PrepareEventCreation(c.Request.Context(), req.ToInput(c.GetHeader(IDEMPOTENCY_KEY_HEADER)))
	if err != nil {
		respondDomainError(c, err, zap.String("operation", "prepareEventCreation"))
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	respondOK(c, status, dto.NewPrepareEventResponse(result))
}

// FinalizeEvent submits the signed operation
func (h *handler) FinalizeEvent(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		respondBadRequest(c, "Event ID is required")
		return
	}

	var req dto.FinalizeEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	result, err := h.orchestrator.FinalizeEventCreation(c.Request.Context(), eventID, req.ToSignedOperation())
	if err != nil {
		respondDomainError(c, err,
			zap.String("operation", "finalizeEventCreation"),
			zap.String("event_id", eventID))
		return
	}

	// Finality not yet observed; the caller polls GET /events/:id
	status := http.StatusOK
	if result.Pending {
		status = http.StatusAccepted
	}
	respondOK(c, status, dto.NewFinalizeEventResponse(result))
}

// ListEvents lists events
func (h *handler) ListEvents(c *gin.Context) {
	queryParams, err := ParseListEventsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	page, err := h.orchestrator.GetEvents(c.Request.Context(), queryParams.ToFilter())
	if err != nil {
		respondDomainError(c, err, zap.String("operation", "getEvents"))
		return
	}

	meta := metadata(c)
	meta.PrimarySource = string(page.PrimarySource)
	meta.Degraded = page.Degraded
	c.JSON(http.StatusOK, dto.Envelope{
		Success:  true,
		Data:     dto.NewEventListResponse(page),
		Metadata: meta,
	})
}

// GetEvent retrieves a single event
func (h *handler) GetEvent(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		respondBadRequest(c, "Event ID is required")
		return
	}

	event, err := h.orchestrator.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondDomainError(c, err, zap.String("operation", "getEvent"), zap.String("event_id", eventID))
		return
	}

	respondOK(c, http.StatusOK, dto.NewEventResponse(event))
}

// HealthCheck returns the system health. A down provider turns the response into 503.
func (h *handler) HealthCheck(c *gin.Context) {
	report := h.monitor.GetSystemHealth(c.Request.Context())

	status := http.StatusOK
	if report.Overall == domain.HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.Envelope{
		Success:  report.Overall != domain.HealthStatusDown,
		Data:     report,
		Metadata: metadata(c),
	})
}

// GetMetrics returns provider performance metrics
func (h *handler) GetMetrics(c *gin.Context) {
	respondOK(c, http.StatusOK, h.monitor.GetPerformanceMetrics(c.Request.Context()))
}

// RunConsistencyCheck runs a consistency check synchronously
func (h *handler) RunConsistencyCheck(c *gin.Context) {
	result, err := h.reconciler.RunConsistencyCheck(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, zap.String("operation", "runConsistencyCheck"))
		return
	}
	respondOK(c, http.StatusOK, result)
}

// RunDataSync repairs the posted records, or a fresh check's records when the body is empty
func (h *handler) RunDataSync(c *gin.Context) {
	var req dto.DataSyncRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
			return
		}
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	result, err := h.reconciler.RunDataSync(c.Request.Context(), req.Records)
	if err != nil {
		respondDomainError(c, err, zap.String("operation", "runDataSync"))
		return
	}
	respondOK(c, http.StatusOK, result)
}

// ListRuns returns recent reconciliation runs
func (h *handler) ListRuns(c *gin.Context) {
	var params ListRunsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	runs, err := h.reconciler.ListRuns(c.Request.Context(), params.Limit)
	if err != nil {
		respondDomainError(c, err, zap.String("operation", "listRuns"))
		return
	}
	respondOK(c, http.StatusOK, runs)
}
