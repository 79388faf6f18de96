package messaging

import (
	"context"

	"github.com/feral-file/ff-events/internal/domain"
)

// Publisher publishes reconciliation findings to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishDivergence publishes one divergence detected by a run
	PublishDivergence(ctx context.Context, runID string, record domain.DivergenceRecord) error
	// PublishRun publishes the summary of a finished run
	PublishRun(ctx context.Context, run domain.ReconciliationRun) error
	// Close closes the connection
	Close()
}

// DivergenceMessage is the payload published for each divergence
type DivergenceMessage struct {
	RunID string `json:"run_id"`
	domain.DivergenceRecord
}

// RunMessage is the payload published for each run. Records are published separately.
type RunMessage struct {
	ID          string                       `json:"id"`
	Kind        domain.ReconciliationRunKind `json:"kind"`
	Divergences int                          `json:"divergences"`
	Repaired    int                          `json:"repaired"`
	Skipped     int                          `json:"skipped"`
	Failed      int                          `json:"failed"`
	StartedAt   string                       `json:"started_at"`
	FinishedAt  string                       `json:"finished_at"`
}
