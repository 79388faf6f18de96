package domain

import "time"

// ProviderName identifies one of the storage layers
type ProviderName string

const (
	ProviderDatabase ProviderName = "database"
	ProviderLedger   ProviderName = "ledger"
	ProviderContent  ProviderName = "content"
)

// AllProviders lists the providers in reporting order
var AllProviders = []ProviderName{ProviderDatabase, ProviderLedger, ProviderContent}

// HealthStatus is the health of a provider or of the whole system
type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "healthy"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

func (s HealthStatus) severity() int {
	switch s {
	case HealthStatusDegraded:
		return 1
	case HealthStatusDown:
		return 2
	}
	return 0
}

// Worst returns the most severe of the given statuses (healthy when empty)
func Worst(statuses ...HealthStatus) HealthStatus {
	worst := HealthStatusHealthy
	for _, s := range statuses {
		if s.severity() > worst.severity() {
			worst = s
		}
	}
	return worst
}

// HealthCheckResult is returned by a provider health probe
type HealthCheckResult struct {
	OK      bool
	Latency time.Duration
	Error   error
}

// ProviderHealth is the rolling health state of one provider.
// It is owned by the health monitor and only mutated through UpdateMetrics.
type ProviderHealth struct {
	Provider             ProviderName    `json:"provider"`
	Status               HealthStatus    `json:"status"`
	AverageLatency       time.Duration   `json:"average_latency"`
	ConsecutiveFailures  int             `json:"consecutive_failures"`
	ConsecutiveSuccesses int             `json:"consecutive_successes"`
	TotalCalls           int64           `json:"total_calls"`
	TotalFailures        int64           `json:"total_failures"`
	LastChecked          time.Time       `json:"last_checked"`
	LastError            string          `json:"last_error,omitempty"`
	LatencySamples       []time.Duration `json:"latency_samples,omitempty"`
}

// DivergenceRecord is a detected mismatch between the relational store and the ledger
// for one field of one event. It is an audit artifact, not domain state.
type DivergenceRecord struct {
	EventID       string    `json:"event_id"`
	Field         string    `json:"field"`
	DatabaseValue string    `json:"database_value"`
	LedgerValue   string    `json:"ledger_value"`
	DetectedAt    time.Time `json:"detected_at"`
}

// Key identifies the record independently of its detection time
func (d DivergenceRecord) Key() string {
	return d.EventID + "/" + d.Field
}

// ReconciliationRunKind names the job that produced a run
type ReconciliationRunKind string

const (
	ReconciliationRunKindCheck ReconciliationRunKind = "consistency_check"
	ReconciliationRunKindSync  ReconciliationRunKind = "data_sync"
)

// ReconciliationRun is the audit summary of a consistency check or data sync run
type ReconciliationRun struct {
	ID          string                `json:"id"`
	Kind        ReconciliationRunKind `json:"kind"`
	Divergences int                   `json:"divergences"`
	Repaired    int                   `json:"repaired"`
	Skipped     int                   `json:"skipped"`
	Failed      int                   `json:"failed"`
	Records     []DivergenceRecord    `json:"records,omitempty"`
	StartedAt   time.Time             `json:"started_at"`
	FinishedAt  time.Time             `json:"finished_at"`
}

// Fields compared between the relational store and the ledger
const (
	FieldTicketPrice        = "ticket_price"
	FieldMaxCapacity        = "max_capacity"
	FieldCreatorID          = "creator_id"
	FieldStatus             = "status"
	FieldExistence          = "existence"
	FieldContentMetadataRef = "content_metadata_ref"
)
