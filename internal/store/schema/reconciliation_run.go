package schema

import (
	"time"

	"gorm.io/datatypes"
)

// ReconciliationRunKind is the job that produced a run record
type ReconciliationRunKind string

const (
	// ReconciliationRunKindCheck is a consistency check run
	ReconciliationRunKindCheck ReconciliationRunKind = "consistency_check"
	// ReconciliationRunKindSync is a data sync run
	ReconciliationRunKindSync ReconciliationRunKind = "data_sync"
)

// ReconciliationRun represents the reconciliation_runs table - audit log of consistency check and data sync runs
type ReconciliationRun struct {
	// ID is the run identifier (ULID for time-sortable uniqueness)
	ID string `gorm:"column:id;primaryKey;type:varchar(26)"`
	// Kind is consistency_check or data_sync
	Kind ReconciliationRunKind `gorm:"column:kind;not null;type:text"`
	// Divergences is the number of divergence records found or processed
	Divergences int `gorm:"column:divergences;not null;default:0"`
	// Repaired is the number of rows changed by a sync
	Repaired int `gorm:"column:repaired;not null;default:0"`
	// Skipped is the number of records left untouched by a sync
	Skipped int `gorm:"column:skipped;not null;default:0"`
	// Failed is the number of repairs that errored
	Failed int `gorm:"column:failed;not null;default:0"`
	// Details holds the divergence records as JSON
	Details datatypes.JSON `gorm:"column:details;type:jsonb"`
	// StartedAt is when the run started
	StartedAt time.Time `gorm:"column:started_at;not null;type:timestamptz"`
	// FinishedAt is when the run finished
	FinishedAt time.Time `gorm:"column:finished_at;not null;type:timestamptz"`
}

// TableName specifies the table name for the ReconciliationRun model
func (ReconciliationRun) TableName() string {
	return "reconciliation_runs"
}
