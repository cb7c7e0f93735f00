package metrics

import (
	"context"
	"time"
)

// Snapshot is the operational state reported by the status endpoint
type Snapshot struct {
	// QueueLength is the number of webhook jobs waiting for delivery
	QueueLength int64 `json:"queue_length"`

	// SchedulerState is the reminder scheduler lifecycle state
	SchedulerState string `json:"scheduler_state"`

	// NextRun is the next planned reminder scan, nil when not scheduled
	NextRun *time.Time `json:"next_run,omitempty"`

	// Timestamp when the snapshot was taken
	Timestamp time.Time `json:"timestamp"`
}

// Collector reads gauges that are observed rather than counted
type Collector interface {
	// GetQueueLength returns the number of pending webhook jobs
	GetQueueLength(ctx context.Context) (int64, error)
}
