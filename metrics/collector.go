package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/complaint-notifier/reminder"
	"github.com/marcelsud/complaint-notifier/webhook"
)

// SchedulerView is the read side of the reminder scheduler
type SchedulerView interface {
	State() reminder.State
	Next() time.Time
}

// QueueCollector implements Collector on top of the delivery queue
type QueueCollector struct {
	queue     webhook.Queue
	scheduler SchedulerView
}

// NewQueueCollector creates a collector; scheduler may be nil when reminders are disabled
func NewQueueCollector(queue webhook.Queue, scheduler SchedulerView) *QueueCollector {
	return &QueueCollector{queue: queue, scheduler: scheduler}
}

// GetQueueLength returns the number of pending webhook jobs
func (c *QueueCollector) GetQueueLength(ctx context.Context) (int64, error) {
	n, err := c.queue.Len(ctx)
	if err != nil {
		return 0, fmt.Errorf("getting queue length: %w", err)
	}
	return n, nil
}

// Collect gathers the current snapshot
func (c *QueueCollector) Collect(ctx context.Context) (Snapshot, error) {
	length, err := c.GetQueueLength(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		QueueLength:    length,
		SchedulerState: "disabled",
		Timestamp:      time.Now(),
	}
	if c.scheduler != nil {
		snap.SchedulerState = c.scheduler.State().String()
		if next := c.scheduler.Next(); !next.IsZero() {
			snap.NextRun = &next
		}
	}
	return snap, nil
}
