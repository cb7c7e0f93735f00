package webhook

import "context"

/* Queue is the multi-producer, single-consumer FIFO between the dispatcher and the worker
 * Enqueue must return in bounded time regardless of depth
 */
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	/* Dequeue pops the head of the queue without blocking
	 * The boolean is false when the queue is empty
	 */
	Dequeue(ctx context.Context) (Job, bool, error)
	Len(ctx context.Context) (int64, error)
}

// Recorder receives delivery outcomes, usually for metrics
type Recorder interface {
	RecordDelivery(ctx context.Context, event string, outcome Outcome)
}

type nopRecorder struct{}

func (nopRecorder) RecordDelivery(context.Context, string, Outcome) {}
