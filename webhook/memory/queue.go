package memory

import (
	"context"
	"sync"

	"github.com/marcelsud/complaint-notifier/webhook"
)

/* Queue is an unbounded in-process FIFO
 * Enqueue is O(1) under a mutex and never waits for the consumer
 */
type Queue struct {
	mu   sync.Mutex
	jobs []webhook.Job
	head int
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends a job to the tail
func (q *Queue) Enqueue(_ context.Context, job webhook.Job) error {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()
	return nil
}

// Dequeue pops the head of the queue
func (q *Queue) Dequeue(_ context.Context) (webhook.Job, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == len(q.jobs) {
		return webhook.Job{}, false, nil
	}
	job := q.jobs[q.head]
	q.jobs[q.head] = webhook.Job{}
	q.head++

	// compact once the consumed prefix dominates the slice
	if q.head > 64 && q.head*2 >= len(q.jobs) {
		q.jobs = append([]webhook.Job(nil), q.jobs[q.head:]...)
		q.head = 0
	}
	return job, true, nil
}

// Len returns the number of queued jobs
func (q *Queue) Len(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.jobs) - q.head), nil
}
