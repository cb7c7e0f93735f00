package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxAttempts is the number of retries a job gets after its first attempt
const DefaultMaxAttempts = 3

var ErrInvalidJob = errors.New("invalid webhook job")

/* Job is one outbound webhook call waiting in the delivery queue
 * Uses value semantics: the worker hands copies back to the queue on retry
 */
type Job struct {
	ID           string    `json:"id"`
	Event        string    `json:"event"`
	TargetURL    string    `json:"target_url"`
	Payload      any       `json:"payload"`
	EnqueuedAt   time.Time `json:"enqueued_at"`
	AttemptCount int       `json:"attempt_count"`
	MaxAttempts  int       `json:"max_attempts"`
}

// NewJob creates a job that has not been attempted yet
func NewJob(event, targetURL string, payload any, maxAttempts int) Job {
	if maxAttempts < 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return Job{
		ID:           uuid.New().String(),
		Event:        event,
		TargetURL:    targetURL,
		Payload:      payload,
		EnqueuedAt:   time.Now(),
		AttemptCount: 0,
		MaxAttempts:  maxAttempts,
	}
}

// Validate checks the job can be delivered at all
func (j Job) Validate() error {
	if j.TargetURL == "" {
		return fmt.Errorf("%w: target url is empty", ErrInvalidJob)
	}
	if j.AttemptCount < 0 {
		return fmt.Errorf("%w: negative attempt count %d", ErrInvalidJob, j.AttemptCount)
	}
	if j.AttemptCount > j.MaxAttempts {
		return fmt.Errorf("%w: attempt count %d exceeds max attempts %d", ErrInvalidJob, j.AttemptCount, j.MaxAttempts)
	}
	return nil
}

// Body serializes the payload as the request body
func (j Job) Body() ([]byte, error) {
	body, err := json.Marshal(j.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}
	return body, nil
}

// Failed returns the job after one more failed attempt and whether it may be retried.
// A job whose attempt count would pass MaxAttempts is exhausted and must be dropped.
func (j Job) Failed() (Job, bool) {
	j.AttemptCount++
	return j, j.AttemptCount <= j.MaxAttempts
}

// Backoff returns the delay before re-enqueueing after the given failed attempt: 2^attempt seconds
func Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return time.Duration(1<<uint(attempt)) * time.Second
}
