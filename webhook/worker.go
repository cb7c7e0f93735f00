package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/marcelsud/complaint-notifier/webhook/signature"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 1 * time.Second
)

// Doer sends HTTP requests; *http.Client satisfies it
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned when the endpoint answers with a non-2xx status
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.StatusCode)
}

/* Worker is the single consumer of the delivery queue
 * Uses pointer semantics as it's an API, not data
 */
type Worker struct {
	queue        Queue
	client       Doer
	logger       zerolog.Logger
	recorder     Recorder
	secret       signature.Secret
	timeout      time.Duration
	pollInterval time.Duration
	backoff      func(attempt int) time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
	now          func() time.Time
}

// WorkerOption configures a Worker
type WorkerOption func(*Worker)

// WithClient replaces the HTTP client
func WithClient(c Doer) WorkerOption {
	return func(w *Worker) { w.client = c }
}

// WithTimeout bounds every POST
func WithTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithPollInterval sets how long the worker idles on an empty queue
func WithPollInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithRecorder reports delivery outcomes
func WithRecorder(r Recorder) WorkerOption {
	return func(w *Worker) {
		if r != nil {
			w.recorder = r
		}
	}
}

// WithSecret signs every request with Standard Webhooks headers
func WithSecret(s signature.Secret) WorkerOption {
	return func(w *Worker) { w.secret = s }
}

// WithBackoff replaces the retry delay function
func WithBackoff(f func(attempt int) time.Duration) WorkerOption {
	return func(w *Worker) { w.backoff = f }
}

// WithSleep replaces the cancellable sleep, for tests
func WithSleep(f func(ctx context.Context, d time.Duration) error) WorkerOption {
	return func(w *Worker) { w.sleep = f }
}

// NewWorker creates the delivery worker for a queue
func NewWorker(q Queue, logger zerolog.Logger, opts ...WorkerOption) *Worker {
	w := &Worker{
		queue:        q,
		logger:       logger.With().Str("component", "delivery_worker").Logger(),
		recorder:     nopRecorder{},
		timeout:      DefaultTimeout,
		pollInterval: DefaultPollInterval,
		backoff:      Backoff,
		sleep:        Sleep,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.client == nil {
		w.client = &http.Client{Timeout: w.timeout}
	}
	return w
}

// Run consumes the queue until ctx is cancelled
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Dur("poll_interval", w.pollInterval).Dur("timeout", w.timeout).Msg("delivery worker started")
	defer w.logger.Info().Msg("delivery worker stopped")

	for {
		processed, err := w.ProcessNext(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			w.logger.Error().Err(err).Msg("dequeueing job")
		}
		if processed {
			continue
		}
		if err := w.sleep(ctx, w.pollInterval); err != nil {
			return nil
		}
	}
}

// ProcessNext handles at most one job. It returns false when the queue was empty.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	job, ok, err := w.queue.Dequeue(ctx)
	if err != nil {
		return false, fmt.Errorf("dequeueing: %w", err)
	}
	if !ok {
		return false, nil
	}

	w.handle(ctx, job)
	return true, nil
}

func (w *Worker) handle(ctx context.Context, job Job) {
	log := w.logger.With().
		Str("job_id", job.ID).
		Str("event", job.Event).
		Str("target_url", job.TargetURL).
		Int("attempt", job.AttemptCount).
		Logger()

	if err := job.Validate(); err != nil {
		log.Error().Err(err).Msg("dropping invalid job")
		w.recorder.RecordDelivery(ctx, job.Event, Dropped)
		return
	}

	err := w.deliver(ctx, job)
	if err == nil {
		log.Info().Msg("webhook delivered")
		w.recorder.RecordDelivery(ctx, job.Event, Delivered)
		return
	}

	log = log.With().Int("status_code", StatusCode(err)).Logger()

	next, retry := job.Failed()
	if !retry {
		log.Error().Err(err).Int("max_attempts", job.MaxAttempts).Msg("webhook delivery failed permanently, dropping job")
		w.recorder.RecordDelivery(ctx, job.Event, Dropped)
		return
	}

	delay := w.backoff(next.AttemptCount)
	log.Warn().Err(err).Dur("backoff", delay).Msg("webhook delivery failed, retrying")
	w.recorder.RecordDelivery(ctx, job.Event, Retrying)

	if err := w.sleep(ctx, delay); err != nil {
		// Shutting down: hand the job back so a persistent backend keeps it.
		ctx = context.WithoutCancel(ctx)
	}
	if err := w.queue.Enqueue(ctx, next); err != nil {
		log.Error().Err(err).Msg("re-enqueueing job, dropping")
		w.recorder.RecordDelivery(ctx, job.Event, Dropped)
	}
}

func (w *Worker) deliver(ctx context.Context, job Job) error {
	body, err := job.Body()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, job.TargetURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if !w.secret.IsZero() {
		if err := signature.Apply(req.Header, w.secret, job.ID, w.now(), body); err != nil {
			return err
		}
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

// Sleep waits for d or until ctx is done, whichever comes first
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// StatusCode returns the response status carried by err, or 0 when the endpoint never answered
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
