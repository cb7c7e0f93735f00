package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marcelsud/complaint-notifier/routes"
	"github.com/marcelsud/complaint-notifier/webhook"
	"github.com/marcelsud/complaint-notifier/webhook/payload"
	"github.com/rs/zerolog"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrSyncRoute    = errors.New("event is delivered synchronously")
)

// UseCase is what business logic calls to announce a domain event
type UseCase interface {
	Dispatch(ctx context.Context, event string, data any) error
	ComplaintCreated(ctx context.Context, e ComplaintCreatedEvent) error
	Enabled() bool
}

// Options is the configuration the dispatcher reads once at startup
type Options struct {
	Enabled     bool
	BaseURL     string
	MaxAttempts int
}

/* Dispatcher turns domain events into queued webhook jobs
 * Uses pointer semantics as it's an API, not data
 */
type Dispatcher struct {
	queue  webhook.Queue
	routes *routes.Loader
	opts   Options
	logger zerolog.Logger
	now    func() time.Time
}

// NewDispatcher creates a dispatcher with dependency injection
func NewDispatcher(q webhook.Queue, loader *routes.Loader, logger zerolog.Logger, opts Options) *Dispatcher {
	if opts.MaxAttempts < 0 {
		opts.MaxAttempts = webhook.DefaultMaxAttempts
	}
	return &Dispatcher{
		queue:  q,
		routes: loader,
		opts:   opts,
		logger: logger.With().Str("component", "dispatcher").Logger(),
		now:    time.Now,
	}
}

// Enabled reports whether dispatch calls reach the queue at all
func (d *Dispatcher) Enabled() bool {
	return d.opts.Enabled && d.opts.BaseURL != ""
}

/* Dispatch wraps data in an envelope and enqueues it without waiting for delivery
 * Queue failures are logged, never returned: only caller mistakes come back as errors
 */
func (d *Dispatcher) Dispatch(ctx context.Context, event string, data any) error {
	if !d.opts.Enabled {
		d.logger.Debug().Str("event", event).Msg("notifications disabled, skipping")
		return nil
	}
	if d.opts.BaseURL == "" {
		d.logger.Warn().Str("event", event).Msg("webhook base url not configured, skipping")
		return nil
	}

	route, err := d.routes.Get(event)
	if err != nil {
		d.logger.Warn().Str("event", event).Msg("no webhook route for event, dropping")
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
	if route.Sync {
		return fmt.Errorf("%w: %s", ErrSyncRoute, event)
	}

	env, err := payload.New(event, data, d.now())
	if err != nil {
		return fmt.Errorf("building envelope: %w", err)
	}

	job := webhook.NewJob(event, route.URL(d.opts.BaseURL), env, route.GetMaxAttempts(d.opts.MaxAttempts))
	if err := d.queue.Enqueue(ctx, job); err != nil {
		d.logger.Error().Err(err).Str("event", event).Str("job_id", job.ID).Msg("enqueueing webhook job")
		return nil
	}

	d.logger.Debug().Str("event", event).Str("job_id", job.ID).Msg("webhook job enqueued")
	return nil
}

// ComplaintCreated announces a newly filed complaint
func (d *Dispatcher) ComplaintCreated(ctx context.Context, e ComplaintCreatedEvent) error {
	return d.Dispatch(ctx, routes.ComplaintCreated, e)
}
