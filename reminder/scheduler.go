package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const DefaultHour = 9

// State is the lifecycle position of the Scheduler
type State int

const (
	StateIdle State = iota
	StateSleeping
	StateRunning
	StateStopped
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateSleeping:
		return "sleeping"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Runner performs one scan for a civil date
type Runner interface {
	Scan(ctx context.Context, today Date) (Report, error)
}

// NextRun returns the next hour:00 in loc strictly after now
func NextRun(now time.Time, hour int, loc *time.Location) time.Time {
	target := DateOf(now, loc).At(hour, loc)
	if !now.Before(target) {
		target = DateOf(now, loc).AddDays(1).At(hour, loc)
	}
	return target
}

/* Scheduler wakes once a day at a fixed civil hour and runs one scan
 * Uses pointer semantics as it's an API, not data
 */
type Scheduler struct {
	runner Runner
	loc    *time.Location
	hour   int
	logger zerolog.Logger
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error

	mu    sync.RWMutex
	state State
	next  time.Time
}

type SchedulerOption func(*Scheduler)

// WithClock replaces the time source and the cancellable sleep, for tests
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) SchedulerOption {
	return func(s *Scheduler) {
		s.now = now
		s.sleep = sleep
	}
}

func NewScheduler(runner Runner, loc *time.Location, hour int, logger zerolog.Logger, opts ...SchedulerOption) *Scheduler {
	if hour < 0 || hour > 23 {
		hour = DefaultHour
	}
	s := &Scheduler{
		runner: runner,
		loc:    loc,
		hour:   hour,
		logger: logger.With().Str("component", "reminder_scheduler").Logger(),
		now:    time.Now,
		sleep:  sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run loops until ctx is cancelled; it never returns a scan error
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.set(StateStopped, time.Time{})

	for {
		now := s.now()
		target := NextRun(now, s.hour, s.loc)
		s.set(StateSleeping, target)
		s.logger.Info().Time("next_run", target).Dur("in", target.Sub(now)).Msg("reminder scheduler sleeping")

		if err := s.sleep(ctx, target.Sub(now)); err != nil {
			s.logger.Info().Msg("reminder scheduler stopped")
			return nil
		}

		s.set(StateRunning, target)
		s.runOnce(ctx, DateOf(target, s.loc))
	}
}

func (s *Scheduler) runOnce(ctx context.Context, today Date) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Err(fmt.Errorf("panic: %v", r)).Stringer("date", today).Msg("deadline scan panicked")
		}
	}()

	if _, err := s.runner.Scan(ctx, today); err != nil {
		s.logger.Error().Err(err).Stringer("date", today).Msg("deadline scan failed")
	}
}

// State returns the current lifecycle state
func (s *Scheduler) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Next returns the planned wake-up, zero unless sleeping or running
func (s *Scheduler) Next() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.next
}

func (s *Scheduler) set(state State, next time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.next = next
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
