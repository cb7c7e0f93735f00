package reminder_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/marcelsud/complaint-notifier/reminder"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerFunc func(ctx context.Context, today reminder.Date) (reminder.Report, error)

func (f runnerFunc) Scan(ctx context.Context, today reminder.Date) (reminder.Report, error) {
	return f(ctx, today)
}

// fakeClock advances on every sleep and cancels after a number of wake-ups
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	slept   []time.Duration
	wakeups int
	cancel  context.CancelFunc
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slept = append(c.slept, d)
	if len(c.slept) > c.wakeups {
		c.cancel()
		return ctx.Err()
	}
	c.now = c.now.Add(d)
	return nil
}

func TestScheduler_WakesDailyAtTheHour(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := &fakeClock{now: time.Date(2025, time.January, 8, 8, 0, 0, 0, ict), wakeups: 2, cancel: cancel}

	var dates []reminder.Date
	runner := runnerFunc(func(_ context.Context, today reminder.Date) (reminder.Report, error) {
		dates = append(dates, today)
		return reminder.Report{Date: today}, nil
	})

	s := reminder.NewScheduler(runner, ict, 9, zerolog.Nop(), reminder.WithClock(clock.Now, clock.Sleep))
	assert.Equal(t, reminder.StateIdle, s.State())

	require.NoError(t, s.Run(ctx))

	assert.Equal(t, []time.Duration{time.Hour, 24 * time.Hour, 24 * time.Hour}, clock.slept)
	assert.Equal(t, []reminder.Date{day(2025, time.January, 8), day(2025, time.January, 9)}, dates)
	assert.Equal(t, reminder.StateStopped, s.State())
	assert.True(t, s.Next().IsZero())
}

func TestScheduler_StartAfterTheHourWaitsForTomorrow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := &fakeClock{now: time.Date(2025, time.January, 8, 9, 30, 0, 0, ict), wakeups: 0, cancel: cancel}
	runner := runnerFunc(func(context.Context, reminder.Date) (reminder.Report, error) {
		t.Fatal("scan must not run when cancelled during sleep")
		return reminder.Report{}, nil
	})

	s := reminder.NewScheduler(runner, ict, 9, zerolog.Nop(), reminder.WithClock(clock.Now, clock.Sleep))
	require.NoError(t, s.Run(ctx))

	assert.Equal(t, []time.Duration{23*time.Hour + 30*time.Minute}, clock.slept)
}

func TestScheduler_SurvivesScanFaults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := &fakeClock{now: time.Date(2025, time.January, 8, 8, 0, 0, 0, ict), wakeups: 3, cancel: cancel}

	calls := 0
	runner := runnerFunc(func(context.Context, reminder.Date) (reminder.Report, error) {
		calls++
		switch calls {
		case 1:
			panic("nil map")
		case 2:
			return reminder.Report{}, errors.New("db down")
		}
		return reminder.Report{}, nil
	})

	s := reminder.NewScheduler(runner, ict, 9, zerolog.Nop(), reminder.WithClock(clock.Now, clock.Sleep))
	require.NoError(t, s.Run(ctx))

	assert.Equal(t, 3, calls)
}

func TestScheduler_StateWhileSleeping(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Date(2025, time.January, 8, 8, 0, 0, 0, ict)
	sleeping := make(chan struct{})
	sleep := func(ctx context.Context, _ time.Duration) error {
		close(sleeping)
		<-ctx.Done()
		return ctx.Err()
	}

	s := reminder.NewScheduler(runnerFunc(nil), ict, 9, zerolog.Nop(), reminder.WithClock(func() time.Time { return now }, sleep))

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	<-sleeping
	assert.Equal(t, reminder.StateSleeping, s.State())
	assert.True(t, time.Date(2025, time.January, 8, 9, 0, 0, 0, ict).Equal(s.Next()))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	assert.Equal(t, reminder.StateStopped, s.State())
}

func TestScheduler_RealSleepIsCancellable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := reminder.NewScheduler(runnerFunc(nil), ict, 9, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", reminder.StateIdle.String())
	assert.Equal(t, "sleeping", reminder.StateSleeping.String())
	assert.Equal(t, "running", reminder.StateRunning.String())
	assert.Equal(t, "stopped", reminder.StateStopped.String())
}
