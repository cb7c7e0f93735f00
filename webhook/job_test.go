package webhook_test

import (
	"testing"
	"time"

	"github.com/marcelsud/complaint-notifier/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJob(t *testing.T) {
	job := webhook.NewJob("complaint.created", "http://hooks.local", map[string]int{"id": 1}, 3)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, 0, job.AttemptCount)
	assert.Equal(t, 3, job.MaxAttempts)
	assert.False(t, job.EnqueuedAt.IsZero())
	require.NoError(t, job.Validate())

	job = webhook.NewJob("complaint.created", "http://hooks.local", nil, -1)
	assert.Equal(t, webhook.DefaultMaxAttempts, job.MaxAttempts)
}

func TestJob_Failed(t *testing.T) {
	job := webhook.NewJob("complaint.created", "http://hooks.local", nil, 3)

	var retries int
	for {
		next, retry := job.Failed()
		if !retry {
			assert.Equal(t, 4, next.AttemptCount)
			break
		}
		retries++
		assert.LessOrEqual(t, next.AttemptCount, next.MaxAttempts)
		require.NoError(t, next.Validate())
		job = next
	}
	assert.Equal(t, 3, retries)
}

func TestJob_Validate(t *testing.T) {
	t.Run("missing target", func(t *testing.T) {
		err := webhook.Job{MaxAttempts: 3}.Validate()
		assert.ErrorIs(t, err, webhook.ErrInvalidJob)
	})

	t.Run("attempts past max", func(t *testing.T) {
		err := webhook.Job{TargetURL: "http://x", AttemptCount: 4, MaxAttempts: 3}.Validate()
		assert.ErrorIs(t, err, webhook.ErrInvalidJob)
	})
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, webhook.Backoff(1))
	assert.Equal(t, 4*time.Second, webhook.Backoff(2))
	assert.Equal(t, 8*time.Second, webhook.Backoff(3))

	for attempt := 1; attempt < 10; attempt++ {
		assert.Greater(t, webhook.Backoff(attempt+1), webhook.Backoff(attempt))
	}
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "delivered", webhook.Delivered.String())
	assert.Equal(t, "retrying", webhook.Retrying.String())
	assert.Equal(t, "dropped", webhook.Dropped.String())
	assert.True(t, webhook.Dropped.IsFinal())
	assert.False(t, webhook.Retrying.IsFinal())
	assert.Equal(t, "unknown", webhook.Outcome(99).String())
}

func TestBackend(t *testing.T) {
	assert.Equal(t, webhook.Redis, webhook.NewBackend("redis"))
	assert.Equal(t, webhook.Memory, webhook.NewBackend("memory"))
	assert.Equal(t, webhook.Memory, webhook.NewBackend(""))
	assert.Error(t, webhook.Backend(0).Validate())
	assert.NoError(t, webhook.NewBackend("redis").Validate())

	unknown := webhook.NewBackend("kafka")
	assert.Equal(t, "unknown", unknown.String())
	assert.Error(t, unknown.Validate())
}
