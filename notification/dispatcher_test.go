package notification_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/marcelsud/complaint-notifier/notification"
	"github.com/marcelsud/complaint-notifier/routes"
	"github.com/marcelsud/complaint-notifier/webhook"
	"github.com/marcelsud/complaint-notifier/webhook/memory"
	"github.com/marcelsud/complaint-notifier/webhook/mocks"
	"github.com/marcelsud/complaint-notifier/webhook/payload"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testRoutes(t *testing.T) *routes.Loader {
	t.Helper()
	loader := routes.NewLoader()
	require.NoError(t, loader.Register(routes.Route{Event: routes.ComplaintCreated, Path: "/webhook/complaint-created"}))
	require.NoError(t, loader.Register(routes.Route{Event: routes.TextRewrite, Path: "/webhook/text-rewrite", Sync: true}))
	return loader
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("success - enqueues envelope for route", func(t *testing.T) {
		q := mocks.NewQueue(t)
		d := notification.NewDispatcher(q, testRoutes(t), zerolog.Nop(), notification.Options{
			Enabled:     true,
			BaseURL:     "https://automation.local/",
			MaxAttempts: 3,
		})

		q.On("Enqueue", ctx, webhook.MatchJob(func(job webhook.Job) bool {
			env, ok := job.Payload.(payload.Envelope)
			return ok &&
				job.TargetURL == "https://automation.local/webhook/complaint-created" &&
				job.Event == routes.ComplaintCreated &&
				job.AttemptCount == 0 &&
				job.MaxAttempts == 3 &&
				env.Event == routes.ComplaintCreated
		})).Return(nil)

		err := d.ComplaintCreated(ctx, notification.ComplaintCreatedEvent{
			ComplaintID: 42,
			TicketID:    "TCK-0042",
			Subject:     "Broken street light",
			Status:      "New",
			CreatedAt:   time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
		})

		require.NoError(t, err)
		assert.True(t, d.Enabled())
	})

	t.Run("disabled - enqueues nothing for any input", func(t *testing.T) {
		q := mocks.NewQueue(t)
		d := notification.NewDispatcher(q, testRoutes(t), zerolog.Nop(), notification.Options{
			Enabled: false,
			BaseURL: "https://automation.local",
		})

		require.NoError(t, d.ComplaintCreated(ctx, notification.ComplaintCreatedEvent{ComplaintID: 1}))
		require.NoError(t, d.Dispatch(ctx, "no.such.event", nil))
		require.NoError(t, d.Dispatch(ctx, "", make(chan int)))

		q.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
		assert.False(t, d.Enabled())
	})

	t.Run("no base url - skips", func(t *testing.T) {
		q := mocks.NewQueue(t)
		d := notification.NewDispatcher(q, testRoutes(t), zerolog.Nop(), notification.Options{Enabled: true})

		require.NoError(t, d.ComplaintCreated(ctx, notification.ComplaintCreatedEvent{ComplaintID: 1}))
		q.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
		assert.False(t, d.Enabled())
	})

	t.Run("unknown event", func(t *testing.T) {
		q := mocks.NewQueue(t)
		var logs bytes.Buffer
		d := notification.NewDispatcher(q, testRoutes(t), zerolog.New(&logs), notification.Options{Enabled: true, BaseURL: "http://x"})

		err := d.Dispatch(ctx, "complaint.deleted", map[string]int{"id": 1})
		assert.ErrorIs(t, err, notification.ErrUnknownEvent)
		assert.Contains(t, logs.String(), `"level":"warn"`)
		assert.Contains(t, logs.String(), `"event":"complaint.deleted"`)
	})

	t.Run("synchronous route is not queued", func(t *testing.T) {
		q := mocks.NewQueue(t)
		d := notification.NewDispatcher(q, testRoutes(t), zerolog.Nop(), notification.Options{Enabled: true, BaseURL: "http://x"})

		err := d.Dispatch(ctx, routes.TextRewrite, map[string]string{"text": "hello"})
		assert.ErrorIs(t, err, notification.ErrSyncRoute)
	})

	t.Run("queue failure is swallowed", func(t *testing.T) {
		q := mocks.NewQueue(t)
		d := notification.NewDispatcher(q, testRoutes(t), zerolog.Nop(), notification.Options{Enabled: true, BaseURL: "http://x"})

		q.On("Enqueue", ctx, mock.AnythingOfType("webhook.Job")).Return(errors.New("redis down"))

		err := d.ComplaintCreated(ctx, notification.ComplaintCreatedEvent{ComplaintID: 9})
		assert.NoError(t, err)
	})

	t.Run("route max attempts override", func(t *testing.T) {
		loader := testRoutes(t)
		five := 5
		require.NoError(t, loader.Register(routes.Route{Event: "complaint.assigned", Path: "/assigned", MaxAttempts: &five}))

		q := mocks.NewQueue(t)
		d := notification.NewDispatcher(q, loader, zerolog.Nop(), notification.Options{Enabled: true, BaseURL: "http://x", MaxAttempts: 3})
		q.On("Enqueue", ctx, webhook.MatchJob(func(job webhook.Job) bool {
			return job.MaxAttempts == 5
		})).Return(nil)

		require.NoError(t, d.Dispatch(ctx, "complaint.assigned", map[string]int{"assignment_id": 15}))
	})
}

func TestDispatch_EnvelopeBody(t *testing.T) {
	ctx := context.Background()
	q := memory.NewQueue()
	d := notification.NewDispatcher(q, testRoutes(t), zerolog.Nop(), notification.Options{Enabled: true, BaseURL: "http://x"})

	require.NoError(t, d.ComplaintCreated(ctx, notification.ComplaintCreatedEvent{ComplaintID: 42, TicketID: "TCK-42", Subject: "Noise"}))

	job, ok, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	body, err := job.Body()
	require.NoError(t, err)

	var decoded struct {
		Event     string          `json:"event"`
		Timestamp string          `json:"timestamp"`
		Data      json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, routes.ComplaintCreated, decoded.Event)
	assert.NotEmpty(t, decoded.Timestamp)

	var data map[string]any
	require.NoError(t, json.Unmarshal(decoded.Data, &data))
	assert.Equal(t, float64(42), data["complaint_id"])
	assert.Equal(t, "TCK-42", data["ticket_id"])
}
