package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcelsud/complaint-notifier/webhook"
	"github.com/redis/go-redis/v9"
)

/* Redis list implementation of webhook.Queue
 * LPUSH adds to the tail, RPOP takes from the head
 * Jobs survive a restart of this process but not a Redis flush
 */

const (
	DefaultKey     = "webhooks:queue"
	enqueueTimeout = 2 * time.Second
)

type Queue struct {
	client *redis.Client
	key    string
}

// NewClient connects to Redis and checks the connection
func NewClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}
	return client, nil
}

// NewQueue creates a queue stored under key on an existing client
func NewQueue(client *redis.Client, key string) *Queue {
	if key == "" {
		key = DefaultKey
	}
	return &Queue{client: client, key: key}
}

// storedJob keeps the payload as raw JSON so retries post identical bytes
type storedJob struct {
	webhook.Job
	Payload json.RawMessage `json:"payload"`
}

// Enqueue pushes a job to the tail of the list
func (q *Queue) Enqueue(ctx context.Context, job webhook.Job) error {
	body, err := job.Body()
	if err != nil {
		return err
	}
	data, err := json.Marshal(storedJob{Job: job, Payload: body})
	if err != nil {
		return fmt.Errorf("marshaling job: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, enqueueTimeout)
	defer cancel()

	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("pushing job: %w", err)
	}
	return nil
}

// Dequeue pops the head of the list without blocking
func (q *Queue) Dequeue(ctx context.Context) (webhook.Job, bool, error) {
	data, err := q.client.RPop(ctx, q.key).Bytes()
	if err == redis.Nil {
		return webhook.Job{}, false, nil
	}
	if err != nil {
		return webhook.Job{}, false, fmt.Errorf("popping job: %w", err)
	}

	var stored storedJob
	if err := json.Unmarshal(data, &stored); err != nil {
		return webhook.Job{}, false, fmt.Errorf("unmarshaling job: %w", err)
	}
	job := stored.Job
	job.Payload = stored.Payload
	return job, true, nil
}

// Len returns the number of queued jobs
func (q *Queue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("reading queue length: %w", err)
	}
	return n, nil
}
