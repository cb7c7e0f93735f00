package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/complaint-notifier/reminder"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultPrefix = "reminders:sent:"
	DefaultTTL    = 72 * time.Hour
)

/* Ledger stores reminder claims as expiring Redis keys,
 * shared by every process that runs the scheduler
 */
type Ledger struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewLedger(client *redis.Client, prefix string, ttl time.Duration) *Ledger {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Ledger{client: client, prefix: prefix, ttl: ttl}
}

func (l *Ledger) key(complaintID int64, date reminder.Date) string {
	return l.prefix + reminder.LedgerKey(complaintID, date)
}

func (l *Ledger) Claim(ctx context.Context, complaintID int64, date reminder.Date) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(complaintID, date), time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claiming reminder for complaint %d: %w", complaintID, err)
	}
	return ok, nil
}

func (l *Ledger) Release(ctx context.Context, complaintID int64, date reminder.Date) error {
	if err := l.client.Del(ctx, l.key(complaintID, date)).Err(); err != nil {
		return fmt.Errorf("releasing reminder for complaint %d: %w", complaintID, err)
	}
	return nil
}
