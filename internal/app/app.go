package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/complaint-notifier/assignment"
	"github.com/marcelsud/complaint-notifier/assignment/postgres"
	"github.com/marcelsud/complaint-notifier/config"
	"github.com/marcelsud/complaint-notifier/mail"
	"github.com/marcelsud/complaint-notifier/reminder"
	reminderredis "github.com/marcelsud/complaint-notifier/reminder/redis"
	"github.com/marcelsud/complaint-notifier/routes"
	"github.com/marcelsud/complaint-notifier/webhook"
	"github.com/marcelsud/complaint-notifier/webhook/memory"
	webhookredis "github.com/marcelsud/complaint-notifier/webhook/redis"
	"github.com/marcelsud/complaint-notifier/webhook/signature"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

/* Builders shared by the binaries under cmd/
 * Each one turns configuration into a ready component
 */

const ServiceName = "complaint-notifier"

var ErrNoDatabase = errors.New("DATABASE_URL is required for reminders")

// Logger creates the structured JSON logger used by every component
func Logger(cfg *config.Config) zerolog.Logger {
	return httplog.NewLogger(ServiceName, httplog.Options{
		JSON:     true,
		LogLevel: cfg.LogLevel,
	})
}

// Routes registers the configured event paths, then applies the optional routes file
func Routes(cfg *config.Config) (*routes.Loader, error) {
	loader := routes.NewLoader()
	defaults := []routes.Route{
		{Event: routes.ComplaintCreated, Path: cfg.WebhookComplaintCreatedPath},
		{Event: routes.TextRewrite, Path: cfg.WebhookTextRewritePath, Sync: true},
	}
	for _, r := range defaults {
		if err := loader.Register(r); err != nil {
			return nil, err
		}
	}

	if cfg.WebhookRoutesFile != "" {
		if err := loader.Load(cfg.WebhookRoutesFile); err != nil {
			return nil, fmt.Errorf("loading routes: %w", err)
		}
	}
	return loader, nil
}

// RedisClient connects to Redis when it is the queue backend, nil otherwise
func RedisClient(cfg *config.Config) (*goredis.Client, error) {
	if cfg.Backend() != webhook.Redis {
		return nil, nil
	}
	return webhookredis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

// Queue opens the delivery queue; the Redis client is nil for the memory backend
func Queue(cfg *config.Config) (webhook.Queue, *goredis.Client, error) {
	client, err := RedisClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return memory.NewQueue(), nil, nil
	}
	return webhookredis.NewQueue(client, webhookredis.DefaultKey), client, nil
}

// WorkerOptions translates configuration into delivery worker options
func WorkerOptions(cfg *config.Config, recorder webhook.Recorder) ([]webhook.WorkerOption, error) {
	opts := []webhook.WorkerOption{
		webhook.WithTimeout(cfg.WebhookTimeout()),
		webhook.WithPollInterval(cfg.WebhookPollInterval()),
		webhook.WithRecorder(recorder),
	}
	if cfg.WebhookSigningSecret != "" {
		secret, err := signature.ParseSecret(cfg.WebhookSigningSecret)
		if err != nil {
			return nil, fmt.Errorf("parsing WEBHOOK_SIGNING_SECRET: %w", err)
		}
		opts = append(opts, webhook.WithSecret(secret))
	}
	return opts, nil
}

// MailSender returns the configured reminder transport
func MailSender(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (mail.Sender, error) {
	switch cfg.MailProvider {
	case "ses":
		client, err := mail.NewSESClient(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		return mail.NewSESSender(client, cfg.MailFrom)
	default:
		return mail.NewLogSender(logger), nil
	}
}

// Ledger shares reminder claims through Redis when a client is available
func Ledger(client *goredis.Client) reminder.Ledger {
	if client == nil {
		return reminder.NewMemoryLedger()
	}
	return reminderredis.NewLedger(client, reminderredis.DefaultPrefix, reminderredis.DefaultTTL)
}

// Scanner wires the deadline scanner to Postgres; the caller closes the repository
func Scanner(ctx context.Context, cfg *config.Config, logger zerolog.Logger, ledger reminder.Ledger, recorder reminder.Recorder) (*reminder.Scanner, assignment.Repository, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, ErrNoDatabase
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	repo, err := postgres.NewRepository(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	sender, err := MailSender(ctx, cfg, logger)
	if err != nil {
		_ = repo.Close(ctx)
		return nil, nil, err
	}

	scanner := reminder.NewScanner(repo, assignment.NewResolver(repo), sender, loc, logger,
		reminder.WithLedger(ledger),
		reminder.WithRecorder(recorder),
	)
	return scanner, repo, nil
}
