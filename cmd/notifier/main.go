package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/marcelsud/complaint-notifier/config"
	"github.com/marcelsud/complaint-notifier/internal/app"
	"github.com/marcelsud/complaint-notifier/internal/http/chi"
	"github.com/marcelsud/complaint-notifier/metrics"
	"github.com/marcelsud/complaint-notifier/notification"
	"github.com/marcelsud/complaint-notifier/reminder"
	"github.com/marcelsud/complaint-notifier/webhook"
	"github.com/rs/zerolog"
)

const TIMEOUT = 30 * time.Second

/* notifier runs the delivery worker, the reminder scheduler and the HTTP API
 * in one process. Every component is built here and injected downwards.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	logger := app.Logger(cfg)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("notifier stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	loader, err := app.Routes(cfg)
	if err != nil {
		return err
	}

	queue, redisClient, err := app.Queue(cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var scheduler *reminder.Scheduler
	collector := metrics.NewQueueCollector(queue, nil)
	exporter, err := metrics.NewOTelExporter(collector)
	if err != nil {
		return err
	}
	defer exporter.Shutdown(context.WithoutCancel(ctx))

	workerOpts, err := app.WorkerOptions(cfg, exporter)
	if err != nil {
		return err
	}
	worker := webhook.NewWorker(queue, logger, workerOpts...)

	dispatcher := notification.NewDispatcher(queue, loader, logger, notification.Options{
		Enabled:     cfg.NotificationsEnabled,
		BaseURL:     cfg.WebhookBaseURL,
		MaxAttempts: cfg.WebhookMaxAttempts,
	})
	if cfg.NotificationsEnabled && !cfg.BaseURLConfigured() {
		logger.Warn().Msg("WEBHOOK_BASE_URL is empty, webhook notifications will be skipped")
	}

	deps := chi.Dependencies{
		Dispatcher:           dispatcher,
		Routes:               loader,
		Status:               collector,
		Metrics:              exporter.ServeHTTP(),
		NotificationsEnabled: cfg.NotificationsEnabled,
		BaseURLConfigured:    cfg.BaseURLConfigured(),
	}

	if cfg.ReminderEnabled {
		scanner, repo, err := app.Scanner(ctx, cfg, logger, app.Ledger(redisClient), exporter)
		switch {
		case errors.Is(err, app.ErrNoDatabase):
			logger.Warn().Msg("DATABASE_URL is empty, deadline reminders are disabled")
		case err != nil:
			return err
		default:
			defer repo.Close(context.WithoutCancel(ctx))
			scheduler = reminder.NewScheduler(scanner, scanner.Location(), cfg.ReminderHour, logger)
			collector = metrics.NewQueueCollector(queue, scheduler)
			deps.Status = collector
			deps.Reminders = scanner
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = worker.Run(ctx)
	}()
	if scheduler != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = scheduler.Run(ctx)
		}()
	}

	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      chi.Handlers(ctx, deps, logger),
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	logger.Info().Str("port", cfg.Port).Str("queue_backend", cfg.Backend().String()).Msg("listening")

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	err = <-errShutdown
	wg.Wait()
	return err
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("forcing closing the server: %w", err)
	}
}
