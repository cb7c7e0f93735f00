package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/complaint-notifier/metrics"
	"github.com/marcelsud/complaint-notifier/notification"
	"github.com/marcelsud/complaint-notifier/reminder"
	"github.com/marcelsud/complaint-notifier/routes"
	"github.com/rs/zerolog"
)

// StatusSource reports the operational snapshot
type StatusSource interface {
	Collect(ctx context.Context) (metrics.Snapshot, error)
}

// ReminderRunner runs a deadline scan on demand
type ReminderRunner interface {
	Scan(ctx context.Context, today reminder.Date) (reminder.Report, error)
	Today() reminder.Date
}

/* Dependencies are the components served over HTTP
 * Reminders and Metrics may be nil when the feature is off
 */
type Dependencies struct {
	Dispatcher           notification.UseCase
	Routes               *routes.Loader
	Status               StatusSource
	Reminders            ReminderRunner
	Metrics              http.Handler
	NotificationsEnabled bool
	BaseURLConfigured    bool
}

// Handlers sets up the notifier API
func Handlers(ctx context.Context, deps Dependencies, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger, []string{"/health", "/metrics"}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Method(http.MethodGet, "/notifications/status", getStatus(deps))
		r.Method(http.MethodPost, "/events/{event}", postEvent(deps.Dispatcher, logger))
		r.Method(http.MethodPost, "/reminders/run", postReminderRun(deps.Reminders, logger))
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
