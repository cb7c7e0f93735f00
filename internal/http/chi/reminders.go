package chi

import (
	"net/http"

	"github.com/marcelsud/complaint-notifier/reminder"
	"github.com/rs/zerolog"
)

// postReminderRun handles POST /v1/reminders/run?date=YYYY-MM-DD, defaulting to today
func postReminderRun(runner ReminderRunner, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if runner == nil {
			http.Error(w, "reminders are disabled", http.StatusServiceUnavailable)
			return
		}

		today := runner.Today()
		if raw := r.URL.Query().Get("date"); raw != "" {
			d, err := reminder.ParseDate(raw)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			today = d
		}

		report, err := runner.Scan(r.Context(), today)
		if err != nil {
			logger.Error().Err(err).Stringer("date", today).Msg("manual deadline scan")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, report)
	})
}
