package chi

import (
	"net/http"
	"time"
)

// routeResponse represents a route in the API
type routeResponse struct {
	Event       string `json:"event"`
	Path        string `json:"path"`
	MaxAttempts *int   `json:"max_attempts,omitempty"`
	Sync        bool   `json:"sync"`
}

// statusResponse is the operational view of the notifier
type statusResponse struct {
	NotificationsEnabled bool            `json:"notifications_enabled"`
	BaseURLConfigured    bool            `json:"base_url_configured"`
	Routes               []routeResponse `json:"routes"`
	QueueLength          int64           `json:"queue_length"`
	SchedulerState       string          `json:"scheduler_state"`
	NextRun              *time.Time      `json:"next_run,omitempty"`
}

// getStatus handles GET /v1/notifications/status
func getStatus(deps Dependencies) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := statusResponse{
			NotificationsEnabled: deps.NotificationsEnabled,
			BaseURLConfigured:    deps.BaseURLConfigured,
			Routes:               []routeResponse{},
		}

		if deps.Routes != nil {
			for _, route := range deps.Routes.List() {
				resp.Routes = append(resp.Routes, routeResponse{
					Event:       route.Event,
					Path:        route.Path,
					MaxAttempts: route.MaxAttempts,
					Sync:        route.Sync,
				})
			}
		}

		if deps.Status != nil {
			snap, err := deps.Status.Collect(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			resp.QueueLength = snap.QueueLength
			resp.SchedulerState = snap.SchedulerState
			resp.NextRun = snap.NextRun
		}

		writeJSON(w, http.StatusOK, resp)
	})
}
