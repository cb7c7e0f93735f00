package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/complaint-notifier/notification"
	"github.com/rs/zerolog"
)

const maxEventBody = 1 << 20

// eventResponse is returned once an event was handed to the dispatcher
type eventResponse struct {
	Event    string `json:"event"`
	Accepted bool   `json:"accepted"`
}

// postEvent handles POST /v1/events/{event}; the body is the event data
func postEvent(dispatcher notification.UseCase, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event := chi.URLParam(r, "event")

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBody))
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if !json.Valid(body) {
			http.Error(w, "request body must be a JSON value", http.StatusBadRequest)
			return
		}

		err = dispatcher.Dispatch(r.Context(), event, json.RawMessage(body))
		switch {
		case errors.Is(err, notification.ErrUnknownEvent):
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		case errors.Is(err, notification.ErrSyncRoute):
			http.Error(w, err.Error(), http.StatusConflict)
			return
		case err != nil:
			logger.Error().Err(err).Str("event", event).Msg("dispatching event")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusAccepted, eventResponse{Event: event, Accepted: dispatcher.Enabled()})
	})
}
