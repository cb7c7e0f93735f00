package payload

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// eventNamePattern validates event names: hierarchical, full-stop delimited, [a-zA-Z0-9_.]
var eventNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+(\.[a-zA-Z0-9_]+)*$`)

// Envelope is the stable body posted to every webhook endpoint
type Envelope struct {
	// Event names what happened, e.g. "complaint.created"
	Event string `json:"event"`

	// Timestamp is when the event was dispatched, RFC 3339 in UTC
	Timestamp time.Time `json:"timestamp"`

	// Data carries the domain fields of the event
	Data json.RawMessage `json:"data"`
}

// Validate validates the envelope structure
func (e Envelope) Validate() error {
	if err := ValidateEventName(e.Event); err != nil {
		return err
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	if len(e.Data) == 0 {
		return fmt.Errorf("data is required")
	}
	if !json.Valid(e.Data) {
		return fmt.Errorf("data must be valid JSON")
	}
	return nil
}

// MarshalJSON keeps the timestamp in RFC3339Nano UTC
func (e Envelope) MarshalJSON() ([]byte, error) {
	type alias Envelope
	return json.Marshal(&struct {
		Timestamp string `json:"timestamp"`
		*alias
	}{
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
		alias:     (*alias)(&e),
	})
}

// UnmarshalJSON parses the JSON-encoded data and stores the result
func (e *Envelope) UnmarshalJSON(data []byte) error {
	type alias Envelope
	aux := &struct {
		Timestamp string `json:"timestamp"`
		*alias
	}{
		alias: (*alias)(e),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("unmarshaling envelope: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, aux.Timestamp)
	if err != nil {
		return fmt.Errorf("parsing timestamp: %w", err)
	}
	e.Timestamp = ts
	return nil
}

// New wraps data in an envelope stamped with now
func New(event string, data any, now time.Time) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshaling data: %w", err)
	}

	env := Envelope{
		Event:     event,
		Timestamp: now.UTC(),
		Data:      raw,
	}
	if err := env.Validate(); err != nil {
		return Envelope{}, fmt.Errorf("validating envelope: %w", err)
	}
	return env, nil
}

// Parse parses and validates a JSON envelope
func Parse(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	if err := env.Validate(); err != nil {
		return Envelope{}, fmt.Errorf("validating envelope: %w", err)
	}
	return env, nil
}

// ValidateEventName validates an event name format
func ValidateEventName(event string) error {
	if event == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if !eventNamePattern.MatchString(event) {
		return fmt.Errorf("event name must be hierarchical and contain only [a-zA-Z0-9_.]: %s", event)
	}
	return nil
}
