package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes reminders to the log instead of mailing them
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger.With().Str("component", "mail").Logger()}
}

func (s *LogSender) SendDeadlineReminder(_ context.Context, r Reminder) error {
	if err := r.Validate(); err != nil {
		return err
	}
	subject, _, err := Render(r)
	if err != nil {
		return err
	}
	s.logger.Info().
		Str("to", r.RecipientEmail).
		Int64("complaint_id", r.ComplaintID).
		Str("ticket_id", r.TicketID).
		Str("deadline", r.DeadlineDate).
		Str("subject", subject).
		Msg("deadline reminder")
	return nil
}
