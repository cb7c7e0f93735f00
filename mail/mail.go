package mail

import (
	"context"
	"errors"
	"strings"
)

var ErrNoRecipient = errors.New("reminder has no recipient email")

// Reminder is one deadline reminder for one recipient
type Reminder struct {
	RecipientEmail   string
	RecipientName    string
	ComplaintSubject string
	ComplaintID      int64
	TicketID         string
	// DeadlineDate is the civil date, formatted 2006-01-02
	DeadlineDate string
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.RecipientEmail) == "" {
		return ErrNoRecipient
	}
	return nil
}

// Sender delivers deadline reminders
type Sender interface {
	SendDeadlineReminder(ctx context.Context, r Reminder) error
}
