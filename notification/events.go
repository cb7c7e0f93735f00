package notification

import "time"

// ComplaintCreatedEvent is the data block of a complaint.created envelope
type ComplaintCreatedEvent struct {
	ComplaintID  int64     `json:"complaint_id"`
	TicketID     string    `json:"ticket_id"`
	Subject      string    `json:"subject"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category,omitempty"`
	Priority     string    `json:"priority,omitempty"`
	Status       string    `json:"status"`
	ReporterName string    `json:"reporter_name,omitempty"`
	DepartmentID *int64    `json:"department_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
