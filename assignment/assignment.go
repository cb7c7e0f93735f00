package assignment

import (
	"strings"
	"time"
)

// Complaint statuses after which no reminder is sent
const (
	StatusCompleted = "Completed"
	StatusClosed    = "Closed"
)

/* Snapshot is a read-only view of one routing record and its complaint
 * Owned by the CRUD application, never written here
 */
type Snapshot struct {
	ID                   int64
	ComplaintID          int64
	AssignedToUserID     *int64
	AssignedToGroupID    *int64
	AssignedToDeptID     *int64
	AssignedDate         time.Time
	TargetDateOffsetDays *int
	IsActive             bool
	ComplaintStatus      string
	ComplaintSubject     string
	TicketID             string
}

// IsTerminalStatus reports whether a complaint status ends the workflow
func IsTerminalStatus(status string) bool {
	s := strings.TrimSpace(status)
	return strings.EqualFold(s, StatusCompleted) || strings.EqualFold(s, StatusClosed)
}

// Eligible reports whether the assignment can carry a deadline reminder at all
func (s Snapshot) Eligible() bool {
	return s.IsActive && s.TargetDateOffsetDays != nil && !IsTerminalStatus(s.ComplaintStatus)
}

// Tier returns the precedence level that decides the recipients
func (s Snapshot) Tier() Tier {
	switch {
	case s.AssignedToUserID != nil:
		return TierUser
	case s.AssignedToGroupID != nil:
		return TierGroup
	case s.AssignedToDeptID != nil:
		return TierDepartment
	default:
		return TierNone
	}
}

// Recipient is who receives a reminder; derived per scan, never stored
type Recipient struct {
	Email       string
	DisplayName string
}
