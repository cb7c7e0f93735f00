package mail

import (
	"bytes"
	"fmt"
	"text/template"
)

var (
	subjectTemplate = template.Must(template.New("subject").Parse(
		`[{{ .TicketID }}] Deadline today: {{ .ComplaintSubject }}`))

	bodyTemplate = template.Must(template.New("body").Parse(`Hello {{ if .RecipientName }}{{ .RecipientName }}{{ else }}there{{ end }},

The complaint below reaches its target date today ({{ .DeadlineDate }}).

  Ticket:    {{ .TicketID }}
  Subject:   {{ .ComplaintSubject }}
  Complaint: #{{ .ComplaintID }}

Please review it and update its status.
`))
)

// Render returns the subject and plain-text body of a reminder
func Render(r Reminder) (string, string, error) {
	var subject, body bytes.Buffer
	if err := subjectTemplate.Execute(&subject, r); err != nil {
		return "", "", fmt.Errorf("rendering subject: %w", err)
	}
	if err := bodyTemplate.Execute(&body, r); err != nil {
		return "", "", fmt.Errorf("rendering body: %w", err)
	}
	return subject.String(), body.String(), nil
}
