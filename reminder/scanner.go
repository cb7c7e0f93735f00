package reminder

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/marcelsud/complaint-notifier/assignment"
	"github.com/marcelsud/complaint-notifier/mail"
	"github.com/rs/zerolog"
)

// RecipientResolver finds who is reminded for an assignment
type RecipientResolver interface {
	Resolve(ctx context.Context, s assignment.Snapshot) ([]assignment.Recipient, assignment.Tier, error)
}

// Recorder observes scan results
type Recorder interface {
	RecordScan(ctx context.Context, r Report)
}

type nopRecorder struct{}

func (nopRecorder) RecordScan(context.Context, Report) {}

// Report summarizes one scan
type Report struct {
	Date         Date          `json:"date"`
	Candidates   int           `json:"candidates"`
	Due          int           `json:"due"`
	Selected     int           `json:"selected"`
	Skipped      int           `json:"skipped"`
	NoRecipients int           `json:"no_recipients"`
	ResolveFails int           `json:"resolve_failures"`
	Sent         int           `json:"sent"`
	Failed       int           `json:"failed"`
	Duration     time.Duration `json:"duration"`
}

/* Scanner sends the deadline reminders due on one civil date
 * Uses pointer semantics as it's an API, not data
 */
type Scanner struct {
	reader   assignment.Reader
	resolver RecipientResolver
	sender   mail.Sender
	ledger   Ledger
	recorder Recorder
	loc      *time.Location
	logger   zerolog.Logger
	now      func() time.Time
}

type ScannerOption func(*Scanner)

// WithLedger skips complaints already reminded on the scanned date
func WithLedger(l Ledger) ScannerOption {
	return func(s *Scanner) {
		if l != nil {
			s.ledger = l
		}
	}
}

func WithRecorder(r Recorder) ScannerOption {
	return func(s *Scanner) {
		if r != nil {
			s.recorder = r
		}
	}
}

func NewScanner(reader assignment.Reader, resolver RecipientResolver, sender mail.Sender, loc *time.Location, logger zerolog.Logger, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		reader:   reader,
		resolver: resolver,
		sender:   sender,
		ledger:   nopLedger{},
		recorder: nopRecorder{},
		loc:      loc,
		logger:   logger.With().Str("component", "deadline_scanner").Logger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location is the civil timezone deadlines are computed in
func (s *Scanner) Location() *time.Location {
	return s.loc
}

// Today is the current civil date
func (s *Scanner) Today() Date {
	return DateOf(s.now(), s.loc)
}

/* Scan reminds everyone responsible for a complaint whose deadline is today.
 * Only a failure to load candidates is returned; everything per complaint is logged.
 */
func (s *Scanner) Scan(ctx context.Context, today Date) (Report, error) {
	start := s.now()
	report := Report{Date: today}
	log := s.logger.With().Stringer("date", today).Logger()

	candidates, err := s.reader.ListDue(ctx)
	if err != nil {
		return report, fmt.Errorf("loading assignments: %w", err)
	}
	report.Candidates = len(candidates)

	due := s.dueOn(candidates, today)
	report.Due = len(due)

	selected := latestPerComplaint(due)
	report.Selected = len(selected)

	for _, a := range selected {
		if ctx.Err() != nil {
			break
		}
		s.remind(ctx, log, a, today, &report)
	}

	report.Duration = s.now().Sub(start)
	log.Info().
		Int("candidates", report.Candidates).
		Int("due", report.Due).
		Int("selected", report.Selected).
		Int("skipped", report.Skipped).
		Int("no_recipients", report.NoRecipients).
		Int("sent", report.Sent).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("deadline scan finished")
	s.recorder.RecordScan(ctx, report)

	return report, nil
}

func (s *Scanner) dueOn(candidates []assignment.Snapshot, today Date) []assignment.Snapshot {
	var due []assignment.Snapshot
	for _, a := range candidates {
		if !a.Eligible() {
			continue
		}
		if deadline, ok := Deadline(a, s.loc); ok && deadline == today {
			due = append(due, a)
		}
	}
	return due
}

// latestPerComplaint keeps the assignment with the largest ID per complaint, ordered by complaint
func latestPerComplaint(in []assignment.Snapshot) []assignment.Snapshot {
	latest := make(map[int64]assignment.Snapshot, len(in))
	for _, a := range in {
		if cur, ok := latest[a.ComplaintID]; !ok || a.ID > cur.ID {
			latest[a.ComplaintID] = a
		}
	}

	out := make([]assignment.Snapshot, 0, len(latest))
	for _, a := range latest {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ComplaintID < out[j].ComplaintID })
	return out
}

func (s *Scanner) remind(ctx context.Context, log zerolog.Logger, a assignment.Snapshot, today Date, report *Report) {
	log = log.With().Int64("complaint_id", a.ComplaintID).Int64("assignment_id", a.ID).Logger()

	claimed, err := s.ledger.Claim(ctx, a.ComplaintID, today)
	if err != nil {
		log.Error().Err(err).Msg("claiming reminder, sending anyway")
		claimed = true
	}
	if !claimed {
		log.Debug().Msg("reminder already sent for this date")
		report.Skipped++
		return
	}

	recipients, tier, err := s.resolver.Resolve(ctx, a)
	if err != nil {
		log.Error().Err(err).Msg("resolving recipients")
		report.ResolveFails++
		s.release(ctx, log, a.ComplaintID, today)
		return
	}
	if len(recipients) == 0 {
		log.Warn().Stringer("tier", tier).Msg("no recipients for due assignment")
		report.NoRecipients++
		s.release(ctx, log, a.ComplaintID, today)
		return
	}

	sent := 0
	for _, r := range recipients {
		err := s.sender.SendDeadlineReminder(ctx, mail.Reminder{
			RecipientEmail:   r.Email,
			RecipientName:    r.DisplayName,
			ComplaintSubject: a.ComplaintSubject,
			ComplaintID:      a.ComplaintID,
			TicketID:         a.TicketID,
			DeadlineDate:     today.String(),
		})
		if err != nil {
			log.Error().Err(err).Str("to", r.Email).Msg("sending deadline reminder")
			report.Failed++
			continue
		}
		sent++
	}
	report.Sent += sent

	if sent == 0 {
		s.release(ctx, log, a.ComplaintID, today)
	}
}

func (s *Scanner) release(ctx context.Context, log zerolog.Logger, complaintID int64, today Date) {
	if err := s.ledger.Release(context.WithoutCancel(ctx), complaintID, today); err != nil {
		log.Error().Err(err).Msg("releasing reminder claim")
	}
}
