package reminder

import (
	"fmt"
	"time"

	"github.com/marcelsud/complaint-notifier/assignment"
)

const dateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day or zone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the civil date of t in loc
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return DateOf(t, time.UTC), nil
}

// AddDays normalizes across month and year boundaries
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC), time.UTC)
}

// At returns the instant hour:00 of d in loc
func (d Date) At(hour int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, 0, 0, 0, loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Deadline is the civil assignment date plus its offset; false when no offset is set
func Deadline(s assignment.Snapshot, loc *time.Location) (Date, bool) {
	if s.TargetDateOffsetDays == nil {
		return Date{}, false
	}
	return DateOf(s.AssignedDate, loc).AddDays(*s.TargetDateOffsetDays), true
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
