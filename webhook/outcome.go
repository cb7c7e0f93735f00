package webhook

/* Outcome is what happened to a job after one delivery attempt
 * Delivered and Dropped are terminal: the job leaves the system
 */
type Outcome int

const (
	Delivered Outcome = iota + 1
	Retrying
	Dropped
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Retrying:
		return "retrying"
	case Dropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// IsFinal returns true if the job is gone after this outcome
func (o Outcome) IsFinal() bool {
	return o == Delivered || o == Dropped
}
