package webhook

import "fmt"

/* Backend selects where queued jobs live
 * Memory keeps jobs in process, Redis keeps them in a Redis list
 */
type Backend int

const (
	Memory Backend = iota + 1
	Redis
)

// String returns the string representation of the backend
func (b Backend) String() string {
	switch b {
	case Memory:
		return "memory"
	case Redis:
		return "redis"
	default:
		return "unknown"
	}
}

// NewBackend creates a Backend from a string, an empty string means Memory
func NewBackend(s string) Backend {
	switch s {
	case "", "memory":
		return Memory
	case "redis":
		return Redis
	default:
		return 0
	}
}

// Validate checks if the backend is valid
func (b Backend) Validate() error {
	if b != Memory && b != Redis {
		return fmt.Errorf("invalid queue backend: %d", b)
	}
	return nil
}
