package reminder

import (
	"context"
	"fmt"
	"sync"
)

// Ledger records which complaints were already reminded on a date
type Ledger interface {
	// Claim returns false when the complaint was already claimed for date
	Claim(ctx context.Context, complaintID int64, date Date) (bool, error)
	// Release undoes a claim so a later run may retry
	Release(ctx context.Context, complaintID int64, date Date) error
}

// LedgerKey is the identity of one reminder run entry
func LedgerKey(complaintID int64, date Date) string {
	return fmt.Sprintf("%d:%s", complaintID, date)
}

// MemoryLedger keeps claims for the lifetime of the process
type MemoryLedger struct {
	mu     sync.Mutex
	claims map[string]struct{}
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{claims: make(map[string]struct{})}
}

func (l *MemoryLedger) Claim(_ context.Context, complaintID int64, date Date) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := LedgerKey(complaintID, date)
	if _, ok := l.claims[key]; ok {
		return false, nil
	}
	l.claims[key] = struct{}{}
	return true, nil
}

func (l *MemoryLedger) Release(_ context.Context, complaintID int64, date Date) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.claims, LedgerKey(complaintID, date))
	return nil
}

type nopLedger struct{}

func (nopLedger) Claim(context.Context, int64, Date) (bool, error) { return true, nil }
func (nopLedger) Release(context.Context, int64, Date) error        { return nil }
