package ports

import (
	"context"
	"time"
)

// One computed solve, as recorded in the audit journal.
type JournalEntry struct {
	ID                string
	Fingerprint       string
	CityCount         int
	InitialDistance   float64
	OptimizedDistance float64
	OptimizationMs    float64
	Transport         string
	CreatedAt         time.Time
}

// Port: an append-only record of computed solves.
// The journal is never read back into the result cache.
type SolveJournal interface {
	Record(ctx context.Context, entry JournalEntry) error
	Recent(ctx context.Context, limit int) ([]JournalEntry, error)
}
