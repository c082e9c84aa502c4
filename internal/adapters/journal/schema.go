package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the journal table and indexes if they do not exist.
// The statements are valid for both SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createJournalQuery := `
	CREATE TABLE IF NOT EXISTS solve_journal (
		id TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		city_count INTEGER NOT NULL,
		initial_distance DOUBLE PRECISION NOT NULL,
		optimized_distance DOUBLE PRECISION NOT NULL,
		optimization_ms DOUBLE PRECISION NOT NULL,
		transport TEXT NOT NULL,
		created_at_ms BIGINT NOT NULL
	);
	`

	createCreatedIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_solve_journal_created
	ON solve_journal(created_at_ms);
	`

	createFingerprintIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_solve_journal_fingerprint
	ON solve_journal(fingerprint);
	`

	statements := []string{
		createJournalQuery,
		createCreatedIndexQuery,
		createFingerprintIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
