package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tour-solver-service/internal/platform/obs"
	"tour-solver-service/internal/ports"
)

// Placeholder style of the underlying driver.
type Dialect int

const (
	// $1, $2, ... (pgx).
	DialectPostgres Dialect = iota
	// ?, ?, ... (sqlite).
	DialectSQLite
)

// SQLJournal is a SQL-backed append-only log of computed solves.
type SQLJournal struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLJournal(db *sql.DB, dialect Dialect) *SQLJournal {
	return &SQLJournal{DB: db, Dialect: dialect}
}

func (s *SQLJournal) placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		if s.Dialect == DialectSQLite {
			ph[i] = "?"
		} else {
			ph[i] = fmt.Sprintf("$%d", i+1)
		}
	}
	return strings.Join(ph, ", ")
}

// Record appends one entry. A missing ID or timestamp is filled in.
func (s *SQLJournal) Record(ctx context.Context, e ports.JournalEntry) (err error) {
	defer obs.Time(ctx, "journal.Record")(&err)

	if s.DB == nil {
		return errors.New("solve journal: db is nil")
	}

	if strings.TrimSpace(e.Fingerprint) == "" {
		return errors.New("record solve: fingerprint must not be empty")
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	q := fmt.Sprintf(`
	INSERT INTO solve_journal (
		id,
		fingerprint,
		city_count,
		initial_distance,
		optimized_distance,
		optimization_ms,
		transport,
		created_at_ms
	)
	VALUES (%s);
	`, s.placeholders(8))

	_, err = s.DB.ExecContext(ctx, q,
		e.ID,
		e.Fingerprint,
		e.CityCount,
		e.InitialDistance,
		e.OptimizedDistance,
		e.OptimizationMs,
		e.Transport,
		e.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record solve fingerprint=%q: %w", e.Fingerprint, err)
	}

	return nil
}

// Recent returns up to limit entries, newest first.
func (s *SQLJournal) Recent(ctx context.Context, limit int) (_ []ports.JournalEntry, err error) {
	defer obs.Time(ctx, "journal.Recent")(&err)

	if s.DB == nil {
		return nil, errors.New("solve journal: db is nil")
	}

	if limit <= 0 {
		return []ports.JournalEntry{}, nil
	}

	q := fmt.Sprintf(`
	SELECT
		id,
		fingerprint,
		city_count,
		initial_distance,
		optimized_distance,
		optimization_ms,
		transport,
		created_at_ms
	FROM solve_journal
	ORDER BY created_at_ms DESC, id
	LIMIT %s;
	`, s.placeholders(1))

	rows, err := s.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list solves: query solve_journal table: %w", err)
	}
	defer rows.Close()

	out := make([]ports.JournalEntry, 0, limit)
	for rows.Next() {
		var e ports.JournalEntry
		var createdMs int64
		if err := rows.Scan(
			&e.ID,
			&e.Fingerprint,
			&e.CityCount,
			&e.InitialDistance,
			&e.OptimizedDistance,
			&e.OptimizationMs,
			&e.Transport,
			&createdMs,
		); err != nil {
			return nil, fmt.Errorf("list solves: scan row: %w", err)
		}
		e.CreatedAt = time.UnixMilli(createdMs)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list solves: row iteration: %w", err)
	}

	return out, nil
}
