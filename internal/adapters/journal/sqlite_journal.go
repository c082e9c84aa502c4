package journal

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver.
	_ "modernc.org/sqlite"
)

// OpenSqlite opens (creating if needed) a SQLite journal at dsn and makes
// sure the schema exists.
func OpenSqlite(ctx context.Context, dsn string) (*SQLJournal, *sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite journal %q: %w", dsn, err)
	}

	// SQLite serializes writers; one connection also keeps ":memory:"
	// databases from splitting into several independent copies.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("open sqlite journal: verify connection to %q: %w", dsn, err)
	}

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("open sqlite journal: %w", err)
	}

	return NewSQLJournal(db, DialectSQLite), db, nil
}
