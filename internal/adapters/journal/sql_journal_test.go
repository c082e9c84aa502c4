package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-solver-service/internal/ports"
)

var _ ports.SolveJournal = (*SQLJournal)(nil)

func openTestJournal(t *testing.T) *SQLJournal {
	t.Helper()
	j, db, err := OpenSqlite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return j
}

func TestSQLJournalRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	base := time.UnixMilli(1_700_000_000_000)
	for i, fp := range []string{"aaaaaaaa", "bbbbbbbb", "cccccccc"} {
		err := j.Record(ctx, ports.JournalEntry{
			Fingerprint:       fp,
			CityCount:         4 + i,
			InitialDistance:   50,
			OptimizedDistance: 40,
			OptimizationMs:    1.25,
			Transport:         "tcp",
			CreatedAt:         base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	got, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "cccccccc", got[0].Fingerprint)
	assert.Equal(t, "bbbbbbbb", got[1].Fingerprint)
	assert.Equal(t, 6, got[0].CityCount)
	assert.Equal(t, 40.0, got[0].OptimizedDistance)
	assert.Equal(t, 1.25, got[0].OptimizationMs)
	assert.NotEmpty(t, got[0].ID, "id is generated when missing")
	assert.True(t, got[0].CreatedAt.Equal(base.Add(2*time.Second)))
}

func TestSQLJournalValidates(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	require.Error(t, j.Record(ctx, ports.JournalEntry{Transport: "udp"}))

	got, err := j.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	var nilDB SQLJournal
	require.Error(t, nilDB.Record(ctx, ports.JournalEntry{Fingerprint: "x"}))
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	_, db, err := OpenSqlite(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, InitSchema(context.Background(), db))
	require.Error(t, InitSchema(context.Background(), nil))
}

func TestPlaceholders(t *testing.T) {
	pg := NewSQLJournal(nil, DialectPostgres)
	lite := NewSQLJournal(nil, DialectSQLite)

	assert.Equal(t, "$1, $2, $3", pg.placeholders(3))
	assert.Equal(t, "?, ?", lite.placeholders(2))
}
