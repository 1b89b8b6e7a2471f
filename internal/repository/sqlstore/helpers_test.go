package sqlstore

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.Local)

func testClock() time.Time { return testNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// day returns noon of the given June 2025 day, local time.
func day(d int) time.Time {
	return time.Date(2025, 6, d, 12, 0, 0, 0, time.Local)
}

// openTestStore opens a SQLite file under t.TempDir(), separate from any production store.
func openTestStore(t *testing.T) (*Store, *Repositories) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tagtime_test.db")
	s, err := Open(context.Background(), Config{Dialect: DialectSQLite, DSN: path},
		WithLogger(discardLogger()), WithClock(testClock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, NewRepositories(s)
}

// newMockStore wraps a sqlmock pool in a Postgres-flavoured store.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, DialectPostgres, WithLogger(discardLogger()), WithClock(testClock)), mock
}

func countLinks(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM session_tag_links`).Scan(&n))
	return n
}

func countSessions(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n))
	return n
}
