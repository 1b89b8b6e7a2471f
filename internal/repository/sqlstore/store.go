// Package sqlstore persists sessions, tags and their links in a relational store.
//
// A Store holds one connection pool for its lifetime. Every logical mutation runs in a
// single transaction and writers are serialized, since the default backend is an
// embedded single-writer SQLite file. Readers take no lock.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"tagtime/internal/domain"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const (
	maxTxAttempts = 3
	txRetryDelay  = 50 * time.Millisecond
)

// Config describes how to reach the backing database.
type Config struct {
	Dialect      Dialect
	DSN          string
	MaxOpenConns int
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the logger used for schema and retry messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock sets the clock used to decide what "today" is when validating session dates.
func WithClock(clock domain.Clock) Option {
	return func(s *Store) { s.now = clock }
}

// Store owns the connection pool shared by all repositories.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
	now     domain.Clock

	writeMu sync.Mutex
}

// New wraps an already opened pool. It does not touch the schema.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: dialect,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects to the configured database and creates the schema if it is absent.
// It fails with domain.ErrUnsupportedMigration when the store was written by a newer
// schema version.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	dsn := cfg.DSN
	memory := false
	if cfg.Dialect == DialectSQLite {
		memory = dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
		if !memory && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		dsn = withPragmas(dsn)
	}

	db, err := openDB(cfg.Dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	switch {
	case memory:
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := New(db, cfg.Dialect, opts...)
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying pool for diagnostics.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect reports the SQL flavour of the store.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn binds a querier to the store dialect so repositories can write ? placeholders.
type conn struct {
	q       querier
	dialect Dialect
}

func (c conn) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.q.ExecContext(ctx, c.dialect.rebind(query), args...)
}

func (c conn) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.q.QueryContext(ctx, c.dialect.rebind(query), args...)
}

func (c conn) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.q.QueryRowContext(ctx, c.dialect.rebind(query), args...)
}

// reader returns a conn on the pool for lock-free reads.
func (s *Store) reader() conn {
	return conn{q: s.db, dialect: s.dialect}
}

// withTx runs fn in a transaction while holding the writer lock. Transient lock and
// serialization failures are retried; any other error rolls back and is returned as is.
func (s *Store) withTx(ctx context.Context, fn func(c conn) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.runTx(ctx, fn)
		if err == nil || !isTransient(err) || attempt == maxTxAttempts {
			return err
		}
		s.logger.WarnContext(ctx, "retrying transaction", "attempt", attempt, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * txRetryDelay):
		}
	}
	return err
}

func (s *Store) runTx(ctx context.Context, fn func(c conn) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(conn{q: tx, dialect: s.dialect}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// isTransient reports whether err is a lock or serialization conflict worth retrying.
func isTransient(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
		return false
	}
	var perr *pq.Error
	if errors.As(err, &perr) {
		// class 40: transaction rollback (serialization_failure, deadlock_detected)
		return perr.Code.Class() == "40"
	}
	return false
}
