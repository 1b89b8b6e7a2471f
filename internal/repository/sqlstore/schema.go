package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/pressly/goose/v3"

	"tagtime/internal/domain"
)

//go:embed migrations
var migrationsFS embed.FS

type columnKind int

const (
	kindInteger columnKind = iota
	kindText
)

func (k columnKind) matches(declared string) bool {
	t := strings.ToUpper(declared)
	switch k {
	case kindInteger:
		return strings.Contains(t, "INT")
	case kindText:
		return strings.Contains(t, "TEXT") || strings.Contains(t, "CHAR")
	}
	return false
}

type expectedTable struct {
	name    string
	columns map[string]columnKind
}

var expectedSchema = []expectedTable{
	{name: "sessions", columns: map[string]columnKind{"duration": kindInteger, "date": kindInteger}},
	{name: "tags", columns: map[string]columnKind{"name": kindText}},
	{name: "session_tag_links", columns: map[string]columnKind{"session_id": kindInteger, "tag_id": kindInteger}},
}

func (s *Store) migrationProvider() (*goose.Provider, error) {
	fsys, err := fs.Sub(migrationsFS, s.dialect.migrationsDir())
	if err != nil {
		return nil, fmt.Errorf("migrations sub-fs: %w", err)
	}
	provider, err := goose.NewProvider(s.dialect.gooseDialect(), s.db, fsys)
	if err != nil {
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	return provider, nil
}

// migrate creates the schema when absent. Upgrading a store written by a newer binary
// is not supported.
func (s *Store) migrate(ctx context.Context) error {
	provider, err := s.migrationProvider()
	if err != nil {
		return err
	}
	current, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	var latest int64
	for _, src := range provider.ListSources() {
		if src.Version > latest {
			latest = src.Version
		}
	}
	if current > latest {
		return fmt.Errorf("%w: store is at version %d, newest known is %d", domain.ErrUnsupportedMigration, current, latest)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		s.logger.InfoContext(ctx, "schema migration applied",
			"version", r.Source.Version,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int64, error) {
	provider, err := s.migrationProvider()
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}

// ValidateSchema reports whether all three tables exist with the expected column types.
// It is meant for diagnostics and tests, not the request path.
func (s *Store) ValidateSchema(ctx context.Context) (bool, error) {
	for _, table := range expectedSchema {
		cols, err := s.tableColumns(ctx, table.name)
		if err != nil {
			return false, fmt.Errorf("inspect %s: %w", table.name, err)
		}
		if len(cols) == 0 {
			return false, nil
		}
		for name, kind := range table.columns {
			declared, ok := cols[name]
			if !ok || !kind.matches(declared) {
				return false, nil
			}
		}
	}
	return true, nil
}

// tableColumns maps column name to declared type. A missing table yields an empty map.
func (s *Store) tableColumns(ctx context.Context, table string) (map[string]string, error) {
	query := `SELECT name, type FROM pragma_table_info(?)`
	if s.dialect == DialectPostgres {
		query = `SELECT column_name, data_type FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = ?`
	}
	rows, err := s.reader().query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]string)
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, err
		}
		cols[name] = typ
	}
	return cols, rows.Err()
}
