package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"showtag/internal/config"
)

// Store provides read and write access to the reference catalog backed by
// SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.Catalog.Path)
}

// OpenPath connects to the catalog database at the given path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the database file path backing the store.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Stats summarizes the catalog contents.
type Stats struct {
	Artists       int64
	Shows         int64
	ChecksumFiles int64
	Signatures    int64
	Tracks        int64
}

// Stats counts the rows in each catalog table.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	counts := []struct {
		table string
		dest  *int64
	}{
		{"artists", &stats.Artists},
		{"shows", &stats.Shows},
		{"checksum_files", &stats.ChecksumFiles},
		{"signatures", &stats.Signatures},
		{"tracks", &stats.Tracks},
	}
	for _, count := range counts {
		row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+count.table)
		if err := row.Scan(count.dest); err != nil {
			return Stats{}, fmt.Errorf("count %s: %w", count.table, err)
		}
	}
	return stats, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
