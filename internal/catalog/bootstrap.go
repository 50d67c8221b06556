package catalog

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 250 * time.Millisecond

// Bootstrap seeds an empty catalog from a directory of CSV snapshots. It is a
// no-op when the catalog already holds shows. A file lock next to the
// database keeps concurrent invocations from seeding twice.
//
// Expected files, all optional except shows.csv and signatures.csv:
//
//	artists.csv        artist_id,name,abbrev
//	shows.csv          shnid,artist_id,show_date,venue,city,source
//	checksum_files.csv md5key,shnid,label,filename
//	signatures.csv     md5key,shnid,base_filename,file_extension,audio_checksum
//	tracks.csv         shnid,disc_number,track_number,title,gazinta
func (s *Store) Bootstrap(ctx context.Context, snapshotDir string) error {
	if snapshotDir == "" {
		return errors.New("snapshot directory not configured")
	}

	lock := flock.New(s.path + ".bootstrap.lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire bootstrap lock: %w", err)
	}
	if !locked {
		return errors.New("bootstrap lock held by another process")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM shows").Scan(&count); err != nil {
		return fmt.Errorf("count shows: %w", err)
	}
	if count > 0 {
		return nil
	}

	loaders := []struct {
		name     string
		required bool
		fields   int
		insert   string
	}{
		{"artists.csv", false, 3, "INSERT INTO artists (artist_id, name, abbrev) VALUES (?, ?, ?)"},
		{"shows.csv", true, 6, "INSERT INTO shows (shnid, artist_id, show_date, venue, city, source) VALUES (?, ?, ?, ?, ?, ?)"},
		{"checksum_files.csv", false, 4, "INSERT INTO checksum_files (md5key, shnid, label, filename) VALUES (?, ?, ?, ?)"},
		{"signatures.csv", true, 5, "INSERT INTO signatures (md5key, shnid, base_filename, file_extension, audio_checksum) VALUES (?, ?, ?, ?, ?)"},
		{"tracks.csv", false, 5, "INSERT INTO tracks (shnid, disc_number, track_number, title, gazinta) VALUES (?, ?, ?, ?, ?)"},
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bootstrap tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, loader := range loaders {
		path := filepath.Join(snapshotDir, loader.name)
		file, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			if loader.required {
				return fmt.Errorf("snapshot file %s is required", loader.name)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("open snapshot %s: %w", loader.name, err)
		}

		if err := loadSnapshotFile(ctx, tx, file, loader.fields, loader.insert); err != nil {
			_ = file.Close()
			return fmt.Errorf("load %s: %w", loader.name, err)
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("close snapshot %s: %w", loader.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bootstrap: %w", err)
	}
	return nil
}

func loadSnapshotFile(ctx context.Context, tx *sql.Tx, r io.Reader, fields int, insert string) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = fields

	// Every snapshot file starts with a header row.
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("read header: %w", err)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		args := make([]any, len(record))
		for i, field := range record {
			args[i] = field
		}
		if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
}
