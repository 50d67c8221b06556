package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound reports a catalog lookup with no matching row.
var ErrNotFound = errors.New("catalog: not found")

// Show is one recording of one performance: a dated show plus the lineage of
// this particular transfer, keyed by its shnid.
type Show struct {
	Shnid        int64
	ArtistID     int64
	ArtistName   string
	ArtistAbbrev string
	// Date is the show date in YYYY-MM-DD form.
	Date   string
	Venue  string
	City   string
	Source string
}

// Track is the catalog's metadata for one track of a recording.
type Track struct {
	Shnid int64
	Disc  int
	// Number is the track number within its disc.
	Number int
	Title  string
	// Gazinta marks a track that segues into the next one.
	Gazinta     bool
	Fingerprint string
	BitDepth    int
	Frequency   int
	Channels    int
	Length      string
	Filename    string
}

// Candidate identifies one checksum file whose signatures overlap a folder's
// audio checksums.
type Candidate struct {
	MD5Key string
	Shnid  int64
	// Label is the checksum file's descriptive name, for reporting.
	Label string
}

// Candidates returns every checksum file containing at least one of the given
// audio checksums.
func (s *Store) Candidates(ctx context.Context, checksums []string) ([]Candidate, error) {
	if len(checksums) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(checksums))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(checksums))
	for i, checksum := range checksums {
		args[i] = checksum
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT s.md5key, s.shnid, f.label
		 FROM signatures s
		 JOIN checksum_files f ON f.md5key = s.md5key
		 WHERE s.audio_checksum IN (`+placeholders+`)
		 ORDER BY s.shnid, s.md5key`, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.MD5Key, &c.Shnid, &c.Label); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return candidates, nil
}

// ChecksumSet returns every audio checksum recorded for one checksum file.
func (s *Store) ChecksumSet(ctx context.Context, md5key string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT audio_checksum FROM signatures WHERE md5key = ? ORDER BY audio_checksum", md5key)
	if err != nil {
		return nil, fmt.Errorf("query checksum set: %w", err)
	}
	defer rows.Close()

	var checksums []string
	for rows.Next() {
		var checksum string
		if err := rows.Scan(&checksum); err != nil {
			return nil, fmt.Errorf("scan checksum: %w", err)
		}
		checksums = append(checksums, checksum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checksums: %w", err)
	}
	return checksums, nil
}

// Show returns the show record for a shnid joined with its artist.
func (s *Store) Show(ctx context.Context, shnid int64) (*Show, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT sh.shnid, sh.artist_id, a.name, a.abbrev, sh.show_date, sh.venue, sh.city, sh.source
		 FROM shows sh JOIN artists a ON a.artist_id = sh.artist_id
		 WHERE sh.shnid = ?`, shnid)

	var show Show
	err := row.Scan(&show.Shnid, &show.ArtistID, &show.ArtistName, &show.ArtistAbbrev,
		&show.Date, &show.Venue, &show.City, &show.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("show %d: %w", shnid, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan show: %w", err)
	}
	return &show, nil
}

// Tracks returns the catalog track metadata for a recording in disc and track
// order. An empty slice means the catalog has no track data for the shnid.
func (s *Store) Tracks(ctx context.Context, shnid int64) ([]Track, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT shnid, disc_number, track_number, title, gazinta,
		        fingerprint, bit_depth, frequency, channels, length, filename
		 FROM tracks WHERE shnid = ?
		 ORDER BY disc_number, track_number`, shnid)
	if err != nil {
		return nil, fmt.Errorf("query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		var t Track
		if err := rows.Scan(&t.Shnid, &t.Disc, &t.Number, &t.Title, &t.Gazinta,
			&t.Fingerprint, &t.BitDepth, &t.Frequency, &t.Channels, &t.Length, &t.Filename); err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	return tracks, nil
}

// ReplaceTracks overwrites the catalog track metadata for a recording with
// freshly resolved data.
func (s *Store) ReplaceTracks(ctx context.Context, shnid int64, tracks []Track) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tracks tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tracks WHERE shnid = ?", shnid); err != nil {
		return fmt.Errorf("delete tracks: %w", err)
	}
	for _, t := range tracks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tracks (
			    shnid, disc_number, track_number, title, gazinta,
			    fingerprint, bit_depth, frequency, channels, length, filename
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			shnid, t.Disc, t.Number, t.Title, t.Gazinta,
			t.Fingerprint, t.BitDepth, t.Frequency, t.Channels, t.Length, t.Filename); err != nil {
			return fmt.Errorf("insert track %d/%d: %w", t.Disc, t.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tracks: %w", err)
	}
	return nil
}

// LogFolderMatch records which shnid a folder resolved to, so later runs and
// audits can see the mapping.
func (s *Store) LogFolderMatch(ctx context.Context, folder string, shnid int64) error {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO folder_log (folder, shnid, matched_at) VALUES (?, ?, ?)
		 ON CONFLICT(folder, shnid) DO UPDATE SET matched_at = excluded.matched_at`,
		folder, shnid, timestamp); err != nil {
		return fmt.Errorf("log folder match: %w", err)
	}
	return nil
}

// FolderMatches returns the shnids previously logged for a folder name.
func (s *Store) FolderMatches(ctx context.Context, folder string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT shnid FROM folder_log WHERE folder = ? ORDER BY shnid", folder)
	if err != nil {
		return nil, fmt.Errorf("query folder log: %w", err)
	}
	defer rows.Close()

	var shnids []int64
	for rows.Next() {
		var shnid int64
		if err := rows.Scan(&shnid); err != nil {
			return nil, fmt.Errorf("scan folder log: %w", err)
		}
		shnids = append(shnids, shnid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder log: %w", err)
	}
	return shnids, nil
}
