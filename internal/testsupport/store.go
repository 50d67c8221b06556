package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"showtag/internal/catalog"
	"showtag/internal/config"
)

// MustOpenCatalog opens a catalog.Store for tests and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Seed describes catalog contents for one test.
type Seed struct {
	Artists       []SeedArtist
	Shows         []SeedShow
	ChecksumFiles []SeedChecksumFile
	Tracks        []catalog.Track
}

// SeedArtist is one artists row.
type SeedArtist struct {
	ID     int64
	Name   string
	Abbrev string
}

// SeedShow is one shows row.
type SeedShow struct {
	Shnid    int64
	ArtistID int64
	Date     string
	Venue    string
	City     string
	Source   string
}

// SeedChecksumFile is one checksum file together with its audio checksums.
type SeedChecksumFile struct {
	MD5Key    string
	Shnid     int64
	Label     string
	Checksums []string
}

// SeedCatalog loads the seed into an empty catalog via the CSV bootstrap
// path, so tests exercise the same ingestion the CLI uses.
func SeedCatalog(t testing.TB, store *catalog.Store, seed Seed) {
	t.Helper()

	dir := t.TempDir()
	write := func(name string, lines []string) {
		t.Helper()
		body := strings.Join(lines, "\n") + "\n"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	artistLines := []string{"artist_id,name,abbrev"}
	for _, a := range seed.Artists {
		artistLines = append(artistLines, csvLine(strconv.FormatInt(a.ID, 10), a.Name, a.Abbrev))
	}
	write("artists.csv", artistLines)

	showLines := []string{"shnid,artist_id,show_date,venue,city,source"}
	for _, s := range seed.Shows {
		showLines = append(showLines, csvLine(
			strconv.FormatInt(s.Shnid, 10), strconv.FormatInt(s.ArtistID, 10),
			s.Date, s.Venue, s.City, s.Source))
	}
	write("shows.csv", showLines)

	fileLines := []string{"md5key,shnid,label,filename"}
	sigLines := []string{"md5key,shnid,base_filename,file_extension,audio_checksum"}
	for _, cf := range seed.ChecksumFiles {
		fileLines = append(fileLines, csvLine(cf.MD5Key, strconv.FormatInt(cf.Shnid, 10), cf.Label, cf.Label))
		for i, checksum := range cf.Checksums {
			sigLines = append(sigLines, csvLine(
				cf.MD5Key, strconv.FormatInt(cf.Shnid, 10),
				"d1t"+strconv.Itoa(i+1), "flac", checksum))
		}
	}
	write("checksum_files.csv", fileLines)
	write("signatures.csv", sigLines)

	trackLines := []string{"shnid,disc_number,track_number,title,gazinta"}
	for _, tr := range seed.Tracks {
		gazinta := "0"
		if tr.Gazinta {
			gazinta = "1"
		}
		trackLines = append(trackLines, csvLine(
			strconv.FormatInt(tr.Shnid, 10), strconv.Itoa(tr.Disc),
			strconv.Itoa(tr.Number), tr.Title, gazinta))
	}
	write("tracks.csv", trackLines)

	if err := store.Bootstrap(context.Background(), dir); err != nil {
		t.Fatalf("catalog.Bootstrap: %v", err)
	}
}

func csvLine(fields ...string) string {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		if strings.ContainsAny(field, ",\"") {
			field = "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
		}
		quoted[i] = field
	}
	return strings.Join(quoted, ",")
}
