package tagging_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"showtag/internal/catalog"
	"showtag/internal/config"
	"showtag/internal/services"
	"showtag/internal/tagging"
	"showtag/internal/tagio"
	"showtag/internal/testsupport"
)

type fakeWriter struct {
	mu      sync.Mutex
	tracks  map[string]tagio.TrackTags
	images  map[string]int
	cleared map[string]bool
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		tracks:  map[string]tagio.TrackTags{},
		images:  map[string]int{},
		cleared: map[string]bool{},
	}
}

func (w *fakeWriter) WriteTrack(path string, tags tagio.TrackTags, clearExisting bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tracks[path] = tags
	w.cleared[path] = clearExisting
	return nil
}

func (w *fakeWriter) WriteImage(path string, image []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.images[path]++
	return nil
}

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

type env struct {
	cfg    *config.Config
	store  *catalog.Store
	writer *fakeWriter
	folder string
	root   string
}

// newEnv seeds a catalog recording, a matching two-track folder with an info
// file, and dated artwork for the artist.
func newEnv(t *testing.T) *env {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "gd1977-05-08.sbd.hicks.4982.sbeok.shnf")
	md5a := testsupport.WriteFLAC(t, filepath.Join(dir, "d1t01.flac"), testsupport.FLACSpec{})
	md5b := testsupport.WriteFLAC(t, filepath.Join(dir, "d1t02.flac"), testsupport.FLACSpec{})
	info := "d1t01. New Minglewood Blues (4:37)\nd1t02. Scarlet Begonias ->\n"
	if err := os.WriteFile(filepath.Join(dir, "gd77-05-08.txt"), []byte(info), 0o644); err != nil {
		t.Fatalf("write info file: %v", err)
	}

	artDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(artDir, "1977"), 0o755); err != nil {
		t.Fatalf("mkdir artwork: %v", err)
	}
	if err := os.WriteFile(filepath.Join(artDir, "1977", "gd1977-05-08.jpg"), jpegBytes, 0o644); err != nil {
		t.Fatalf("write artwork: %v", err)
	}

	cfg := testsupport.NewConfig(t, testsupport.WithArtworkFolder("gd", artDir))
	store := testsupport.MustOpenCatalog(t, cfg)
	testsupport.SeedCatalog(t, store, testsupport.Seed{
		Artists: []testsupport.SeedArtist{{ID: 1, Name: "Grateful Dead", Abbrev: "gd"}},
		Shows: []testsupport.SeedShow{
			{Shnid: 4982, ArtistID: 1, Date: "1977-05-08", Venue: "Barton Hall", City: "Ithaca, NY", Source: "SBD"},
		},
		ChecksumFiles: []testsupport.SeedChecksumFile{
			{MD5Key: "key-4982", Shnid: 4982, Label: "gd77-05-08.ffp", Checksums: []string{md5a, md5b}},
		},
	})

	return &env{cfg: cfg, store: store, writer: newFakeWriter(), folder: dir, root: root}
}

func (e *env) pipeline() *tagging.Pipeline {
	return tagging.New(e.cfg, e.store, nil, tagging.WithTagWriter(e.writer))
}

func TestProcessFolderTagsEverything(t *testing.T) {
	e := newEnv(t)
	outcome := e.pipeline().ProcessFolder(context.Background(), e.folder)

	if outcome.Status != tagging.StatusTagged {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if outcome.Shnid != 4982 || outcome.TracksTagged != 2 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	first := e.writer.tracks[filepath.Join(e.folder, "d1t01.flac")]
	if first.Title != "New Minglewood Blues" {
		t.Fatalf("unexpected first title: %q", first.Title)
	}
	if first.Artist != "Grateful Dead" || first.Genre != "gd1977" || first.Date != "1977-05-08" {
		t.Fatalf("unexpected first tags: %+v", first)
	}
	if first.Disc != 1 || first.Track != 1 {
		t.Fatalf("unexpected first position: %+v", first)
	}
	if first.Album != outcome.Album || first.Album == "" {
		t.Fatalf("unexpected album: %q vs %q", first.Album, outcome.Album)
	}

	second := e.writer.tracks[filepath.Join(e.folder, "d1t02.flac")]
	if second.Title != "Scarlet Begonias ->" {
		t.Fatalf("expected segue suffix, got %q", second.Title)
	}

	if filepath.Base(outcome.ArtworkPath) != "folder.jpg" {
		t.Fatalf("unexpected sidecar name: %q", outcome.ArtworkPath)
	}
	if _, err := os.Stat(outcome.ArtworkPath); err != nil {
		t.Fatalf("staged artwork missing: %v", err)
	}
	for _, name := range []string{"d1t01.flac", "d1t02.flac"} {
		if e.writer.images[filepath.Join(e.folder, name)] != 1 {
			t.Fatalf("expected artwork embedded in %s", name)
		}
	}
}

func TestProcessFolderRefreshesCatalog(t *testing.T) {
	e := newEnv(t)
	outcome := e.pipeline().ProcessFolder(context.Background(), e.folder)
	if outcome.Status != tagging.StatusTagged {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	tracks, err := e.store.Tracks(context.Background(), 4982)
	if err != nil {
		t.Fatalf("Tracks failed: %v", err)
	}
	if len(tracks) != 2 || tracks[1].Title != "Scarlet Begonias" || !tracks[1].Gazinta {
		t.Fatalf("catalog not refreshed: %+v", tracks)
	}
	if tracks[0].Frequency != 44100 || tracks[0].BitDepth != 16 {
		t.Fatalf("stream properties not stored: %+v", tracks[0])
	}

	shnids, err := e.store.FolderMatches(context.Background(), filepath.Base(e.folder))
	if err != nil {
		t.Fatalf("FolderMatches failed: %v", err)
	}
	if len(shnids) != 1 || shnids[0] != 4982 {
		t.Fatalf("folder match not logged: %v", shnids)
	}
}

func TestProcessFolderIdempotent(t *testing.T) {
	e := newEnv(t)
	pipeline := e.pipeline()

	first := pipeline.ProcessFolder(context.Background(), e.folder)
	firstTags := make(map[string]tagio.TrackTags, len(e.writer.tracks))
	for path, tags := range e.writer.tracks {
		firstTags[path] = tags
	}

	second := pipeline.ProcessFolder(context.Background(), e.folder)
	if second.Status != tagging.StatusTagged || second.Album != first.Album {
		t.Fatalf("second run diverged: %+v vs %+v", second, first)
	}
	for path, tags := range e.writer.tracks {
		if firstTags[path] != tags {
			t.Fatalf("tags changed between runs for %s: %+v vs %+v", path, firstTags[path], tags)
		}
	}
}

func TestProcessFolderUnmatchedNeedsReview(t *testing.T) {
	e := newEnv(t)
	stranger := filepath.Join(t.TempDir(), "gd1972-08-27.aud.unknown")
	testsupport.WriteFLAC(t, filepath.Join(stranger, "d1t01.flac"),
		testsupport.FLACSpec{MD5: "ffffffffffffffffffffffffffff0001"})

	outcome := e.pipeline().ProcessFolder(context.Background(), stranger)
	if outcome.Status != tagging.StatusReview {
		t.Fatalf("expected review, got %+v", outcome)
	}
	if !errors.Is(outcome.Err, services.ErrMatch) {
		t.Fatalf("expected ErrMatch, got %v", outcome.Err)
	}
	if outcome.TracksTagged != 0 || len(e.writer.tracks) != 0 {
		t.Fatal("expected no tags written for unmatched folder")
	}
}

func TestProcessFolderPartialOverlapNeedsReview(t *testing.T) {
	e := newEnv(t)
	partial := filepath.Join(t.TempDir(), "gd1977-05-08.sbd.partial")
	// Same first track as the catalog recording, missing the second.
	testsupport.WriteFLAC(t, filepath.Join(partial, "d1t01.flac"), testsupport.FLACSpec{})

	outcome := e.pipeline().ProcessFolder(context.Background(), partial)
	if outcome.Status != tagging.StatusReview {
		t.Fatalf("expected review, got %+v", outcome)
	}
	if !errors.Is(outcome.Err, services.ErrAmbiguous) {
		t.Fatalf("expected ErrAmbiguous, got %v", outcome.Err)
	}
}

func TestProcessFolderStagesNothingBeforeApplying(t *testing.T) {
	e := newEnv(t)
	// Matches the seeded recording (same file names, same checksums) but has
	// no info file and the catalog carries no track list, so resolution fails
	// after the match and before any write.
	mirror := filepath.Join(t.TempDir(), "gd1977-05-08.sbd.mirror")
	testsupport.WriteFLAC(t, filepath.Join(mirror, "d1t01.flac"), testsupport.FLACSpec{})
	testsupport.WriteFLAC(t, filepath.Join(mirror, "d1t02.flac"), testsupport.FLACSpec{})

	outcome := e.pipeline().ProcessFolder(context.Background(), mirror)
	if outcome.Status != tagging.StatusFailed {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if !errors.Is(outcome.Err, services.ErrMetadataImport) {
		t.Fatalf("expected ErrMetadataImport, got %v", outcome.Err)
	}
	if outcome.ArtworkPath != "" {
		t.Fatalf("expected no staged artwork, got %q", outcome.ArtworkPath)
	}
	if _, err := os.Stat(filepath.Join(mirror, "folder.jpg")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("sidecar staged before tagging: %v", err)
	}
	if len(e.writer.tracks) != 0 || len(e.writer.images) != 0 {
		t.Fatal("expected no writes for failed folder")
	}
}

func TestProcessFolderSkipsArtworkForUnconfiguredArtist(t *testing.T) {
	e := newEnv(t)
	e.cfg.Cover.ArtworkFolders = map[string][]string{}

	outcome := e.pipeline().ProcessFolder(context.Background(), e.folder)
	if outcome.Status != tagging.StatusTagged {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if outcome.ArtworkPath != "" {
		t.Fatalf("expected no artwork, got %q", outcome.ArtworkPath)
	}
	if len(e.writer.images) != 0 {
		t.Fatalf("expected no embedded images, got %v", e.writer.images)
	}
}

func TestProcessFolderClearTags(t *testing.T) {
	e := newEnv(t)
	pipeline := tagging.New(e.cfg, e.store, nil,
		tagging.WithTagWriter(e.writer), tagging.WithClearTags())

	outcome := pipeline.ProcessFolder(context.Background(), e.folder)
	if outcome.Status != tagging.StatusTagged {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	for path, cleared := range e.writer.cleared {
		if !cleared {
			t.Fatalf("expected clear-tags write for %s", path)
		}
	}
}

func TestRunFoldersExplicitList(t *testing.T) {
	e := newEnv(t)

	outcomes := e.pipeline().RunFolders(context.Background(), []string{e.folder})
	if len(outcomes) != 1 || outcomes[0].Status != tagging.StatusTagged {
		t.Fatalf("unexpected outcomes: %+v", outcomes)
	}
}

func TestRunProcessesAllFolders(t *testing.T) {
	e := newEnv(t)
	testsupport.WriteFLAC(t, filepath.Join(e.root, "gd1972-08-27.aud.unknown", "d1t01.flac"),
		testsupport.FLACSpec{MD5: "ffffffffffffffffffffffffffff0002"})

	outcomes, err := e.pipeline().Run(context.Background(), e.root)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected two outcomes, got %d", len(outcomes))
	}

	byStatus := map[tagging.Status]int{}
	for _, outcome := range outcomes {
		byStatus[outcome.Status]++
	}
	if byStatus[tagging.StatusTagged] != 1 || byStatus[tagging.StatusReview] != 1 {
		t.Fatalf("unexpected statuses: %v", byStatus)
	}
}

func TestRunEmptyRoot(t *testing.T) {
	e := newEnv(t)
	outcomes, err := e.pipeline().Run(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if outcomes != nil {
		t.Fatalf("expected no outcomes, got %v", outcomes)
	}
}
