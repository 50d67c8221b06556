package match_test

import (
	"context"
	"errors"
	"testing"

	"showtag/internal/flacfile"
	"showtag/internal/match"
	"showtag/internal/scan"
	"showtag/internal/services"
	"showtag/internal/testsupport"
)

func folderWithChecksums(shnid int64, checksums ...string) *scan.Folder {
	folder := &scan.Folder{Name: "gd1977-05-08.sbd.test", Shnid: shnid}
	for i, checksum := range checksums {
		folder.Audio = append(folder.Audio, scan.AudioFile{
			Name:   "d1t0" + string(rune('1'+i)) + ".flac",
			Stream: flacfile.StreamInfo{MD5Signature: checksum},
		})
	}
	return folder
}

func seededMatcher(t *testing.T) *match.Matcher {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	testsupport.SeedCatalog(t, store, testsupport.Seed{
		Artists: []testsupport.SeedArtist{{ID: 1, Name: "Grateful Dead", Abbrev: "gd"}},
		Shows: []testsupport.SeedShow{
			{Shnid: 4982, ArtistID: 1, Date: "1977-05-08", Venue: "Barton Hall", City: "Ithaca, NY", Source: "SBD"},
			{Shnid: 89210, ArtistID: 1, Date: "1977-05-08", Venue: "Barton Hall", City: "Ithaca, NY", Source: "SBD remaster"},
			{Shnid: 5001, ArtistID: 1, Date: "1977-05-09", Venue: "War Memorial", City: "Buffalo, NY", Source: "AUD"},
		},
		ChecksumFiles: []testsupport.SeedChecksumFile{
			{MD5Key: "key-4982", Shnid: 4982, Label: "a.ffp", Checksums: []string{"c1", "c2", "c3"}},
			{MD5Key: "key-89210", Shnid: 89210, Label: "b.ffp", Checksums: []string{"c1", "c2", "c3"}},
			{MD5Key: "key-5001", Shnid: 5001, Label: "c.ffp", Checksums: []string{"c4", "c5"}},
		},
	})
	return match.NewMatcher(store, nil)
}

func TestMatchExactSet(t *testing.T) {
	matcher := seededMatcher(t)

	result, err := matcher.Match(context.Background(), folderWithChecksums(0, "c4", "c5"))
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if result.Status != match.StatusMatched || result.Shnid != 5001 || result.MD5Key != "key-5001" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestMatchSubsetIsAmbiguous(t *testing.T) {
	matcher := seededMatcher(t)

	// Folder overlaps key-5001 but is missing c5: never accepted, never
	// silently dropped.
	result, err := matcher.Match(context.Background(), folderWithChecksums(0, "c4"))
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if result.Status != match.StatusAmbiguous {
		t.Fatalf("expected ambiguous, got %+v", result)
	}
	if len(result.Candidates) != 1 || result.Candidates[0].Shnid != 5001 {
		t.Fatalf("unexpected candidates: %+v", result.Candidates)
	}
}

func TestMatchSupersetIsAmbiguous(t *testing.T) {
	matcher := seededMatcher(t)

	result, err := matcher.Match(context.Background(), folderWithChecksums(0, "c4", "c5", "c9"))
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if result.Status != match.StatusAmbiguous {
		t.Fatalf("expected ambiguous, got %+v", result)
	}
}

func TestMatchNoOverlapIsUnmatched(t *testing.T) {
	matcher := seededMatcher(t)

	result, err := matcher.Match(context.Background(), folderWithChecksums(0, "c8", "c9"))
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if result.Status != match.StatusUnmatched {
		t.Fatalf("expected unmatched, got %+v", result)
	}
}

func TestMatchFolderNameBreaksTie(t *testing.T) {
	matcher := seededMatcher(t)

	result, err := matcher.Match(context.Background(), folderWithChecksums(89210, "c1", "c2", "c3"))
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if result.Status != match.StatusMatched || result.Shnid != 89210 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestMatchAmbiguousWithoutFolderShnid(t *testing.T) {
	matcher := seededMatcher(t)

	result, err := matcher.Match(context.Background(), folderWithChecksums(0, "c1", "c2", "c3"))
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if result.Status != match.StatusAmbiguous {
		t.Fatalf("expected ambiguous, got %+v", result)
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("expected two candidates, got %+v", result.Candidates)
	}
}

func TestMatchRequiresAudio(t *testing.T) {
	matcher := seededMatcher(t)

	_, err := matcher.Match(context.Background(), &scan.Folder{Name: "empty"})
	if !errors.Is(err, services.ErrMetadataImport) {
		t.Fatalf("expected ErrMetadataImport, got %v", err)
	}
}
