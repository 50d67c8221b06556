package scan_test

import (
	"os"
	"path/filepath"
	"testing"

	"showtag/internal/scan"
	"showtag/internal/testsupport"
)

func TestParseFolderName(t *testing.T) {
	cases := []struct {
		name   string
		abbrev string
		date   string
		shnid  int64
		typ    scan.RecordingType
	}{
		{"gd1977-05-08.sbd.hicks.4982.sbeok.shnf", "gd", "1977-05-08", 4982, scan.Soundboard},
		{"gd77-05-08.aud.vernon.31525.flac16", "gd", "1977-05-08", 31525, scan.Audience},
		{"gd1989-07-07.ultramatrix.sbd.aud.92401.flac24", "gd", "1989-07-07", 92401, scan.Ultramatrix},
		{"ph2013-07-03.mtx.112233.flac16", "ph", "2013-07-03", 112233, scan.Matrix},
		{"gd1977-5-8.sbd.shnf", "gd", "1977-05-08", 0, scan.Soundboard},
		{"random folder", "", "", 0, scan.Soundboard},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			abbrev, date, shnid, typ := scan.ParseFolderName(tc.name)
			if abbrev != tc.abbrev || date != tc.date || shnid != tc.shnid || typ != tc.typ {
				t.Fatalf("got (%q, %q, %d, %q), want (%q, %q, %d, %q)",
					abbrev, date, shnid, typ, tc.abbrev, tc.date, tc.shnid, tc.typ)
			}
		})
	}
}

func TestReadFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gd1977-05-08.sbd.hicks.4982.sbeok.shnf")

	md5a := testsupport.WriteFLAC(t, filepath.Join(dir, "d1t01.flac"), testsupport.FLACSpec{
		Tags: map[string]string{"TITLE": "Minglewood Blues", "ALBUM": "1977-05-08"},
	})
	md5b := testsupport.WriteFLAC(t, filepath.Join(dir, "d1t02.flac"), testsupport.FLACSpec{
		Picture: []byte{0xFF, 0xD8, 0xFF, 0xE0},
	})
	for _, name := range []string{"gd77-05-08.ffp", "gd77-05-08.txt", "cover.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	folder, err := scan.ReadFolder(dir)
	if err != nil {
		t.Fatalf("ReadFolder failed: %v", err)
	}
	if folder.Shnid != 4982 || folder.ArtistAbbrev != "gd" || folder.Date != "1977-05-08" {
		t.Fatalf("unexpected folder metadata: %+v", folder)
	}
	if len(folder.Audio) != 2 {
		t.Fatalf("expected two audio files, got %d", len(folder.Audio))
	}
	if folder.Audio[0].Name != "d1t01.flac" || folder.Audio[0].ExistingTitle != "Minglewood Blues" {
		t.Fatalf("unexpected first audio file: %+v", folder.Audio[0])
	}
	if folder.Audio[0].HasPicture {
		t.Fatal("expected first file to have no picture")
	}
	if !folder.Audio[1].HasPicture {
		t.Fatal("expected second file to carry a picture")
	}
	if len(folder.InfoFiles) != 1 || len(folder.ChecksumFiles) != 1 || len(folder.SidecarImages) != 1 {
		t.Fatalf("unexpected supporting files: %+v", folder)
	}

	checksums := folder.Checksums()
	if len(checksums) != 2 {
		t.Fatalf("expected two checksums, got %v", checksums)
	}
	want := map[string]bool{md5a: true, md5b: true}
	for _, checksum := range checksums {
		if !want[checksum] {
			t.Fatalf("unexpected checksum %q", checksum)
		}
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "gd1977-05-08.sbd.4982")
	second := filepath.Join(root, "nested", "gd1977-05-09.aud.5001")
	testsupport.WriteFLAC(t, filepath.Join(first, "d1t01.flac"), testsupport.FLACSpec{})
	testsupport.WriteFLAC(t, filepath.Join(second, "d1t01.flac"), testsupport.FLACSpec{})
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatalf("mkdir empty: %v", err)
	}

	folders, err := scan.Discover(root)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(folders) != 2 {
		t.Fatalf("expected two folders, got %v", folders)
	}
	if folders[0] != first || folders[1] != second {
		t.Fatalf("unexpected order: %v", folders)
	}
}
