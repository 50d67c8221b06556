package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dhowden/tag"

	"showtag/internal/flacfile"
)

// RecordingType classifies the source lineage of a recording.
type RecordingType string

const (
	Soundboard  RecordingType = "soundboard"
	Audience    RecordingType = "audience"
	Matrix      RecordingType = "matrix"
	Ultramatrix RecordingType = "ultramatrix"
)

// AudioFile is one FLAC file within a recording folder.
type AudioFile struct {
	Path string
	Name string
	// Stream holds the decoded STREAMINFO block; Stream.MD5Signature is the
	// file's fingerprint.
	Stream flacfile.StreamInfo

	ExistingTitle string
	ExistingAlbum string
	HasPicture    bool
}

// Folder is one recording folder and everything read from it.
type Folder struct {
	Path string
	Name string

	// ArtistAbbrev is the leading letters of the folder name ("gd" in
	// gd1977-05-08.sbd...). Empty when the name does not follow convention.
	ArtistAbbrev string
	// Date is the show date from the folder name, normalized to YYYY-MM-DD.
	Date string
	// Shnid is the recording id embedded in the folder name, 0 when absent.
	Shnid int64
	Type  RecordingType

	Audio         []AudioFile
	InfoFiles     []string
	ChecksumFiles []string
	SidecarImages []string
}

// Checksums returns the folder's audio fingerprints sorted and de-duplicated.
func (f *Folder) Checksums() []string {
	seen := make(map[string]struct{}, len(f.Audio))
	checksums := make([]string, 0, len(f.Audio))
	for _, audio := range f.Audio {
		signature := audio.Stream.MD5Signature
		if _, dup := seen[signature]; dup {
			continue
		}
		seen[signature] = struct{}{}
		checksums = append(checksums, signature)
	}
	sort.Strings(checksums)
	return checksums
}

// Discover walks root and returns every directory containing at least one
// FLAC file, sorted by path. A root that is itself a recording folder returns
// a single entry.
func Discover(root string) ([]string, error) {
	seen := make(map[string]struct{})
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".flac") {
			seen[filepath.Dir(path)] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	folders := make([]string, 0, len(seen))
	for dir := range seen {
		folders = append(folders, dir)
	}
	sort.Strings(folders)
	return folders, nil
}

// ReadFolder reads one recording folder: folder-name metadata, each FLAC's
// stream info and existing tags, and supporting files.
func ReadFolder(path string) (*Folder, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}

	folder := &Folder{Path: path, Name: filepath.Base(path)}
	folder.ArtistAbbrev, folder.Date, folder.Shnid, folder.Type = ParseFolderName(folder.Name)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		full := filepath.Join(path, name)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".flac":
			audio, err := readAudioFile(full)
			if err != nil {
				return nil, err
			}
			folder.Audio = append(folder.Audio, audio)
		case ".txt", ".nfo":
			folder.InfoFiles = append(folder.InfoFiles, full)
		case ".ffp", ".st5", ".md5":
			folder.ChecksumFiles = append(folder.ChecksumFiles, full)
		case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp":
			folder.SidecarImages = append(folder.SidecarImages, full)
		}
	}

	sort.Slice(folder.Audio, func(i, j int) bool { return folder.Audio[i].Name < folder.Audio[j].Name })
	// Files named like "*info*.txt" are the circulated track list more often
	// than setlist or lineage notes, so they parse first.
	sort.Slice(folder.InfoFiles, func(i, j int) bool {
		a, b := folder.InfoFiles[i], folder.InfoFiles[j]
		ai := strings.Contains(strings.ToLower(filepath.Base(a)), "info")
		bi := strings.Contains(strings.ToLower(filepath.Base(b)), "info")
		if ai != bi {
			return ai
		}
		return a < b
	})
	sort.Strings(folder.ChecksumFiles)
	sort.Strings(folder.SidecarImages)
	return folder, nil
}

func readAudioFile(path string) (AudioFile, error) {
	stream, err := flacfile.ReadStreamInfo(path)
	if err != nil {
		return AudioFile{}, fmt.Errorf("read stream info: %w", err)
	}

	audio := AudioFile{Path: path, Name: filepath.Base(path), Stream: stream}

	file, err := os.Open(path)
	if err != nil {
		return AudioFile{}, fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	// A read failure here just means the file carries no tags yet.
	if metadata, err := tag.ReadFrom(file); err == nil {
		audio.ExistingTitle = strings.TrimSpace(metadata.Title())
		audio.ExistingAlbum = strings.TrimSpace(metadata.Album())
		audio.HasPicture = metadata.Picture() != nil
	}
	return audio, nil
}

var folderNamePattern = regexp.MustCompile(`^([a-zA-Z]+)(\d{2}|\d{4})-(\d{1,2})-(\d{1,2})`)

// ParseFolderName extracts artist abbreviation, show date, shnid, and
// recording type from a conventional folder name such as
// gd1977-05-08.sbd.hicks.4982.sbeok.shnf.
func ParseFolderName(name string) (abbrev, date string, shnid int64, recType RecordingType) {
	recType = Soundboard

	if m := folderNamePattern.FindStringSubmatch(name); m != nil {
		abbrev = strings.ToLower(m[1])
		date = normalizeDate(m[2], m[3], m[4])
	}

	var sawUltramatrix, sawMatrix, sawAudience bool
	for _, token := range strings.Split(strings.ToLower(name), ".") {
		switch {
		case strings.Contains(token, "ultramatrix") || strings.Contains(token, "umtx"):
			sawUltramatrix = true
		case strings.Contains(token, "matrix") || token == "mtx":
			sawMatrix = true
		case token == "aud":
			sawAudience = true
		}
		if shnid == 0 && len(token) >= 4 && len(token) <= 7 && allDigits(token) {
			shnid, _ = strconv.ParseInt(token, 10, 64)
		}
	}
	// A matrix folder usually also names its source mix ("...matrix.sbd.aud...").
	switch {
	case sawUltramatrix:
		recType = Ultramatrix
	case sawMatrix:
		recType = Matrix
	case sawAudience:
		recType = Audience
	}
	return abbrev, date, shnid, recType
}

func normalizeDate(year, month, day string) string {
	if len(year) == 2 {
		// Circulated recordings predate 2030; two-digit years 30-99 are 19xx.
		if year >= "30" {
			year = "19" + year
		} else {
			year = "20" + year
		}
	}
	if len(month) == 1 {
		month = "0" + month
	}
	if len(day) == 1 {
		day = "0" + day
	}
	return year + "-" + month + "-" + day
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
