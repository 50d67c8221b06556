package resolve

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"showtag/internal/catalog"
	"showtag/internal/config"
	"showtag/internal/logging"
	"showtag/internal/scan"
	"showtag/internal/services"
)

// Source names where track metadata came from, for verbose logging and the
// identify command.
type Source string

const (
	SourceCatalog   Source = "catalog"
	SourceInfoFile  Source = "info_file"
	SourceFilenames Source = "filenames"
	SourceNone      Source = "none"
)

// ResolvedTrack is the final metadata for one audio file. An empty Title
// means the track gets numbers only.
type ResolvedTrack struct {
	Disc    int
	Number  int
	Title   string
	Gazinta bool
}

// Resolution is the complete metadata for a matched recording.
type Resolution struct {
	Show *catalog.Show
	// Tracks aligns with the folder's audio files in sorted name order.
	Tracks []ResolvedTrack
	Source Source
}

// CatalogReader is the slice of the catalog store resolution needs.
type CatalogReader interface {
	Show(ctx context.Context, shnid int64) (*catalog.Show, error)
	Tracks(ctx context.Context, shnid int64) ([]catalog.Track, error)
}

// Resolver assembles show and track metadata for matched folders.
type Resolver struct {
	catalog CatalogReader
	prefs   config.Preferences
	logger  *slog.Logger
}

// NewResolver builds a Resolver with the given preferences.
func NewResolver(reader CatalogReader, prefs config.Preferences, logger *slog.Logger) *Resolver {
	return &Resolver{catalog: reader, prefs: prefs, logger: logging.NewComponentLogger(logger, "resolve")}
}

// Resolve fetches the show record for shnid and derives one track entry per
// audio file, consulting sources in trust order.
func (r *Resolver) Resolve(ctx context.Context, folder *scan.Folder, shnid int64) (*Resolution, error) {
	show, err := r.catalog.Show(ctx, shnid)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, services.Wrap(services.ErrMetadataImport, "resolving", "show lookup", "matched shnid missing from catalog", err)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrMetadataImport, "resolving", "show lookup", "", err)
	}

	resolution := &Resolution{Show: show}
	resolution.Tracks, resolution.Source, err = r.resolveTracks(ctx, folder, shnid)
	if err != nil {
		return nil, err
	}

	r.logger.DebugContext(ctx, "track metadata resolved",
		logging.String("source", string(resolution.Source)),
		logging.Int("tracks", len(resolution.Tracks)))
	return resolution, nil
}

func (r *Resolver) resolveTracks(ctx context.Context, folder *scan.Folder, shnid int64) ([]ResolvedTrack, Source, error) {
	want := len(folder.Audio)

	stored, err := r.catalog.Tracks(ctx, shnid)
	if err != nil {
		return nil, SourceNone, services.Wrap(services.ErrMetadataImport, "resolving", "track lookup", "", err)
	}
	if len(stored) == want && want > 0 {
		tracks := make([]ResolvedTrack, want)
		for i, track := range stored {
			tracks[i] = ResolvedTrack{Disc: track.Disc, Number: track.Number, Title: track.Title, Gazinta: track.Gazinta}
		}
		// Titles resolve per track, not per record: an info file fills the
		// titles the catalog left empty.
		if hasUntitled(tracks) {
			r.fillTitlesFromInfoFiles(ctx, folder, tracks)
		}
		return tracks, SourceCatalog, nil
	}
	if len(stored) > 0 {
		r.logger.DebugContext(ctx, "catalog track count does not cover folder",
			logging.Int("catalog", len(stored)), logging.Int("audio", want))
	}

	for _, path := range folder.InfoFiles {
		entries, err := parseInfoFilePath(path)
		if err != nil {
			r.logger.WarnContext(ctx, "info file unreadable",
				logging.String("path", path), logging.Error(err))
			continue
		}
		if len(entries) != want {
			if len(entries) > 0 {
				r.logger.DebugContext(ctx, "info file track count does not cover folder",
					logging.String("path", path),
					logging.Int("parsed", len(entries)), logging.Int("audio", want))
			}
			continue
		}
		return entriesToTracks(entries), SourceInfoFile, nil
	}

	if r.prefs.EnableFilenameFallback {
		entries := positionsFromFilenames(folder.Audio)
		titlesFromFilenames(folder.Audio, entries)
		return entriesToTracks(entries), SourceFilenames, nil
	}
	// Guessing from file names without being asked to corrupts tags; an
	// exhausted chain is an error, not a shrug.
	return nil, SourceNone, services.Wrap(services.ErrMetadataImport, "resolving", "track metadata",
		"no catalog tracks or info file cover this folder and filename fallback is disabled", nil)
}

func hasUntitled(tracks []ResolvedTrack) bool {
	for _, track := range tracks {
		if track.Title == "" {
			return true
		}
	}
	return false
}

// fillTitlesFromInfoFiles copies titles and segue flags from the first info
// file whose entry count covers the folder into the catalog-sourced tracks
// that lack a title.
func (r *Resolver) fillTitlesFromInfoFiles(ctx context.Context, folder *scan.Folder, tracks []ResolvedTrack) {
	for _, path := range folder.InfoFiles {
		entries, err := parseInfoFilePath(path)
		if err != nil || len(entries) != len(tracks) {
			continue
		}
		for i := range tracks {
			if tracks[i].Title == "" {
				tracks[i].Title = entries[i].title
				tracks[i].Gazinta = entries[i].gazinta
				r.logger.DebugContext(ctx, "info file filled catalog title gap",
					logging.Int("disc", tracks[i].Disc),
					logging.Int("track", tracks[i].Number),
					logging.String("path", path))
			}
		}
		return
	}
}

func parseInfoFilePath(path string) ([]infoEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseInfoLines(file), nil
}

func entriesToTracks(entries []infoEntry) []ResolvedTrack {
	tracks := make([]ResolvedTrack, len(entries))
	for i, entry := range entries {
		tracks[i] = ResolvedTrack{Disc: entry.disc, Number: entry.number, Title: entry.title, Gazinta: entry.gazinta}
	}
	return tracks
}

// CatalogTracks converts a resolution into catalog track rows enriched with
// each file's stream properties, ready for Store.ReplaceTracks.
func CatalogTracks(shnid int64, folder *scan.Folder, resolution *Resolution) []catalog.Track {
	tracks := make([]catalog.Track, len(resolution.Tracks))
	for i, resolved := range resolution.Tracks {
		track := catalog.Track{
			Shnid:   shnid,
			Disc:    resolved.Disc,
			Number:  resolved.Number,
			Title:   resolved.Title,
			Gazinta: resolved.Gazinta,
		}
		if i < len(folder.Audio) {
			audio := folder.Audio[i]
			track.Fingerprint = audio.Stream.MD5Signature
			track.BitDepth = audio.Stream.BitsPerSample
			track.Frequency = audio.Stream.SampleRate
			track.Channels = audio.Stream.Channels
			track.Length = audio.Stream.Length()
			track.Filename = audio.Name
		}
		tracks[i] = track
	}
	return tracks
}
