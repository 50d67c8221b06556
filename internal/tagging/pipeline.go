package tagging

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"showtag/internal/albumtag"
	"showtag/internal/artwork"
	"showtag/internal/catalog"
	"showtag/internal/config"
	"showtag/internal/logging"
	"showtag/internal/match"
	"showtag/internal/resolve"
	"showtag/internal/scan"
	"showtag/internal/services"
	"showtag/internal/tagio"
)

// Status summarizes one folder's trip through the pipeline.
type Status string

const (
	// StatusTagged means every audio file was written.
	StatusTagged Status = "tagged"
	// StatusReview means the folder needs human attention (unmatched,
	// ambiguous, or misconfigured) and retrying will not help.
	StatusReview Status = "review"
	// StatusFailed means a stage failed in a way a retry might fix.
	StatusFailed Status = "failed"
)

// Outcome is the per-folder result the CLI reports.
type Outcome struct {
	Folder string
	Path   string
	Status Status

	Shnid        int64
	Album        string
	Source       resolve.Source
	ArtworkPath  string
	TracksTagged int

	Err error
}

// Catalog is the slice of the catalog store the pipeline needs.
type Catalog interface {
	match.CatalogReader
	resolve.CatalogReader
	ReplaceTracks(ctx context.Context, shnid int64, tracks []catalog.Track) error
	LogFolderMatch(ctx context.Context, folder string, shnid int64) error
}

// Pipeline wires the matcher, resolver, synthesizer, artwork resolver, and
// tag writer together.
type Pipeline struct {
	cfg       *config.Config
	catalog   Catalog
	matcher   *match.Matcher
	resolver  *resolve.Resolver
	albums    *albumtag.Synthesizer
	covers    *artwork.Resolver
	writer    tagio.Writer
	logger    *slog.Logger
	clearTags bool
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithTagWriter substitutes the tag writer, primarily for tests.
func WithTagWriter(writer tagio.Writer) Option {
	return func(p *Pipeline) {
		p.writer = writer
	}
}

// WithClearTags wipes existing tags from each file before writing instead of
// merging over them.
func WithClearTags() Option {
	return func(p *Pipeline) {
		p.clearTags = true
	}
}

// New builds a Pipeline over the given catalog.
func New(cfg *config.Config, store Catalog, logger *slog.Logger, opts ...Option) *Pipeline {
	logger = logging.NewComponentLogger(logger, "tagging")
	p := &Pipeline{
		cfg:      cfg,
		catalog:  store,
		matcher:  match.NewMatcher(store, logger),
		resolver: resolve.NewResolver(store, cfg.Preferences, logger),
		albums:   albumtag.New(cfg.AlbumTag, cfg.Preferences, logger),
		covers:   artwork.NewResolver(cfg.Cover),
		writer:   tagio.TagLib{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessFolder runs one folder through every stage. The returned Outcome
// carries the failure instead of an error return so batch runs can keep
// going.
func (p *Pipeline) ProcessFolder(ctx context.Context, path string) Outcome {
	outcome := Outcome{Path: path}

	ctx = services.WithStage(ctx, "scanning")
	folder, err := scan.ReadFolder(path)
	if err != nil {
		outcome.Folder = path
		return p.fail(services.WithFolder(ctx, path), outcome,
			services.Wrap(services.ErrMetadataImport, "scanning", "read folder", "", err))
	}
	outcome.Folder = folder.Name
	ctx = services.WithFolder(ctx, folder.Name)

	ctx = services.WithStage(ctx, "matching")
	result, err := p.matcher.Match(ctx, folder)
	if err != nil {
		return p.fail(ctx, outcome, err)
	}
	switch result.Status {
	case match.StatusUnmatched:
		return p.fail(ctx, outcome, services.Wrap(services.ErrMatch, "matching", "fingerprints",
			fmt.Sprintf("%d checksums matched no catalog recording", len(folder.Checksums())), nil))
	case match.StatusAmbiguous:
		return p.fail(ctx, outcome, services.Wrap(services.ErrAmbiguous, "matching", "fingerprints",
			describeCandidates(result.Candidates), nil))
	}
	outcome.Shnid = result.Shnid
	p.logger.InfoContext(ctx, "folder matched", logging.Int64("shnid", result.Shnid))

	ctx = services.WithStage(ctx, "resolving")
	resolution, err := p.resolver.Resolve(ctx, folder, result.Shnid)
	if err != nil {
		return p.fail(ctx, outcome, err)
	}
	outcome.Source = resolution.Source

	outcome.Album = p.albums.Album(albumComponents(folder, resolution.Show, result.Shnid))

	ctx = services.WithStage(ctx, "artwork")
	imagePath, err := p.resolveArtwork(ctx, folder, resolution.Show)
	if err != nil {
		return p.fail(ctx, outcome, err)
	}

	ctx = services.WithStage(ctx, "applying")
	tagged, staged, err := p.apply(ctx, folder, resolution, outcome.Album, imagePath)
	outcome.ArtworkPath = staged
	if err != nil {
		return p.fail(ctx, outcome, err)
	}
	outcome.TracksTagged = tagged

	// Bookkeeping failures do not undo a tagged folder.
	if err := p.catalog.ReplaceTracks(ctx, result.Shnid, resolve.CatalogTracks(result.Shnid, folder, resolution)); err != nil {
		p.logger.WarnContext(ctx, "catalog track refresh failed", logging.Error(err))
	}
	if err := p.catalog.LogFolderMatch(ctx, folder.Name, result.Shnid); err != nil {
		p.logger.WarnContext(ctx, "folder match log failed", logging.Error(err))
	}

	outcome.Status = StatusTagged
	p.logger.InfoContext(ctx, "folder tagged",
		logging.String("album", outcome.Album),
		logging.Int("tracks", outcome.TracksTagged),
		logging.String("source", string(outcome.Source)))
	return outcome
}

// resolveArtwork locates the cover image without touching the folder; the
// sidecar is staged in apply so nothing hits disk before the tag writes.
func (p *Pipeline) resolveArtwork(ctx context.Context, folder *scan.Folder, show *catalog.Show) (string, error) {
	abbrev := show.ArtistAbbrev
	if abbrev == "" {
		abbrev = folder.ArtistAbbrev
	}
	imagePath, err := p.covers.Resolve(abbrev, show.Date)
	if err != nil {
		return "", err
	}
	if imagePath == "" {
		p.logger.DebugContext(ctx, "no artwork configured for artist", logging.String("artist", abbrev))
	}
	return imagePath, nil
}

func (p *Pipeline) apply(ctx context.Context, folder *scan.Folder, resolution *resolve.Resolution, album, imagePath string) (int, string, error) {
	var staged string
	var image []byte
	if imagePath != "" {
		var err error
		staged, err = p.covers.Stage(folder, imagePath)
		if err != nil {
			return 0, "", err
		}
		image, _, err = artwork.LoadImage(staged)
		if err != nil {
			return 0, staged, services.Wrap(services.ErrMetadataImport, "applying", "load image", staged, err)
		}
	}

	show := resolution.Show
	genre := albumtag.Genre(show.ArtistAbbrev, show.Date)

	for i, audio := range folder.Audio {
		track := resolution.Tracks[i]
		tags := tagio.TrackTags{
			Title:       trackTitle(track, p.cfg.Preferences.SegueString),
			Album:       album,
			Artist:      show.ArtistName,
			AlbumArtist: show.ArtistName,
			Genre:       genre,
			Date:        show.Date,
			Disc:        track.Disc,
			Track:       track.Number,
			Comment:     "shnid:" + strconv.FormatInt(show.Shnid, 10),
		}
		if err := p.writer.WriteTrack(audio.Path, tags, p.clearTags); err != nil {
			return i, staged, services.Wrap(services.ErrWrite, "applying", "write tags", audio.Name, err)
		}
		if len(image) > 0 && (!audio.HasPicture || p.cfg.Cover.ClearExistingArtwork) {
			if err := p.writer.WriteImage(audio.Path, image); err != nil {
				return i, staged, services.Wrap(services.ErrWrite, "applying", "embed artwork", audio.Name, err)
			}
		}
	}
	return len(folder.Audio), staged, nil
}

func (p *Pipeline) fail(ctx context.Context, outcome Outcome, err error) Outcome {
	outcome.Err = err
	if services.NeedsReview(err) {
		outcome.Status = StatusReview
	} else {
		outcome.Status = StatusFailed
	}
	p.logger.ErrorContext(ctx, "folder not tagged",
		logging.String("status", string(outcome.Status)),
		logging.Error(err))
	return outcome
}

// trackTitle renders the final title tag: the resolved title plus the segue
// marker. Untitled tracks stay empty so the numbers speak for themselves.
func trackTitle(track resolve.ResolvedTrack, segue string) string {
	if track.Title == "" {
		return ""
	}
	if track.Gazinta && segue != "" {
		return track.Title + " " + segue
	}
	return track.Title
}

func albumComponents(folder *scan.Folder, show *catalog.Show, shnid int64) albumtag.Components {
	components := albumtag.Components{
		ShowDate: show.Date,
		City:     show.City,
		Venue:    show.Venue,
		Type:     folder.Type,
		Shnid:    shnid,
	}
	// The folder's dominant stream properties drive the bitrate component.
	for _, audio := range folder.Audio {
		if audio.Stream.BitsPerSample > components.BitDepth {
			components.BitDepth = audio.Stream.BitsPerSample
			components.SampleRate = audio.Stream.SampleRate
		}
	}
	return components
}

func describeCandidates(candidates []catalog.Candidate) string {
	shnids := make([]string, 0, len(candidates))
	seen := make(map[int64]struct{}, len(candidates))
	for _, candidate := range candidates {
		if _, dup := seen[candidate.Shnid]; dup {
			continue
		}
		seen[candidate.Shnid] = struct{}{}
		shnids = append(shnids, strconv.FormatInt(candidate.Shnid, 10))
	}
	return "checksums contested by shnids " + strings.Join(shnids, ", ")
}
