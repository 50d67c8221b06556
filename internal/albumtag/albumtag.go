// Package albumtag synthesizes the album tag string from show metadata.
//
// The album tag is assembled from named components in a configured order,
// each optionally wrapped in a prefix and suffix. Include flags prune
// components, and pruned components take their decorations with them, so
// "1977-05-08 Barton Hall (SBD)" degrades cleanly to "1977-05-08 (SBD)" when
// the venue is switched off.
package albumtag

import (
	"log/slog"
	"strconv"
	"strings"

	"showtag/internal/config"
	"showtag/internal/logging"
	"showtag/internal/scan"
)

// Component names accepted in config order lists.
const (
	ComponentShowDate      = "show_date"
	ComponentCity          = "city"
	ComponentVenue         = "venue"
	ComponentRecordingType = "recording_type"
	ComponentShnid         = "shnid"
	ComponentBitrate       = "bitrate"
)

// Components carries the raw values an album tag is built from.
type Components struct {
	// ShowDate is the YYYY-MM-DD show date.
	ShowDate string
	City     string
	Venue    string
	Type     scan.RecordingType
	Shnid    int64
	// BitDepth and SampleRate describe the folder's audio streams.
	BitDepth   int
	SampleRate int
}

// Synthesizer renders album tags per the configured layout.
type Synthesizer struct {
	cfg    config.AlbumTag
	prefs  config.Preferences
	logger *slog.Logger
}

// New builds a Synthesizer from the album tag and preference sections.
func New(cfg config.AlbumTag, prefs config.Preferences, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Synthesizer{cfg: cfg, prefs: prefs, logger: logger}
}

// Album renders the album tag for one recording.
func (s *Synthesizer) Album(c Components) string {
	// Decorations apply only when they pair one-to-one with the order list.
	prefixes, suffixes := s.cfg.Prefix, s.cfg.Suffix
	if len(prefixes) != len(s.cfg.Order) || len(suffixes) != len(s.cfg.Order) {
		if len(prefixes) > 0 || len(suffixes) > 0 {
			s.logger.Warn("album tag decorations do not pair with the order list, ignoring them",
				logging.Int("order", len(s.cfg.Order)),
				logging.Int("prefix", len(prefixes)),
				logging.Int("suffix", len(suffixes)))
		}
		prefixes, suffixes = nil, nil
	}

	var b strings.Builder
	for i, name := range s.cfg.Order {
		value := s.componentValue(name, c)
		if value == "" {
			continue
		}
		if prefixes != nil {
			b.WriteString(prefixes[i])
		}
		b.WriteString(value)
		if suffixes != nil {
			b.WriteString(suffixes[i])
		}
	}
	return b.String()
}

func (s *Synthesizer) componentValue(name string, c Components) string {
	switch name {
	case ComponentShowDate:
		return FormatDate(c.ShowDate, s.prefs.YearFormat)
	case ComponentCity:
		if !s.cfg.IncludeCity {
			return ""
		}
		return c.City
	case ComponentVenue:
		if !s.cfg.IncludeVenue {
			return ""
		}
		return c.Venue
	case ComponentRecordingType:
		return TypeAbbrev(s.prefs, c.Type)
	case ComponentShnid:
		if !s.cfg.IncludeShnid || c.Shnid == 0 {
			return ""
		}
		return strconv.FormatInt(c.Shnid, 10)
	case ComponentBitrate:
		if !s.cfg.IncludeBitrate {
			return ""
		}
		if s.cfg.IncludeBitrateNot16 && c.BitDepth == 16 {
			return ""
		}
		return Bitrate(c.BitDepth, c.SampleRate)
	}
	s.logger.Warn("unknown album tag component skipped", logging.String("component", name))
	return ""
}

// FormatDate renders a YYYY-MM-DD date per the year_format preference: "yy"
// drops the century.
func FormatDate(date, yearFormat string) string {
	if yearFormat == "yy" && len(date) == len("1977-05-08") {
		return date[2:]
	}
	return date
}

// TypeAbbrev maps a recording type to its configured label.
func TypeAbbrev(prefs config.Preferences, recType scan.RecordingType) string {
	switch recType {
	case scan.Audience:
		return prefs.AudAbbrev
	case scan.Matrix:
		return prefs.MatrixAbbrev
	case scan.Ultramatrix:
		return prefs.UltramatrixAbbrev
	default:
		return prefs.SoundboardAbbrev
	}
}

// Bitrate renders bit depth and sample rate in the compact etree form:
// 16/44100 becomes "16-441" and 24/96000 becomes "24-96".
func Bitrate(bitDepth, sampleRate int) string {
	if bitDepth == 0 || sampleRate == 0 {
		return ""
	}
	rate := strconv.Itoa(sampleRate)
	rate = strings.TrimRight(rate, "0")
	if rate == "" {
		rate = "0"
	}
	return strconv.Itoa(bitDepth) + "-" + rate
}

// Genre renders the genre tag for Grateful Dead shows, the abbreviation plus
// the show year: "gd1977". Other artists keep whatever genre they carry.
func Genre(artistAbbrev, date string) string {
	if artistAbbrev != "gd" || len(date) < 4 {
		return ""
	}
	return artistAbbrev + date[:4]
}
