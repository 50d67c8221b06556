package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// Catalog contains configuration for the reference catalog database.
type Catalog struct {
	// Path is the SQLite database file holding the reference catalog.
	Path string `toml:"path"`
	// SnapshotDir optionally points at a directory of CSV snapshots used to
	// seed an empty catalog (signatures.csv, shnlist.csv, ...).
	SnapshotDir string `toml:"snapshot_dir"`
}

// Preferences contains user-facing tagging preferences.
type Preferences struct {
	// YearFormat is "YYYY" for four-digit show dates or "yy" for two-digit.
	YearFormat string `toml:"year_format"`
	// SegueString is appended to titles of tracks that segue into the next.
	SegueString string `toml:"segue_string"`

	SoundboardAbbrev  string `toml:"soundboard_abbrev"`
	AudAbbrev         string `toml:"aud_abbrev"`
	MatrixAbbrev      string `toml:"matrix_abbrev"`
	UltramatrixAbbrev string `toml:"ultramatrix_abbrev"`

	VerboseLogging bool `toml:"verbose_logging"`
	// EnableFilenameFallback permits deriving track metadata from file names
	// when both the catalog and the info file leave gaps. Off by default
	// because file names are the least trustworthy source.
	EnableFilenameFallback bool `toml:"enable_filename_fallback"`
}

// AlbumTag controls how the album tag string is synthesized.
type AlbumTag struct {
	IncludeBitrate      bool `toml:"include_bitrate"`
	IncludeBitrateNot16 bool `toml:"include_bitrate_not16_only"`
	IncludeShnid        bool `toml:"include_shnid"`
	IncludeVenue        bool `toml:"include_venue"`
	IncludeCity         bool `toml:"include_city"`

	// Order lists album tag components by name; Prefix and Suffix, when
	// present, must each have the same length as Order. On a length mismatch
	// decorations are dropped entirely rather than applied partially.
	Order  []string `toml:"order"`
	Prefix []string `toml:"prefix"`
	Suffix []string `toml:"suffix"`
}

// Cover contains artwork search and application settings.
type Cover struct {
	// ClearExistingArtwork removes embedded pictures and sidecar images
	// before writing the replacement.
	ClearExistingArtwork bool `toml:"clear_existing_artwork"`
	// RetainExistingArtwork renames displaced sidecar images to <name>.old
	// instead of deleting them.
	RetainExistingArtwork bool `toml:"retain_existing_artwork"`

	// ArtworkFolders maps an artist abbreviation (e.g. "gd") to an ordered
	// list of root directories searched for dated artwork. An abbreviation
	// absent from this map skips artwork resolution for that artist.
	ArtworkFolders map[string][]string `toml:"artwork_folders"`
	// DefaultImages maps an artist abbreviation to a fallback image used when
	// no dated artwork is found.
	DefaultImages map[string]string `toml:"default_images"`
}

// Workflow contains batch processing settings.
type Workflow struct {
	// Workers bounds concurrent folder processing; 0 means NumCPU-1.
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for showtag.
//
// Configuration sections by subsystem:
//   - Paths: log directory
//   - Catalog: reference catalog database and optional CSV snapshot seed
//   - Preferences: date/segue/recording-type rendering and fallback policy
//   - AlbumTag: album tag component toggles, order, and decorations
//   - Cover: artwork search folders, defaults, and replacement policy
//   - Workflow: worker pool sizing
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Catalog     Catalog     `toml:"catalog"`
	Preferences Preferences `toml:"preferences"`
	AlbumTag    AlbumTag    `toml:"album_tag"`
	Cover       Cover       `toml:"cover"`
	Workflow    Workflow    `toml:"workflow"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/showtag/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. Missing files are not
// an error; defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("showtag.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	for _, field := range []*string{&c.Paths.LogDir, &c.Catalog.Path, &c.Catalog.SnapshotDir} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	folders := make(map[string][]string, len(c.Cover.ArtworkFolders))
	for abbrev, dirs := range c.Cover.ArtworkFolders {
		expandedDirs := make([]string, 0, len(dirs))
		for _, dir := range dirs {
			expanded, err := expandPath(dir)
			if err != nil {
				return err
			}
			expandedDirs = append(expandedDirs, expanded)
		}
		folders[strings.ToLower(strings.TrimSpace(abbrev))] = expandedDirs
	}
	c.Cover.ArtworkFolders = folders

	images := make(map[string]string, len(c.Cover.DefaultImages))
	for abbrev, path := range c.Cover.DefaultImages {
		expanded, err := expandPath(path)
		if err != nil {
			return err
		}
		images[strings.ToLower(strings.TrimSpace(abbrev))] = expanded
	}
	c.Cover.DefaultImages = images
	return nil
}

// EnsureDirectories creates the directories the tagger needs at runtime.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, filepath.Dir(c.Catalog.Path)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// WorkerCount resolves the effective folder worker pool size.
func (c *Config) WorkerCount(numCPU int) int {
	if c.Workflow.Workers > 0 {
		return c.Workflow.Workers
	}
	if numCPU <= 1 {
		return 1
	}
	return numCPU - 1
}

// LogFormat implements logging.LoggingConfig.
func (c *Config) LogFormat() string { return c.Logging.Format }

// LogLevel implements logging.LoggingConfig, honoring the verbose preference.
func (c *Config) LogLevel() string {
	if c.Preferences.VerboseLogging {
		return "debug"
	}
	return c.Logging.Level
}

// LogDir implements logging.LoggingConfig.
func (c *Config) LogDir() string { return c.Paths.LogDir }

// SampleConfig returns the embedded sample configuration document.
func SampleConfig() string { return sampleConfig }

// WriteSample writes the sample configuration to the given path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
