package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validatePreferences(); err != nil {
		return err
	}
	if err := c.validateAlbumTag(); err != nil {
		return err
	}
	if err := c.validateCover(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return errors.New("catalog.path must be set")
	}
	return nil
}

func (c *Config) validatePreferences() error {
	switch c.Preferences.YearFormat {
	case "YYYY", "yy":
	default:
		return fmt.Errorf("preferences.year_format must be %q or %q, got %q", "YYYY", "yy", c.Preferences.YearFormat)
	}
	if strings.TrimSpace(c.Preferences.SoundboardAbbrev) == "" {
		return errors.New("preferences.soundboard_abbrev must be set")
	}
	if strings.TrimSpace(c.Preferences.AudAbbrev) == "" {
		return errors.New("preferences.aud_abbrev must be set")
	}
	return nil
}

// validateAlbumTag accepts unknown component names: the synthesizer skips
// them, so a config written for a newer version degrades instead of failing.
func (c *Config) validateAlbumTag() error {
	if len(c.AlbumTag.Order) == 0 {
		return errors.New("album_tag.order must include at least one component")
	}
	return nil
}

func (c *Config) validateCover() error {
	for abbrev, dirs := range c.Cover.ArtworkFolders {
		if strings.TrimSpace(abbrev) == "" {
			return errors.New("cover.artwork_folders contains an empty artist abbreviation")
		}
		if len(dirs) == 0 {
			return fmt.Errorf("cover.artwork_folders.%s must list at least one directory", abbrev)
		}
	}
	for abbrev, path := range c.Cover.DefaultImages {
		if strings.TrimSpace(abbrev) == "" {
			return errors.New("cover.default_images contains an empty artist abbreviation")
		}
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("cover.default_images.%s must not be empty", abbrev)
		}
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.Workers < 0 {
		return errors.New("workflow.workers must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", "console", "json", c.Logging.Format)
	}
	if _, err := parseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

func parseLogLevel(level string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "debug", "info", "warn", "error":
		return normalized, nil
	}
	return "", fmt.Errorf("unknown log level %q", level)
}
