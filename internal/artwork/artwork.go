// Package artwork locates cover images for recordings and stages them into
// recording folders.
//
// Dated artwork lives under per-artist search roots, bucketed by year:
// <root>/1977/gd1977-05-08*.jpg. Roots are searched in configured order and
// the first root with any match wins, so a curated primary collection
// shadows bulk extras. Artists without a configured root skip artwork
// entirely.
package artwork

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"

	"showtag/internal/config"
	"showtag/internal/services"
)

// Resolver finds cover images per the cover configuration.
type Resolver struct {
	cover config.Cover
}

// NewResolver builds a Resolver from the cover section.
func NewResolver(cover config.Cover) *Resolver {
	return &Resolver{cover: cover}
}

// Resolve returns the cover image path for an artist's show date. An empty
// path with a nil error means the artist has no artwork configured and the
// folder proceeds untagged-artwork. A configured artist with no dated image
// and no usable default is an error.
func (r *Resolver) Resolve(artistAbbrev, date string) (string, error) {
	roots, configured := r.cover.ArtworkFolders[artistAbbrev]
	if !configured {
		return "", nil
	}
	if len(date) < 4 {
		return "", services.Wrap(services.ErrMetadataImport, "artwork", "resolve", fmt.Sprintf("unusable show date %q", date), nil)
	}
	year := date[:4]

	for _, root := range roots {
		pattern := filepath.Join(root, year, artistAbbrev+date+"*.jpg")
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return "", services.Wrap(services.ErrConfiguration, "artwork", "glob", pattern, err)
		}
		if len(matches) > 0 {
			sort.Strings(matches)
			return matches[0], nil
		}
	}

	fallback, hasDefault := r.cover.DefaultImages[artistAbbrev]
	if !hasDefault {
		return "", services.Wrap(services.ErrNotFound, "artwork", "resolve",
			fmt.Sprintf("no artwork for %s%s and no default image", artistAbbrev, date), nil)
	}
	if _, err := os.Stat(fallback); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "artwork", "default image", fallback, err)
	}
	return fallback, nil
}

// LoadImage reads an image file and sniffs its MIME type from the content,
// not the extension.
func LoadImage(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, "", fmt.Errorf("sniff image type: %w", err)
	}
	switch kind {
	case matchers.TypeJpeg, matchers.TypePng, matchers.TypeGif:
		return data, kind.MIME.Value, nil
	}
	return nil, "", fmt.Errorf("%s: not a supported image (detected %q)", path, kind.MIME.Value)
}
