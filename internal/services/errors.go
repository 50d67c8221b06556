package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMatch marks fingerprint matching failures: the folder's checksum
	// set matched no catalog recording.
	ErrMatch = errors.New("no match")
	// ErrAmbiguous marks folders whose checksums overlapped catalog
	// recordings without resolving to exactly one. It is a kind of ErrMatch.
	ErrAmbiguous = fmt.Errorf("%w: ambiguous", ErrMatch)
	// ErrMetadataImport marks failures reading or reconciling track metadata
	// from the catalog, info file, or file names.
	ErrMetadataImport = errors.New("metadata import error")
	ErrConfiguration  = errors.New("configuration error")
	// ErrWrite marks failures persisting tags or artwork to audio files.
	ErrWrite    = errors.New("write error")
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrWrite
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// NeedsReview reports whether a folder failure requires human attention
// rather than a retry: unmatched or ambiguous recordings and configuration
// problems cannot be fixed by running the tagger again.
func NeedsReview(err error) bool {
	return errors.Is(err, ErrMatch) ||
		errors.Is(err, ErrAmbiguous) ||
		errors.Is(err, ErrConfiguration)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
