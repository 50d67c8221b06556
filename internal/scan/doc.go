// Package scan discovers recording folders and reads what the pipeline needs
// from them: FLAC stream fingerprints, existing tags, folder-name metadata
// (artist abbreviation, show date, shnid, recording type), and the supporting
// files a circulated recording carries (info text, checksum files, sidecar
// images).
package scan
