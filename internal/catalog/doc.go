// Package catalog persists the reference catalog of known recordings in
// SQLite.
//
// The catalog maps audio checksums to checksum files (identified by md5key),
// checksum files to recordings (identified by shnid), and recordings to show
// and track metadata. Matching reads it, metadata resolution reads and
// refreshes it, and Bootstrap seeds an empty database from CSV snapshots.
package catalog
