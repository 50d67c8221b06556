// Package resolve turns a matched recording into complete show and track
// metadata.
//
// Sources are consulted in trust order: the catalog's stored track list, then
// the folder's info text file, then (when enabled) the file names themselves.
// A source is only trusted when it accounts for every audio file in the
// folder; otherwise resolution falls through to the next source, ending with
// bare track numbers.
package resolve
