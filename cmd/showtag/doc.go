// Command showtag identifies live concert recording folders against a
// reference catalog of audio checksums and writes their FLAC tags and
// artwork.
package main
