// Package tagio persists tags and artwork to audio files through TagLib.
//
// The Writer interface is the seam the pipeline writes through; TagLib is the
// production implementation and tests substitute an in-memory fake.
package tagio

import (
	"fmt"
	"strconv"

	"go.senan.xyz/taglib"
)

// TrackTags is the full tag set written to one audio file.
type TrackTags struct {
	Title       string
	Album       string
	Artist      string
	AlbumArtist string
	Genre       string
	// Date is the show date, YYYY-MM-DD.
	Date    string
	Disc    int
	Track   int
	Comment string
}

// Writer persists tags and artwork to audio files.
type Writer interface {
	// WriteTrack writes the tag set. clearExisting removes tags not in the
	// set instead of merging.
	WriteTrack(path string, tags TrackTags, clearExisting bool) error
	// WriteImage embeds image as the file's front cover, replacing any
	// existing picture.
	WriteImage(path string, image []byte) error
}

// TagLib writes through the embedded TagLib runtime.
type TagLib struct{}

var _ Writer = TagLib{}

// WriteTrack implements Writer.
func (TagLib) WriteTrack(path string, tags TrackTags, clearExisting bool) error {
	var opts taglib.WriteOption
	if clearExisting {
		opts = taglib.Clear
	}
	if err := taglib.WriteTags(path, TagMap(tags), opts); err != nil {
		return fmt.Errorf("write tags %s: %w", path, err)
	}
	return nil
}

// WriteImage implements Writer.
func (TagLib) WriteImage(path string, image []byte) error {
	if err := taglib.WriteImage(path, image); err != nil {
		return fmt.Errorf("write image %s: %w", path, err)
	}
	return nil
}

// ReadAll returns every tag on the file, for inspection commands.
func (TagLib) ReadAll(path string) (map[string][]string, error) {
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, fmt.Errorf("read tags %s: %w", path, err)
	}
	return tags, nil
}

// TagMap renders a TrackTags as the key/value map TagLib writes. Empty
// fields are omitted so they do not overwrite existing values on merge
// writes.
func TagMap(tags TrackTags) map[string][]string {
	out := make(map[string][]string)
	add := func(key, value string) {
		if value != "" {
			out[key] = []string{value}
		}
	}
	add(taglib.Title, tags.Title)
	add(taglib.Album, tags.Album)
	add(taglib.Artist, tags.Artist)
	add(taglib.AlbumArtist, tags.AlbumArtist)
	add(taglib.Genre, tags.Genre)
	add(taglib.Date, tags.Date)
	add(taglib.Comment, tags.Comment)
	if tags.Track > 0 {
		out[taglib.TrackNumber] = []string{strconv.Itoa(tags.Track)}
	}
	if tags.Disc > 0 {
		out[taglib.DiscNumber] = []string{strconv.Itoa(tags.Disc)}
	}
	return out
}
