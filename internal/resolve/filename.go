package resolve

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"showtag/internal/scan"
)

var (
	filenameDiscTrack = regexp.MustCompile(`[dD](\d{1,2})[tT](\d{1,2})`)
	filenameTrackOnly = regexp.MustCompile(`[tT](\d{1,2})`)
	filenameLeading   = regexp.MustCompile(`^(\d{3,4})(?:\D|$)`)
	filenameTrailing  = regexp.MustCompile(`(\d{1,2})\D*$`)

	titleCaser = cases.Title(language.AmericanEnglish)
)

// positionsFromFilenames derives disc and track numbers from file names.
// Files that encode no position fall back to their slot in sorted order on
// disc 1.
func positionsFromFilenames(audio []scan.AudioFile) []infoEntry {
	entries := make([]infoEntry, len(audio))
	for i, file := range audio {
		base := strings.TrimSuffix(file.Name, ".flac")
		disc, number := 1, i+1
		if m := filenameDiscTrack.FindStringSubmatch(base); m != nil {
			disc, _ = strconv.Atoi(m[1])
			number, _ = strconv.Atoi(m[2])
		} else if m := filenameTrackOnly.FindStringSubmatch(base); m != nil {
			number, _ = strconv.Atoi(m[1])
		} else if m := filenameLeading.FindStringSubmatch(base); m != nil {
			// Bare leading digits split disc and track: "102" is d1t02.
			digits := m[1]
			disc, _ = strconv.Atoi(digits[:len(digits)-2])
			number, _ = strconv.Atoi(digits[len(digits)-2:])
		} else if m := filenameTrailing.FindStringSubmatch(base); m != nil {
			number, _ = strconv.Atoi(m[1])
		}
		entries[i] = infoEntry{disc: disc, number: number}
	}
	return entries
}

// titlesFromFilenames guesses titles from whatever follows the position
// marker in each file name: "gd77-05-08d1t03_sugar_magnolia" becomes "Sugar
// Magnolia". Names with nothing after the marker stay untitled.
func titlesFromFilenames(audio []scan.AudioFile, entries []infoEntry) {
	for i, file := range audio {
		base := strings.TrimSuffix(file.Name, ".flac")
		loc := filenameDiscTrack.FindStringIndex(base)
		if loc == nil {
			loc = filenameTrackOnly.FindStringIndex(base)
		}
		if loc == nil {
			if m := filenameLeading.FindStringSubmatchIndex(base); m != nil {
				loc = []int{m[2], m[3]}
			}
		}
		if loc == nil {
			continue
		}
		rest := base[loc[1]:]
		rest = strings.Map(func(r rune) rune {
			if r == '_' || r == '-' || r == '.' {
				return ' '
			}
			return r
		}, rest)
		rest = strings.TrimSpace(spaceRun.ReplaceAllString(rest, " "))
		if rest == "" {
			continue
		}
		entries[i].title = titleCaser.String(rest)
	}
}
