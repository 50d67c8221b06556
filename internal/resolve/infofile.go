package resolve

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Track line styles seen in circulated info files, in precedence order:
//
//	d1t01. Title     disc and track
//	s101. Title      set and track, run together
//	t01. Title       track only
//	01. Title        bare number, disc inferred from resets
var (
	discTrackPattern = regexp.MustCompile(`^\s*[dD](\d{1,2})[tT](\d{1,2})[.)\s:-]+(.*)$`)
	setTrackPattern  = regexp.MustCompile(`^\s*[sS](\d)(\d{2})[.)\s:-]+(.*)$`)
	trackOnlyPattern = regexp.MustCompile(`^\s*[tT](\d{1,2})[.)\s:-]+(.*)$`)
	numberPattern    = regexp.MustCompile(`^\s*(\d{1,2})[.)\s:-]+(.*)$`)

	timingPattern     = regexp.MustCompile(`\s*[\[(]\d{1,2}:\d{2}(:\d{2})?[\])]\s*$`)
	annotationPattern = regexp.MustCompile(`\s*\{[^}]*\}\s*`)
	encorePattern     = regexp.MustCompile(`(?i)^\s*(encore|e)\s*:\s*`)
	spaceRun          = regexp.MustCompile(`\s+`)
)

type infoEntry struct {
	disc    int
	number  int
	title   string
	gazinta bool
}

// parseInfoLines extracts the track list from an info file. It returns nil
// when the file yields no tracks or the numbering is not in playing order,
// since a garbled list must not be trusted over later sources.
func parseInfoLines(r io.Reader) []infoEntry {
	var entries []infoEntry
	currentDisc := 1
	lastNumber := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		var disc, number int
		var rest string
		switch {
		case matchGroups(discTrackPattern, line, &disc, &number, &rest):
			currentDisc = disc
			lastNumber = number
		case matchGroups(setTrackPattern, line, &disc, &number, &rest):
			currentDisc = disc
			lastNumber = number
		case matchGroups(trackOnlyPattern, line, &number, &rest),
			matchGroups(numberPattern, line, &number, &rest):
			// Bare numbering restarts at each disc break.
			if number <= lastNumber {
				currentDisc++
			}
			disc = currentDisc
			lastNumber = number
		default:
			continue
		}
		if disc == 0 {
			disc = currentDisc
		}

		title, gazinta := cleanTitle(rest)
		entries = append(entries, infoEntry{disc: disc, number: number, title: title, gazinta: gazinta})
	}
	if scanner.Err() != nil {
		return nil
	}
	if !inPlayingOrder(entries) {
		return nil
	}
	return entries
}

func matchGroups(pattern *regexp.Regexp, line string, out ...any) bool {
	m := pattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	groups := m[1:]
	if len(groups) != len(out) {
		return false
	}
	for i, group := range groups {
		switch dst := out[i].(type) {
		case *int:
			v, err := strconv.Atoi(group)
			if err != nil {
				return false
			}
			*dst = v
		case *string:
			*dst = group
		}
	}
	return true
}

// inPlayingOrder accepts per-disc numbering that restarts at 1, or a single
// globally increasing sequence. Anything else means the lines were not a
// track list.
func inPlayingOrder(entries []infoEntry) bool {
	if len(entries) == 0 {
		return false
	}

	perDisc := true
	lastDisc, lastNumber := 0, 0
	for _, entry := range entries {
		if entry.disc != lastDisc {
			if entry.disc < lastDisc || entry.number != 1 {
				perDisc = false
				break
			}
			lastDisc = entry.disc
		} else if entry.number != lastNumber+1 {
			perDisc = false
			break
		}
		lastNumber = entry.number
	}
	if perDisc {
		return true
	}

	global := 0
	for _, entry := range entries {
		if entry.number <= global {
			return false
		}
		global = entry.number
	}
	return true
}

// cleanTitle normalizes an info-file title: unicode NFC, trailing timings and
// taper markers stripped, segue arrows converted to the gazinta flag.
func cleanTitle(raw string) (title string, gazinta bool) {
	title = norm.NFC.String(raw)
	title = strings.TrimSpace(title)
	title = timingPattern.ReplaceAllString(title, "")
	title = annotationPattern.ReplaceAllString(title, " ")
	title = encorePattern.ReplaceAllString(title, "")
	title = strings.TrimRight(title, "*#% \t")

	for _, marker := range []string{"->", ">"} {
		if strings.HasSuffix(title, marker) {
			gazinta = true
			title = strings.TrimSuffix(title, marker)
			break
		}
	}

	title = strings.TrimRight(title, ",; \t")
	title = spaceRun.ReplaceAllString(title, " ")
	return strings.TrimSpace(title), gazinta
}
