package resolve

import (
	"strings"
	"testing"
)

func TestParseInfoLinesDiscTrackStyle(t *testing.T) {
	info := `
Grateful Dead
Barton Hall, Cornell University
May 8, 1977

d1t01. New Minglewood Blues (4:37)
d1t02. Loser
d1t03. El Paso
d2t01. Scarlet Begonias ->
d2t02. Fire On The Mountain
`
	entries := parseInfoLines(strings.NewReader(info))
	if len(entries) != 5 {
		t.Fatalf("expected five entries, got %d", len(entries))
	}
	if entries[0].disc != 1 || entries[0].number != 1 || entries[0].title != "New Minglewood Blues" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[3].disc != 2 || entries[3].number != 1 || !entries[3].gazinta {
		t.Fatalf("unexpected segue entry: %+v", entries[3])
	}
	if entries[3].title != "Scarlet Begonias" {
		t.Fatalf("segue marker not stripped: %q", entries[3].title)
	}
}

func TestParseInfoLinesBareNumbersBumpDisc(t *testing.T) {
	info := `
Set 1:
01. Jack Straw
02. Deal
03. Cassidy

Set 2:
01. China Cat Sunflower >
02. I Know You Rider
`
	entries := parseInfoLines(strings.NewReader(info))
	if len(entries) != 5 {
		t.Fatalf("expected five entries, got %d", len(entries))
	}
	if entries[2].disc != 1 || entries[3].disc != 2 {
		t.Fatalf("expected disc bump at numbering reset: %+v", entries)
	}
	if !entries[3].gazinta || entries[3].title != "China Cat Sunflower" {
		t.Fatalf("unexpected segue entry: %+v", entries[3])
	}
}

func TestParseInfoLinesSetTrackStyle(t *testing.T) {
	info := "s101. Bertha\ns102. Greatest Story Ever Told\ns201. Playing In The Band\n"
	entries := parseInfoLines(strings.NewReader(info))
	if len(entries) != 3 {
		t.Fatalf("expected three entries, got %d", len(entries))
	}
	if entries[2].disc != 2 || entries[2].number != 1 {
		t.Fatalf("unexpected set two entry: %+v", entries[2])
	}
}

func TestParseInfoLinesTrackOnlyStyle(t *testing.T) {
	info := "t01 Here Comes Sunshine [12:44]\nt02 Big River\n"
	entries := parseInfoLines(strings.NewReader(info))
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	if entries[0].title != "Here Comes Sunshine" {
		t.Fatalf("timing not stripped: %q", entries[0].title)
	}
}

func TestParseInfoLinesRejectsOutOfOrder(t *testing.T) {
	info := "01. Jack Straw\n05. Deal\n03. Cassidy\n"
	if entries := parseInfoLines(strings.NewReader(info)); entries != nil {
		t.Fatalf("expected out-of-order list to be rejected, got %+v", entries)
	}
}

func TestParseInfoLinesAcceptsGloballyIncreasing(t *testing.T) {
	info := "d1t01. Bertha\nd1t02. Me And My Uncle\nd2t03. Eyes Of The World\n"
	entries := parseInfoLines(strings.NewReader(info))
	if len(entries) != 3 {
		t.Fatalf("expected globally increasing numbering to pass, got %+v", entries)
	}
}

func TestCleanTitle(t *testing.T) {
	cases := []struct {
		raw     string
		title   string
		gazinta bool
	}{
		{"Sugaree (7:31)", "Sugaree", false},
		{"Scarlet Begonias ->", "Scarlet Begonias", true},
		{"China Cat Sunflower >", "China Cat Sunflower", true},
		{"Truckin' * ", "Truckin'", false},
		{"Deal   [5:12]", "Deal", false},
		{"Morning  Dew,", "Morning Dew", false},
		{"Encore: Johnny B. Goode", "Johnny B. Goode", false},
		{"E: U.S. Blues", "U.S. Blues", false},
		{"Dark Star {with Mind Left Body jam} ->", "Dark Star", true},
		{"Casey Jones %", "Casey Jones", false},
	}
	for _, tc := range cases {
		title, gazinta := cleanTitle(tc.raw)
		if title != tc.title || gazinta != tc.gazinta {
			t.Errorf("cleanTitle(%q) = (%q, %v), want (%q, %v)", tc.raw, title, gazinta, tc.title, tc.gazinta)
		}
	}
}
