package textutil

import "testing"

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		name  string
		title string
		year  string
		want  string
	}{
		{"simple", "The Matrix", "1999", "the matrix 1999"},
		{"punctuation stripped", "Spider-Man: No Way Home", "2021", "spider man no way home 2021"},
		{"collapsed whitespace", "  The   Godfather ", "1972", "the godfather 1972"},
		{"no year", "Inception", "", "inception"},
		{"empty title", "  --  ", "2000", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeKey(tc.title, tc.year); got != tc.want {
				t.Fatalf("NormalizeKey(%q, %q) = %q, want %q", tc.title, tc.year, got, tc.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("The.Matrix_(1999) 1080p!")
	want := []string{"the", "matrix", "1999", "1080p"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize returned %v, want %v", got, want)
		}
	}
}

func TestScoreIdentical(t *testing.T) {
	if got := Score("inception 2010", "inception 2010"); got != 100 {
		t.Fatalf("expected 100 for identical strings, got %d", got)
	}
}

func TestScoreEmpty(t *testing.T) {
	if got := Score("", "inception"); got != 0 {
		t.Fatalf("expected 0 for empty input, got %d", got)
	}
	if got := Score("", ""); got != 0 {
		t.Fatalf("expected 0 for two empty strings, got %d", got)
	}
}

func TestScoreTypoMeetsSuggestionThreshold(t *testing.T) {
	if got := Score("godfther", "the godfather 1972"); got < 75 {
		t.Fatalf("expected typo to score >= 75, got %d", got)
	}
}

func TestScorePrefixQueryScoresHigh(t *testing.T) {
	if got := Score("incep", "inception 2010"); got != 100 {
		t.Fatalf("expected partial window to score 100, got %d", got)
	}
}

func TestScoreUnrelatedStaysLow(t *testing.T) {
	if got := Score("zzzzqqqq", "the godfather 1972"); got >= 75 {
		t.Fatalf("expected unrelated strings to stay below threshold, got %d", got)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"godfther", "godfathe", 2},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Fatalf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
