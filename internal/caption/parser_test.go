package caption_test

import (
	"testing"

	"reelgate/internal/caption"
)

func TestParseExtractsAllFields(t *testing.T) {
	parsed, ok := caption.Parse("The.Matrix.(1999).1080p.Hindi")
	if !ok {
		t.Fatal("expected caption to parse")
	}
	if parsed.Title != "The Matrix" {
		t.Fatalf("unexpected title %q", parsed.Title)
	}
	if parsed.Year != "1999" {
		t.Fatalf("unexpected year %q", parsed.Year)
	}
	if parsed.Quality != "1080p" {
		t.Fatalf("unexpected quality %q", parsed.Quality)
	}
	if parsed.Language != "Hindi" {
		t.Fatalf("unexpected language %q", parsed.Language)
	}
}

func TestParseTable(t *testing.T) {
	cases := []struct {
		name    string
		caption string
		ok      bool
		want    caption.Parsed
	}{
		{
			name:    "plain title and year",
			caption: "Inception 2010",
			ok:      true,
			want:    caption.Parsed{Title: "Inception", Year: "2010", Quality: "Unknown", Language: "Unknown"},
		},
		{
			name:    "parenthesized year with variant fields",
			caption: "Inception (2010) 720p English",
			ok:      true,
			want:    caption.Parsed{Title: "Inception", Year: "2010", Quality: "720p", Language: "English"},
		},
		{
			name:    "no year falls back to stop tokens",
			caption: "Drive My Car 1080p Dual Audio",
			ok:      true,
			want:    caption.Parsed{Title: "Drive My Car", Year: "", Quality: "1080p", Language: "Unknown"},
		},
		{
			name:    "release jargon stops the scan",
			caption: "Parasite WEBRip x264 Korean Subs",
			ok:      true,
			want:    caption.Parsed{Title: "Parasite", Year: "", Quality: "Unknown", Language: "Unknown"},
		},
		{
			name:    "4k folds to 2160p",
			caption: "Dune Part Two (2024) 4K HDR English",
			ok:      true,
			want:    caption.Parsed{Title: "Dune Part Two", Year: "2024", Quality: "2160p", Language: "English"},
		},
		{
			name:    "bengali folds to bangla",
			caption: "Hawa (2022) 720p Bengali",
			ok:      true,
			want:    caption.Parsed{Title: "Hawa", Year: "2022", Quality: "720p", Language: "Bangla"},
		},
		{
			name:    "year-like title keeps later year",
			caption: "1917 (2019) 1080p English",
			ok:      true,
			want:    caption.Parsed{Title: "1917", Year: "2019", Quality: "1080p", Language: "English"},
		},
		{
			name:    "implausible number is not a year",
			caption: "Se7en 3000 Edition 1080p",
			ok:      true,
			want:    caption.Parsed{Title: "Se7en 3000 Edition", Year: "", Quality: "1080p", Language: "Unknown"},
		},
		{
			name:    "uppercase caption is title cased",
			caption: "OLDBOY (2003) 720p",
			ok:      true,
			want:    caption.Parsed{Title: "Oldboy", Year: "2003", Quality: "720p", Language: "Unknown"},
		},
		{
			name:    "empty caption fails",
			caption: "",
			ok:      false,
		},
		{
			name:    "whitespace caption fails",
			caption: "   ",
			ok:      false,
		},
		{
			name:    "caption of only stop tokens fails",
			caption: "1080p Hindi WEB-DL",
			ok:      false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, ok := caption.Parse(tc.caption)
			if ok != tc.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tc.caption, ok, tc.ok)
			}
			if !tc.ok {
				return
			}
			if parsed != tc.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tc.caption, parsed, tc.want)
			}
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	first, ok := caption.Parse("The Godfather (1972) 1080p English")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	for i := 0; i < 5; i++ {
		again, _ := caption.Parse("The Godfather (1972) 1080p English")
		if again != first {
			t.Fatalf("parse not deterministic: %+v vs %+v", again, first)
		}
	}
}
