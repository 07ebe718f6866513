package caption

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reelgate/internal/textutil"
)

// Parsed holds the structured fields extracted from a caption.
type Parsed struct {
	Title    string
	Year     string
	Quality  string
	Language string
}

var (
	yearPattern      = regexp.MustCompile(`\b(\d{4})\b`)
	separatorPattern = regexp.MustCompile(`[._]`)
	titleCaser       = cases.Title(language.Und)
)

// Parse extracts title, optional year, quality, and language from a raw
// caption. The second return value is false when no usable title can be
// isolated; callers log and skip, they do not abort ingestion.
func Parse(caption string) (Parsed, bool) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return Parsed{}, false
	}

	normalized := separatorPattern.ReplaceAllString(caption, " ")

	title, year := extractTitle(normalized)
	if title == "" {
		return Parsed{}, false
	}

	return Parsed{
		Title:    title,
		Year:     year,
		Quality:  extractQuality(caption),
		Language: extractLanguage(caption),
	}, true
}

// extractTitle applies the year heuristic first: everything before the first
// plausible 4-digit year is the title. Without a year it takes leading words
// until a stop token.
func extractTitle(text string) (string, string) {
	// Titles that are themselves years ("1917") leave nothing before the
	// first match; later matches are tried before giving up on the heuristic.
	offset := 0
	for {
		loc := findYear(text, offset)
		if loc == nil {
			break
		}
		if title := cleanTitle(text[:loc[0]]); title != "" {
			return title, text[loc[0]:loc[1]]
		}
		offset = loc[1]
	}

	var words []string
	for _, word := range strings.Fields(text) {
		token := strings.ToLower(strings.Trim(word, "()[]{}"))
		if _, stop := stopTokens[token]; stop {
			break
		}
		words = append(words, word)
	}
	return cleanTitle(strings.Join(words, " ")), ""
}

// findYear returns the index range of the first 4-digit number at or after
// offset that looks like a release year.
func findYear(text string, offset int) []int {
	for {
		loc := yearPattern.FindStringIndex(text[offset:])
		if loc == nil {
			return nil
		}
		start, end := offset+loc[0], offset+loc[1]
		value, err := strconv.Atoi(text[start:end])
		if err == nil && value >= 1880 && value <= 2099 {
			return []int{start, end}
		}
		offset = end
	}
}

func cleanTitle(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimRight(raw, "([{-:|")
	raw = strings.Join(strings.Fields(raw), " ")
	if raw == "" {
		return ""
	}
	if isDegenerateCase(raw) {
		return titleCaser.String(strings.ToLower(raw))
	}
	return raw
}

// isDegenerateCase reports whether a title carries no casing information
// (all upper or all lower), in which case display casing is synthesized.
func isDegenerateCase(s string) bool {
	hasUpper, hasLower := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}
	return !hasUpper || !hasLower
}

func extractQuality(caption string) string {
	lowered := strings.ToLower(caption)
	for _, q := range qualityLabels {
		if strings.Contains(lowered, q.match) {
			return q.canonical
		}
	}
	return LabelUnknown
}

func extractLanguage(caption string) string {
	for _, token := range textutil.Tokenize(caption) {
		if label, ok := languageWords[token]; ok {
			return label
		}
	}
	return LabelUnknown
}
