package textutil

import (
	"regexp"
	"strings"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Tokenize splits text into lowercase alphanumeric tokens.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	raw := tokenSplitPattern.Split(lowered, -1)
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// NormalizeKey builds the catalog lookup key for a title: lowercase
// alphanumeric tokens joined by single spaces, with the release year
// appended when known. The key is the dedup identity of a title.
func NormalizeKey(title, year string) string {
	tokens := Tokenize(title)
	if len(tokens) == 0 {
		return ""
	}
	key := strings.Join(tokens, " ")
	if year = strings.TrimSpace(year); year != "" {
		key += " " + year
	}
	return key
}
