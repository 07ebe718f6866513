// Package match resolves free-text queries against the catalog. Queries are
// tokenized and turned into an ordered substring pattern, so "matrix 1999"
// finds "the matrix 1999" without the user typing the article. When nothing
// matches the pattern, a fuzzy pass over the whole catalog offers close
// spellings instead of a dead end.
package match

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"reelgate/internal/catalog"
	"reelgate/internal/config"
	"reelgate/internal/textutil"
)

// Kind classifies a search outcome.
type Kind int

const (
	// KindNone means nothing matched and no suggestion cleared the bar.
	KindNone Kind = iota
	// KindSingle means exactly one title matched the query exactly.
	KindSingle
	// KindMany means one or more titles matched; Titles holds one page.
	KindMany
	// KindSuggestions means the pattern found nothing but near-miss
	// spellings exist.
	KindSuggestions
)

// Suggestion pairs a near-miss title with its similarity score.
type Suggestion struct {
	Title *catalog.Title
	Score int
}

// Outcome is the result of resolving one query.
type Outcome struct {
	Kind        Kind
	Title       *catalog.Title
	Titles      []*catalog.Title
	Suggestions []Suggestion

	Page      int
	PageCount int
	Total     int
}

// Matcher resolves queries against a catalog store.
type Matcher struct {
	store           *catalog.Store
	pageSize        int
	suggestionLimit int
	threshold       int
}

// New builds a matcher with the given paging and suggestion settings.
func New(store *catalog.Store, cfg config.Matcher) *Matcher {
	return &Matcher{
		store:           store,
		pageSize:        cfg.PageSize,
		suggestionLimit: cfg.SuggestionLimit,
		threshold:       cfg.SuggestionThreshold,
	}
}

// Search resolves a query from its first page.
func (m *Matcher) Search(ctx context.Context, raw string) (Outcome, error) {
	return m.Page(ctx, raw, 0)
}

// Page resolves one page of a query. Out-of-range pages are clamped to the
// last valid page rather than rejected; stale pagination buttons outlive
// catalog edits.
func (m *Matcher) Page(ctx context.Context, raw string, page int) (Outcome, error) {
	tokens := textutil.Tokenize(raw)
	if len(tokens) == 0 {
		return Outcome{Kind: KindNone}, nil
	}

	pattern := buildPattern(tokens)
	total, err := m.store.CountTitlesByPattern(ctx, pattern)
	if err != nil {
		return Outcome{}, fmt.Errorf("count matches: %w", err)
	}
	if total == 0 {
		return m.suggest(ctx, strings.Join(tokens, " "))
	}

	pageCount := (total + m.pageSize - 1) / m.pageSize
	if page < 0 {
		page = 0
	}
	if page >= pageCount {
		page = pageCount - 1
	}

	titles, err := m.store.TitlesByPattern(ctx, pattern, m.pageSize, page*m.pageSize)
	if err != nil {
		return Outcome{}, fmt.Errorf("fetch matches: %w", err)
	}

	if total == 1 && isExactQuery(tokens, titles[0].LookupKey) {
		return Outcome{Kind: KindSingle, Title: titles[0], Total: 1, PageCount: 1}, nil
	}

	return Outcome{
		Kind:      KindMany,
		Titles:    titles,
		Page:      page,
		PageCount: pageCount,
		Total:     total,
	}, nil
}

func (m *Matcher) suggest(ctx context.Context, query string) (Outcome, error) {
	titles, err := m.store.AllTitles(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("load suggestion corpus: %w", err)
	}

	var suggestions []Suggestion
	for _, title := range titles {
		score := textutil.Score(query, title.LookupKey)
		if score >= m.threshold {
			suggestions = append(suggestions, Suggestion{Title: title, Score: score})
		}
	}
	if len(suggestions) == 0 {
		return Outcome{Kind: KindNone}, nil
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Title.LookupKey < suggestions[j].Title.LookupKey
	})
	if len(suggestions) > m.suggestionLimit {
		suggestions = suggestions[:m.suggestionLimit]
	}

	return Outcome{Kind: KindSuggestions, Suggestions: suggestions}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildPattern turns query tokens into an ordered LIKE pattern. Each token
// must appear in order but gaps between them are free, so partial titles
// still match.
func buildPattern(tokens []string) string {
	var b strings.Builder
	b.WriteByte('%')
	for _, token := range tokens {
		b.WriteString(likeEscaper.Replace(token))
		b.WriteByte('%')
	}
	return b.String()
}

var trailingYearPattern = regexp.MustCompile(` (18|19|20)\d{2}$`)

// isExactQuery reports whether the query names the lookup key outright,
// with or without the trailing year.
func isExactQuery(tokens []string, lookupKey string) bool {
	query := strings.Join(tokens, " ")
	if query == lookupKey {
		return true
	}
	return query == trailingYearPattern.ReplaceAllString(lookupKey, "")
}
