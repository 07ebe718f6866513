package match_test

import (
	"context"
	"testing"

	"reelgate/internal/catalog"
	"reelgate/internal/match"
	"reelgate/internal/testsupport"
)

func newMatcher(t *testing.T, keys map[string]string) (*match.Matcher, *catalog.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	for key, display := range keys {
		testsupport.SeedTitle(t, store, key, "", display)
	}
	return match.New(store, cfg.Matcher), store
}

func TestSearchExactQueryIsSingle(t *testing.T) {
	matcher, _ := newMatcher(t, map[string]string{
		"the godfather 1972": "The Godfather",
	})

	outcome, err := matcher.Search(context.Background(), "the godfather 1972")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if outcome.Kind != match.KindSingle {
		t.Fatalf("expected single, got %+v", outcome)
	}
	if outcome.Title.LookupKey != "the godfather 1972" {
		t.Fatalf("unexpected title: %+v", outcome.Title)
	}
}

func TestSearchExactQueryWithoutYearIsSingle(t *testing.T) {
	matcher, _ := newMatcher(t, map[string]string{
		"the godfather 1972": "The Godfather",
	})

	outcome, err := matcher.Search(context.Background(), "The Godfather")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if outcome.Kind != match.KindSingle {
		t.Fatalf("expected single, got kind %v", outcome.Kind)
	}
}

func TestSearchPartialQueryIsMany(t *testing.T) {
	matcher, _ := newMatcher(t, map[string]string{
		"inception 2010": "Inception",
	})

	outcome, err := matcher.Search(context.Background(), "incep")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if outcome.Kind != match.KindMany {
		t.Fatalf("expected many, got kind %v", outcome.Kind)
	}
	if outcome.Total != 1 || len(outcome.Titles) != 1 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if outcome.Titles[0].LookupKey != "inception 2010" {
		t.Fatalf("unexpected match: %+v", outcome.Titles[0])
	}
}

func TestSearchTokensMatchInOrder(t *testing.T) {
	matcher, _ := newMatcher(t, map[string]string{
		"the matrix 1999":          "The Matrix",
		"the matrix reloaded 2003": "The Matrix Reloaded",
	})

	outcome, err := matcher.Search(context.Background(), "matrix 1999")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if outcome.Kind != match.KindMany || outcome.Total != 1 {
		t.Fatalf("expected one ordered match, got %+v", outcome)
	}
	if outcome.Titles[0].LookupKey != "the matrix 1999" {
		t.Fatalf("unexpected match: %+v", outcome.Titles[0])
	}

	outcome, err = matcher.Search(context.Background(), "1999 matrix")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if outcome.Kind == match.KindMany {
		t.Fatalf("reversed tokens must not pattern-match, got %+v", outcome)
	}
}

func TestSearchTypoYieldsSuggestions(t *testing.T) {
	matcher, _ := newMatcher(t, map[string]string{
		"the godfather 1972": "The Godfather",
		"inception 2010":     "Inception",
	})

	outcome, err := matcher.Search(context.Background(), "godfther")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if outcome.Kind != match.KindSuggestions {
		t.Fatalf("expected suggestions, got kind %v", outcome.Kind)
	}
	if len(outcome.Suggestions) == 0 {
		t.Fatal("expected at least one suggestion")
	}
	if outcome.Suggestions[0].Title.LookupKey != "the godfather 1972" {
		t.Fatalf("unexpected top suggestion: %+v", outcome.Suggestions[0])
	}
}

func TestSearchSuggestionLimit(t *testing.T) {
	matcher, _ := newMatcher(t, map[string]string{
		"inception 2010":  "Inception",
		"inceptions 2011": "Inceptions",
		"incepcion 2012":  "Incepcion",
		"inceptor 2013":   "Inceptor",
	})

	outcome, err := matcher.Search(context.Background(), "inceptoin")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if outcome.Kind != match.KindSuggestions {
		t.Fatalf("expected suggestions, got kind %v", outcome.Kind)
	}
	if len(outcome.Suggestions) > 3 {
		t.Fatalf("suggestion list too long: %d", len(outcome.Suggestions))
	}
}

func TestSearchNothingAtAll(t *testing.T) {
	matcher, _ := newMatcher(t, map[string]string{
		"inception 2010": "Inception",
	})

	outcome, err := matcher.Search(context.Background(), "zzzzqqqq")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if outcome.Kind != match.KindNone {
		t.Fatalf("expected none, got %+v", outcome)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	matcher, _ := newMatcher(t, map[string]string{
		"inception 2010": "Inception",
	})

	outcome, err := matcher.Search(context.Background(), "  !!!  ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if outcome.Kind != match.KindNone {
		t.Fatalf("expected none for empty query, got %+v", outcome)
	}
}

func TestPagePaginatesAndClamps(t *testing.T) {
	keys := map[string]string{
		"agent a 2001": "Agent A",
		"agent b 2002": "Agent B",
		"agent c 2003": "Agent C",
		"agent d 2004": "Agent D",
		"agent e 2005": "Agent E",
		"agent f 2006": "Agent F",
		"agent g 2007": "Agent G",
		"agent h 2008": "Agent H",
		"agent i 2009": "Agent I",
		"agent j 2010": "Agent J",
	}
	matcher, _ := newMatcher(t, keys)
	ctx := context.Background()

	first, err := matcher.Page(ctx, "agent", 0)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if first.Kind != match.KindMany || first.Total != 10 {
		t.Fatalf("unexpected first page: %+v", first)
	}
	if len(first.Titles) != 8 || first.PageCount != 2 {
		t.Fatalf("unexpected paging: %d titles, %d pages", len(first.Titles), first.PageCount)
	}

	second, err := matcher.Page(ctx, "agent", 1)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if len(second.Titles) != 2 || second.Page != 1 {
		t.Fatalf("unexpected second page: %+v", second)
	}

	clamped, err := matcher.Page(ctx, "agent", 99)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if clamped.Page != 1 {
		t.Fatalf("expected clamp to last page, got %d", clamped.Page)
	}
}

func TestSearchEscapesWildcardCharacters(t *testing.T) {
	matcher, _ := newMatcher(t, map[string]string{
		"agent a 2001": "Agent A",
		"agent b 2002": "Agent B",
	})

	outcome, err := matcher.Search(context.Background(), "agent%")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// Tokenization strips the wildcard, so this behaves like "agent".
	if outcome.Kind != match.KindMany || outcome.Total != 2 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}
