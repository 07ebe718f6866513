// Package caption extracts structured catalog fields (title, year, quality,
// language) from free-text media captions. Parsing is a pure function with an
// explicit ordered rule list so the heuristics stay unit-testable.
package caption
