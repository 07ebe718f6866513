// Package textutil provides the text normalization and similarity scoring
// primitives shared by the caption parser and the query matcher.
package textutil
