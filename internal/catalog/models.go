package catalog

import (
	"strings"
	"time"
)

// Title represents one logical work. Display fields are written once on
// first ingestion and never overwritten; LookupKey is the dedup identity.
type Title struct {
	ID           int64
	DisplayTitle string
	Year         string
	LookupKey    string
	CreatedAt    time.Time
}

// Display renders the title with its year for user-facing messages.
func (t *Title) Display() string {
	if t == nil {
		return ""
	}
	if strings.TrimSpace(t.Year) == "" {
		return t.DisplayTitle
	}
	return t.DisplayTitle + " (" + t.Year + ")"
}

// Variant is one deliverable file for a Title at a quality/language
// combination. Re-ingesting the same (title, quality, language) replaces the
// payload fields in place.
type Variant struct {
	ID        int64
	TitleID   int64
	Quality   string
	Language  string
	FileRef   string
	ChatID    int64
	MessageID int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Label renders the variant's quality/language pair for selection keyboards.
func (v *Variant) Label() string {
	if v == nil {
		return ""
	}
	return v.Quality + " · " + v.Language
}

// Stats aggregates catalog counts for the /stats command and health endpoint.
type Stats struct {
	Titles   int
	Variants int
	Users    int
	Channels int
}
