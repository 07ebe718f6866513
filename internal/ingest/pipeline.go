// Package ingest turns channel posts into catalog records. Every media post
// in an allowed channel runs through the same pipeline: parse the caption,
// derive the lookup key, resolve or create the title, then upsert the
// variant. Reposting the same file is harmless and repush of a variant
// replaces the stored deliverable.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"reelgate/internal/caption"
	"reelgate/internal/catalog"
	"reelgate/internal/logging"
	"reelgate/internal/textutil"
	"reelgate/internal/transport"
)

// Status classifies the outcome of ingesting one post.
type Status int

const (
	// StatusIndexed means a variant was written to the catalog.
	StatusIndexed Status = iota
	// StatusSkipped means the post was ignored on purpose.
	StatusSkipped
	// StatusFailed means the catalog write failed.
	StatusFailed
)

// Skip reasons reported on StatusSkipped results.
const (
	SkipChannelNotAllowed = "channel not allowed"
	SkipNoMedia           = "no media attached"
	SkipUnparsableCaption = "caption not parsable"
)

// Result describes what ingestion did with a post.
type Result struct {
	Status     Status
	SkipReason string
	Title      *catalog.Title
	Variant    *catalog.Variant
	TitleNew   bool
	Err        error
}

// Pipeline ingests channel posts into a catalog store.
type Pipeline struct {
	store  *catalog.Store
	logger *slog.Logger
}

// NewPipeline builds an ingestion pipeline over the given store.
func NewPipeline(store *catalog.Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		store:  store,
		logger: logger.With(logging.String(logging.FieldComponent, "ingest")),
	}
}

// Ingest processes one channel post. Posts from unregistered channels,
// posts without media, and posts with captions no title can be pulled from
// are skipped, never failed; only catalog errors produce StatusFailed.
func (p *Pipeline) Ingest(ctx context.Context, post transport.ChannelPost) Result {
	allowed, err := p.store.IsChannelAllowed(ctx, post.ChatID)
	if err != nil {
		return p.fail(post, fmt.Errorf("check channel: %w", err))
	}
	if !allowed {
		return p.skip(post, SkipChannelNotAllowed)
	}
	if post.FileRef == "" {
		return p.skip(post, SkipNoMedia)
	}

	parsed, ok := caption.Parse(post.Caption)
	if !ok {
		return p.skip(post, SkipUnparsableCaption)
	}

	lookupKey := textutil.NormalizeKey(parsed.Title, parsed.Year)
	title, created, err := p.store.FindOrCreateTitle(ctx, lookupKey, parsed.Year, parsed.Title)
	if err != nil {
		return p.fail(post, fmt.Errorf("resolve title: %w", err))
	}

	variant, err := p.store.UpsertVariant(ctx, title.ID, parsed.Quality, parsed.Language, post.FileRef, post.ChatID, post.MessageID)
	if err != nil {
		return p.fail(post, fmt.Errorf("upsert variant: %w", err))
	}

	p.logger.Info("post indexed",
		logging.Int64(logging.FieldChatID, post.ChatID),
		logging.Int64(logging.FieldMessageID, post.MessageID),
		logging.Int64(logging.FieldTitleID, title.ID),
		logging.Int64(logging.FieldVariantID, variant.ID),
		logging.String("lookup_key", title.LookupKey),
		logging.Bool("title_created", created))

	return Result{
		Status:   StatusIndexed,
		Title:    title,
		Variant:  variant,
		TitleNew: created,
	}
}

func (p *Pipeline) skip(post transport.ChannelPost, reason string) Result {
	// An unparsable caption means a post in a registered channel was lost
	// to the catalog, so it is surfaced louder than routine skips.
	level := slog.LevelDebug
	if reason == SkipUnparsableCaption {
		level = slog.LevelWarn
	}
	p.logger.Log(context.Background(), level, "post skipped",
		logging.Int64(logging.FieldChatID, post.ChatID),
		logging.Int64(logging.FieldMessageID, post.MessageID),
		logging.String("reason", reason))
	return Result{Status: StatusSkipped, SkipReason: reason}
}

func (p *Pipeline) fail(post transport.ChannelPost, err error) Result {
	p.logger.Error("post ingestion failed",
		logging.Int64(logging.FieldChatID, post.ChatID),
		logging.Int64(logging.FieldMessageID, post.MessageID),
		logging.Error(err))
	return Result{Status: StatusFailed, Err: err}
}
