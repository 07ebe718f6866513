// Package bot implements the conversational surface: channel ingestion,
// query resolution, verification hand-off, and deep-link delivery, plus the
// operator command set. It speaks through the transport interfaces only.
package bot

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"reelgate/internal/catalog"
	"reelgate/internal/config"
	"reelgate/internal/expiry"
	"reelgate/internal/ingest"
	"reelgate/internal/logging"
	"reelgate/internal/match"
	"reelgate/internal/transport"
)

// Bot wires the catalog, matcher, ingestion pipeline, and expiry scheduler
// behind the chat transport.
type Bot struct {
	cfg       *config.Config
	store     *catalog.Store
	matcher   *match.Matcher
	pipeline  *ingest.Pipeline
	scheduler *expiry.Scheduler
	client    transport.Client
	logger    *slog.Logger

	// pending tracks destructive admin commands awaiting confirmation,
	// keyed by admin user id. In memory only; a restart clears it.
	mu      sync.Mutex
	pending map[int64]pendingAction
}

// New assembles a bot from its collaborators.
func New(cfg *config.Config, store *catalog.Store, matcher *match.Matcher, pipeline *ingest.Pipeline, scheduler *expiry.Scheduler, client transport.Client, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Bot{
		cfg:       cfg,
		store:     store,
		matcher:   matcher,
		pipeline:  pipeline,
		scheduler: scheduler,
		client:    client,
		logger:    logger.With(logging.String(logging.FieldComponent, "bot")),
		pending:   make(map[int64]pendingAction),
	}
}

// HandleEvent routes one inbound transport event. Errors are handled and
// logged internally; the dispatcher never needs to react to them.
func (b *Bot) HandleEvent(ctx context.Context, event transport.Event) {
	switch ev := event.(type) {
	case transport.ChannelPost:
		b.handleChannelPost(ctx, ev)
	case transport.UserMessage:
		b.handleUserMessage(ctx, ev)
	case transport.CallbackPress:
		b.handleCallback(ctx, ev)
	default:
		b.logger.Warn("unhandled event type", logging.Any("event", event))
	}
}

func (b *Bot) handleChannelPost(ctx context.Context, post transport.ChannelPost) {
	result := b.pipeline.Ingest(ctx, post)
	if result.Status == ingest.StatusFailed {
		b.logger.Error("channel post not indexed",
			logging.Int64(logging.FieldChatID, post.ChatID),
			logging.Int64(logging.FieldMessageID, post.MessageID),
			logging.Error(result.Err))
	}
}

func (b *Bot) handleUserMessage(ctx context.Context, msg transport.UserMessage) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if _, err := b.store.RememberUser(ctx, msg.UserID, msg.UserName); err != nil {
		b.logger.Warn("remember user failed",
			logging.Int64(logging.FieldUserID, msg.UserID),
			logging.Error(err))
	}

	if strings.HasPrefix(text, "/") {
		b.handleCommand(ctx, msg, text)
		return
	}
	if b.resolvePending(ctx, msg, text) {
		return
	}
	b.handleQuery(ctx, msg, text)
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string, keyboard transport.Keyboard) {
	if _, err := b.client.SendMessage(ctx, chatID, text, keyboard); err != nil {
		b.logger.Error("send reply failed",
			logging.Int64(logging.FieldChatID, chatID),
			logging.Error(err))
	}
}
