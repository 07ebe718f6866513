package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"reelgate/internal/logging"
	"reelgate/internal/match"
	"reelgate/internal/transport"
)

type pendingKind int

const (
	pendingDeleteTitle pendingKind = iota
	pendingWipe
)

// pendingAction is a destructive command waiting on a "yes" from its admin.
type pendingAction struct {
	kind    pendingKind
	titleID int64
	display string
}

func (b *Bot) handleAdminCommand(ctx context.Context, msg transport.UserMessage, command string, args []string) {
	if !b.cfg.IsAdmin(msg.UserID) {
		b.reply(ctx, msg.ChatID, "Unknown command. "+msgWelcome, nil)
		return
	}

	switch command {
	case "/stats":
		b.sendStats(ctx, msg.ChatID)
	case "/addchannel":
		b.addChannel(ctx, msg.ChatID, args)
	case "/delchannel":
		b.removeChannel(ctx, msg.ChatID, args)
	case "/channels":
		b.listChannels(ctx, msg.ChatID)
	case "/del":
		b.armDeleteTitle(ctx, msg, args)
	case "/wipe":
		b.setPending(msg.UserID, pendingAction{kind: pendingWipe})
		b.reply(ctx, msg.ChatID, "This removes EVERY title and variant from the catalog. Reply \"yes\" to confirm.", nil)
	}
}

// resolvePending consumes the next message from an admin with an armed
// destructive command. Returns false when nothing was pending.
func (b *Bot) resolvePending(ctx context.Context, msg transport.UserMessage, text string) bool {
	action, ok := b.takePending(msg.UserID)
	if !ok {
		return false
	}
	if !strings.EqualFold(text, "yes") {
		b.reply(ctx, msg.ChatID, "Cancelled.", nil)
		return true
	}

	switch action.kind {
	case pendingDeleteTitle:
		titles, variants, err := b.store.DeleteTitleCascade(ctx, action.titleID)
		if err != nil {
			b.logger.Error("title delete failed",
				logging.Int64(logging.FieldTitleID, action.titleID),
				logging.Error(err))
			b.reply(ctx, msg.ChatID, "Delete failed. Check the logs.", nil)
			return true
		}
		b.logger.Info("title deleted",
			logging.Int64(logging.FieldUserID, msg.UserID),
			logging.Int64(logging.FieldTitleID, action.titleID),
			logging.Int64("variants_deleted", variants))
		b.reply(ctx, msg.ChatID, fmt.Sprintf("Deleted %q (%d title, %d variants).", action.display, titles, variants), nil)

	case pendingWipe:
		titles, variants, err := b.store.Wipe(ctx)
		if err != nil {
			b.logger.Error("catalog wipe failed", logging.Error(err))
			b.reply(ctx, msg.ChatID, "Wipe failed. Check the logs.", nil)
			return true
		}
		b.logger.Info("catalog wiped",
			logging.Int64(logging.FieldUserID, msg.UserID),
			logging.Int64("titles_deleted", titles),
			logging.Int64("variants_deleted", variants))
		b.reply(ctx, msg.ChatID, fmt.Sprintf("Catalog wiped: %d titles, %d variants removed.", titles, variants), nil)
	}
	return true
}

func (b *Bot) armDeleteTitle(ctx context.Context, msg transport.UserMessage, args []string) {
	if len(args) == 0 {
		b.reply(ctx, msg.ChatID, "Usage: /del <title>", nil)
		return
	}
	query := strings.Join(args, " ")

	outcome, err := b.matcher.Search(ctx, query)
	if err != nil {
		b.logger.Error("delete lookup failed", logging.String("query", query), logging.Error(err))
		b.reply(ctx, msg.ChatID, "Lookup failed. Check the logs.", nil)
		return
	}

	switch outcome.Kind {
	case match.KindNone:
		b.reply(ctx, msg.ChatID, "No title matches that.", nil)

	case match.KindSingle:
		b.setPending(msg.UserID, pendingAction{
			kind:    pendingDeleteTitle,
			titleID: outcome.Title.ID,
			display: outcome.Title.Display(),
		})
		b.reply(ctx, msg.ChatID, fmt.Sprintf("Delete %q and all of its variants? Reply \"yes\" to confirm.", outcome.Title.Display()), nil)

	case match.KindMany:
		if outcome.Total == 1 {
			title := outcome.Titles[0]
			b.setPending(msg.UserID, pendingAction{
				kind:    pendingDeleteTitle,
				titleID: title.ID,
				display: title.Display(),
			})
			b.reply(ctx, msg.ChatID, fmt.Sprintf("Delete %q and all of its variants? Reply \"yes\" to confirm.", title.Display()), nil)
			return
		}
		var lines []string
		for _, title := range outcome.Titles {
			lines = append(lines, "  "+title.LookupKey)
		}
		b.reply(ctx, msg.ChatID, fmt.Sprintf("%d titles match, narrow it down:\n%s", outcome.Total, strings.Join(lines, "\n")), nil)

	case match.KindSuggestions:
		var lines []string
		for _, s := range outcome.Suggestions {
			lines = append(lines, "  "+s.Title.LookupKey)
		}
		b.reply(ctx, msg.ChatID, "No exact match. Closest entries:\n"+strings.Join(lines, "\n"), nil)
	}
}

func (b *Bot) sendStats(ctx context.Context, chatID int64) {
	stats, err := b.store.Stats(ctx)
	if err != nil {
		b.logger.Error("stats failed", logging.Error(err))
		b.reply(ctx, chatID, "Stats unavailable. Check the logs.", nil)
		return
	}
	b.reply(ctx, chatID, fmt.Sprintf(
		"Catalog stats:\n  Titles: %d\n  Variants: %d\n  Users: %d\n  Channels: %d",
		stats.Titles, stats.Variants, stats.Users, stats.Channels), nil)
}

func (b *Bot) addChannel(ctx context.Context, chatID int64, args []string) {
	id, ok := parseChannelID(args)
	if !ok {
		b.reply(ctx, chatID, "Usage: /addchannel <negative channel id>", nil)
		return
	}
	added, err := b.store.AddChannel(ctx, id)
	if err != nil {
		b.logger.Error("add channel failed", logging.Int64(logging.FieldChatID, id), logging.Error(err))
		b.reply(ctx, chatID, "Add failed. Check the logs.", nil)
		return
	}
	if !added {
		b.reply(ctx, chatID, fmt.Sprintf("Channel %d is already registered.", id), nil)
		return
	}
	b.reply(ctx, chatID, fmt.Sprintf("Channel %d registered. New posts there will be indexed.", id), nil)
}

func (b *Bot) removeChannel(ctx context.Context, chatID int64, args []string) {
	id, ok := parseChannelID(args)
	if !ok {
		b.reply(ctx, chatID, "Usage: /delchannel <negative channel id>", nil)
		return
	}
	removed, err := b.store.RemoveChannel(ctx, id)
	if err != nil {
		b.logger.Error("remove channel failed", logging.Int64(logging.FieldChatID, id), logging.Error(err))
		b.reply(ctx, chatID, "Remove failed. Check the logs.", nil)
		return
	}
	if !removed {
		b.reply(ctx, chatID, fmt.Sprintf("Channel %d is not registered.", id), nil)
		return
	}
	b.reply(ctx, chatID, fmt.Sprintf("Channel %d removed. Its existing entries stay in the catalog.", id), nil)
}

func (b *Bot) listChannels(ctx context.Context, chatID int64) {
	channels, err := b.store.Channels(ctx)
	if err != nil {
		b.logger.Error("list channels failed", logging.Error(err))
		b.reply(ctx, chatID, "Listing failed. Check the logs.", nil)
		return
	}
	if len(channels) == 0 {
		b.reply(ctx, chatID, "No channels registered.", nil)
		return
	}
	var lines []string
	for _, id := range channels {
		lines = append(lines, "  "+strconv.FormatInt(id, 10))
	}
	b.reply(ctx, chatID, "Registered channels:\n"+strings.Join(lines, "\n"), nil)
}

func parseChannelID(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id >= 0 {
		return 0, false
	}
	return id, true
}

func (b *Bot) setPending(userID int64, action pendingAction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[userID] = action
}

func (b *Bot) takePending(userID int64) (pendingAction, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	action, ok := b.pending[userID]
	if ok {
		delete(b.pending, userID)
	}
	return action, ok
}
