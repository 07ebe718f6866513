package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"reelgate/internal/logging"
	"reelgate/internal/token"
	"reelgate/internal/transport"
)

const msgWelcome = "Send me a movie name and I will look it up in the catalog."

func (b *Bot) handleCommand(ctx context.Context, msg transport.UserMessage, text string) {
	fields := strings.Fields(text)
	command, args := fields[0], fields[1:]

	switch command {
	case "/start":
		if len(args) == 0 {
			b.reply(ctx, msg.ChatID, msgWelcome, nil)
			return
		}
		b.deliver(ctx, msg, args[0])
	case "/help":
		b.reply(ctx, msg.ChatID, msgWelcome, nil)
	case "/stats", "/addchannel", "/delchannel", "/channels", "/del", "/wipe":
		b.handleAdminCommand(ctx, msg, command, args)
	default:
		b.reply(ctx, msg.ChatID, "Unknown command. "+msgWelcome, nil)
	}
}

// deliver redeems a grant carried back through the entry link. The grant is
// only honored for the user it was issued to, so forwarded links die here.
func (b *Bot) deliver(ctx context.Context, msg transport.UserMessage, rawToken string) {
	grant, err := token.Decode(rawToken)
	if err != nil {
		var decodeErr *token.DecodeError
		if errors.As(err, &decodeErr) {
			b.logger.Warn("grant rejected",
				logging.Int64(logging.FieldUserID, msg.UserID),
				logging.String("reason", decodeErr.Reason))
		}
		b.reply(ctx, msg.ChatID, "That link is not valid. Request the file again from the catalog.", nil)
		return
	}
	if grant.UserID != msg.UserID {
		b.logger.Warn("grant identity mismatch",
			logging.Int64(logging.FieldUserID, msg.UserID),
			logging.Int64("grant_user_id", grant.UserID),
			logging.Int64(logging.FieldVariantID, grant.VariantID))
		b.reply(ctx, msg.ChatID, "This link belongs to someone else. Request the file yourself from the catalog.", nil)
		return
	}

	variant, err := b.store.GetVariant(ctx, grant.VariantID)
	if err != nil {
		b.logger.Error("load variant failed",
			logging.Int64(logging.FieldVariantID, grant.VariantID),
			logging.Error(err))
		b.reply(ctx, msg.ChatID, "Something went wrong fetching your file. Try again in a moment.", nil)
		return
	}
	if variant == nil {
		b.reply(ctx, msg.ChatID, "That file is no longer in the catalog.", nil)
		return
	}

	copied, err := b.client.CopyMessage(ctx, msg.ChatID, transport.MessageRef{
		ChatID:    variant.ChatID,
		MessageID: variant.MessageID,
	})
	if err != nil {
		// Copying fails when the source message was deleted out from
		// under the catalog entry.
		b.logger.Error("delivery copy failed",
			logging.Int64(logging.FieldVariantID, variant.ID),
			logging.Int64(logging.FieldUserID, msg.UserID),
			logging.Error(err))
		b.reply(ctx, msg.ChatID, "That file is unavailable. It may have been removed from the channel.", nil)
		return
	}

	refs := []transport.MessageRef{copied}
	delay := time.Duration(b.cfg.Delivery.DeleteDelayMinutes) * time.Minute
	if delay > 0 {
		notice, err := b.client.SendMessage(ctx, msg.ChatID,
			fmt.Sprintf("Here you go. This file will be removed in %d minutes, save it somewhere safe.", b.cfg.Delivery.DeleteDelayMinutes),
			nil)
		if err == nil {
			refs = append(refs, notice)
		}
		b.scheduler.Schedule(refs)
	}

	b.logger.Info("file delivered",
		logging.Int64(logging.FieldUserID, msg.UserID),
		logging.Int64(logging.FieldVariantID, variant.ID),
		logging.Int64(logging.FieldMessageID, copied.MessageID))
}
