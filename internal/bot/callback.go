package bot

import (
	"context"
	"fmt"

	"reelgate/internal/logging"
	"reelgate/internal/match"
	"reelgate/internal/token"
	"reelgate/internal/transport"
)

func (b *Bot) handleCallback(ctx context.Context, press transport.CallbackPress) {
	intent, err := transport.ParseCallback(press.Data)
	if err != nil {
		b.logger.Warn("callback not understood",
			logging.Int64(logging.FieldUserID, press.UserID),
			logging.Error(err))
		b.answerCallback(ctx, press.ID, "That button is no longer valid.")
		return
	}

	switch in := intent.(type) {
	case transport.ShowVariants:
		b.showVariants(ctx, press, in.TitleID)
	case transport.RequestVerification:
		b.sendVerificationLink(ctx, press, in.VariantID)
	case transport.PageNav:
		b.turnPage(ctx, press, in)
	}
}

func (b *Bot) showVariants(ctx context.Context, press transport.CallbackPress, titleID int64) {
	title, err := b.store.GetTitle(ctx, titleID)
	if err != nil {
		b.logger.Error("load title failed",
			logging.Int64(logging.FieldTitleID, titleID),
			logging.Error(err))
		b.answerCallback(ctx, press.ID, "Something went wrong. Try again.")
		return
	}
	if title == nil {
		b.answerCallback(ctx, press.ID, "That title was removed from the catalog.")
		return
	}

	text, keyboard, err := b.renderVariantList(ctx, title)
	if err != nil {
		b.logger.Error("variant list failed",
			logging.Int64(logging.FieldTitleID, titleID),
			logging.Error(err))
		b.answerCallback(ctx, press.ID, "Something went wrong. Try again.")
		return
	}

	b.answerCallback(ctx, press.ID, "")
	if err := b.client.EditMessage(ctx, press.Message, text, keyboard); err != nil {
		b.logger.Error("edit message failed",
			logging.Int64(logging.FieldChatID, press.Message.ChatID),
			logging.Error(err))
	}
}

// sendVerificationLink issues an identity-bound grant for the variant and
// points the user at the verification page. The page bounces the user back
// through the entry link with the token as the start payload.
func (b *Bot) sendVerificationLink(ctx context.Context, press transport.CallbackPress, variantID int64) {
	variant, err := b.store.GetVariant(ctx, variantID)
	if err != nil {
		b.logger.Error("load variant failed",
			logging.Int64(logging.FieldVariantID, variantID),
			logging.Error(err))
		b.answerCallback(ctx, press.ID, "Something went wrong. Try again.")
		return
	}
	if variant == nil {
		b.answerCallback(ctx, press.ID, "That version was removed from the catalog.")
		return
	}

	grant := token.Encode(token.Grant{
		Action:    token.ActionFile,
		VariantID: variant.ID,
		UserID:    press.UserID,
	})
	link := fmt.Sprintf("%s?token=%s", b.cfg.Verification.PageURL, grant)

	keyboard := transport.Keyboard{
		transport.Row(transport.Button{Label: "Verify & Download", URL: link}),
	}
	b.answerCallback(ctx, press.ID, "")
	b.reply(ctx, press.Message.ChatID,
		"Complete the verification step to receive your file. The link below is tied to your account and will not work for anyone else.",
		keyboard)

	b.logger.Info("verification link issued",
		logging.Int64(logging.FieldUserID, press.UserID),
		logging.Int64(logging.FieldVariantID, variant.ID))
}

func (b *Bot) turnPage(ctx context.Context, press transport.CallbackPress, nav transport.PageNav) {
	outcome, err := b.matcher.Page(ctx, nav.Query, nav.Page)
	if err != nil {
		b.logger.Error("page turn failed",
			logging.String("query", nav.Query),
			logging.Error(err))
		b.answerCallback(ctx, press.ID, "Something went wrong. Try again.")
		return
	}
	if outcome.Kind != match.KindMany {
		b.answerCallback(ctx, press.ID, "Those results are gone.")
		return
	}

	text, keyboard := renderResultPage(nav.Query, outcome)
	b.answerCallback(ctx, press.ID, "")
	if err := b.client.EditMessage(ctx, press.Message, text, keyboard); err != nil {
		b.logger.Error("edit message failed",
			logging.Int64(logging.FieldChatID, press.Message.ChatID),
			logging.Error(err))
	}
}

func (b *Bot) answerCallback(ctx context.Context, callbackID, text string) {
	if err := b.client.AnswerCallback(ctx, callbackID, text); err != nil {
		b.logger.Warn("answer callback failed", logging.Error(err))
	}
}
