package bot

import (
	"context"
	"fmt"

	"reelgate/internal/catalog"
	"reelgate/internal/logging"
	"reelgate/internal/match"
	"reelgate/internal/transport"
)

const (
	msgNotFound   = "Nothing in the catalog matches that. Check the spelling or try fewer words."
	msgPickOne    = "Pick a title:"
	msgDidYouMean = "No exact match. Did you mean one of these?"
)

func (b *Bot) handleQuery(ctx context.Context, msg transport.UserMessage, query string) {
	outcome, err := b.matcher.Search(ctx, query)
	if err != nil {
		b.logger.Error("query failed",
			logging.Int64(logging.FieldUserID, msg.UserID),
			logging.String("query", query),
			logging.Error(err))
		b.reply(ctx, msg.ChatID, "Something went wrong looking that up. Try again in a moment.", nil)
		return
	}

	switch outcome.Kind {
	case match.KindNone:
		b.reply(ctx, msg.ChatID, msgNotFound, nil)

	case match.KindSingle:
		b.sendVariantList(ctx, msg.ChatID, outcome.Title)

	case match.KindMany:
		text, keyboard := renderResultPage(query, outcome)
		b.reply(ctx, msg.ChatID, text, keyboard)

	case match.KindSuggestions:
		keyboard := transport.Keyboard{}
		for _, s := range outcome.Suggestions {
			keyboard = append(keyboard, transport.Row(transport.Button{
				Label:        s.Title.Display(),
				CallbackData: transport.ShowVariantsData(s.Title.ID),
			}))
		}
		b.reply(ctx, msg.ChatID, msgDidYouMean, keyboard)
	}
}

// sendVariantList posts the variant picker for a title.
func (b *Bot) sendVariantList(ctx context.Context, chatID int64, title *catalog.Title) {
	text, keyboard, err := b.renderVariantList(ctx, title)
	if err != nil {
		b.logger.Error("variant list failed",
			logging.Int64(logging.FieldTitleID, title.ID),
			logging.Error(err))
		b.reply(ctx, chatID, "Something went wrong loading that title. Try again in a moment.", nil)
		return
	}
	b.reply(ctx, chatID, text, keyboard)
}

func (b *Bot) renderVariantList(ctx context.Context, title *catalog.Title) (string, transport.Keyboard, error) {
	variants, err := b.store.VariantsByTitle(ctx, title.ID)
	if err != nil {
		return "", nil, fmt.Errorf("load variants: %w", err)
	}
	if len(variants) == 0 {
		return msgNotFound, nil, nil
	}

	keyboard := transport.Keyboard{}
	for _, v := range variants {
		keyboard = append(keyboard, transport.Row(transport.Button{
			Label:        v.Label(),
			CallbackData: transport.VerifyData(v.ID),
		}))
	}
	return fmt.Sprintf("%s\nChoose a version:", title.Display()), keyboard, nil
}

// renderResultPage builds the title picker with pagination controls.
func renderResultPage(query string, outcome match.Outcome) (string, transport.Keyboard) {
	keyboard := transport.Keyboard{}
	for _, title := range outcome.Titles {
		keyboard = append(keyboard, transport.Row(transport.Button{
			Label:        title.Display(),
			CallbackData: transport.ShowVariantsData(title.ID),
		}))
	}

	if outcome.PageCount > 1 {
		var nav []transport.Button
		if outcome.Page > 0 {
			nav = append(nav, transport.Button{
				Label:        "« Prev",
				CallbackData: transport.PageData(outcome.Page-1, query),
			})
		}
		if outcome.Page < outcome.PageCount-1 {
			nav = append(nav, transport.Button{
				Label:        "Next »",
				CallbackData: transport.PageData(outcome.Page+1, query),
			})
		}
		keyboard = append(keyboard, nav)
	}

	text := msgPickOne
	if outcome.PageCount > 1 {
		text = fmt.Sprintf("%s (page %d of %d, %d results)", msgPickOne, outcome.Page+1, outcome.PageCount, outcome.Total)
	}
	return text, keyboard
}
