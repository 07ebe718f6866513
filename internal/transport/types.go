package transport

import "context"

// MessageRef identifies a single message in a chat.
type MessageRef struct {
	ChatID    int64
	MessageID int64
}

// Button is one cell of an inline keyboard. Exactly one of CallbackData or
// URL should be set.
type Button struct {
	Label        string
	CallbackData string
	URL          string
}

// Keyboard is a grid of inline buttons, one slice per row.
type Keyboard [][]Button

// Row is a convenience constructor for a single keyboard row.
func Row(buttons ...Button) []Button {
	return buttons
}

// Client is the outbound half of the chat transport. Implementations wrap a
// concrete chat API; tests substitute an in-memory fake.
type Client interface {
	// SendMessage posts text with an optional keyboard and returns a
	// reference to the new message.
	SendMessage(ctx context.Context, chatID int64, text string, keyboard Keyboard) (MessageRef, error)

	// EditMessage replaces the text and keyboard of an existing message.
	EditMessage(ctx context.Context, ref MessageRef, text string, keyboard Keyboard) error

	// DeleteMessage removes a message. Deleting an already-deleted message
	// is an error the caller may choose to ignore.
	DeleteMessage(ctx context.Context, ref MessageRef) error

	// CopyMessage re-sends the content of an existing message to another
	// chat without a forward header and returns the new copy.
	CopyMessage(ctx context.Context, toChatID int64, from MessageRef) (MessageRef, error)

	// AnswerCallback acknowledges a pressed inline button, optionally
	// flashing short notice text at the user.
	AnswerCallback(ctx context.Context, callbackID string, text string) error
}

// Event is an inbound transport event. The concrete types below form the
// closed set of events the daemon dispatches on.
type Event interface {
	isEvent()
}

// ChannelPost is a media message observed in a channel the bot is attached
// to. FileRef is the transport's stable handle for the attached file; it is
// empty for posts without media.
type ChannelPost struct {
	ChatID    int64
	MessageID int64
	Caption   string
	FileRef   string
}

// UserMessage is a text message from a private chat with a user.
type UserMessage struct {
	ChatID   int64
	UserID   int64
	UserName string
	Text     string
}

// CallbackPress is an inline button press.
type CallbackPress struct {
	ID      string
	UserID  int64
	Message MessageRef
	Data    string
}

func (ChannelPost) isEvent()   {}
func (UserMessage) isEvent()   {}
func (CallbackPress) isEvent() {}

// Source is the inbound half of the chat transport. Events returns a channel
// that is closed when the context is cancelled or the underlying connection
// ends.
type Source interface {
	Events(ctx context.Context) (<-chan Event, error)
}
