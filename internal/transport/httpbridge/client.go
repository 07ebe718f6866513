// Package httpbridge connects the daemon to an external chat gateway over
// HTTP. The gateway owns the actual chat API session; reelgate only speaks
// this bridge protocol: outbound operations are POSTed to the gateway,
// inbound chat events are POSTed back to the daemon's bind address.
package httpbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"reelgate/internal/config"
	"reelgate/internal/transport"
)

const requestTimeout = 30 * time.Second

// Client implements transport.Client against a gateway endpoint.
type Client struct {
	baseURL   string
	authToken string
	http      *http.Client
}

// NewClient builds a bridge client from gateway settings.
func NewClient(cfg config.Gateway) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("gateway url is not configured")
	}
	return &Client{
		baseURL:   cfg.URL,
		authToken: cfg.AuthToken,
		http:      &http.Client{Timeout: requestTimeout},
	}, nil
}

type keyboardButton struct {
	Label        string `json:"label"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

type messageRefPayload struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int64 `json:"message_id"`
}

func encodeKeyboard(keyboard transport.Keyboard) [][]keyboardButton {
	if len(keyboard) == 0 {
		return nil
	}
	rows := make([][]keyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		encoded := make([]keyboardButton, 0, len(row))
		for _, btn := range row {
			encoded = append(encoded, keyboardButton{
				Label:        btn.Label,
				CallbackData: btn.CallbackData,
				URL:          btn.URL,
			})
		}
		rows = append(rows, encoded)
	}
	return rows
}

// SendMessage posts text with an optional keyboard to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard transport.Keyboard) (transport.MessageRef, error) {
	var ref messageRefPayload
	err := c.post(ctx, "/send", map[string]any{
		"chat_id":  chatID,
		"text":     text,
		"keyboard": encodeKeyboard(keyboard),
	}, &ref)
	if err != nil {
		return transport.MessageRef{}, err
	}
	return transport.MessageRef{ChatID: ref.ChatID, MessageID: ref.MessageID}, nil
}

// EditMessage replaces the text and keyboard of an existing message.
func (c *Client) EditMessage(ctx context.Context, ref transport.MessageRef, text string, keyboard transport.Keyboard) error {
	return c.post(ctx, "/edit", map[string]any{
		"chat_id":    ref.ChatID,
		"message_id": ref.MessageID,
		"text":       text,
		"keyboard":   encodeKeyboard(keyboard),
	}, nil)
}

// DeleteMessage removes a message.
func (c *Client) DeleteMessage(ctx context.Context, ref transport.MessageRef) error {
	return c.post(ctx, "/delete", map[string]any{
		"chat_id":    ref.ChatID,
		"message_id": ref.MessageID,
	}, nil)
}

// CopyMessage re-sends a message's content to another chat.
func (c *Client) CopyMessage(ctx context.Context, toChatID int64, from transport.MessageRef) (transport.MessageRef, error) {
	var ref messageRefPayload
	err := c.post(ctx, "/copy", map[string]any{
		"to_chat_id":      toChatID,
		"from_chat_id":    from.ChatID,
		"from_message_id": from.MessageID,
	}, &ref)
	if err != nil {
		return transport.MessageRef{}, err
	}
	return transport.MessageRef{ChatID: ref.ChatID, MessageID: ref.MessageID}, nil
}

// AnswerCallback acknowledges an inline button press.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string, text string) error {
	return c.post(ctx, "/answer", map[string]any{
		"callback_id": callbackID,
		"text":        text,
	}, nil)
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway %s: status %d: %s", path, resp.StatusCode, bytes.TrimSpace(detail))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}
