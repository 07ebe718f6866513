package httpbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"reelgate/internal/config"
	"reelgate/internal/logging"
	"reelgate/internal/transport"
)

// inboundEvent is the wire form of one gateway event. Type selects which of
// the optional field groups is meaningful.
type inboundEvent struct {
	Type string `json:"type"`

	ChatID    int64  `json:"chat_id,omitempty"`
	MessageID int64  `json:"message_id,omitempty"`
	Caption   string `json:"caption,omitempty"`
	FileRef   string `json:"file_ref,omitempty"`

	UserID   int64  `json:"user_id,omitempty"`
	UserName string `json:"user_name,omitempty"`
	Text     string `json:"text,omitempty"`

	CallbackID string `json:"callback_id,omitempty"`
	Data       string `json:"data,omitempty"`
}

// Source implements transport.Source by accepting gateway POSTs on a local
// bind address.
type Source struct {
	bind      string
	authToken string
	logger    *slog.Logger

	listener net.Listener
	server   *http.Server
	events   chan transport.Event

	// done unblocks handlers waiting to enqueue once shutdown begins, so
	// closing the events channel cannot panic a pending send.
	done chan struct{}
}

// NewSource builds a bridge event source from gateway settings.
func NewSource(cfg config.Gateway, logger *slog.Logger) (*Source, error) {
	if cfg.Bind == "" {
		return nil, fmt.Errorf("gateway bind address is not configured")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Source{
		bind:      cfg.Bind,
		authToken: cfg.AuthToken,
		logger:    logger.With(logging.String(logging.FieldComponent, "httpbridge")),
		events:    make(chan transport.Event, 64),
		done:      make(chan struct{}),
	}, nil
}

// Events starts the inbound listener and returns the event channel. The
// channel is closed after the context is cancelled and the server has shut
// down.
func (s *Source) Events(ctx context.Context) (<-chan transport.Event, error) {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return nil, fmt.Errorf("bridge listen: %w", err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvent)
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("bridge server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		close(s.done)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			// A handler may still be live; leave the channel open
			// rather than panic its send.
			s.logger.Warn("bridge shutdown incomplete", logging.Error(err))
			return
		}
		close(s.events)
	}()

	s.logger.Info("bridge listening", logging.String("address", listener.Addr().String()))
	return s.events, nil
}

// Addr returns the bound listener address, or an empty string before Events
// is called.
func (s *Source) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Source) handleEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var raw inboundEvent
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	event, err := decodeEvent(raw)
	if err != nil {
		s.logger.Warn("bridge event rejected", logging.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	select {
	case s.events <- event:
		w.WriteHeader(http.StatusAccepted)
	case <-s.done:
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
	case <-r.Context().Done():
		http.Error(w, "request cancelled", http.StatusServiceUnavailable)
	}
}

func (s *Source) authorized(r *http.Request) bool {
	if s.authToken == "" {
		return true
	}
	header := r.Header.Get("Authorization")
	return strings.TrimPrefix(header, "Bearer ") == s.authToken && header != ""
}

func decodeEvent(raw inboundEvent) (transport.Event, error) {
	switch raw.Type {
	case "channel_post":
		if raw.ChatID == 0 || raw.MessageID == 0 {
			return nil, errors.New("channel_post requires chat_id and message_id")
		}
		return transport.ChannelPost{
			ChatID:    raw.ChatID,
			MessageID: raw.MessageID,
			Caption:   raw.Caption,
			FileRef:   raw.FileRef,
		}, nil

	case "user_message":
		if raw.ChatID == 0 || raw.UserID == 0 {
			return nil, errors.New("user_message requires chat_id and user_id")
		}
		return transport.UserMessage{
			ChatID:   raw.ChatID,
			UserID:   raw.UserID,
			UserName: raw.UserName,
			Text:     raw.Text,
		}, nil

	case "callback":
		if raw.CallbackID == "" || raw.UserID == 0 {
			return nil, errors.New("callback requires callback_id and user_id")
		}
		return transport.CallbackPress{
			ID:      raw.CallbackID,
			UserID:  raw.UserID,
			Message: transport.MessageRef{ChatID: raw.ChatID, MessageID: raw.MessageID},
			Data:    raw.Data,
		}, nil

	default:
		return nil, fmt.Errorf("unknown event type %q", raw.Type)
	}
}
