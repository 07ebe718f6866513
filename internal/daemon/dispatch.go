package daemon

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"reelgate/internal/logging"
	"reelgate/internal/transport"
)

// Source is the inbound event stream the dispatcher consumes.
type Source = transport.Source

// dispatch drains the event channel, handling each event on its own
// goroutine. Catalog consistency is the store's problem, so handlers never
// need ordering between each other.
func (d *Daemon) dispatch(ctx context.Context, events <-chan transport.Event) {
	var handlers sync.WaitGroup
	defer handlers.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				d.logger.Info("event stream closed")
				return
			}
			requestID := uuid.NewString()
			handlers.Add(1)
			go func() {
				defer handlers.Done()
				defer d.recoverHandler(requestID)
				d.bot.HandleEvent(ctx, event)
				d.logger.Debug("event handled",
					logging.String(logging.FieldRequestID, requestID),
					logging.String(logging.FieldEventType, eventType(event)))
			}()
		}
	}
}

func (d *Daemon) recoverHandler(requestID string) {
	if r := recover(); r != nil {
		d.logger.Error("event handler panicked",
			logging.String(logging.FieldRequestID, requestID),
			logging.Any("panic", r))
	}
}

func eventType(event transport.Event) string {
	switch event.(type) {
	case transport.ChannelPost:
		return "channel_post"
	case transport.UserMessage:
		return "user_message"
	case transport.CallbackPress:
		return "callback"
	default:
		return "unknown"
	}
}
