// Package expiry removes delivered messages after a grace period. Deliveries
// are copies of catalog files into private chats; leaving them around forever
// turns every chat into a mirror of the catalog, so each delivery is
// scheduled for deletion a configurable number of minutes after it is sent.
package expiry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"reelgate/internal/logging"
	"reelgate/internal/transport"
)

const deleteTimeout = 30 * time.Second

// Scheduler owns the deferred deletion jobs. Jobs are held in memory only;
// deliveries pending at process exit are never deleted.
type Scheduler struct {
	client transport.Client
	logger *slog.Logger
	delay  time.Duration

	// after is swapped out by tests to fire timers immediately.
	after func(time.Duration) <-chan time.Time

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler builds a scheduler that deletes messages after the given
// delay. A non-positive delay disables scheduling.
func NewScheduler(client transport.Client, logger *slog.Logger, delay time.Duration) *Scheduler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scheduler{
		client: client,
		logger: logger.With(logging.String(logging.FieldComponent, "expiry")),
		delay:  delay,
		after:  time.After,
		stop:   make(chan struct{}),
	}
}

// Schedule queues the given messages for deletion after the configured delay
// and returns the job identifier, or an empty string when scheduling is
// disabled or there is nothing to delete. The call never blocks on the
// deletion itself.
func (s *Scheduler) Schedule(refs []transport.MessageRef) string {
	if s.delay <= 0 || len(refs) == 0 {
		return ""
	}

	jobID := uuid.NewString()
	owned := make([]transport.MessageRef, len(refs))
	copy(owned, refs)

	s.logger.Info("delivery expiry scheduled",
		logging.String(logging.FieldJobID, jobID),
		logging.Int("messages", len(owned)),
		logging.Duration("delay", s.delay))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case <-s.after(s.delay):
			s.fire(jobID, owned)
		case <-s.stop:
			s.logger.Info("delivery expiry abandoned",
				logging.String(logging.FieldJobID, jobID),
				logging.Int("messages", len(owned)))
		}
	}()

	return jobID
}

func (s *Scheduler) fire(jobID string, refs []transport.MessageRef) {
	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()

	deleted := 0
	for _, ref := range refs {
		if err := s.client.DeleteMessage(ctx, ref); err != nil {
			// The user may have deleted the message first. Log and
			// move on; the remaining refs still need deleting.
			s.logger.Warn("delivery deletion failed",
				logging.String(logging.FieldJobID, jobID),
				logging.Int64(logging.FieldChatID, ref.ChatID),
				logging.Int64(logging.FieldMessageID, ref.MessageID),
				logging.Error(err))
			continue
		}
		deleted++
	}

	s.logger.Info("delivery expiry fired",
		logging.String(logging.FieldJobID, jobID),
		logging.Int("deleted", deleted),
		logging.Int("failed", len(refs)-deleted))
}

// Stop abandons every job still waiting on its timer and returns once all
// job goroutines have exited. Jobs already past their timer finish their
// deletions first. Used on daemon shutdown, where pending deletions are
// forfeited rather than waited out.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// Wait blocks until every scheduled job has fired. Tests use it to flush
// deletions before asserting on the fake client.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
