// Package daemon is the process shell around the bot: single-instance lock,
// event dispatch, and the health endpoint.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"reelgate/internal/bot"
	"reelgate/internal/catalog"
	"reelgate/internal/config"
	"reelgate/internal/logging"
)

// Daemon owns the event loop and enforces single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *catalog.Store
	bot    *bot.Bot
	source Source

	lockPath string
	lock     *flock.Flock
	health   *healthServer

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *catalog.Store, b *bot.Bot, source Source, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || b == nil || source == nil {
		return nil, errors.New("daemon requires config, store, bot, and event source")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "reelgated.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger.With(logging.String(logging.FieldComponent, "daemon")),
		store:    store,
		bot:      b,
		source:   source,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the dispatcher and health
// server. It returns once everything is running.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another reelgate daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)

	events, err := d.source.Events(runCtx)
	if err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("open event stream: %w", err)
	}

	health, err := newHealthServer(d.cfg, d.store, d.logger)
	if err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start health server: %w", err)
	}
	if health != nil {
		if err := health.start(runCtx); err != nil {
			cancel()
			_ = d.lock.Unlock()
			return err
		}
	}

	d.cancel = cancel
	d.health = health
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.dispatch(runCtx, events)
	}()

	d.running.Store(true)
	d.logger.Info("reelgate daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the dispatcher and health server and releases the lock.
// It blocks until in-flight event handlers finish.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	d.health.stop()
	d.health = nil
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("reelgate daemon stopped")
}

// Running reports whether the daemon has been started.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LockPath returns the location of the single-instance lock file.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// HealthAddr returns the bound health listener address, or an empty string
// when the health server is disabled or not running.
func (d *Daemon) HealthAddr() string {
	if d.health == nil {
		return ""
	}
	return d.health.addr()
}
