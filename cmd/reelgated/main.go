// Command reelgated runs the catalog daemon: it ingests channel posts,
// answers user queries, and serves the health endpoint until signalled.
package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"reelgate/internal/bot"
	"reelgate/internal/catalog"
	"reelgate/internal/config"
	"reelgate/internal/daemon"
	"reelgate/internal/expiry"
	"reelgate/internal/ingest"
	"reelgate/internal/logging"
	"reelgate/internal/match"
	"reelgate/internal/transport/httpbridge"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := catalog.Open(cfg)
	if err != nil {
		logger.Error("open catalog store", logging.Error(err))
		return
	}
	defer store.Close()

	if err := store.SeedChannels(ctx, cfg.Bot.SourceChannels); err != nil {
		logger.Error("seed source channels", logging.Error(err))
		return
	}

	client, err := httpbridge.NewClient(cfg.Gateway)
	if err != nil {
		logger.Error("init gateway client", logging.Error(err))
		return
	}
	source, err := httpbridge.NewSource(cfg.Gateway, logger)
	if err != nil {
		logger.Error("init gateway source", logging.Error(err))
		return
	}

	scheduler := expiry.NewScheduler(client, logger, time.Duration(cfg.Delivery.DeleteDelayMinutes)*time.Minute)
	b := bot.New(cfg, store,
		match.New(store, cfg.Matcher),
		ingest.NewPipeline(store, logger),
		scheduler, client, logger)

	d, err := daemon.New(cfg, store, b, source, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("reelgated shutting down", slog.String("reason", "signal"))
	d.Stop()
	scheduler.Stop()
}
