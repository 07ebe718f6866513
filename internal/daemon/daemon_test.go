package daemon_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"reelgate/internal/bot"
	"reelgate/internal/catalog"
	"reelgate/internal/config"
	"reelgate/internal/daemon"
	"reelgate/internal/expiry"
	"reelgate/internal/ingest"
	"reelgate/internal/match"
	"reelgate/internal/testsupport"
	"reelgate/internal/transport"
)

type stubSource struct {
	events chan transport.Event
}

func newStubSource() *stubSource {
	return &stubSource{events: make(chan transport.Event, 16)}
}

func (s *stubSource) Events(ctx context.Context) (<-chan transport.Event, error) {
	return s.events, nil
}

func newDaemon(t *testing.T, cfg *config.Config, store *catalog.Store, source *stubSource) *daemon.Daemon {
	t.Helper()
	client := testsupport.NewFakeClient()
	b := bot.New(cfg, store, match.New(store, cfg.Matcher), ingest.NewPipeline(store, nil),
		expiry.NewScheduler(client, nil, 0), client, nil)

	d, err := daemon.New(cfg, store, b, source, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d
}

func startDaemon(t *testing.T, d *daemon.Daemon) {
	t.Helper()
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(d.Stop)
}

func TestDaemonLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	d := newDaemon(t, cfg, store, newStubSource())

	if d.Running() {
		t.Fatal("daemon must not run before Start")
	}
	startDaemon(t, d)
	if !d.Running() {
		t.Fatal("daemon must report running after Start")
	}
	d.Stop()
	if d.Running() {
		t.Fatal("daemon must report stopped after Stop")
	}
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	first := newDaemon(t, cfg, store, newStubSource())
	startDaemon(t, first)

	secondCfg := *cfg
	secondCfg.Paths.HealthBind = ""
	second := newDaemon(t, &secondCfg, store, newStubSource())
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second instance must fail to acquire the lock")
	}
}

func TestDaemonDispatchesEvents(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if err := store.SeedChannels(context.Background(), cfg.Bot.SourceChannels); err != nil {
		t.Fatalf("SeedChannels: %v", err)
	}

	source := newStubSource()
	d := newDaemon(t, cfg, store, source)
	startDaemon(t, d)

	source.events <- transport.ChannelPost{
		ChatID:    cfg.Bot.SourceChannels[0],
		MessageID: 1,
		Caption:   "Inception (2010) 1080p English",
		FileRef:   "file-1080",
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		stats, err := store.Stats(context.Background())
		if err != nil {
			t.Fatalf("Stats: %v", err)
		}
		if stats.Titles == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("event was not dispatched to the bot")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHealthEndpoints(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedTitle(t, store, "inception 2010", "2010", "Inception")

	d := newDaemon(t, cfg, store, newStubSource())
	startDaemon(t, d)

	addr := d.HealthAddr()
	if addr == "" {
		t.Fatal("health server should be bound")
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/", addr))
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / status %d", resp.StatusCode)
	}

	resp2, err := http.Get(fmt.Sprintf("http://%s/healthz", addr))
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp2.Body.Close()
	var payload struct {
		Status string `json:"status"`
		Titles int    `json:"titles"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&payload); err != nil {
		t.Fatalf("decode healthz: %v", err)
	}
	if payload.Status != "ok" || payload.Titles != 1 {
		t.Fatalf("unexpected healthz payload: %+v", payload)
	}
}
