package testsupport

import (
	"path/filepath"
	"testing"

	"reelgate/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.HealthBind = "127.0.0.1:0"
	cfg.Bot.EntryURL = "https://t.me/ReelgateTestBot"
	cfg.Bot.AdminIDs = []int64{42}
	cfg.Bot.SourceChannels = []int64{-1001234567890}
	cfg.Verification.PageURL = "https://verify.example.com/gate"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithAdmins overrides the admin allow-list on the test config.
func WithAdmins(ids ...int64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Bot.AdminIDs = ids
	}
}

// WithSourceChannels overrides the seed channel allow-list on the test config.
func WithSourceChannels(ids ...int64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Bot.SourceChannels = ids
	}
}
