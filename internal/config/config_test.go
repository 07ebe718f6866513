package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelgate/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
[bot]
entry_url = "https://t.me/TestBot"
admin_ids = [42]
source_channels = [-1001234567890]

[verification]
page_url = "https://verify.example.com/gate"
`

func TestLoadMinimalConfig(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Bot.EntryURL != "https://t.me/TestBot" {
		t.Fatalf("unexpected entry url: %q", cfg.Bot.EntryURL)
	}
	if cfg.Matcher.PageSize != 8 {
		t.Fatalf("expected default page size 8, got %d", cfg.Matcher.PageSize)
	}
	if cfg.Delivery.DeleteDelayMinutes != 30 {
		t.Fatalf("expected default delete delay 30, got %d", cfg.Delivery.DeleteDelayMinutes)
	}
}

func TestLoadTrimsEntryURLSlash(t *testing.T) {
	path := writeConfig(t, strings.Replace(minimalConfig, "https://t.me/TestBot", "https://t.me/TestBot/", 1))

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Bot.EntryURL != "https://t.me/TestBot" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Bot.EntryURL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(string) string
		fragment string
	}{
		{
			name:     "missing entry url",
			mutate:   func(s string) string { return strings.Replace(s, `entry_url = "https://t.me/TestBot"`, `entry_url = ""`, 1) },
			fragment: "bot.entry_url",
		},
		{
			name:     "missing verification page",
			mutate:   func(s string) string { return strings.Replace(s, `page_url = "https://verify.example.com/gate"`, `page_url = ""`, 1) },
			fragment: "verification.page_url",
		},
		{
			name:     "positive channel id",
			mutate:   func(s string) string { return strings.Replace(s, "[-1001234567890]", "[12345]", 1) },
			fragment: "source_channels",
		},
		{
			name:     "bad delete delay",
			mutate:   func(s string) string { return s + "\n[delivery]\ndelete_delay_minutes = 0\n" },
			fragment: "delete_delay_minutes",
		},
		{
			name:     "bad gateway url",
			mutate:   func(s string) string { return s + "\n[gateway]\nurl = \"ftp://gateway\"\n" },
			fragment: "gateway.url",
		},
		{
			name:     "bad threshold",
			mutate:   func(s string) string { return s + "\n[matcher]\nsuggestion_threshold = 101\n" },
			fragment: "suggestion_threshold",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.mutate(minimalConfig))
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.fragment) {
				t.Fatalf("expected error mentioning %q, got %v", tc.fragment, err)
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	cfg := config.Default()
	cfg.Bot.AdminIDs = []int64{42, 7}
	if !cfg.IsAdmin(42) || !cfg.IsAdmin(7) {
		t.Fatal("expected configured ids to be admins")
	}
	if cfg.IsAdmin(99) {
		t.Fatal("expected unknown id to be rejected")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	for _, section := range []string{"[verification]", "[gateway]", "[matcher]"} {
		if !strings.Contains(string(data), section) {
			t.Fatalf("sample config missing %s section", section)
		}
	}
}
