package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	HealthBind string `toml:"health_bind"`
}

// Bot contains the chat transport identity and access control lists.
type Bot struct {
	EntryURL       string  `toml:"entry_url"`
	Token          string  `toml:"token"`
	AdminIDs       []int64 `toml:"admin_ids"`
	SourceChannels []int64 `toml:"source_channels"`
}

// Verification contains the external verification page settings.
type Verification struct {
	PageURL string `toml:"page_url"`
}

// Gateway configures the HTTP bridge to the external chat gateway: outbound
// operations go to URL, inbound events arrive on Bind. AuthToken, when set,
// is required as a bearer token in both directions.
type Gateway struct {
	URL       string `toml:"url"`
	Bind      string `toml:"bind"`
	AuthToken string `toml:"auth_token"`
}

// Delivery controls post-delivery cleanup of sent content.
type Delivery struct {
	DeleteDelayMinutes int `toml:"delete_delay_minutes"`
}

// Matcher contains query matching thresholds and paging.
type Matcher struct {
	PageSize            int `toml:"page_size"`
	SuggestionLimit     int `toml:"suggestion_limit"`
	SuggestionThreshold int `toml:"suggestion_threshold"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelgate.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories and the health endpoint bind address
//   - Bot: transport identity, admin allow-list, source channel allow-list
//   - Verification: external verification page the deep links route through
//   - Gateway: HTTP bridge to the chat gateway
//   - Delivery: delay before delivered messages are revoked
//   - Matcher: query paging and fuzzy suggestion thresholds
//   - Logging: log format and level
type Config struct {
	Paths        Paths        `toml:"paths"`
	Bot          Bot          `toml:"bot"`
	Verification Verification `toml:"verification"`
	Gateway      Gateway      `toml:"gateway"`
	Delivery     Delivery     `toml:"delivery"`
	Matcher      Matcher      `toml:"matcher"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reelgate/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelgate.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	for _, field := range []*string{&c.Paths.DataDir, &c.Paths.LogDir} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	c.Bot.EntryURL = strings.TrimRight(strings.TrimSpace(c.Bot.EntryURL), "/")
	c.Verification.PageURL = strings.TrimSpace(c.Verification.PageURL)
	c.Gateway.URL = strings.TrimRight(strings.TrimSpace(c.Gateway.URL), "/")
	c.Gateway.Bind = strings.TrimSpace(c.Gateway.Bind)
	return nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the catalog database location inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "catalog.db")
}

// IsAdmin reports whether a user identifier is in the operator allow-list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Bot.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
