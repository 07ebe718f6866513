package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBot(); err != nil {
		return err
	}
	if err := c.validateVerification(); err != nil {
		return err
	}
	if err := c.validateGateway(); err != nil {
		return err
	}
	if err := c.validateDelivery(); err != nil {
		return err
	}
	if err := c.validateMatcher(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBot() error {
	if strings.TrimSpace(c.Bot.EntryURL) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/reelgate/config.toml"
		}
		return fmt.Errorf("bot.entry_url is required. Edit %s (create with 'reelgate config init')", defaultPath)
	}
	for _, id := range c.Bot.AdminIDs {
		if id == 0 {
			return errors.New("bot.admin_ids must not contain zero entries")
		}
	}
	for _, id := range c.Bot.SourceChannels {
		if id >= 0 {
			return fmt.Errorf("bot.source_channels entry %d is not a channel identifier (channel ids are negative)", id)
		}
	}
	return nil
}

func (c *Config) validateVerification() error {
	if c.Verification.PageURL == "" {
		return errors.New("verification.page_url must be set")
	}
	if !strings.HasPrefix(c.Verification.PageURL, "http://") && !strings.HasPrefix(c.Verification.PageURL, "https://") {
		return fmt.Errorf("verification.page_url %q must be an http(s) URL", c.Verification.PageURL)
	}
	return nil
}

// The gateway URL is optional; the daemon refuses to start without it but
// the CLI works against the store alone.
func (c *Config) validateGateway() error {
	if c.Gateway.URL != "" && !strings.HasPrefix(c.Gateway.URL, "http://") && !strings.HasPrefix(c.Gateway.URL, "https://") {
		return fmt.Errorf("gateway.url %q must be an http(s) URL", c.Gateway.URL)
	}
	return nil
}

func (c *Config) validateDelivery() error {
	if c.Delivery.DeleteDelayMinutes <= 0 {
		return errors.New("delivery.delete_delay_minutes must be positive")
	}
	return nil
}

func (c *Config) validateMatcher() error {
	if c.Matcher.PageSize < 1 || c.Matcher.PageSize > 50 {
		return errors.New("matcher.page_size must be between 1 and 50")
	}
	if c.Matcher.SuggestionLimit < 0 {
		return errors.New("matcher.suggestion_limit must not be negative")
	}
	if c.Matcher.SuggestionThreshold < 0 || c.Matcher.SuggestionThreshold > 100 {
		return errors.New("matcher.suggestion_threshold must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (use console or json)", c.Logging.Format)
	}
	return nil
}
