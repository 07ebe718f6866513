// Package config loads, validates, and normalizes reelgate configuration.
//
// Configuration is TOML, resolved from an explicit path, then
// ~/.config/reelgate/config.toml, then ./reelgate.toml. Missing files fall
// back to defaults; validation failures abort startup with a message naming
// the offending key.
package config
