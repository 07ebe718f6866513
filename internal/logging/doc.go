// Package logging builds slog loggers with console and JSON handlers and
// provides the attribute helpers shared across reelgate components.
package logging
