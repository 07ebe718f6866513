// Package transport defines the chat transport boundary: the outbound
// client, the inbound event source, and the callback data codec shared by
// both sides. The daemon and bot packages depend only on these interfaces,
// keeping the concrete chat API out of the core.
package transport
