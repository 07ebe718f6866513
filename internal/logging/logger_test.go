package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(format string) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)

	var handler slog.Handler
	if format == "json" {
		handler = newJSONHandler(&buf, levelVar)
	} else {
		handler = newConsoleHandler(&buf, levelVar)
	}
	return slog.New(handler), &buf
}

func TestConsoleHandlerIncludesComponentAndAttrs(t *testing.T) {
	logger, buf := newBufferLogger("console")
	NewComponentLogger(logger, "ingest").Info("variant stored",
		Int64(FieldTitleID, 7),
		String("quality", "1080p"),
	)

	line := buf.String()
	if !strings.Contains(line, "INFO ingest: variant stored") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "title_id=7") || !strings.Contains(line, "quality=1080p") {
		t.Fatalf("attributes missing from line: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	logger, buf := newBufferLogger("console")
	logger.Warn("skip", String("reason", "unparsable caption"))

	if !strings.Contains(buf.String(), `reason="unparsable caption"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestJSONHandlerRenamesKeys(t *testing.T) {
	logger, buf := newBufferLogger("json")
	logger.Info("hello")

	line := buf.String()
	for _, want := range []string{`"ts":`, `"level":"info"`, `"msg":"hello"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in %q", want, line)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should report disabled")
	}
	// Exercise the handler to make sure nothing panics.
	logger.Error("ignored", Error(io.EOF))
}
