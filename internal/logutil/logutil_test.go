package logutil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerFromConfigFormats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := newLoggerFromConfig(loggerConfig{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("newLoggerFromConfig() error = %v", err)
	}
	logger.Debug("conversation_event", "user_id", int64(7))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not json: %q", buf.String())
	}
	if line["msg"] != "conversation_event" || line["user_id"] != float64(7) {
		t.Fatalf("log line = %#v", line)
	}

	buf.Reset()
	logger, err = newLoggerFromConfig(loggerConfig{Level: "warn"}, &buf)
	if err != nil {
		t.Fatalf("newLoggerFromConfig() error = %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	if out := buf.String(); strings.Contains(out, "dropped") || !strings.Contains(out, "msg=kept") {
		t.Fatalf("text output = %q", out)
	}
}

func TestNewLoggerFromConfigRejectsUnknownValues(t *testing.T) {
	t.Parallel()

	if _, err := newLoggerFromConfig(loggerConfig{Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, err := newLoggerFromConfig(loggerConfig{Level: "loud"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestParseSlogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := parseSlogLevel(in)
		if err != nil || got != want {
			t.Fatalf("parseSlogLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
