package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestConsoleHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("catalog saved", "analyses", 3, "path", "/tmp/catalog file.json")

	out := buf.String()
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "catalog saved") {
		t.Fatalf("unexpected console output: %q", out)
	}
	if !strings.Contains(out, "analyses=3") {
		t.Fatalf("missing attr in console output: %q", out)
	}
	if !strings.Contains(out, `path="/tmp/catalog file.json"`) {
		t.Fatalf("expected quoted value for spaced string: %q", out)
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("should be dropped")
	logger.Warn("should remain")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info record leaked past warn level: %q", out)
	}
	if !strings.Contains(out, "should remain") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestJSONHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("clip extracted", "percent", 100)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["msg"] != "clip extracted" {
		t.Fatalf("unexpected msg field: %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("unexpected level field: %v", record["level"])
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("nothing to see")
}
