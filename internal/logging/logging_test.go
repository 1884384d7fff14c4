package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/briefwire/briefwire/internal/config"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LoggingConfig{Level: slog.LevelInfo, Format: "json"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("article processed", "fingerprint", "fp-1")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["msg"] != "article processed" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["fingerprint"] != "fp-1" {
		t.Errorf("fingerprint = %v", record["fingerprint"])
	}
}

func TestNewTextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LoggingConfig{Level: slog.LevelInfo, Format: "text"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("batch finished", "processed", 3)
	if !strings.Contains(buf.String(), "msg=\"batch finished\"") {
		t.Errorf("unexpected text output: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "processed=3") {
		t.Errorf("missing attribute: %s", buf.String())
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LoggingConfig{Level: slog.LevelWarn, Format: "json"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("dropped")
	logger.Info("dropped too")
	if buf.Len() != 0 {
		t.Errorf("records below the level were written: %s", buf.String())
	}

	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Error("warn record was suppressed")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, config.LoggingConfig{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
