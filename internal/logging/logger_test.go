package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewWithWriterJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, "production", " INFO ")
	if err != nil {
		t.Fatalf("new logger failed: %v", err)
	}

	logger.Debug().Msg("hidden")
	logger.Info().Str("provider", "claude").Msg("visible")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "flashtranslate" || entry["provider"] != "claude" || entry["message"] != "visible" {
		t.Fatalf("unexpected log entry: %v", entry)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	if _, err := NewWithWriter(&bytes.Buffer{}, "local", "loud"); err == nil {
		t.Fatalf("expected invalid level error")
	}
}
