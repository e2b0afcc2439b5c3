package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		level   slog.Level
		enabled bool
		wantErr bool
	}{
		{"trace", LevelTrace, true, false},
		{"DEBUG", slog.LevelDebug, true, false},
		{"info", slog.LevelInfo, true, false},
		{"warn", slog.LevelWarn, true, false},
		{"error", slog.LevelError, true, false},
		{"none", slog.LevelError, false, false},
		{"", slog.LevelError, false, false},
		{"loud", slog.LevelError, false, true},
	}

	for i, tt := range tests {
		level, enabled, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("tests[%d] - %q unexpected error state: %v", i, tt.input, err)
		}
		if level != tt.level || enabled != tt.enabled {
			t.Fatalf("tests[%d] - %q expected (%v, %v), got (%v, %v)", i, tt.input, tt.level, tt.enabled, level, enabled)
		}
	}
}

func TestTraceLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelTrace)
	logger.Log(context.Background(), LevelTrace, "token", slog.String("lexeme", "var"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if entry["level"] != "TRACE" || entry["lexeme"] != "var" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "darix.log")

	logger, closer, err := New("info", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	if err := closer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Fatalf("unexpected log contents %q", data)
	}
}

func TestNewDisabled(t *testing.T) {
	logger, closer, err := New("none", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("disabled logger reports enabled")
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}
