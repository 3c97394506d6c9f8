package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"debug lowercase", "debug", slog.LevelDebug},
		{"debug uppercase", "DEBUG", slog.LevelDebug},
		{"info lowercase", "info", slog.LevelInfo},
		{"warn mixed", "Warn", slog.LevelWarn},
		{"error lowercase", "error", slog.LevelError},
		{"empty string", "", slog.LevelInfo},
		{"invalid value", "trace", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetupWritesJSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "logs", "chatsurface.log")
	cleanup, err := Setup(Options{Path: path, Level: slog.LevelDebug, Session: "a1b2c3"})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	slog.Debug("layout pass", "bottom_inset", 10)
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, data)
	}
	if entry["msg"] != "layout pass" {
		t.Errorf("msg = %v, want %q", entry["msg"], "layout pass")
	}
	if entry["session"] != "a1b2c3" {
		t.Errorf("session = %v, want a1b2c3", entry["session"])
	}
	if entry["bottom_inset"] != float64(10) {
		t.Errorf("bottom_inset = %v, want 10", entry["bottom_inset"])
	}
}

func TestLogPanicRecovers(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupTest(&buf)

	var recovered any
	func() {
		defer LogPanic("worker", func(r any) { recovered = r })
		panic("boom")
	}()

	if recovered != "boom" {
		t.Errorf("recovered = %v, want boom", recovered)
	}
	if !strings.Contains(buf.String(), "goroutine=worker") {
		t.Errorf("log missing goroutine name: %s", buf.String())
	}
}
