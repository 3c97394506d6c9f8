package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tessro/chatsurface/internal/logging"
	"github.com/tessro/chatsurface/internal/paths"
	"github.com/tessro/chatsurface/internal/presentation"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		want   string
	}{
		{"nil config", nil, DefaultLogLevel},
		{"empty log level", &Config{}, DefaultLogLevel},
		{"custom log level", &Config{LogLevel: "debug"}, "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.GetLogLevel(); got != tt.want {
				t.Errorf("GetLogLevel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDurations(t *testing.T) {
	var nilCfg *Config
	if got := nilCfg.SpringDuration(); got != 400*time.Millisecond {
		t.Errorf("SpringDuration() = %v", got)
	}
	cfg := &Config{Animation: AnimationConfig{SpringMS: 250, TextResizeMS: 50, FrameMS: 33}}
	if got := cfg.SpringDuration(); got != 250*time.Millisecond {
		t.Errorf("SpringDuration() = %v", got)
	}
	if got := cfg.TextResizeDuration(); got != 50*time.Millisecond {
		t.Errorf("TextResizeDuration() = %v", got)
	}
	if got := cfg.FrameInterval(); got != 33*time.Millisecond {
		t.Errorf("FrameInterval() = %v", got)
	}
}

func TestLayoutDefaults(t *testing.T) {
	zero := 0
	tests := []struct {
		name       string
		config     *Config
		wantKB     int
		wantMargin int
	}{
		{"nil", nil, DefaultKeyboardInset, DefaultNavButtonMargin},
		{"unset", &Config{}, DefaultKeyboardInset, DefaultNavButtonMargin},
		{"explicit zero margin", &Config{Layout: LayoutConfig{NavButtonMargin: &zero}}, DefaultKeyboardInset, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.GetKeyboardInset(); got != tt.wantKB {
				t.Errorf("GetKeyboardInset() = %d, want %d", got, tt.wantKB)
			}
			if got := tt.config.GetNavButtonMargin(); got != tt.wantMargin {
				t.Errorf("GetNavButtonMargin() = %d, want %d", got, tt.wantMargin)
			}
		})
	}
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"

[animation]
spring_ms = 300

[layout]
keyboard_inset = 8

[theme]
accent = "#112233"

[wallpaper]
kind = "color"
color = "#336699"
`)
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.GetLogLevel() != "debug" {
		t.Errorf("log level = %q", cfg.GetLogLevel())
	}
	if cfg.GetKeyboardInset() != 8 {
		t.Errorf("keyboard inset = %d", cfg.GetKeyboardInset())
	}
	if got := cfg.BuildTheme().Accent; got != "#112233" {
		t.Errorf("accent = %q", got)
	}
	if got := cfg.BuildTheme().Text; got != presentation.DefaultTheme().Text {
		t.Errorf("text color should fall back to default, got %q", got)
	}
	want := presentation.Wallpaper{Kind: presentation.WallpaperColor, Color: 0x336699}
	if got := cfg.BuildWallpaper(); got != want {
		t.Errorf("wallpaper = %+v, want %+v", got, want)
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil || cfg != nil {
		t.Errorf("LoadFromPath(missing) = %v, %v; want nil, nil", cfg, err)
	}
}

func TestLoadFromPathRejects(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"unknown key", "colour = \"red\"\n", ErrUnknownKey},
		{"bad level", "log_level = \"loud\"\n", ErrInvalidLogLevel},
		{"bad wallpaper", "[wallpaper]\nkind = \"video\"\n", ErrInvalidWallpaper},
		{"image without path", "[wallpaper]\nkind = \"image\"\n", ErrMissingImagePath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromPath(writeConfig(t, tt.body))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadFromPath() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadStrings(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvDir, dir)
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "strings.yaml"), []byte("input_placeholder: Nachricht\n"), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := (&Config{StringsFile: "strings.yaml"}).LoadStrings()
	if err != nil {
		t.Fatalf("LoadStrings() error = %v", err)
	}
	if s.InputPlaceholder != "Nachricht" {
		t.Errorf("InputPlaceholder = %q", s.InputPlaceholder)
	}
	if s.ReplyTitle != presentation.DefaultStrings().ReplyTitle {
		t.Errorf("ReplyTitle should fall back to default, got %q", s.ReplyTitle)
	}

	var nilCfg *Config
	s, err = nilCfg.LoadStrings()
	if err != nil || s.InputPlaceholder != "Message" {
		t.Errorf("nil config LoadStrings() = %+v, %v", s, err)
	}
}

func TestWatchReloads(t *testing.T) {
	path := writeConfig(t, "log_level = \"info\"\n")
	reloaded := make(chan *Config, 4)
	w, err := Watch(path, func(cfg *Config, err error) {
		if err == nil {
			reloaded <- cfg
		}
	})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("log_level = \"warn\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	select {
	case cfg := <-reloaded:
		if cfg.GetLogLevel() != "warn" {
			t.Errorf("reloaded log level = %q", cfg.GetLogLevel())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchSurvivesPanickingCallback(t *testing.T) {
	var logs lockedBuffer
	prev := slog.Default()
	logging.SetupTest(&logs)
	defer slog.SetDefault(prev)

	path := writeConfig(t, "log_level = \"info\"\n")
	reloaded := make(chan string, 16)
	w, err := Watch(path, func(cfg *Config, err error) {
		if err != nil {
			return
		}
		reloaded <- cfg.GetLogLevel()
		if cfg.GetLogLevel() == "warn" {
			panic("reload handler failed")
		}
	})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	for _, level := range []string{"warn", "error"} {
		if err := os.WriteFile(path, []byte("log_level = \""+level+"\"\n"), 0600); err != nil {
			t.Fatal(err)
		}
		waitForLevel(t, reloaded, level)
	}
	if out := logs.String(); !strings.Contains(out, "panic recovered") || !strings.Contains(out, "config-reload") {
		t.Errorf("panic not logged:\n%s", out)
	}
}

func waitForLevel(t *testing.T, reloaded <-chan string, level string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case got := <-reloaded:
			if got == level {
				return
			}
		case <-timeout:
			t.Fatalf("config was not reloaded to %s", level)
		}
	}
}
