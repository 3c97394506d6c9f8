package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBaseDir(t *testing.T) {
	t.Run("default uses home directory", func(t *testing.T) {
		t.Setenv(EnvDir, "")

		dir, err := BaseDir()
		if err != nil {
			t.Fatalf("BaseDir() error = %v", err)
		}
		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".chatsurface")
		if dir != expected {
			t.Errorf("BaseDir() = %q, want %q", dir, expected)
		}
	})

	t.Run("CHATSURFACE_DIR overrides default", func(t *testing.T) {
		t.Setenv(EnvDir, "/tmp/chatsurface-test")

		dir, err := BaseDir()
		if err != nil {
			t.Fatalf("BaseDir() error = %v", err)
		}
		if dir != "/tmp/chatsurface-test" {
			t.Errorf("BaseDir() = %q, want %q", dir, "/tmp/chatsurface-test")
		}
	})
}

func TestConfigPath(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv(EnvDir, "")

		path, err := ConfigPath()
		if err != nil {
			t.Fatalf("ConfigPath() error = %v", err)
		}
		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".config", "chatsurface", "config.toml")
		if path != expected {
			t.Errorf("ConfigPath() = %q, want %q", path, expected)
		}
	})

	t.Run("with CHATSURFACE_DIR", func(t *testing.T) {
		t.Setenv(EnvDir, "/tmp/chatsurface-test")

		path, err := ConfigPath()
		if err != nil {
			t.Fatalf("ConfigPath() error = %v", err)
		}
		expected := "/tmp/chatsurface-test/config/config.toml"
		if path != expected {
			t.Errorf("ConfigPath() = %q, want %q", path, expected)
		}
	})
}

func TestLogPath(t *testing.T) {
	tests := []struct {
		name    string
		dir     string
		logPath string
		want    string
	}{
		{"explicit path wins", "/tmp/cs", "/var/log/cs.log", "/var/log/cs.log"},
		{"derived from base dir", "/tmp/cs", "", "/tmp/cs/chatsurface.log"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDir, tt.dir)
			t.Setenv(EnvLogPath, tt.logPath)
			if got := LogPath(); got != tt.want {
				t.Errorf("LogPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranscriptPath(t *testing.T) {
	t.Setenv(EnvDir, "/tmp/cs")

	path, err := TranscriptPath("demo")
	if err != nil {
		t.Fatalf("TranscriptPath() error = %v", err)
	}
	if path != "/tmp/cs/transcripts/demo.yaml" {
		t.Errorf("TranscriptPath() = %q", path)
	}
}

func TestResolveRelative(t *testing.T) {
	t.Setenv(EnvDir, "/tmp/cs")

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/abs/strings.yaml", "/abs/strings.yaml"},
		{"strings.yaml", "/tmp/cs/config/strings.yaml"},
	}
	for _, tt := range tests {
		got, err := ResolveRelative(tt.in)
		if err != nil {
			t.Fatalf("ResolveRelative(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ResolveRelative(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
