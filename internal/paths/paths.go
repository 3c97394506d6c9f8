// Package paths provides a single source of truth for chatsurface file paths.
// All path helpers honor environment variable overrides for isolated testing.
//
// Path resolution precedence:
//  1. CHATSURFACE_LOG_PATH for the log file
//  2. CHATSURFACE_DIR sets the base directory (derives config/log/transcripts)
//  3. Default behavior (~/.chatsurface, ~/.config/chatsurface) when no env vars are set
package paths

import (
	"os"
	"path/filepath"
)

// Environment variable names for path overrides.
const (
	// EnvDir is the base directory override (e.g., /tmp/chatsurface-test).
	EnvDir = "CHATSURFACE_DIR"

	// EnvLogPath overrides the log file path directly.
	EnvLogPath = "CHATSURFACE_LOG_PATH"
)

// BaseDir returns the chatsurface base directory (~/.chatsurface by default).
// Honors CHATSURFACE_DIR.
func BaseDir() (string, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".chatsurface"), nil
}

// ConfigDir returns the config directory (~/.config/chatsurface by default).
// When CHATSURFACE_DIR is set, returns CHATSURFACE_DIR/config instead.
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return filepath.Join(dir, "config"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chatsurface"), nil
}

// ConfigPath returns the path to the config file.
// (~/.config/chatsurface/config.toml by default).
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the log file path.
// Precedence: CHATSURFACE_LOG_PATH > CHATSURFACE_DIR/chatsurface.log > ~/.chatsurface/chatsurface.log
func LogPath() string {
	if path := os.Getenv(EnvLogPath); path != "" {
		return path
	}
	base, err := BaseDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "chatsurface.log")
	}
	return filepath.Join(base, "chatsurface.log")
}

// TranscriptsDir returns the directory transcripts are saved to
// (~/.chatsurface/transcripts by default).
func TranscriptsDir() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "transcripts"), nil
}

// TranscriptPath returns the path of a saved transcript.
func TranscriptPath(name string) (string, error) {
	dir, err := TranscriptsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+".yaml"), nil
}

// ResolveRelative resolves path against the config directory unless it is
// absolute. Used for files referenced from the config, like strings_file.
func ResolveRelative(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, path), nil
}
