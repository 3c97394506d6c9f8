// Package logging provides slog-based logging for chatsurface. The terminal
// belongs to the UI, so logs always go to a file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tessro/chatsurface/internal/paths"
)

// DefaultLogPath returns the default log file path (~/.chatsurface/chatsurface.log).
func DefaultLogPath() string {
	return paths.LogPath()
}

// ParseLevel maps a config or flag level name to a slog level. Unknown names
// log at info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options configure Setup.
type Options struct {
	// Path is the log file. Empty uses DefaultLogPath.
	Path  string
	Level slog.Level
	// Session tags every record so interleaved runs can be told apart.
	Session string
}

// Setup points the global slog logger at a JSON log file and returns a
// function that closes it.
func Setup(opts Options) (cleanup func(), err error) {
	path := opts.Path
	if path == "" {
		path = DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: opts.Level}))
	if opts.Session != "" {
		logger = logger.With("session", opts.Session)
	}
	slog.SetDefault(logger)
	return func() { f.Close() }, nil
}

// SetupTest sends debug-level text logs to w.
func SetupTest(w io.Writer) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	slog.SetDefault(slog.New(handler))
}

// LogPanic recovers a panic in a background goroutine, logs it with its
// stack and hands the value to onRecover.
//
//	defer logging.LogPanic("config-watcher", nil)
func LogPanic(name string, onRecover func(any)) {
	if r := recover(); r != nil {
		slog.Error("panic recovered",
			"goroutine", name,
			"panic", r,
			"stack", string(captureStack()),
		)
		if onRecover != nil {
			onRecover(r)
		}
	}
}

func captureStack() []byte {
	buf := make([]byte, 4096)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			return buf[:n]
		}
		buf = make([]byte, len(buf)*2)
	}
}
