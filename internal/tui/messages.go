package tui

import (
	"time"

	"github.com/tessro/chatsurface/internal/config"
)

// frameMsg drives the display link while animations are running.
type frameMsg time.Time

// configReloadMsg carries a config reloaded by the file watcher.
type configReloadMsg struct {
	Config *config.Config
	Err    error
}

// clearErrorMsg is sent to clear the error display after a timeout.
type clearErrorMsg struct{}

// typingExpiredMsg ends the typing indicator.
type typingExpiredMsg struct {
	Until time.Time
}

// savedMsg is the result of saving the transcript.
type savedMsg struct {
	Path string
	Err  error
}
