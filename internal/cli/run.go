package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tessro/chatsurface/internal/config"
	"github.com/tessro/chatsurface/internal/conversation"
	"github.com/tessro/chatsurface/internal/id"
	"github.com/tessro/chatsurface/internal/logging"
	"github.com/tessro/chatsurface/internal/paths"
	"github.com/tessro/chatsurface/internal/tui"
)

var runTranscript string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the chat surface",
	Long: `Open the interactive chat surface in the terminal.

Without --transcript a demo conversation is shown. ctrl+s saves the
conversation back to the transcript, or to a new file under the
transcripts directory.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.GetLogLevel()
	if logLevel != "" {
		level = logLevel
	}
	// The TUI owns the terminal, so logs only go to the file.
	session := id.Session()
	cleanup, err := logging.Setup(logging.Options{Level: logging.ParseLevel(level), Session: session})
	if err == nil {
		defer cleanup()
	}

	store := conversation.New(conversation.Demo())
	if runTranscript != "" {
		t, err := conversation.Load(runTranscript)
		if err != nil {
			return err
		}
		store = t
	}

	configPath, err := paths.ConfigPath()
	if err != nil {
		slog.Warn("config path unavailable, hot reload disabled", "error", err)
		configPath = ""
	}

	slog.Info("starting chat surface",
		"transcript", runTranscript,
		"messages", store.Len(),
		"config", configPath,
	)
	return tui.Run(tui.Options{
		Store:          store,
		Config:         cfg,
		ConfigPath:     configPath,
		TranscriptPath: runTranscript,
		Session:        session,
	})
}

func init() {
	runCmd.Flags().StringVarP(&runTranscript, "transcript", "t", "", "YAML transcript to open")
	rootCmd.AddCommand(runCmd)
}
