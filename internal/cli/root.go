package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/chatsurface/internal/paths"
)

var (
	// baseDir is the global --dir flag value.
	baseDir string
	// logLevel is the global --log-level flag value.
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "chatsurface",
	Short: "Terminal chat surface",
	Long:  "chatsurface is a terminal chat client surface with animated input panels.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Export --dir so every path helper sees the override.
		if baseDir != "" {
			if err := os.Setenv(paths.EnvDir, baseDir); err != nil {
				return err
			}
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseDir, "dir", "", "base directory for chatsurface data (overrides ~/.chatsurface)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")
}

func Execute() error {
	return rootCmd.Execute()
}
