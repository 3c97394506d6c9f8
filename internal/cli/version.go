package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/chatsurface/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print the version, commit, and build date of chatsurface.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "💬 chatsurface "+version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
