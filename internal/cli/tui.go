package cli

import (
	"github.com/spf13/cobra"

	"github.com/protokoll-app/protokoll/internal/app"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive log viewer",
	Long: `Launch the terminal interface for browsing trackers and their log files.

This is also the default when protokoll runs without a subcommand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context(), appOptions())
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
