package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/protokoll-app/protokoll/internal/app"
)

var (
	settingsPath string
	prefsPath    string
	indexPath    string
	noIndex      bool

	versionInfo string
)

// SetVersion sets the version information from build-time ldflags.
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI with the given signal-aware context.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "protokoll",
	Short: "Log tracker and viewer",
	Long: `protokoll - track, browse, and search application log files

Register trackers for the directories your applications log into, and
protokoll keeps an up-to-date view of the log files inside them. Running
with no subcommand opens the interactive viewer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tuiCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "settings file path (default ~/.config/protokoll/settings.toml)")
	rootCmd.PersistentFlags().StringVar(&prefsPath, "prefs", "", "preferences file path (default ~/.config/protokoll/prefs.toml)")
	rootCmd.PersistentFlags().StringVar(&indexPath, "index", "", "scan index path (default ~/.local/share/protokoll/index.db)")
	rootCmd.PersistentFlags().BoolVar(&noIndex, "no-index", false, "disable the scan history index")
}

func appOptions() app.Options {
	return app.Options{
		SettingsPath: settingsPath,
		PrefsPath:    prefsPath,
		IndexPath:    indexPath,
		NoIndex:      noIndex,
	}
}

// openComponents wires the registry for non-TUI subcommands.
func openComponents() (*app.Components, error) {
	components, err := app.Open(appOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open protokoll state: %w", err)
	}
	return components, nil
}
