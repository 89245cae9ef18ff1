package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/protokoll-app/protokoll/internal/finder"
	"github.com/protokoll-app/protokoll/internal/prefs"
)

var findCmd = &cobra.Command{
	Use:   "find <application>",
	Short: "Find an application's log directories",
	Long: `Search the standard application data locations for directories that
look like they hold the named application's logs.

Exact matches are directories named after the application that contain
log files. When none exist, directories whose path mentions the
application and whose name suggests logging are offered as candidates.`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

var (
	findCreate  bool
	findAddRoot string
)

func init() {
	findCmd.Flags().BoolVar(&findCreate, "create", false, "create a tracker from the exact matches")
	findCmd.Flags().StringVar(&findAddRoot, "add-root", "", "register an extra search root for future finds")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	appName := args[0]
	if err := finder.ValidateQuery(appName); err != nil {
		return err
	}

	components, err := openComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	userPrefs := components.Prefs
	if findAddRoot != "" {
		if err := prefs.AddCustomLogRoot(prefsPath, &userPrefs, findAddRoot); err != nil {
			return fmt.Errorf("add search root: %w", err)
		}
		fmt.Printf("Added search root %s\n", findAddRoot)
	}

	result, err := finder.Find(cmd.Context(), appName, finder.Options{
		CustomRoots: userPrefs.CustomLogRoots,
	})
	if err != nil {
		return err
	}

	if len(result.Exact) == 0 && len(result.Potential) == 0 {
		fmt.Printf("No log directories found for %q.\n", appName)
		return nil
	}

	for _, dir := range result.Exact {
		fmt.Printf("%s\n", dir)
	}
	for _, dir := range result.Potential {
		fmt.Printf("%s (candidate)\n", dir)
	}

	if findCreate {
		if len(result.Exact) == 0 {
			return fmt.Errorf("no exact matches to create a tracker from")
		}
		if err := components.Registry.Create(appName, ""); err != nil {
			return err
		}
		for _, dir := range result.Exact {
			if err := components.Registry.AddDirectory(appName, dir); err != nil {
				return fmt.Errorf("add directory %s: %w", dir, err)
			}
		}
		files, warnings, err := components.Registry.Rescan(cmd.Context(), appName)
		if err != nil {
			return fmt.Errorf("initial scan: %w", err)
		}
		printScanResult(appName, len(files), warnings)
	}
	return nil
}
