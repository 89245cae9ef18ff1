package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/protokoll-app/protokoll/internal/discovery"
)

var scanCmd = &cobra.Command{
	Use:   "scan [tracker...]",
	Short: "Rescan tracker directories",
	Long: `Walk each tracker's directories and refresh its log file list.

With no arguments every tracker is rescanned.`,
	RunE: runScan,
}

var scanVerbose bool

func init() {
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "list discovered files")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	components, err := openComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	names := args
	if len(names) == 0 {
		for _, t := range components.Registry.List() {
			names = append(names, t.Name)
		}
	}
	if len(names) == 0 {
		fmt.Println("No trackers to scan.")
		return nil
	}

	for _, name := range names {
		files, warnings, err := components.Registry.Rescan(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("scan %s: %w", name, err)
		}
		printScanResult(name, len(files), warnings)
		if scanVerbose {
			for _, f := range files {
				fmt.Printf("  %-10s %s\n", humanize.Bytes(uint64(f.Size)), f.Path)
			}
		}
	}
	return nil
}

func printScanResult(name string, count int, warnings []discovery.Warning) {
	fmt.Printf("%s: %d log files\n", name, count)
	for _, w := range warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}
