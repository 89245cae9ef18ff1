package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show scan index statistics",
	Long: `Display per-tracker statistics from the scan history index.

Shows file counts, total sizes, and the most recently modified log files.`,
	RunE: runStats,
}

var statsRecent int

func init() {
	statsCmd.Flags().IntVar(&statsRecent, "recent", 10, "number of recent files to list")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	components, err := openComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	if components.Index == nil {
		return fmt.Errorf("scan index is disabled or unavailable")
	}

	stats, err := components.Index.Stats()
	if err != nil {
		return fmt.Errorf("failed to read index stats: %w", err)
	}
	if len(stats) == 0 {
		fmt.Println("Index is empty; run: protokoll scan")
		return nil
	}

	fmt.Println("Tracker Statistics")
	fmt.Println("==================")
	for _, s := range stats {
		fmt.Printf("%-20s %4d files  %10s  scanned %s\n",
			s.Tracker, s.FileCount, humanize.Bytes(uint64(s.TotalSize)), humanize.Time(s.LastScan))
	}

	if statsRecent > 0 {
		recent, err := components.Index.Recent(statsRecent)
		if err != nil {
			return fmt.Errorf("failed to read recent files: %w", err)
		}
		if len(recent) > 0 {
			fmt.Println()
			fmt.Println("Recently Modified")
			fmt.Println("=================")
			for _, f := range recent {
				fmt.Printf("%-20s %s (%s)\n", f.Tracker, f.Path, humanize.Time(f.ModTime))
			}
		}
	}
	return nil
}
