package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protokoll-app/protokoll/internal/logfile"
)

var searchCmd = &cobra.Command{
	Use:   "search <tracker> <query>",
	Short: "Search inside a tracker's log files",
	Long: `Search the cached log files of a tracker for lines containing the query.

The match is a case-insensitive substring match. Binary and oversized
files are skipped. Run "protokoll scan" first if the file list is stale.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

var searchMaxResults int

func init() {
	searchCmd.Flags().IntVarP(&searchMaxResults, "max", "m", 200, "maximum matches to print")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	components, err := openComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	name := args[0]
	query := strings.Join(args[1:], " ")

	t, ok := components.Registry.Get(name)
	if !ok {
		return fmt.Errorf("tracker %q not found", name)
	}
	if len(t.Files) == 0 {
		fmt.Printf("%s has no cached files; run: protokoll scan %s\n", name, name)
		return nil
	}

	paths := make([]string, 0, len(t.Files))
	for _, f := range t.Files {
		paths = append(paths, f.Path)
	}

	matches, err := logfile.Search(cmd.Context(), paths, query)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	shown := matches
	if len(shown) > searchMaxResults {
		shown = shown[:searchMaxResults]
	}
	for _, m := range shown {
		fmt.Printf("%s:%d: %s\n", m.File, m.Line, strings.TrimSpace(m.Text))
	}
	if len(matches) > len(shown) {
		fmt.Printf("… %d more matches (raise --max to see them)\n", len(matches)-len(shown))
	}
	return nil
}
