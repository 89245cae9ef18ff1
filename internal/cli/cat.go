package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protokoll-app/protokoll/internal/logfile"
)

var catCmd = &cobra.Command{
	Use:   "cat <tracker> <file>",
	Short: "Print a tracked log file",
	Long: `Print the contents of a log file cached by a tracker.

The file may be given as a full path or just its base name; compressed
files are decompressed transparently.`,
	Args: cobra.ExactArgs(2),
	RunE: runCat,
}

var (
	catTail    int
	catPreview bool
)

func init() {
	catCmd.Flags().IntVarP(&catTail, "tail", "t", 0, "print only the last N lines")
	catCmd.Flags().BoolVarP(&catPreview, "preview", "p", false, "print a short preview of the file head")
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	components, err := openComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	name, fileArg := args[0], args[1]
	t, ok := components.Registry.Get(name)
	if !ok {
		return fmt.Errorf("tracker %q not found", name)
	}

	var path string
	for _, f := range t.Files {
		if f.Path == fileArg || f.Name == fileArg {
			path = f.Path
			break
		}
	}
	if path == "" {
		return fmt.Errorf("%q is not a cached file of tracker %q; run: protokoll scan %s", fileArg, name, name)
	}

	if catPreview {
		preview, err := logfile.Preview(path, 20, 4096)
		if err != nil {
			return err
		}
		fmt.Println(preview)
		return nil
	}

	if catTail > 0 {
		// Tail reads the file raw; decompressing just a tail is not
		// supported, so refuse rather than print compressed bytes.
		if logfile.IsCompressed(path) {
			return fmt.Errorf("cannot tail compressed file %s; use cat without --tail", path)
		}
		lines, err := logfile.Tail(path, catTail)
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(lines, "\n"))
		return nil
	}

	content, err := logfile.ReadAll(path)
	if err != nil {
		return err
	}
	fmt.Print(content)
	return nil
}
