package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var trackerCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Manage trackers",
	Long:  `Create, inspect and modify trackers and their log directories.`,
}

var trackerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all trackers",
	RunE:  runTrackerList,
}

var trackerAddCmd = &cobra.Command{
	Use:     "add <name> [directory...]",
	Aliases: []string{"create"},
	Short:   "Create a tracker",
	Long: `Create a tracker and optionally register log directories for it.

Directories added here are scanned immediately.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTrackerAdd,
}

var trackerRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm", "delete"},
	Short:   "Delete a tracker",
	Args:    cobra.ExactArgs(1),
	RunE:    runTrackerRemove,
}

var trackerRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a tracker",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrackerRename,
}

var trackerDescribeCmd = &cobra.Command{
	Use:   "describe <name> <description>",
	Short: "Set a tracker's description",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTrackerDescribe,
}

var trackerAddDirCmd = &cobra.Command{
	Use:   "add-dir <name> <directory>",
	Short: "Add a log directory to a tracker",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrackerAddDir,
}

var trackerRemoveDirCmd = &cobra.Command{
	Use:   "rm-dir <name> <directory>",
	Short: "Remove a log directory from a tracker",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrackerRemoveDir,
}

var trackerDescription string

func init() {
	trackerAddCmd.Flags().StringVarP(&trackerDescription, "description", "d", "", "tracker description")

	trackerCmd.AddCommand(trackerListCmd)
	trackerCmd.AddCommand(trackerAddCmd)
	trackerCmd.AddCommand(trackerRemoveCmd)
	trackerCmd.AddCommand(trackerRenameCmd)
	trackerCmd.AddCommand(trackerDescribeCmd)
	trackerCmd.AddCommand(trackerAddDirCmd)
	trackerCmd.AddCommand(trackerRemoveDirCmd)
	rootCmd.AddCommand(trackerCmd)
}

func runTrackerList(cmd *cobra.Command, args []string) error {
	components, err := openComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	trackers := components.Registry.List()
	if len(trackers) == 0 {
		fmt.Println("No trackers yet. Create one with: protokoll tracker add <name> <directory>")
		return nil
	}

	session := components.Registry.Session()
	for _, t := range trackers {
		marker := "  "
		if t.Name == session.LastTracker {
			marker = "* "
		}
		fmt.Printf("%s%s\n", marker, t.Name)
		if t.Description != "" {
			fmt.Printf("    %s\n", t.Description)
		}
		for _, dir := range t.Directories {
			fmt.Printf("    %s\n", dir)
		}
		if t.LastScan.IsZero() {
			fmt.Printf("    never scanned\n")
		} else {
			fmt.Printf("    %d files, scanned %s\n", len(t.Files), humanize.Time(t.LastScan))
		}
	}
	return nil
}

func runTrackerAdd(cmd *cobra.Command, args []string) error {
	components, err := openComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	name := args[0]
	if err := components.Registry.Create(name, trackerDescription); err != nil {
		return err
	}
	fmt.Printf("Created tracker %q\n", name)

	for _, dir := range args[1:] {
		if err := components.Registry.AddDirectory(name, dir); err != nil {
			return fmt.Errorf("add directory %s: %w", dir, err)
		}
		fmt.Printf("Tracking %s\n", dir)
	}

	if len(args) > 1 {
		files, warnings, err := components.Registry.Rescan(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("initial scan: %w", err)
		}
		printScanResult(name, len(files), warnings)
	}
	return nil
}

func runTrackerRemove(cmd *cobra.Command, args []string) error {
	components, err := openComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	name := args[0]
	if err := components.Registry.Delete(name); err != nil {
		return err
	}
	fmt.Printf("Deleted tracker %q\n", name)
	return nil
}

func runTrackerRename(cmd *cobra.Command, args []string) error {
	components, err := openComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	if err := components.Registry.Rename(args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("Renamed %q to %q\n", args[0], args[1])
	return nil
}

func runTrackerDescribe(cmd *cobra.Command, args []string) error {
	components, err := openComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	description := strings.Join(args[1:], " ")
	if err := components.Registry.SetDescription(args[0], description); err != nil {
		return err
	}
	return nil
}

func runTrackerAddDir(cmd *cobra.Command, args []string) error {
	components, err := openComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	name, dir := args[0], args[1]
	if err := components.Registry.AddDirectory(name, dir); err != nil {
		return err
	}
	files, warnings, err := components.Registry.Rescan(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("rescan: %w", err)
	}
	printScanResult(name, len(files), warnings)
	return nil
}

func runTrackerRemoveDir(cmd *cobra.Command, args []string) error {
	components, err := openComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	if err := components.Registry.RemoveDirectory(args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("Stopped tracking %s\n", args[1])
	return nil
}
