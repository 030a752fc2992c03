package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snapshelf/snapshelf/pkg/snapshelf/actionlog"
	"github.com/snapshelf/snapshelf/pkg/snapshelf/config"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Inspect recorded action logs",
	Long: `Inspect the JSON action logs written by organize runs with --log.

Each log records every copy, move, link, skip, and ignore decision of
one run, keyed by the source file's content fingerprint.`,
}

var logListCmd = &cobra.Command{
	Use:   "list <output-dir>",
	Short: "List action logs under an output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogList,
}

var logShowCmd = &cobra.Command{
	Use:   "show <log-file>",
	Short: "Show the entries of an action log",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogShow,
}

var logShowLimit int

func init() {
	logShowCmd.Flags().IntVarP(&logShowLimit, "limit", "l", 50, "maximum number of fingerprints to show")

	logCmd.AddCommand(logListCmd)
	logCmd.AddCommand(logShowCmd)
	rootCmd.AddCommand(logCmd)
}

// runLogList lists action log files directly under a directory.
func runLogList(cmd *cobra.Command, args []string) error {
	dir, err := resolveDir(args[0], true)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	var found int
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		l, err := actionlog.Load(path)
		if err != nil {
			printVerbose("Skipping %s: %v", path, err)
			continue
		}

		found++
		fmt.Printf("%-30s  run %s  %d actions\n", entry.Name(), l.RunID(), l.Len())
	}

	if found == 0 {
		printInfo("No action logs found in %s.", dir)
		printInfo("Run 'snapshelf --log <input> <output>' to record one.")
	}

	return nil
}

// runLogShow displays the entries of a single action log.
func runLogShow(cmd *cobra.Command, args []string) error {
	path, err := config.ExpandPath(args[0])
	if err != nil {
		return err
	}

	l, err := actionlog.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load action log: %w", err)
	}

	fmt.Printf("\nAction Log %s\n", l.RunID())
	fmt.Println(strings.Repeat("=", 72))

	fingerprints := l.Fingerprints()
	sort.Strings(fingerprints)

	shown := len(fingerprints)
	if shown > logShowLimit {
		shown = logShowLimit
	}

	for _, fp := range fingerprints[:shown] {
		fmt.Printf("\n%s\n", fp)
		for _, rec := range l.Entries(fp) {
			line := fmt.Sprintf("  %-6s  %s", rec.Kind, rec.Source)
			if rec.Destination != "" {
				line += " => " + rec.Destination
			}
			fmt.Println(line)
		}
	}

	if len(fingerprints) > shown {
		fmt.Printf("\n... and %d more fingerprints\n", len(fingerprints)-shown)
	}

	return nil
}
