package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/snapshelf/snapshelf/pkg/snapshelf/actionlog"
	"github.com/snapshelf/snapshelf/pkg/snapshelf/config"
	"github.com/snapshelf/snapshelf/pkg/snapshelf/date"
	"github.com/snapshelf/snapshelf/pkg/snapshelf/logging"
	"github.com/snapshelf/snapshelf/pkg/snapshelf/organizer"
	"github.com/snapshelf/snapshelf/pkg/snapshelf/types"
)

// runOrganize is the main organize command handler.
func runOrganize(_ *cobra.Command, args []string) error {
	input, err := resolveDir(args[0], true)
	if err != nil {
		return err
	}
	output, err := resolveDir(args[1], false)
	if err != nil {
		return err
	}

	// Configuration errors abort before any file is touched.
	strategy, err := types.StrategyFromFlags(viper.GetBool("move"), viper.GetBool("link"))
	if err != nil {
		return err
	}

	var pattern *regexp.Regexp
	if expr := viper.GetString("date_regex"); expr != "" {
		pattern, err = regexp.Compile(expr)
		if err != nil {
			return fmt.Errorf("invalid date regex %q: %w", expr, err)
		}
	}

	pathRoot := viper.GetString("path_root")
	if pathRoot != "" {
		pathRoot, err = resolveDir(pathRoot, true)
		if err != nil {
			return err
		}
	}

	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logging.Close() }()

	dryRun := viper.GetBool("dry_run")
	enableLog := viper.GetBool("log")

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		printInfo("\nInterrupted, stopping...")
		cancel()
	}()

	if survey, err := organizer.Survey(ctx, input); err == nil {
		printInfo("Organizing %d files (%s) from %s", survey.Files, humanize.Bytes(uint64(survey.Bytes)), input)
	}
	if dryRun {
		printInfo("Dry run: no files will be modified")
	}

	var log *actionlog.Log
	if enableLog {
		log = actionlog.New()
	}

	opts := organizer.Options{
		Input:         input,
		Output:        output,
		DirFormat:     viper.GetString("dir_format"),
		Strategy:      strategy,
		OriginalNames: viper.GetBool("original_names"),
		PathRoot:      pathRoot,
		EnableLog:     enableLog,
		DryRun:        dryRun,
		Resolver: &date.Resolver{
			PreferTimestamp: viper.GetBool("timestamp"),
			FilenamePattern: pattern,
			MetadataField:   viper.GetString("date_field"),
		},
		Log:    log,
		OnFile: reportFile,
	}

	g, err := organizer.New(opts)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := g.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			printInfo("Cancelled after %d files", res.Processed)
			return nil
		}
		return fmt.Errorf("organize failed: %w", err)
	}

	printSummary(res, start)

	for _, e := range res.Errors {
		printError("%v", e)
	}

	if enableLog && !dryRun {
		logPath := filepath.Join(output, actionlog.FileName(input))
		if err := log.Persist(logPath); err != nil {
			return fmt.Errorf("failed to write action log: %w", err)
		}
		printVerbose("Action log written to %s", logPath)
	}

	if len(res.Errors) > 0 {
		return fmt.Errorf("completed with %d errors", len(res.Errors))
	}
	return nil
}

// resolveDir expands and absolutizes a directory argument.
func resolveDir(path string, mustExist bool) (string, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path: %w", err)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if mustExist {
		info, err := os.Stat(abs)
		if err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("path does not exist: %s", abs)
			}
			return "", fmt.Errorf("cannot access path: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("path is not a directory: %s", abs)
		}
	}

	return abs, nil
}

// setupLogging initializes file logging from the loaded configuration.
func setupLogging() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}

	consoleLevel := ""
	if getVerbose() {
		consoleLevel = "debug"
	}

	return logging.Init(logging.Config{
		Level:        cfg.Logging.Level,
		Path:         logPath,
		ConsoleLevel: consoleLevel,
		Rotation: logging.RotationConfig{
			MaxSize:    cfg.Logging.Rotation.MaxSize,
			MaxAge:     cfg.Logging.Rotation.MaxAge,
			MaxBackups: cfg.Logging.Rotation.MaxBackups,
		},
		Components: cfg.Logging.Components,
	})
}

// reportFile prints one progress line per handled file.
func reportFile(ev organizer.FileEvent) {
	switch ev.Kind {
	case types.ActionSkip:
		printInfo("%s => skipped, duplicate at %s", ev.Source, ev.Destination)
	case types.ActionIgnore:
		printVerbose("%s ignored", ev.Source)
	default:
		printInfo("%s => %s", ev.Source, ev.Destination)
	}
}

// printSummary prints the end-of-run totals.
func printSummary(res *organizer.Result, start time.Time) {
	if getQuiet() {
		return
	}

	elapsed := time.Since(start).Round(10 * time.Millisecond)

	fmt.Println()
	printInfo("Processed %d files (%s) in %s",
		res.Processed, humanize.Bytes(uint64(res.BytesTransferred)), elapsed)
	if res.Copied > 0 {
		printInfo("  copied:  %d", res.Copied)
	}
	if res.Moved > 0 {
		printInfo("  moved:   %d", res.Moved)
	}
	if res.Linked > 0 {
		printInfo("  linked:  %d", res.Linked)
	}
	if res.Skipped > 0 {
		printInfo("  skipped: %d", res.Skipped)
	}
	if res.Ignored > 0 {
		printInfo("  ignored: %d", res.Ignored)
	}
	if len(res.Errors) > 0 {
		printInfo("  errors:  %d", len(res.Errors))
	}
}
