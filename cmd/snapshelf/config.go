package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/snapshelf/snapshelf/pkg/snapshelf/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and manage the snapshelf configuration file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  `Create a default configuration file if none exists. An existing file is left untouched.`,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow prints the effective configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config file:     %s\n", filepath.Join(configDir, "config.yaml"))
	fmt.Printf("dir_format:      %s\n", cfg.DirFormat)
	fmt.Printf("move:            %t\n", cfg.Move)
	fmt.Printf("link:            %t\n", cfg.Link)
	fmt.Printf("original_names:  %t\n", cfg.OriginalNames)
	fmt.Printf("timestamp:       %t\n", cfg.Timestamp)
	fmt.Printf("date_regex:      %q\n", cfg.DateRegex)
	fmt.Printf("date_field:      %q\n", cfg.DateField)
	fmt.Printf("path_root:       %q\n", cfg.PathRoot)
	fmt.Printf("log:             %t\n", cfg.Log)
	fmt.Printf("dry_run:         %t\n", cfg.DryRun)

	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	fmt.Printf("logging.level:   %s\n", cfg.Logging.Level)
	fmt.Printf("logging.path:    %s\n", logPath)

	return nil
}

// runConfigInit writes the default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	printInfo("Configuration at %s", filepath.Join(configDir, "config.yaml"))
	return nil
}
