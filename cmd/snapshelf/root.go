package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/snapshelf/snapshelf/pkg/snapshelf/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "snapshelf <input> <output>",
		Short: "Organize photos and videos into a dated archive",
		Long: `Snapshelf sorts media files from an input directory into a dated
directory tree under the output root, deduplicating identical content
and keeping sidecar files next to their primaries.

Files with a reliable capture date land under archive/, everything
else keeps its relative layout under unknown/.

Examples:
  snapshelf ~/dump ~/photos               # Copy into dated folders
  snapshelf -m ~/dump ~/photos            # Move instead of copying
  snapshelf -f "%Y/%B" ~/dump ~/photos    # Custom folder layout
  snapshelf -d ~/dump ~/photos            # Preview without touching files
  snapshelf --log ~/dump ~/photos         # Record actions in a JSON log
  snapshelf config show                   # Show configuration`,
		Args: cobra.ExactArgs(2),
		RunE: runOrganize,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/snapshelf/config.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	// Organize flags
	rootCmd.Flags().StringP("dir-format", "f", "", "directory pattern using strftime tokens (default: %Y/%m/%d)")
	rootCmd.Flags().BoolP("move", "m", false, "move files instead of copying")
	rootCmd.Flags().BoolP("link", "l", false, "hard-link files instead of copying")
	rootCmd.Flags().BoolP("timestamp", "t", false, "use file modification time as the date source")
	rootCmd.Flags().StringP("regex", "r", "", "regular expression for extracting dates from file names")
	rootCmd.Flags().String("date-field", "", "metadata field to prefer for date resolution")
	rootCmd.Flags().Bool("original-names", false, "keep original file names")
	rootCmd.Flags().StringP("path-root", "p", "", "root for mirroring relative paths under unknown/")
	rootCmd.Flags().Bool("log", false, "record every action in a JSON log next to the output")
	rootCmd.Flags().BoolP("dry-run", "d", false, "report without touching the filesystem")

	// Bind flags to viper
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("dir_format", rootCmd.Flags().Lookup("dir-format"))
	_ = viper.BindPFlag("move", rootCmd.Flags().Lookup("move"))
	_ = viper.BindPFlag("link", rootCmd.Flags().Lookup("link"))
	_ = viper.BindPFlag("timestamp", rootCmd.Flags().Lookup("timestamp"))
	_ = viper.BindPFlag("date_regex", rootCmd.Flags().Lookup("regex"))
	_ = viper.BindPFlag("date_field", rootCmd.Flags().Lookup("date-field"))
	_ = viper.BindPFlag("original_names", rootCmd.Flags().Lookup("original-names"))
	_ = viper.BindPFlag("path_root", rootCmd.Flags().Lookup("path-root"))
	_ = viper.BindPFlag("log", rootCmd.Flags().Lookup("log"))
	_ = viper.BindPFlag("dry_run", rootCmd.Flags().Lookup("dry-run"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "snapshelf"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "snapshelf"))
		}
	}

	viper.SetEnvPrefix("SNAPSHELF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("dir_format", config.DefaultDirFormat)

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
