package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    int64 `mapstructure:"max_size"`
	MaxAge     int   `mapstructure:"max_age"`
	MaxBackups int   `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// Config represents the application configuration.
type Config struct {
	DirFormat     string        `mapstructure:"dir_format"`
	Move          bool          `mapstructure:"move"`
	Link          bool          `mapstructure:"link"`
	OriginalNames bool          `mapstructure:"original_names"`
	Timestamp     bool          `mapstructure:"timestamp"`
	DateRegex     string        `mapstructure:"date_regex"`
	DateField     string        `mapstructure:"date_field"`
	PathRoot      string        `mapstructure:"path_root"`
	Log           bool          `mapstructure:"log"`
	DryRun        bool          `mapstructure:"dry_run"`
	Logging       LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/snapshelf/config.yaml
//   - $HOME/.config/snapshelf/config.yaml
//
// Environment variables are prefixed with SNAPSHELF_
// (e.g., SNAPSHELF_DIR_FORMAT).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "snapshelf"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "snapshelf"))

	v.SetEnvPrefix("SNAPSHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("dir_format", DefaultDirFormat)
	v.SetDefault("move", false)
	v.SetDefault("link", false)
	v.SetDefault("original_names", false)
	v.SetDefault("timestamp", false)
	v.SetDefault("date_regex", "")
	v.SetDefault("date_field", DefaultDateField)
	v.SetDefault("path_root", "")
	v.SetDefault("log", false)
	v.SetDefault("dry_run", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", 10*1024*1024)
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.components", map[string]string{
		"organizer": "info",
		"metadata":  "warn",
		"transfer":  "info",
	})

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.HasPrefix(cfg.PathRoot, "~") {
		cfg.PathRoot = filepath.Join(homeDir, cfg.PathRoot[1:])
	}

	return &cfg, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "snapshelf"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "snapshelf"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Snapshelf Media Organizer Configuration

# Directory pattern for dated placement (strftime tokens)
dir_format: "%s"

# Placement strategy flags (move and link are mutually exclusive)
move: false
link: false

# Keep original file names instead of timestamp-derived names
original_names: false

# Use file modification time as the date source
timestamp: false

# Regular expression for extracting dates from file names
# (named groups: year, month, day, hour, minute, second)
date_regex: ""

# Metadata field to prefer for date resolution (empty means the
# standard capture-time chain)
date_field: ""

# Root used to mirror relative paths under unknown/ (empty means the
# input directory)
path_root: ""

# Record every placement action in a JSON log next to the output
log: false

# Report without touching the filesystem
dry_run: false

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/snapshelf/snapshelf.log)
  path: ""
  # Log rotation settings
  rotation:
    max_size: 10485760  # bytes
    max_age: 30         # days
    max_backups: 5
  # Per-component log levels
  components:
    organizer: info
    metadata: warn
    transfer: info
`, DefaultDirFormat)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// StateDir returns $XDG_STATE_HOME/snapshelf/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "snapshelf")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "snapshelf.log")
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}
