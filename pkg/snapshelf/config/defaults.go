// Package config provides configuration management for the snapshelf
// media organizer.
package config

// Default configuration values for snapshelf.
const (
	// DefaultDirFormat is the default dated-directory pattern.
	DefaultDirFormat = "%Y/%m/%d"

	// DefaultDateField is the metadata field used for date resolution
	// when empty the standard capture-time field chain applies.
	DefaultDateField = ""

	// DefaultConfigDir is the default configuration directory path.
	DefaultConfigDir = "~/.config/snapshelf"
)
