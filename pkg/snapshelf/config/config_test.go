package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DirFormat != DefaultDirFormat {
		t.Errorf("DirFormat = %q, want %q", cfg.DirFormat, DefaultDirFormat)
	}
	if cfg.Move || cfg.Link || cfg.DryRun || cfg.Log {
		t.Error("boolean flags should default to false")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Rotation.MaxBackups != 5 {
		t.Errorf("Rotation.MaxBackups = %d, want 5", cfg.Logging.Rotation.MaxBackups)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "snapshelf")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}

	content := `dir_format: "%Y/%B"
move: true
original_names: true
logging:
  level: debug
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DirFormat != "%Y/%B" {
		t.Errorf("DirFormat = %q, want %%Y/%%B", cfg.DirFormat)
	}
	if !cfg.Move {
		t.Error("Move should be true")
	}
	if !cfg.OriginalNames {
		t.Error("OriginalNames should be true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Unset keys keep their defaults.
	if cfg.Link {
		t.Error("Link should keep its default of false")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SNAPSHELF_DIR_FORMAT", "%Y")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DirFormat != "%Y" {
		t.Errorf("DirFormat = %q, want %%Y from environment", cfg.DirFormat)
	}
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if err := WriteDefault(); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	configPath := filepath.Join(dir, "snapshelf", "config.yaml")
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	firstSize := info.Size()

	// Existing file is left untouched.
	if err := os.WriteFile(configPath, []byte("dir_format: \"%Y\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteDefault(); err != nil {
		t.Fatalf("WriteDefault() over existing file error = %v", err)
	}
	info, err = os.Stat(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == firstSize {
		t.Error("WriteDefault() overwrote an existing config file")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandPath("~/photos")
	if err != nil {
		t.Fatalf("ExpandPath() error = %v", err)
	}
	if got != filepath.Join(home, "photos") {
		t.Errorf("ExpandPath(~/photos) = %q", got)
	}

	got, err = ExpandPath("/abs/path")
	if err != nil {
		t.Fatalf("ExpandPath() error = %v", err)
	}
	if got != "/abs/path" {
		t.Errorf("ExpandPath(/abs/path) = %q", got)
	}
}
