// Package transfer moves file content into place: copy, move, or hard
// link, selected by the run's placement strategy.
package transfer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/snapshelf/snapshelf/pkg/snapshelf/types"
)

// IsMissingSource reports whether err came from the source file
// disappearing between discovery and transfer.
func IsMissingSource(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Apply performs the transfer for the given strategy.
func Apply(strategy types.Strategy, src, dst string) error {
	switch strategy {
	case types.StrategyCopy:
		return Copy(src, dst)
	case types.StrategyMove:
		return Move(src, dst)
	case types.StrategyLink:
		return Link(src, dst)
	default:
		return fmt.Errorf("%w: %q", types.ErrInvalidStrategy, strategy)
	}
}

// Copy copies src to dst, preserving the source's permission bits and
// modification time.
func Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("closing destination: %w", err)
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("preserving mode: %w", err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("preserving mtime: %w", err)
	}

	return nil
}

// Move renames src to dst. When the rename crosses a filesystem
// boundary it falls back to copy-then-remove.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return fmt.Errorf("moving %s: %w", src, err)
	}

	// Cross-device rename; copy then remove the original.
	if err := Copy(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing source after copy: %w", err)
	}

	return nil
}

// Link hard-links src at dst.
func Link(src, dst string) error {
	if err := os.Link(src, dst); err != nil {
		return fmt.Errorf("linking %s: %w", src, err)
	}
	return nil
}
