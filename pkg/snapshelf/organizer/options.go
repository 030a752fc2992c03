package organizer

import (
	"errors"
	"fmt"
	"os"

	"github.com/snapshelf/snapshelf/pkg/snapshelf/actionlog"
	"github.com/snapshelf/snapshelf/pkg/snapshelf/date"
	"github.com/snapshelf/snapshelf/pkg/snapshelf/logging"
	"github.com/snapshelf/snapshelf/pkg/snapshelf/metadata"
	"github.com/snapshelf/snapshelf/pkg/snapshelf/types"
)

// ErrInputNotDir indicates the input path is missing or not a directory.
var ErrInputNotDir = errors.New("input is not a directory")

// FileEvent reports one handled file to the OnFile callback.
type FileEvent struct {
	Source      string
	Destination string
	Kind        types.ActionKind
}

// Options configures a run.
type Options struct {
	// Input is the directory to organize. It must exist.
	Input string

	// Output is the root the organized tree is built under. Created
	// when absent, except in dry runs.
	Output string

	// DirFormat is the strftime-style pattern for dated directories
	// under archive/.
	DirFormat string

	// Strategy selects copy, move, or link transfers.
	Strategy types.Strategy

	// OriginalNames keeps source base names instead of
	// timestamp-derived names.
	OriginalNames bool

	// PathRoot is the root that relative paths under unknown/ are
	// computed against. Defaults to Input.
	PathRoot string

	// EnableLog records every action in an action log for later
	// persistence.
	EnableLog bool

	// DryRun reports placements without touching the filesystem.
	DryRun bool

	// Extractor provides per-file metadata. Defaults to the EXIF
	// extractor.
	Extractor metadata.Extractor

	// Resolver resolves capture dates. Defaults to the EXIF field
	// chain only.
	Resolver *date.Resolver

	// Log receives action records when EnableLog is set.
	Log *actionlog.Log

	// Logger receives diagnostic output. Defaults to the organizer
	// component logger.
	Logger *logging.Logger

	// OnFile, when set, is invoked after each file is handled.
	OnFile func(FileEvent)
}

// Validate checks required fields and fills defaults.
func (o *Options) Validate() error {
	if o.Input == "" {
		return fmt.Errorf("%w: empty path", ErrInputNotDir)
	}
	info, err := os.Stat(o.Input)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrInputNotDir, o.Input)
	}

	if o.Output == "" {
		return errors.New("output directory cannot be empty")
	}
	if o.DirFormat == "" {
		return date.ErrEmptyDirFormat
	}
	if o.Strategy == "" {
		o.Strategy = types.StrategyCopy
	}
	if _, err := types.ParseStrategy(string(o.Strategy)); err != nil {
		return err
	}

	if o.PathRoot == "" {
		o.PathRoot = o.Input
	}
	if o.Extractor == nil {
		o.Extractor = metadata.NewExifExtractor()
	}
	if o.Resolver == nil {
		o.Resolver = &date.Resolver{}
	}
	if o.EnableLog && o.Log == nil {
		o.Log = actionlog.New()
	}
	if o.Logger == nil {
		o.Logger = logging.Get("organizer")
	}

	return nil
}
