// Package types provides core data types for the snapshelf media archiver.
// It includes the transfer strategy and action kinds, the resolved-date
// result used for placement, and MIME classification of media files.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ActionKind identifies the decision recorded for a file.
type ActionKind string

const (
	// ActionCopy records a byte-for-byte copy to the destination.
	ActionCopy ActionKind = "copy"
	// ActionMove records a relocation; the source no longer exists.
	ActionMove ActionKind = "move"
	// ActionLink records a hard link created at the destination.
	ActionLink ActionKind = "link"
	// ActionSkip records a file left untouched (duplicate or missing source).
	ActionSkip ActionKind = "skip"
	// ActionIgnore records an operating-system artifact excluded from transfer.
	ActionIgnore ActionKind = "ignore"
)

// Valid reports whether the action kind is one of the known values.
func (a ActionKind) Valid() bool {
	switch a {
	case ActionCopy, ActionMove, ActionLink, ActionSkip, ActionIgnore:
		return true
	}
	return false
}

// Strategy selects how files are transferred to their destination.
type Strategy string

const (
	// StrategyCopy duplicates file bytes and preserves timestamps (default).
	StrategyCopy Strategy = "copy"
	// StrategyMove relocates files; originals are removed.
	StrategyMove Strategy = "move"
	// StrategyLink creates hard links; source and destination share data.
	StrategyLink Strategy = "link"
)

// Action returns the action kind recorded for a transfer performed
// with this strategy.
func (s Strategy) Action() ActionKind {
	switch s {
	case StrategyMove:
		return ActionMove
	case StrategyLink:
		return ActionLink
	default:
		return ActionCopy
	}
}

// ErrStrategyConflict indicates that move and link were both selected.
var ErrStrategyConflict = errors.New("move and link strategies are mutually exclusive")

// ErrInvalidStrategy indicates an unknown strategy string.
var ErrInvalidStrategy = errors.New("invalid transfer strategy")

// StrategyFromFlags derives the transfer strategy from the move/link
// selectors. Selecting both is a configuration error and must abort the
// run before any processing starts.
func StrategyFromFlags(move, link bool) (Strategy, error) {
	if move && link {
		return "", ErrStrategyConflict
	}
	if move {
		return StrategyMove, nil
	}
	if link {
		return StrategyLink, nil
	}
	return StrategyCopy, nil
}

// ParseStrategy parses a strategy string (case-insensitive).
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "copy", "":
		return StrategyCopy, nil
	case "move":
		return StrategyMove, nil
	case "link":
		return StrategyLink, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStrategy, s)
	}
}

// ResolvedDate is the tagged result of date resolution. When Guess is
// true no reliable source date was found and Time must not be used to
// build a dated directory path; the file belongs in the unknown bucket.
type ResolvedDate struct {
	// Time is the resolved capture timestamp. Only meaningful when
	// Guess is false.
	Time time.Time

	// Guess marks a low-confidence result. Placement ignores Time
	// entirely when set.
	Guess bool

	// Subseconds holds optional sub-second digits appended to
	// synthesized file names for uniqueness.
	Subseconds string
}

// Confident reports whether the date is usable for path construction.
func (d ResolvedDate) Confident() bool {
	return !d.Guess && !d.Time.IsZero()
}

// PlacementDecision is the per-file outcome of destination computation.
// It is consumed immediately by the transfer step and then discarded.
type PlacementDecision struct {
	// Dir is the destination directory.
	Dir string

	// FileName is the synthesized or original base file name.
	FileName string

	// FinalPath is the full destination path after collision
	// resolution; it may carry a numeric suffix.
	FinalPath string
}

// mediaMIME matches MIME types treated as classifiable media: images,
// videos, and Photoshop documents.
var mediaMIME = regexp.MustCompile(`^(image/.+|video/.+|application/vnd.adobe.photoshop)$`)

// IsMediaMIME reports whether the MIME type classifies a file as
// image/video media eligible for dated placement.
func IsMediaMIME(mimetype string) bool {
	return mediaMIME.MatchString(mimetype)
}
