// Package date resolves a capture date for a file from its metadata,
// its name, or its filesystem timestamp, and renders dated directory
// paths from strftime-style patterns.
//
// Resolution returns a tagged result: either a confident date usable
// for path construction, or a guess that placement must ignore.
package date

import (
	"errors"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/snapshelf/snapshelf/pkg/snapshelf/metadata"
	"github.com/snapshelf/snapshelf/pkg/snapshelf/types"
)

// ErrEmptyDirFormat indicates an empty directory-naming pattern.
var ErrEmptyDirFormat = errors.New("directory format cannot be empty")

// DefaultDirFormat is the default directory pattern: zero-padded
// year/month/day path segments.
const DefaultDirFormat = "%Y/%m/%d"

// exifTimeLayouts are the timestamp encodings seen in EXIF fields.
var exifTimeLayouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Resolver resolves capture dates. The zero value uses EXIF fields
// only; the optional knobs mirror the configuration surface.
type Resolver struct {
	// PreferTimestamp uses the file's modification time as the date
	// source, ahead of any metadata.
	PreferTimestamp bool

	// FilenamePattern optionally extracts the date from the file
	// name. Named groups year/month/day (and optionally hour, minute,
	// second) are used when present, positional groups otherwise.
	FilenamePattern *regexp.Regexp

	// MetadataField names a metadata field to read the date from,
	// ahead of the standard EXIF field chain.
	MetadataField string
}

// Resolve returns the date for path given its extracted metadata.
// When no reliable source yields a date the result is marked as a
// guess and its time must not be used for placement.
func (r *Resolver) Resolve(path string, fields metadata.Fields) types.ResolvedDate {
	if r.PreferTimestamp {
		if info, err := os.Stat(path); err == nil {
			return types.ResolvedDate{Time: info.ModTime()}
		}
	}

	if r.MetadataField != "" {
		if t, ok := parseExifTime(fields[r.MetadataField]); ok {
			return types.ResolvedDate{Time: t, Subseconds: fields[metadata.FieldSubSecTimeOriginal]}
		}
	}

	for _, key := range []string{
		metadata.FieldDateTimeOriginal,
		metadata.FieldDateTimeDigitized,
		metadata.FieldDateTime,
	} {
		if t, ok := parseExifTime(fields[key]); ok {
			return types.ResolvedDate{Time: t, Subseconds: fields[metadata.FieldSubSecTimeOriginal]}
		}
	}

	if r.FilenamePattern != nil {
		if t, ok := fromFilename(r.FilenamePattern, path); ok {
			return types.ResolvedDate{Time: t}
		}
	}

	return types.ResolvedDate{Guess: true}
}

// parseExifTime parses an EXIF-style timestamp string.
func parseExifTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range exifTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// fromFilename extracts a date from the file's base name using the
// configured pattern.
func fromFilename(re *regexp.Regexp, path string) (time.Time, bool) {
	m := re.FindStringSubmatch(base(path))
	if m == nil {
		return time.Time{}, false
	}

	parts := map[string]int{}
	named := false
	for i, name := range re.SubexpNames() {
		if name == "" || i >= len(m) || m[i] == "" {
			continue
		}
		if v, err := strconv.Atoi(m[i]); err == nil {
			parts[name] = v
			named = true
		}
	}

	if !named {
		// Positional groups: year, month, day[, hour, minute, second].
		keys := []string{"year", "month", "day", "hour", "minute", "second"}
		for i := 1; i < len(m) && i <= len(keys); i++ {
			if v, err := strconv.Atoi(m[i]); err == nil {
				parts[keys[i-1]] = v
			}
		}
	}

	year, okY := parts["year"]
	month, okM := parts["month"]
	day, okD := parts["day"]
	if !okY || !okM || !okD {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day,
		parts["hour"], parts["minute"], parts["second"], 0, time.Local)

	// time.Date normalizes out-of-range components; a mismatch means
	// the captured digits were not a real calendar date.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}

	return t, true
}

func base(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if os.IsPathSeparator(path[i]) {
			return path[i+1:]
		}
	}
	return path
}

// FormatDirectory renders the dated directory segment for t using a
// strftime-style pattern such as "%Y/%m/%d".
func FormatDirectory(pattern string, t time.Time) (string, error) {
	if pattern == "" {
		return "", ErrEmptyDirFormat
	}
	return strftime.Format(pattern, t), nil
}
