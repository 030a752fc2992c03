package organizer

import (
	"context"
	"errors"
	"io/fs"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// SurveyResult holds aggregate counts for an input tree.
type SurveyResult struct {
	Files int64
	Bytes int64
}

// Survey counts the files and bytes under root using a parallel walk.
// The counts feed the pre-run banner; ordering does not matter here,
// unlike the placement walk.
func Survey(ctx context.Context, root string) (SurveyResult, error) {
	var files, bytes atomic.Int64

	conf := fastwalk.Config{
		Follow: false, // Don't follow symlinks.
	}

	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are reported by the placement walk.
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}

		files.Add(1)
		if info, err := d.Info(); err == nil {
			bytes.Add(info.Size())
		}
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		return SurveyResult{}, err
	}

	return SurveyResult{Files: files.Load(), Bytes: bytes.Load()}, nil
}
