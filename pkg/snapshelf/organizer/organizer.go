// Package organizer walks an input tree and places every file into a
// date-derived location under the output root, deduplicating by content
// and resolving name collisions with numeric suffixes.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/snapshelf/snapshelf/pkg/snapshelf/checksum"
	"github.com/snapshelf/snapshelf/pkg/snapshelf/date"
	"github.com/snapshelf/snapshelf/pkg/snapshelf/transfer"
	"github.com/snapshelf/snapshelf/pkg/snapshelf/types"
)

// Bucket names under the output root.
const (
	archiveDir = "archive"
	unknownDir = "unknown"
)

// fileNameFormat is the timestamp layout for synthesized file names.
const fileNameFormat = "20060102_150405"

// sidecarExt is the sidecar extension recognized next to media files.
const sidecarExt = ".xmp"

// ignoredNames are operating-system artifacts that are recorded but
// never transferred.
var ignoredNames = map[string]bool{
	".DS_Store":        true,
	"Thumbs.db":        true,
	"ZbThumbnail.info": true,
}

// Result summarizes a completed run.
type Result struct {
	Processed        int
	Copied           int
	Moved            int
	Linked           int
	Skipped          int
	Ignored          int
	BytesTransferred int64
	Errors           []error
	Elapsed          time.Duration
}

// Organizer performs a single placement run.
type Organizer struct {
	opts Options
}

// New validates opts and returns an organizer ready to run.
func New(opts Options) (*Organizer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Organizer{opts: opts}, nil
}

// Run walks the input tree in lexical order and places every file.
// Per-file failures are collected in the result; only input/output
// setup problems and context cancellation abort the run.
func (g *Organizer) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{}

	if !g.opts.DryRun {
		if err := os.MkdirAll(g.opts.Output, 0o755); err != nil {
			return nil, fmt.Errorf("creating output root: %w", err)
		}
	}

	g.opts.Logger.Info("run started",
		"input", g.opts.Input,
		"output", g.opts.Output,
		"strategy", string(g.opts.Strategy),
		"dry_run", g.opts.DryRun)

	err := filepath.WalkDir(g.opts.Input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("walking %s: %w", path, err))
			g.opts.Logger.Warn("walk error", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := d.Name()
		switch {
		case ignoredNames[name]:
			g.ignoreFile(path, res)
		case strings.HasSuffix(name, sidecarExt):
			// Sidecars travel with their primary file.
		default:
			g.processFile(path, res)
		}
		return nil
	})

	res.Elapsed = time.Since(start)
	if err != nil {
		return res, err
	}

	g.opts.Logger.Info("run finished",
		"processed", res.Processed,
		"skipped", res.Skipped,
		"ignored", res.Ignored,
		"errors", len(res.Errors),
		"elapsed", res.Elapsed.String())

	return res, nil
}

// ignoreFile records an operating-system artifact without transferring it.
func (g *Organizer) ignoreFile(path string, res *Result) {
	res.Ignored++

	sum, err := checksum.Sum(path)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("fingerprinting %s: %w", path, err))
		return
	}
	if g.opts.EnableLog {
		g.opts.Log.Record(sum, path, "", types.ActionIgnore)
	}
	g.opts.Logger.Debug("ignored artifact", "path", path)

	g.emit(FileEvent{Source: path, Kind: types.ActionIgnore})
}

// processFile classifies one file, computes its destination, resolves
// collisions, and transfers it with its sidecar.
func (g *Organizer) processFile(path string, res *Result) {
	fields, err := g.opts.Extractor.Extract(path)
	if err != nil {
		res.Errors = append(res.Errors, err)
		g.opts.Logger.Warn("metadata extraction failed", "path", path, "error", err)
		return
	}

	classified := types.IsMediaMIME(fields.MIMEType())

	resolved := types.ResolvedDate{Guess: true}
	if classified {
		resolved = g.opts.Resolver.Resolve(path, fields)
	}

	decision, err := g.place(path, classified, resolved)
	if err != nil {
		res.Errors = append(res.Errors, err)
		g.opts.Logger.Warn("placement failed", "path", path, "error", err)
		return
	}

	if !g.opts.DryRun {
		if err := os.MkdirAll(decision.Dir, 0o755); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("creating %s: %w", decision.Dir, err))
			return
		}
	}

	decision, srcSum, duplicate, err := g.resolveCollision(path, decision)
	if err != nil {
		res.Errors = append(res.Errors, err)
		g.opts.Logger.Warn("collision resolution failed", "path", path, "error", err)
		return
	}
	final := decision.FinalPath

	if duplicate {
		res.Skipped++
		if g.opts.EnableLog {
			g.opts.Log.Record(srcSum, path, final, types.ActionSkip)
		}
		g.opts.Logger.Debug("duplicate content", "path", path, "existing", final)
		g.emit(FileEvent{Source: path, Destination: final, Kind: types.ActionSkip})
		return
	}

	kind := g.opts.Strategy.Action()

	if !g.opts.DryRun {
		info, statErr := os.Stat(path)

		if err := transfer.Apply(g.opts.Strategy, path, final); err != nil {
			if transfer.IsMissingSource(err) {
				res.Skipped++
				if g.opts.EnableLog && srcSum != "" {
					g.opts.Log.Record(srcSum, path, final, types.ActionSkip)
				}
				g.opts.Logger.Warn("source vanished before transfer", "path", path)
				g.emit(FileEvent{Source: path, Destination: final, Kind: types.ActionSkip})
				return
			}
			res.Errors = append(res.Errors, err)
			g.opts.Logger.Warn("transfer failed", "path", path, "error", err)
			return
		}

		if statErr == nil {
			res.BytesTransferred += info.Size()
		}

		if g.opts.EnableLog {
			g.opts.Log.Record(srcSum, path, final, kind)
		}
	}

	res.Processed++
	switch kind {
	case types.ActionMove:
		res.Moved++
	case types.ActionLink:
		res.Linked++
	default:
		res.Copied++
	}

	g.transferSidecar(path, final, res)

	g.emit(FileEvent{Source: path, Destination: final, Kind: kind})
}

// place computes the destination directory and base file name.
func (g *Organizer) place(path string, classified bool, resolved types.ResolvedDate) (types.PlacementDecision, error) {
	var d types.PlacementDecision

	base := filepath.Base(path)

	if classified && resolved.Confident() {
		segment, err := date.FormatDirectory(g.opts.DirFormat, resolved.Time)
		if err != nil {
			return d, err
		}
		d.Dir = filepath.Join(g.opts.Output, archiveDir, segment)

		if g.opts.OriginalNames {
			d.FileName = base
		} else {
			name := resolved.Time.Format(fileNameFormat)
			if resolved.Subseconds != "" {
				name += resolved.Subseconds
			}
			d.FileName = name + strings.ToLower(filepath.Ext(base))
		}
		return d, nil
	}

	// No reliable date: mirror the source layout under unknown/.
	rel, err := filepath.Rel(g.opts.PathRoot, filepath.Dir(path))
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = ""
	}
	if rel == "." {
		rel = ""
	}
	d.Dir = filepath.Join(g.opts.Output, unknownDir, rel)
	d.FileName = base

	return d, nil
}

// resolveCollision fills in the decision's final path: the first
// destination name that either does not exist or holds identical
// content. The existing file is re-hashed on every iteration so
// concurrent changes to the destination tree are observed. The source
// fingerprint is computed upfront only when action logging needs it;
// otherwise it is deferred until the first collision.
func (g *Organizer) resolveCollision(src string, decision types.PlacementDecision) (types.PlacementDecision, string, bool, error) {
	var sum string
	var err error
	if g.opts.EnableLog {
		sum, err = checksum.Sum(src)
		if err != nil {
			return decision, "", false, fmt.Errorf("fingerprinting %s: %w", src, err)
		}
	}

	ext := filepath.Ext(decision.FileName)
	stem := strings.TrimSuffix(decision.FileName, ext)

	target := filepath.Join(decision.Dir, decision.FileName)
	for suffix := 1; ; suffix++ {
		_, statErr := os.Stat(target)
		if errors.Is(statErr, fs.ErrNotExist) {
			decision.FinalPath = target
			return decision, sum, false, nil
		}
		if statErr != nil {
			return decision, sum, false, fmt.Errorf("checking %s: %w", target, statErr)
		}

		if sum == "" {
			sum, err = checksum.Sum(src)
			if err != nil {
				return decision, "", false, fmt.Errorf("fingerprinting %s: %w", src, err)
			}
		}
		dstSum, err := checksum.Sum(target)
		if err != nil {
			return decision, sum, false, fmt.Errorf("fingerprinting %s: %w", target, err)
		}
		if sum == dstSum {
			decision.FinalPath = target
			return decision, sum, true, nil
		}

		target = filepath.Join(decision.Dir, fmt.Sprintf("%s-%d%s", stem, suffix, ext))
	}
}

// transferSidecar moves the .xmp sidecar alongside its primary file,
// renaming it to match the primary's final name.
func (g *Organizer) transferSidecar(src, finalPrimary string, res *Result) {
	sidecar := findSidecar(src)
	if sidecar == "" {
		return
	}

	ext := filepath.Ext(finalPrimary)
	target := strings.TrimSuffix(finalPrimary, ext) + sidecarExt

	if g.opts.DryRun {
		// Still report the computed placement.
		g.opts.Logger.Debug("sidecar placement", "sidecar", sidecar, "target", target)
		return
	}

	if err := transfer.Apply(g.opts.Strategy, sidecar, target); err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("sidecar for %s: %w", src, err))
		g.opts.Logger.Warn("sidecar transfer failed", "sidecar", sidecar, "error", err)
		return
	}

	g.opts.Logger.Debug("sidecar transferred", "sidecar", sidecar, "target", target)
}

// findSidecar returns the sidecar path for src, trying the full name
// first and then the name without its extension.
func findSidecar(src string) string {
	for _, cand := range []string{
		src + sidecarExt,
		strings.TrimSuffix(src, filepath.Ext(src)) + sidecarExt,
	} {
		if info, err := os.Stat(cand); err == nil && !info.IsDir() {
			return cand
		}
	}
	return ""
}

func (g *Organizer) emit(ev FileEvent) {
	if g.opts.OnFile != nil {
		g.opts.OnFile(ev)
	}
}
