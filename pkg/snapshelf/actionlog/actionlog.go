// Package actionlog records the outcome of every placement action in a
// run, keyed by source-content fingerprint, and persists the record as
// JSON next to the organized output.
package actionlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/snapshelf/snapshelf/pkg/snapshelf/types"
)

// Record is one placement action taken for a source file.
type Record struct {
	Source      string           `json:"source"`
	Destination string           `json:"destination,omitempty"`
	Kind        types.ActionKind `json:"kind"`
	Timestamp   time.Time        `json:"timestamp"`
}

// Log accumulates placement records for a single run. Entries are
// grouped by the source file's content fingerprint, so re-runs over
// the same input can be correlated regardless of file location.
type Log struct {
	mu      sync.Mutex
	runID   string
	created time.Time
	entries map[string][]Record
}

// persisted is the on-disk shape of a Log.
type persisted struct {
	RunID     string              `json:"run_id"`
	CreatedAt time.Time           `json:"created_at"`
	Entries   map[string][]Record `json:"entries"`
}

// New returns an empty log with a fresh run identifier.
func New() *Log {
	return &Log{
		runID:   uuid.NewString(),
		created: time.Now().UTC(),
		entries: make(map[string][]Record),
	}
}

// RunID returns the unique identifier of this run.
func (l *Log) RunID() string {
	return l.runID
}

// Record appends an action for the file identified by fingerprint.
func (l *Log) Record(fingerprint, source, destination string, kind types.ActionKind) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[fingerprint] = append(l.entries[fingerprint], Record{
		Source:      source,
		Destination: destination,
		Kind:        kind,
		Timestamp:   time.Now().UTC(),
	})
}

// Len returns the total number of recorded actions.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, recs := range l.entries {
		n += len(recs)
	}
	return n
}

// Fingerprints returns the fingerprints with at least one record.
func (l *Log) Fingerprints() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, 0, len(l.entries))
	for fp := range l.entries {
		out = append(out, fp)
	}
	return out
}

// Entries returns the records for a fingerprint.
func (l *Log) Entries(fingerprint string) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	recs := l.entries[fingerprint]
	out := make([]Record, len(recs))
	copy(out, recs)
	return out
}

// Persist writes the log to path atomically. The file is written to a
// temporary sibling first and renamed into place, so a crash never
// leaves a partially written log.
func (l *Log) Persist(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.MarshalIndent(persisted{
		RunID:     l.runID,
		CreatedAt: l.created,
		Entries:   l.entries,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding action log: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating action log directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing action log: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("committing action log: %w", err)
	}

	return nil
}

// Load reads a previously persisted log from path.
func Load(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading action log: %w", err)
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding action log %s: %w", path, err)
	}
	if p.Entries == nil {
		p.Entries = make(map[string][]Record)
	}

	return &Log{
		runID:   p.RunID,
		created: p.CreatedAt,
		entries: p.Entries,
	}, nil
}

// FileName returns the log file name for a given input directory: the
// directory's base name with a .json extension.
func FileName(inputDir string) string {
	return filepath.Base(filepath.Clean(inputDir)) + ".json"
}
