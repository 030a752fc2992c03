package actionlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/snapshelf/snapshelf/pkg/snapshelf/types"
)

func TestRecordAndEntries(t *testing.T) {
	t.Parallel()

	l := New()
	if l.RunID() == "" {
		t.Fatal("New() produced empty run ID")
	}

	l.Record("abc123", "/in/a.jpg", "/out/2017/01/01/a.jpg", types.ActionCopy)
	l.Record("abc123", "/in/dup/a.jpg", "/out/2017/01/01/a.jpg", types.ActionSkip)
	l.Record("def456", "/in/b.jpg", "/out/2018/02/02/b.jpg", types.ActionMove)

	if got := l.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}

	recs := l.Entries("abc123")
	if len(recs) != 2 {
		t.Fatalf("Entries(abc123) = %d records, want 2", len(recs))
	}
	if recs[0].Kind != types.ActionCopy || recs[1].Kind != types.ActionSkip {
		t.Errorf("unexpected kinds: %v, %v", recs[0].Kind, recs[1].Kind)
	}
	if recs[0].Timestamp.IsZero() {
		t.Error("record timestamp not set")
	}

	if got := l.Entries("missing"); len(got) != 0 {
		t.Errorf("Entries(missing) = %d records, want 0", len(got))
	}
}

func TestPersistAndLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "vacation.json")

	l := New()
	l.Record("abc123", "/in/a.jpg", "/out/2017/01/01/a.jpg", types.ActionCopy)
	l.Record("def456", "/in/.DS_Store", "", types.ActionIgnore)

	if err := l.Persist(path); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	// No temp file left behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file still present after Persist")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.RunID() != l.RunID() {
		t.Errorf("RunID() = %q, want %q", loaded.RunID(), l.RunID())
	}
	if loaded.Len() != 2 {
		t.Errorf("Len() = %d, want 2", loaded.Len())
	}

	recs := loaded.Entries("def456")
	if len(recs) != 1 || recs[0].Kind != types.ActionIgnore {
		t.Errorf("ignore entry not round-tripped: %+v", recs)
	}
	if recs[0].Destination != "" {
		t.Errorf("ignore entry should have no destination, got %q", recs[0].Destination)
	}
}

func TestPersistOverwritesAtomically(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.json")

	first := New()
	first.Record("aaa", "/in/a.jpg", "/out/a.jpg", types.ActionCopy)
	if err := first.Persist(path); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	second := New()
	second.Record("bbb", "/in/b.jpg", "/out/b.jpg", types.ActionMove)
	if err := second.Persist(path); err != nil {
		t.Fatalf("Persist() over existing file error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Entries("aaa")) != 0 {
		t.Error("stale entries survived overwrite")
	}
	if len(loaded.Entries("bbb")) != 1 {
		t.Error("new entries missing after overwrite")
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() of malformed file should fail")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Load() of missing file should fail")
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"/home/user/vacation", "vacation.json"},
		{"/home/user/vacation/", "vacation.json"},
		{"photos", "photos.json"},
	}

	for _, tt := range tests {
		if got := FileName(tt.input); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
