package transfer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapshelf/snapshelf/pkg/snapshelf/types"
)

func TestCopy_PreservesModeAndMtime(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")

	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o640))
	mtime := time.Date(2016, 4, 4, 4, 4, 4, 0, time.Local)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	require.NoError(t, Copy(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime), "mtime not preserved: %v", info.ModTime())

	// Source untouched.
	_, err = os.Stat(src)
	assert.NoError(t, err)
}

func TestMove(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	require.NoError(t, Move(src, dst))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err), "source should be gone after move")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestLink_SharesContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	require.NoError(t, Link(src, dst))

	srcInfo, err := os.Stat(src)
	require.NoError(t, err)
	dstInfo, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, os.SameFile(srcInfo, dstInfo), "link should reference the same inode")
}

func TestApply_DispatchesByStrategy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	require.NoError(t, Apply(types.StrategyCopy, src, filepath.Join(dir, "copied.jpg")))
	_, err := os.Stat(src)
	require.NoError(t, err, "copy must leave the source in place")

	require.NoError(t, Apply(types.StrategyMove, src, filepath.Join(dir, "moved.jpg")))
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	err = Apply(types.Strategy("teleport"), "x", "y")
	assert.ErrorIs(t, err, types.ErrInvalidStrategy)
}

func TestIsMissingSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := Copy(filepath.Join(dir, "absent.jpg"), filepath.Join(dir, "dst.jpg"))
	require.Error(t, err)
	assert.True(t, IsMissingSource(err))

	assert.False(t, IsMissingSource(nil))
}
