package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestExtract_MIMEFromExtension(t *testing.T) {
	t.Parallel()

	e := NewExifExtractor()

	tests := []struct {
		name string
		want string
	}{
		{"photo.CR2", "image/x-canon-cr2"},
		{"clip.mp4", "video/mp4"},
		{"clip.MOV", "video/quicktime"},
		{"layers.psd", "application/vnd.adobe.photoshop"},
		{"pic.png", "image/png"},
	}

	for _, tt := range tests {
		path := writeFile(t, tt.name, []byte("not real media"))
		fields, err := e.Extract(path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, fields.MIMEType(), "for %s", tt.name)
	}
}

func TestExtract_UnsupportedKindIsEmptyNotError(t *testing.T) {
	t.Parallel()

	e := NewExifExtractor()
	path := writeFile(t, "notes.unknownext", []byte("plain data"))

	fields, err := e.Extract(path)
	require.NoError(t, err)
	assert.Empty(t, fields.MIMEType())
}

func TestExtract_CorruptExifStillYieldsMIME(t *testing.T) {
	t.Parallel()

	e := NewExifExtractor()
	// A .jpg with garbage content has no EXIF block; the extractor
	// must still report the MIME type without erroring.
	path := writeFile(t, "broken.jpg", []byte{0xff, 0xd8, 0x00, 0x01, 0x02})

	fields, err := e.Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", fields.MIMEType())
	assert.NotContains(t, fields, FieldDateTimeOriginal)
}

func TestExtract_MissingFile(t *testing.T) {
	t.Parallel()

	e := NewExifExtractor()
	_, err := e.Extract(filepath.Join(t.TempDir(), "gone.jpg"))
	require.Error(t, err)
}
