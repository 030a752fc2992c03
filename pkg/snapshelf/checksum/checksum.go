// Package checksum computes content fingerprints for duplicate
// detection. Files are streamed through SHA-256 in fixed-size blocks so
// large media files are never loaded into memory at once.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// blockSize is the read block size fed to the hash.
const blockSize = 64 * 1024

// Sum returns the lowercase hex SHA-256 digest of the file's bytes.
// Identical content always yields an identical fingerprint regardless
// of path or metadata. I/O errors are propagated; callers must not
// treat a failed fingerprint as "file is unique".
func Sum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for fingerprint: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, blockSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("reading %s for fingerprint: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
