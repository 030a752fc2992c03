// Package metadata extracts per-file metadata used for classification
// and date resolution: a MIME type and, for EXIF-bearing images, the
// capture timestamp fields.
package metadata

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// Well-known field keys in the extracted mapping.
const (
	// FieldMIMEType is the detected MIME type of the file.
	FieldMIMEType = "MIMEType"
	// FieldDateTimeOriginal is the EXIF capture timestamp.
	FieldDateTimeOriginal = "DateTimeOriginal"
	// FieldDateTimeDigitized is the EXIF digitization timestamp.
	FieldDateTimeDigitized = "DateTimeDigitized"
	// FieldDateTime is the EXIF file-change timestamp.
	FieldDateTime = "DateTime"
	// FieldSubSecTimeOriginal holds sub-second digits for the capture time.
	FieldSubSecTimeOriginal = "SubSecTimeOriginal"
)

// Fields is the key/value mapping returned by an Extractor.
type Fields map[string]string

// MIMEType returns the detected MIME type, or "" when absent.
func (f Fields) MIMEType() string {
	return f[FieldMIMEType]
}

// Extractor returns metadata for a file. Implementations must return
// an empty mapping, not an error, for unsupported file kinds; errors
// are reserved for real I/O failures.
type Extractor interface {
	Extract(path string) (Fields, error)
}

// extMIME maps media extensions to MIME types. Camera raw formats are
// listed explicitly because the platform mime database rarely knows
// them, and lookup must behave the same on every machine.
var extMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",
	".cr2":  "image/x-canon-cr2",
	".cr3":  "image/x-canon-cr3",
	".nef":  "image/x-nikon-nef",
	".arw":  "image/x-sony-arw",
	".orf":  "image/x-olympus-orf",
	".raf":  "image/x-fuji-raf",
	".rw2":  "image/x-panasonic-rw2",
	".dng":  "image/x-adobe-dng",
	".psd":  "application/vnd.adobe.photoshop",
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mpg":  "video/mpeg",
	".mpeg": "video/mpeg",
	".3gp":  "video/3gpp",
	".mts":  "video/mp2t",
	".m2ts": "video/mp2t",
}

// exifExts are extensions worth attempting an EXIF decode on. goexif
// reads the TIFF structure shared by JPEG and most raw formats.
var exifExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".cr2":  true,
	".nef":  true,
	".arw":  true,
	".orf":  true,
	".dng":  true,
}

// ExifExtractor reads MIME type from the extension table and EXIF
// timestamp fields from file content where the format supports it.
type ExifExtractor struct{}

// NewExifExtractor returns the default metadata extractor.
func NewExifExtractor() *ExifExtractor {
	return &ExifExtractor{}
}

// Extract returns the metadata fields for path. Unsupported file kinds
// yield an empty mapping. A file whose EXIF block is absent or corrupt
// still yields its MIME type; decode failures are not errors.
func (e *ExifExtractor) Extract(path string) (Fields, error) {
	ext := strings.ToLower(filepath.Ext(path))

	mimetype, ok := extMIME[ext]
	if !ok {
		// Fall back to the platform registry for non-media types so
		// callers can still see what the file claims to be.
		mimetype = mime.TypeByExtension(ext)
	}
	if mimetype == "" {
		return Fields{}, nil
	}

	fields := Fields{FieldMIMEType: mimetype}

	if !exifExts[ext] {
		return fields, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s for metadata: %w", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		// No usable EXIF block; the MIME type alone is still useful.
		return fields, nil
	}

	for key, name := range map[string]exif.FieldName{
		FieldDateTimeOriginal:   exif.DateTimeOriginal,
		FieldDateTimeDigitized:  exif.DateTimeDigitized,
		FieldDateTime:           exif.DateTime,
		FieldSubSecTimeOriginal: exif.SubSecTimeOriginal,
	} {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		if v, err := tag.StringVal(); err == nil && v != "" {
			fields[key] = v
		}
	}

	return fields, nil
}
