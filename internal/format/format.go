// Package format classifies image files by name and by content.
package format

import "bytes"

// ImageFormat is the container format a file is saved as.
type ImageFormat int

const (
	Unknown ImageFormat = iota
	PNG
	JPEG
)

func (f ImageFormat) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	default:
		return "Unknown"
	}
}

// FromFilename classifies by the last four characters only: exactly ".png"
// or ".jpg" (case-sensitive). ".jpeg", ".PNG" and anything else are Unknown.
func FromFilename(name string) ImageFormat {
	if len(name) < 4 {
		return Unknown
	}
	switch name[len(name)-4:] {
	case ".png":
		return PNG
	case ".jpg":
		return JPEG
	default:
		return Unknown
	}
}

var magics = []struct {
	name  string
	magic []byte
}{
	{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}},
	{"jpeg", []byte{0xFF, 0xD8, 0xFF}},
	{"gif", []byte("GIF8")},
	{"bmp", []byte("BM")},
	{"tiff", []byte("II*\x00")},
	{"tiff", []byte("MM\x00*")},
}

// Sniff names the format of encoded data by its magic bytes, or returns ""
// when nothing matches. It is informational; saving never consults it.
func Sniff(data []byte) string {
	for _, m := range magics {
		if bytes.HasPrefix(data, m.magic) {
			return m.name
		}
	}
	if len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return "webp"
	}
	return ""
}
