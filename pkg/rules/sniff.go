package rules

import "bytes"

// Format is an image encoding identified from leading bytes.
type Format string

// Formats recognized by [SniffImageFormat].
const (
	FormatUnknown Format = "unknown"
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatGIF     Format = "gif"
)

// MinSniffLen is the number of leading bytes a buffer needs before it is sniffed.
const MinSniffLen = 8

var signatures = []struct {
	format Format
	magic  []byte
}{
	{FormatJPEG, []byte{0xFF, 0xD8, 0xFF}},
	{FormatPNG, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	{FormatGIF, []byte{0x47, 0x49, 0x46, 0x38}},
}

// SniffImageFormat inspects the first 8 bytes of buf.
// Buffers shorter than [MinSniffLen] are always unknown.
func SniffImageFormat(buf []byte) Format {
	if len(buf) < MinSniffLen {
		return FormatUnknown
	}
	head := buf[:MinSniffLen]
	for _, sig := range signatures {
		if bytes.HasPrefix(head, sig.magic) {
			return sig.format
		}
	}
	return FormatUnknown
}

// Supported reports whether f is one of the decodable formats.
func (f Format) Supported() bool {
	return f == FormatJPEG || f == FormatPNG || f == FormatGIF
}
