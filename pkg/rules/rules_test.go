package rules

import (
	"image/color"
	"testing"
)

func TestIsStrictHex(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"#abc", true},
		{"#ABC", true},
		{"#aabbcc", true},
		{"#23272A", true},

		{"", false},
		{"abc", false},
		{"aabbcc", false},
		{"#ab", false},
		{"#abcd", false},
		{"#aabbccdd", false},
		{"#gggggg", false},
		{"# abc", false},
		{"#abc ", false},
		{"red", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsStrictHex(tt.input); got != tt.want {
				t.Errorf("IsStrictHex(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		input string
		want  color.NRGBA
		ok    bool
	}{
		{"#23272A", color.NRGBA{R: 0x23, G: 0x27, B: 0x2A, A: 0xFF}, true},
		{"#fff", color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, true},
		{"#a1b", color.NRGBA{R: 0xAA, G: 0x11, B: 0xBB, A: 0xFF}, true},
		{"#12345", color.NRGBA{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseHex(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseHex(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://example.com/bg.jpg", true},
		{"http://localhost:449/api", true},
		{"ftp://files.example.com/a", true},

		{"", false},
		{"example.com/bg.jpg", false},
		{"/relative/path.png", false},
		{"://missing-scheme", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidURL(tt.input); got != tt.want {
				t.Errorf("IsValidURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsSupportedImageURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://cdn.example.com/avatar.png", true},
		{"http://cdn.example.com/avatar.JPG", true},
		{"https://cdn.example.com/a/b.jpeg?size=256", true},
		{"https://cdn.example.com/anim.gif#frame", true},

		{"ftp://cdn.example.com/avatar.png", false},
		{"https://cdn.example.com/avatar.webp", false},
		{"https://cdn.example.com/avatar", false},
		{"https://cdn.example.com/png", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsSupportedImageURL(tt.input); got != tt.want {
				t.Errorf("IsSupportedImageURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSniffImageFormat(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  Format
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 'J', 'F'}, FormatJPEG},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0}, FormatPNG},
		{"gif", []byte("GIF89a\x01\x00"), FormatGIF},
		{"gif87", []byte("GIF87a\x01\x00\x01"), FormatGIF},

		{"too short gif", []byte("GIF8"), FormatUnknown},
		{"empty", nil, FormatUnknown},
		{"random", []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, FormatUnknown},
		{"truncated png signature", []byte{0x89, 'P', 'N', 'G', 0, 0, 0, 0}, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SniffImageFormat(tt.input); got != tt.want {
				t.Errorf("SniffImageFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatSupported(t *testing.T) {
	for _, f := range []Format{FormatJPEG, FormatPNG, FormatGIF} {
		if !f.Supported() {
			t.Errorf("%s.Supported() = false, want true", f)
		}
	}
	if FormatUnknown.Supported() {
		t.Error("unknown.Supported() = true, want false")
	}
}
