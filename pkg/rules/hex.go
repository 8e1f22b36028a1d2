package rules

import (
	"image/color"
	"regexp"
	"strconv"
)

var strictHexRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsStrictHex reports whether s is '#' followed by exactly 3 or 6 hex digits.
func IsStrictHex(s string) bool {
	return strictHexRegex.MatchString(s)
}

// ParseHex decodes a strict hex color into an opaque NRGBA.
// The 3-digit form expands each nibble ("#abc" == "#aabbcc").
func ParseHex(s string) (color.NRGBA, bool) {
	if !IsStrictHex(s) {
		return color.NRGBA{}, false
	}
	digits := s[1:]
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, true
}
