package errors

import (
	"math"
	"net/url"
	"strings"

	"github.com/cacaonk0027/neekuro/pkg/rules"
)

// ValidateRequired rejects an empty string parameter.
func ValidateRequired(param, value string) error {
	if value == "" {
		return Validation(param, "parameter <%s> cannot be empty", param)
	}
	return nil
}

// ValidateHexColor validates a strict "#RGB"/"#RRGGBB" color.
// The two failure messages mirror the two ways users get it wrong.
func ValidateHexColor(param, value string) error {
	if err := ValidateRequired(param, value); err != nil {
		return err
	}
	if !strings.HasPrefix(value, "#") {
		return Validation(param, "value of <%s> must start with '#'", param)
	}
	if !rules.IsStrictHex(value) {
		return Validation(param, "value of <%s> is not a valid hex color: %q", param, value)
	}
	return nil
}

// ValidateFinite rejects NaN and infinities.
func ValidateFinite(param string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Validation(param, "value of <%s> must be a finite number, got %v", param, value)
	}
	return nil
}

// ValidatePositive rejects values <= 0 and non-finite values.
func ValidatePositive(param string, value float64) error {
	if err := ValidateFinite(param, value); err != nil {
		return err
	}
	if value <= 0 {
		return Validation(param, "value of <%s> must be greater than 0, got %v", param, value)
	}
	return nil
}

// ValidateNonNegative rejects values < 0 and non-finite values.
func ValidateNonNegative(param string, value float64) error {
	if err := ValidateFinite(param, value); err != nil {
		return err
	}
	if value < 0 {
		return Validation(param, "value of <%s> cannot be negative, got %v", param, value)
	}
	return nil
}

// ValidateAtMost rejects values above limit.
func ValidateAtMost(param string, value, limit float64) error {
	if value > limit {
		return Validation(param, "value of <%s> cannot exceed %v, got %v", param, limit, value)
	}
	return nil
}

// ValidateURL validates that value parses as an absolute URL.
func ValidateURL(param, value string) error {
	if err := ValidateRequired(param, value); err != nil {
		return err
	}
	if !rules.IsValidURL(value) {
		return Validation(param, "the URL given in <%s> is not valid: %q", param, value)
	}
	return nil
}

// ValidateImageURL validates an avatar-style URL: http(s) with a jpg, jpeg,
// png or gif extension.
func ValidateImageURL(param, value string) error {
	if err := ValidateURL(param, value); err != nil {
		return err
	}
	if u, _ := url.Parse(value); u.Scheme != "http" && u.Scheme != "https" {
		return Validation(param, "the URL in <%s> must use HTTP/HTTPS", param)
	}
	if !rules.IsSupportedImageURL(value) {
		return Validation(param, "unsupported image format in <%s>, use JPEG, PNG or GIF", param)
	}
	return nil
}

// ValidateImageBuffer validates that buf is at least 8 bytes and carries a
// JPEG, PNG or GIF signature.
func ValidateImageBuffer(param string, buf []byte) error {
	if len(buf) < rules.MinSniffLen {
		return Validation(param, "image buffer in <%s> is too small (%d bytes)", param, len(buf))
	}
	if !rules.SniffImageFormat(buf).Supported() {
		return Validation(param, "unsupported image format in <%s>, the buffer must be JPEG, PNG or GIF", param)
	}
	return nil
}

// ValidateFontPath validates a custom font path: non-empty and ending in .ttf.
func ValidateFontPath(param, path string) error {
	if path == "" {
		return Validation(param, "parameter <%s> cannot be empty for a custom font", param)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".ttf") {
		return Validation(param, "parameter <%s> must point to a .ttf file", param)
	}
	return nil
}
