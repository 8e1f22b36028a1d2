package rules

import (
	"net/url"
	"path"
	"strings"
)

var supportedImageExts = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

// IsValidURL reports whether s parses as an absolute URL.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs()
}

// IsSupportedImageURL reports whether s is an http(s) URL whose path ends in
// jpg, jpeg, png or gif (case-insensitive). Query and fragment are ignored.
func IsSupportedImageURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
	return supportedImageExts[ext]
}
