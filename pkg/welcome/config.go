package welcome

import (
	"strings"

	errs "github.com/cacaonk0027/neekuro/pkg/errors"
	"github.com/cacaonk0027/neekuro/pkg/fonts"
)

// Canvas defaults.
const (
	DefaultWidth  = 1140
	DefaultHeight = 520

	// DefaultSize passed to SetResolution resets that axis to its default.
	DefaultSize = -1

	// MaxDimension caps each canvas axis.
	MaxDimension = 4096
)

// Default colors.
const (
	DefaultBackgroundColor  = "#23272A"
	DefaultBorderColor      = "#F7F7F7"
	DefaultTitleColor       = "#FFFFFF"
	DefaultDescriptionColor = "#F7F7F7"
)

// Format is the output image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat accepts "png", "jpeg" and "jpg" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	}
	return "", errs.Validation("format", "unsupported output format %q, use png or jpeg", s)
}

// BackgroundKind selects how the canvas is painted.
type BackgroundKind string

const (
	KindColor BackgroundKind = "color"
	KindImage BackgroundKind = "image"
)

// Source is an image given either as a URL or as raw bytes. Exactly one of
// the fields is set when built with [FromURL] or [FromBytes].
type Source struct {
	URL  string
	Data []byte
}

// FromURL returns a Source fetched over HTTP at render time.
func FromURL(u string) Source { return Source{URL: u} }

// FromBytes returns a Source holding a copy of data.
func FromBytes(data []byte) Source {
	return Source{Data: append([]byte(nil), data...)}
}

// IsZero reports whether neither a URL nor bytes were given.
func (s Source) IsZero() bool { return s.URL == "" && s.Data == nil }

// IsBytes reports whether the source carries raw bytes. Bytes win over a URL
// when both are set.
func (s Source) IsBytes() bool { return s.Data != nil }

func (s Source) kind() string {
	if s.IsBytes() {
		return "bytes"
	}
	return "url"
}

func (s Source) clone() Source {
	if s.Data == nil {
		return s
	}
	return Source{URL: s.URL, Data: append([]byte(nil), s.Data...)}
}

// Background is the canvas fill: a color or a cover-fitted image.
type Background struct {
	Kind  BackgroundKind
	Color string
	Image Source
}

// Avatar is the circular picture. X and Y are the top-left corner of the
// circle's bounding box. An empty Border draws no ring.
type Avatar struct {
	Source Source
	X      float64
	Y      float64
	Radius float64
	Border string
}

// Text is one line of centered text. X is the horizontal center and Y the
// baseline.
type Text struct {
	Content   string
	X         float64
	Y         float64
	FontSize  float64
	TextColor string
}

// Config is the full description of one welcome image.
type Config struct {
	Font        string // predefined font name or fonts.Custom
	FontPath    string // resolved .ttf path, set when Font is fonts.Custom
	Width       int
	Height      int
	Background  Background
	Avatar      Avatar
	Title       Text
	Description Text
	Format      Format
}

// DefaultConfig returns a fresh configuration with every default applied.
func DefaultConfig() Config {
	return Config{
		Font:   fonts.Sans,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Background: Background{
			Kind:  KindColor,
			Color: DefaultBackgroundColor,
		},
		Avatar: Avatar{
			X:      448,
			Y:      80,
			Radius: 120,
			Border: DefaultBorderColor,
		},
		Title: Text{
			X:         565,
			Y:         400,
			FontSize:  55,
			TextColor: DefaultTitleColor,
		},
		Description: Text{
			X:         590,
			Y:         450,
			FontSize:  35,
			TextColor: DefaultDescriptionColor,
		},
		Format: FormatPNG,
	}
}

// clone deep-copies the byte buffers so a snapshot never aliases the draft.
func (c Config) clone() Config {
	c.Background.Image = c.Background.Image.clone()
	c.Avatar.Source = c.Avatar.Source.clone()
	return c
}
