// Package card reads declarative welcome card documents and applies them to
// a [welcome.Builder].
//
// The same document can be written in TOML, YAML or JSON:
//
//	width = 1140
//	font = "sans-bold"
//
//	[background]
//	color = "#23272A"
//
//	[avatar]
//	url = "https://cdn.example.com/u/42.png"
//	radius = 110
//
//	[title]
//	content = "Welcome!"
//
//	[description]
//	content = "You are member #42"
//	font_size = 30
//
// Unknown keys are rejected in every format. Image files are resolved
// relative to the document's directory.
package card

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/cacaonk0027/neekuro/pkg/errors"
	"github.com/cacaonk0027/neekuro/pkg/welcome"
)

// Format is a card document encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "unsupported card file %q, use .toml, .yaml or .json", path)
}

// Image is an image given by exactly one of a URL, a file path or base64 data.
type Image struct {
	URL  string `json:"url,omitempty" toml:"url,omitempty" yaml:"url,omitempty"`
	File string `json:"file,omitempty" toml:"file,omitempty" yaml:"file,omitempty"`
	Data string `json:"data,omitempty" toml:"data,omitempty" yaml:"data,omitempty"`
}

func (i Image) isZero() bool { return i.URL == "" && i.File == "" && i.Data == "" }

// Background paints the canvas with either a color or an image.
type Background struct {
	Color string `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
	Image `yaml:",inline"`
}

// Avatar places the circular picture. Unset geometry keeps the defaults.
type Avatar struct {
	Image  `yaml:",inline"`
	X      *float64 `json:"x,omitempty" toml:"x,omitempty" yaml:"x,omitempty"`
	Y      *float64 `json:"y,omitempty" toml:"y,omitempty" yaml:"y,omitempty"`
	Radius *float64 `json:"radius,omitempty" toml:"radius,omitempty" yaml:"radius,omitempty"`
	Border *string  `json:"border,omitempty" toml:"border,omitempty" yaml:"border,omitempty"`
}

// Text is a title or description.
type Text struct {
	Content   string   `json:"content" toml:"content" yaml:"content"`
	X         *float64 `json:"x,omitempty" toml:"x,omitempty" yaml:"x,omitempty"`
	Y         *float64 `json:"y,omitempty" toml:"y,omitempty" yaml:"y,omitempty"`
	FontSize  *float64 `json:"font_size,omitempty" toml:"font_size,omitempty" yaml:"font_size,omitempty"`
	TextColor *string  `json:"text_color,omitempty" toml:"text_color,omitempty" yaml:"text_color,omitempty"`
}

// Card is one welcome card document.
type Card struct {
	Font        string      `json:"font,omitempty" toml:"font,omitempty" yaml:"font,omitempty"`
	FontPath    string      `json:"font_path,omitempty" toml:"font_path,omitempty" yaml:"font_path,omitempty"`
	Width       int         `json:"width,omitempty" toml:"width,omitempty" yaml:"width,omitempty"`
	Height      int         `json:"height,omitempty" toml:"height,omitempty" yaml:"height,omitempty"`
	Format      string      `json:"format,omitempty" toml:"format,omitempty" yaml:"format,omitempty"`
	Background  *Background `json:"background,omitempty" toml:"background,omitempty" yaml:"background,omitempty"`
	Avatar      Avatar      `json:"avatar" toml:"avatar" yaml:"avatar"`
	Title       Text        `json:"title" toml:"title" yaml:"title"`
	Description Text        `json:"description" toml:"description" yaml:"description"`

	// baseDir resolves relative image files; set by Load.
	baseDir string
}

// Load reads and parses the card document at path.
func Load(path string) (*Card, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Resource(err, "cannot read card %q", path)
	}
	c, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	c.baseDir = filepath.Dir(path)
	return c, nil
}

// Parse decodes a card document. Unknown keys are an error.
func Parse(data []byte, format Format) (*Card, error) {
	var c Card
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &c)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "cannot parse TOML card")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errs.New(errs.ErrCodeInvalidInput, "unknown card key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "cannot parse YAML card")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "cannot parse JSON card")
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "unsupported card format %q", format)
	}
	return &c, nil
}

// UsesFiles reports whether any image is read from the local file system.
func (c *Card) UsesFiles() bool {
	if c.Background != nil && c.Background.File != "" {
		return true
	}
	return c.Avatar.File != ""
}

// Builder returns a new builder with the card applied.
func (c *Card) Builder(opts ...welcome.Option) (*welcome.Builder, error) {
	b := welcome.New(opts...)
	if err := c.Apply(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Apply runs the builder setters the card describes. Fields left out of the
// document keep the builder's current values; a zero width or height means
// the default size.
func (c *Card) Apply(b *welcome.Builder) error {
	width, height := c.Width, c.Height
	if width == 0 {
		width = welcome.DefaultSize
	}
	if height == 0 {
		height = welcome.DefaultSize
	}
	b.SetResolution(width, height)

	if c.Format != "" {
		b.SetFormat(welcome.Format(c.Format))
	}
	if c.Font != "" {
		b.SetFont(c.Font, c.FontPath)
	}

	if bg := c.Background; bg != nil {
		switch {
		case bg.Color != "" && !bg.Image.isZero():
			return errs.Validation("background", "set either a background color or a background image, not both")
		case bg.Color != "":
			b.SetBackgroundColor(bg.Color)
		case !bg.Image.isZero():
			src, err := c.source("background", bg.Image)
			if err != nil {
				return err
			}
			b.SetBackgroundImage(src)
		}
	}

	if !c.Avatar.Image.isZero() {
		src, err := c.source("avatar", c.Avatar.Image)
		if err != nil {
			return err
		}
		b.SetAvatar(src, c.Avatar.options()...)
	}
	if c.Title.Content != "" {
		b.SetTitle(c.Title.Content, c.Title.options()...)
	}
	if c.Description.Content != "" {
		b.SetDescription(c.Description.Content, c.Description.options()...)
	}
	return b.Err()
}

func (c *Card) source(param string, img Image) (welcome.Source, error) {
	set := 0
	for _, s := range []string{img.URL, img.File, img.Data} {
		if s != "" {
			set++
		}
	}
	if set > 1 {
		return welcome.Source{}, errs.Validation(param, "<%s> takes exactly one of url, file or data", param)
	}

	switch {
	case img.URL != "":
		return welcome.FromURL(img.URL), nil
	case img.File != "":
		path := img.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return welcome.Source{}, errs.Resource(err, "cannot read %s image %q", param, img.File)
		}
		return welcome.FromBytes(data), nil
	default:
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return welcome.Source{}, errs.Validation(param, "<%s> data is not valid base64", param)
		}
		return welcome.FromBytes(data), nil
	}
}

func (a Avatar) options() []welcome.AvatarOption {
	var opts []welcome.AvatarOption
	if a.X != nil {
		opts = append(opts, welcome.AvatarX(*a.X))
	}
	if a.Y != nil {
		opts = append(opts, welcome.AvatarY(*a.Y))
	}
	if a.Radius != nil {
		opts = append(opts, welcome.Radius(*a.Radius))
	}
	if a.Border != nil {
		if *a.Border == "" {
			opts = append(opts, welcome.NoBorder())
		} else {
			opts = append(opts, welcome.BorderColor(*a.Border))
		}
	}
	return opts
}

func (t Text) options() []welcome.TextOption {
	var opts []welcome.TextOption
	if t.X != nil {
		opts = append(opts, welcome.TextX(*t.X))
	}
	if t.Y != nil {
		opts = append(opts, welcome.TextY(*t.Y))
	}
	if t.FontSize != nil {
		opts = append(opts, welcome.FontSize(*t.FontSize))
	}
	if t.TextColor != nil {
		opts = append(opts, welcome.TextColor(*t.TextColor))
	}
	return opts
}
