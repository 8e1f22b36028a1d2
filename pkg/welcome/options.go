package welcome

import (
	"net/http"

	errs "github.com/cacaonk0027/neekuro/pkg/errors"
	"github.com/cacaonk0027/neekuro/pkg/fonts"
	"github.com/cacaonk0027/neekuro/pkg/observability"
)

// Option configures a Builder at construction time.
type Option func(*Builder)

// WithLoader sets the loader used for avatar and background images.
// The default is an [HTTPLoader] over [http.DefaultClient].
func WithLoader(l ImageLoader) Option {
	return func(b *Builder) {
		if l != nil {
			b.loader = l
		}
	}
}

// WithHTTPClient is shorthand for WithLoader(NewHTTPLoader(c)).
func WithHTTPClient(c *http.Client) Option {
	return WithLoader(NewHTTPLoader(c))
}

// WithFontRegistry sets the registry custom fonts are loaded into.
// The default is [fonts.Default].
func WithFontRegistry(r *fonts.Registry) Option {
	return func(b *Builder) {
		if r != nil {
			b.fonts = r
		}
	}
}

// WithAssetsRoot sets the directory relative custom font paths resolve against.
func WithAssetsRoot(dir string) Option {
	return func(b *Builder) {
		b.assetsRoot = dir
	}
}

// WithHooks sets the render hooks. Without it the globally registered
// [observability.Render] hooks are used.
func WithHooks(h observability.RenderHooks) Option {
	return func(b *Builder) {
		b.hooks = h
	}
}

// WithFormat sets the initial output encoding. An unknown format is recorded
// as the builder's error, exactly as [Builder.SetFormat] does.
func WithFormat(f Format) Option {
	return func(b *Builder) {
		b.SetFormat(f)
	}
}

// TextOption overrides one style field of a title or description.
type TextOption func(*Text) error

// TextColor sets the fill color. It must be a strict hex color.
func TextColor(hex string) TextOption {
	return func(t *Text) error {
		if err := errs.ValidateHexColor("text_color", hex); err != nil {
			return err
		}
		t.TextColor = hex
		return nil
	}
}

// MaxFontSize caps the starting font size of a text.
const MaxFontSize = 512

// FontSize sets the starting font size in pixels, at most [MaxFontSize]. The
// renderer may shrink it to fit the canvas.
func FontSize(px float64) TextOption {
	return func(t *Text) error {
		if err := errs.ValidatePositive("font_size", px); err != nil {
			return err
		}
		if err := errs.ValidateAtMost("font_size", px, MaxFontSize); err != nil {
			return err
		}
		t.FontSize = px
		return nil
	}
}

// TextX sets the horizontal center.
func TextX(x float64) TextOption {
	return func(t *Text) error {
		if err := errs.ValidateFinite("x", x); err != nil {
			return err
		}
		t.X = x
		return nil
	}
}

// TextY sets the baseline.
func TextY(y float64) TextOption {
	return func(t *Text) error {
		if err := errs.ValidateFinite("y", y); err != nil {
			return err
		}
		t.Y = y
		return nil
	}
}

// TextPosition sets both anchor coordinates.
func TextPosition(x, y float64) TextOption {
	return func(t *Text) error {
		if err := TextX(x)(t); err != nil {
			return err
		}
		return TextY(y)(t)
	}
}

// AvatarOption overrides one geometry or style field of the avatar.
type AvatarOption func(*Avatar) error

// AvatarX sets the left edge of the avatar's bounding box. It cannot be negative.
func AvatarX(x float64) AvatarOption {
	return func(a *Avatar) error {
		if err := errs.ValidateNonNegative("x", x); err != nil {
			return err
		}
		a.X = x
		return nil
	}
}

// AvatarY sets the top edge of the avatar's bounding box.
func AvatarY(y float64) AvatarOption {
	return func(a *Avatar) error {
		if err := errs.ValidateFinite("y", y); err != nil {
			return err
		}
		a.Y = y
		return nil
	}
}

// AvatarPosition sets both corner coordinates.
func AvatarPosition(x, y float64) AvatarOption {
	return func(a *Avatar) error {
		if err := AvatarX(x)(a); err != nil {
			return err
		}
		return AvatarY(y)(a)
	}
}

// BorderColor sets the ring color drawn behind the avatar.
func BorderColor(hex string) AvatarOption {
	return func(a *Avatar) error {
		if err := errs.ValidateHexColor("border", hex); err != nil {
			return err
		}
		a.Border = hex
		return nil
	}
}

// NoBorder removes the ring.
func NoBorder() AvatarOption {
	return func(a *Avatar) error {
		a.Border = ""
		return nil
	}
}

// Radius sets the avatar circle radius. It must be positive and no larger
// than half of [MaxDimension].
func Radius(r float64) AvatarOption {
	return func(a *Avatar) error {
		if err := errs.ValidatePositive("radius", r); err != nil {
			return err
		}
		if err := errs.ValidateAtMost("radius", r, MaxDimension/2); err != nil {
			return err
		}
		a.Radius = r
		return nil
	}
}
