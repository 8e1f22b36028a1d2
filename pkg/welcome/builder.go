package welcome

import (
	"path/filepath"
	"strings"

	errs "github.com/cacaonk0027/neekuro/pkg/errors"
	"github.com/cacaonk0027/neekuro/pkg/fonts"
	"github.com/cacaonk0027/neekuro/pkg/observability"
)

// Builder accumulates a welcome image configuration through chained setters
// and renders it with [Builder.Build].
//
// Every setter validates its arguments before touching the configuration. On
// failure the configuration is left unchanged, the error is recorded, and all
// later setters become no-ops until [Builder.Reset] is called. Build reports
// the recorded error first, so a chain can be checked once at the end:
//
//	img, err := welcome.New().
//	    SetAvatar(welcome.FromURL(user.AvatarURL), welcome.Radius(100)).
//	    SetTitle("Welcome!").
//	    SetDescription(user.Name).
//	    Build(ctx)
//
// A Builder is not safe for concurrent use. Builds re-read the current
// configuration, so a builder may be adjusted and built again.
type Builder struct {
	cfg        Config
	err        error
	loader     ImageLoader
	fonts      *fonts.Registry
	assetsRoot string
	hooks      observability.RenderHooks
}

// New returns a builder holding the default configuration.
func New(opts ...Option) *Builder {
	b := &Builder{
		cfg:        DefaultConfig(),
		loader:     NewHTTPLoader(nil),
		fonts:      fonts.Default,
		assetsRoot: ".",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Err returns the first setter error, or nil.
func (b *Builder) Err() error { return b.err }

// Reset clears a recorded setter error. The configuration is kept.
func (b *Builder) Reset() *Builder {
	b.err = nil
	return b
}

// Config returns a deep copy of the current configuration.
func (b *Builder) Config() Config { return b.cfg.clone() }

// apply runs fn unless an earlier setter failed, and records its error.
func (b *Builder) apply(fn func() error) *Builder {
	if b.err != nil {
		return b
	}
	if err := fn(); err != nil {
		b.err = err
	}
	return b
}

// SetResolution sets the canvas size. Passing [DefaultSize] for an axis
// restores that axis's default.
func (b *Builder) SetResolution(width, height int) *Builder {
	return b.apply(func() error {
		w, err := resolveAxis("width", width, DefaultWidth)
		if err != nil {
			return err
		}
		h, err := resolveAxis("height", height, DefaultHeight)
		if err != nil {
			return err
		}
		b.cfg.Width, b.cfg.Height = w, h
		return nil
	})
}

func resolveAxis(param string, v, def int) (int, error) {
	if v == DefaultSize {
		return def, nil
	}
	if v <= 0 {
		return 0, errs.Validation(param, "value of <%s> must be a positive integer or DefaultSize, got %d", param, v)
	}
	if v > MaxDimension {
		return 0, errs.Validation(param, "value of <%s> cannot exceed %d, got %d", param, MaxDimension, v)
	}
	return v, nil
}

// SetFont selects a predefined font by name, or a custom TrueType file when
// name is [fonts.Custom]. Custom paths must end in .ttf and are resolved
// against the assets root. The file is loaded immediately so a bad font
// fails here rather than at build time.
func (b *Builder) SetFont(name, customPath string) *Builder {
	return b.apply(func() error {
		if fonts.IsPredefined(name) {
			b.cfg.Font, b.cfg.FontPath = name, ""
			return nil
		}
		if name != fonts.Custom {
			return errs.Validation("name", "unknown font %q, use one of %s or %q",
				name, strings.Join(fonts.Names(), ", "), fonts.Custom)
		}
		if err := errs.ValidateFontPath("custom_path", customPath); err != nil {
			return err
		}
		path := b.resolveAsset(customPath)
		if _, err := b.fonts.Load(path); err != nil {
			return err
		}
		b.cfg.Font, b.cfg.FontPath = fonts.Custom, path
		return nil
	})
}

func (b *Builder) resolveAsset(p string) string {
	p = strings.TrimPrefix(p, "./")
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(b.assetsRoot, p)
}

// SetTitle sets the title text and optional style overrides.
func (b *Builder) SetTitle(text string, opts ...TextOption) *Builder {
	return b.apply(func() error {
		return setText(&b.cfg.Title, text, opts)
	})
}

// SetDescription sets the description text and optional style overrides.
func (b *Builder) SetDescription(text string, opts ...TextOption) *Builder {
	return b.apply(func() error {
		return setText(&b.cfg.Description, text, opts)
	})
}

func setText(dst *Text, text string, opts []TextOption) error {
	if err := errs.ValidateRequired("text", text); err != nil {
		return err
	}
	draft := *dst
	draft.Content = text
	for _, opt := range opts {
		if err := opt(&draft); err != nil {
			return err
		}
	}
	*dst = draft
	return nil
}

// SetBackground replaces the background. For [KindColor], value is a strict
// hex string. For [KindImage], value is a URL string, a []byte buffer or a
// [Source]; buffers must be JPEG, PNG or GIF.
func (b *Builder) SetBackground(kind BackgroundKind, value any) *Builder {
	return b.apply(func() error {
		bg, err := newBackground(kind, value)
		if err != nil {
			return err
		}
		b.cfg.Background = bg
		return nil
	})
}

// SetBackgroundColor is SetBackground(KindColor, hex).
func (b *Builder) SetBackgroundColor(hex string) *Builder {
	return b.SetBackground(KindColor, hex)
}

// SetBackgroundImage is SetBackground(KindImage, src).
func (b *Builder) SetBackgroundImage(src Source) *Builder {
	return b.SetBackground(KindImage, src)
}

func newBackground(kind BackgroundKind, value any) (Background, error) {
	switch kind {
	case KindColor:
		hex, ok := value.(string)
		if !ok {
			return Background{}, errs.Validation("value", "a color background expects a hex string, got %T", value)
		}
		if err := errs.ValidateHexColor("value", hex); err != nil {
			return Background{}, err
		}
		return Background{Kind: KindColor, Color: hex}, nil

	case KindImage:
		var src Source
		switch v := value.(type) {
		case string:
			src = FromURL(v)
		case []byte:
			src = FromBytes(v)
		case Source:
			src = v.clone()
		default:
			return Background{}, errs.Validation("value", "an image background expects a URL, []byte or Source, got %T", value)
		}
		if err := validateBackgroundSource(src); err != nil {
			return Background{}, err
		}
		return Background{Kind: KindImage, Image: src}, nil
	}
	return Background{}, errs.Validation("kind", "unknown background kind %q, use %q or %q", kind, KindColor, KindImage)
}

func validateBackgroundSource(src Source) error {
	if src.IsBytes() {
		return errs.ValidateImageBuffer("value", src.Data)
	}
	return errs.ValidateURL("value", src.URL)
}

// SetAvatar sets the avatar image and optional geometry overrides. URLs must
// be http(s) and end in jpg, jpeg, png or gif; buffers must be at least 8
// bytes of JPEG, PNG or GIF.
func (b *Builder) SetAvatar(src Source, opts ...AvatarOption) *Builder {
	return b.apply(func() error {
		if err := validateAvatarSource(src); err != nil {
			return err
		}
		draft := b.cfg.Avatar
		draft.Source = src.clone()
		for _, opt := range opts {
			if err := opt(&draft); err != nil {
				return err
			}
		}
		b.cfg.Avatar = draft
		return nil
	})
}

func validateAvatarSource(src Source) error {
	if src.IsZero() {
		return errs.Validation("source", "parameter <source> is required")
	}
	if src.IsBytes() {
		return errs.ValidateImageBuffer("source", src.Data)
	}
	return errs.ValidateImageURL("source", src.URL)
}

// SetFormat sets the output encoding.
func (b *Builder) SetFormat(f Format) *Builder {
	return b.apply(func() error {
		parsed, err := ParseFormat(string(f))
		if err != nil {
			return err
		}
		b.cfg.Format = parsed
		return nil
	})
}
