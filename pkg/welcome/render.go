package welcome

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/sync/errgroup"

	errs "github.com/cacaonk0027/neekuro/pkg/errors"
	"github.com/cacaonk0027/neekuro/pkg/fonts"
	"github.com/cacaonk0027/neekuro/pkg/observability"
	"github.com/cacaonk0027/neekuro/pkg/rules"
)

// ringWidth is how far the border ring extends past the avatar radius.
const ringWidth = 6

// JPEGQuality is used when the output format is JPEG.
const JPEGQuality = 90

// Build renders the current configuration and returns the encoded image.
//
// A recorded setter error is returned first. Then the avatar, title and
// description must be set, checked in that order. Setter and precondition
// failures come back unchanged; anything that fails while loading, drawing or
// encoding is wrapped in a GENERATE_ERROR.
func (b *Builder) Build(ctx context.Context) (out []byte, err error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.checkReady(); err != nil {
		return nil, err
	}

	cfg := b.Config()
	hooks := b.renderHooks()
	start := time.Now()
	hooks.OnRenderStart(ctx, cfg.Width, cfg.Height)
	defer func() {
		hooks.OnRenderComplete(ctx, string(cfg.Format), len(out), time.Since(start), err)
	}()

	layers, err := b.load(ctx, cfg)
	if err != nil {
		return nil, generateError(err)
	}
	dc, err := compose(cfg, layers, b.fonts)
	if err != nil {
		return nil, generateError(err)
	}
	out, err = encode(dc.Image(), cfg.Format)
	if err != nil {
		return nil, generateError(err)
	}
	return out, nil
}

func (b *Builder) checkReady() error {
	switch {
	case b.cfg.Avatar.Source.IsZero():
		return errs.Build("SetAvatar", "no avatar was set, call SetAvatar before Build")
	case b.cfg.Title.Content == "":
		return errs.Build("SetTitle", "no title was set, call SetTitle before Build")
	case b.cfg.Description.Content == "":
		return errs.Build("SetDescription", "no description was set, call SetDescription before Build")
	}
	return nil
}

func (b *Builder) renderHooks() observability.RenderHooks {
	if b.hooks != nil {
		return b.hooks
	}
	return observability.Render()
}

func generateError(err error) error {
	if errs.IsDomain(err) || errs.Is(err, errs.ErrCodeGenerate) {
		return err
	}
	return errs.Generate(err, "failed to generate image")
}

type layers struct {
	background image.Image
	avatar     image.Image
}

// load fetches the background (image kind only) and the avatar concurrently.
// The first failure cancels the other load.
func (b *Builder) load(ctx context.Context, cfg Config) (layers, error) {
	var l layers
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Background.Kind == KindImage {
		g.Go(func() (err error) {
			l.background, err = b.loadOne(gctx, "background", cfg.Background.Image)
			return err
		})
	}
	g.Go(func() (err error) {
		l.avatar, err = b.loadOne(gctx, "avatar", cfg.Avatar.Source)
		return err
	})
	if err := g.Wait(); err != nil {
		return layers{}, err
	}
	return l, nil
}

func (b *Builder) loadOne(ctx context.Context, kind string, src Source) (image.Image, error) {
	start := time.Now()
	img, err := b.loader.Load(ctx, src)
	b.renderHooks().OnLoad(ctx, kind, src.kind(), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	return img, nil
}

func compose(cfg Config, l layers, reg *fonts.Registry) (*gg.Context, error) {
	dc := gg.NewContext(cfg.Width, cfg.Height)

	if err := paintBackground(dc, cfg.Background, l.background); err != nil {
		return nil, err
	}

	name := cfg.Font
	if name == fonts.Custom {
		name = cfg.FontPath
	}
	ttf, err := reg.Lookup(name)
	if err != nil {
		return nil, err
	}

	w := float64(cfg.Width)
	if err := drawText(dc, ttf, cfg.Title, titleBudget*w, titleMinSize); err != nil {
		return nil, err
	}
	if err := drawText(dc, ttf, cfg.Description, descriptionBudget*w, descriptionMinSize); err != nil {
		return nil, err
	}
	if err := drawAvatar(dc, cfg.Avatar, l.avatar); err != nil {
		return nil, err
	}
	return dc, nil
}

func paintBackground(dc *gg.Context, bg Background, img image.Image) error {
	if bg.Kind != KindImage {
		c, err := parseColor(bg.Color)
		if err != nil {
			return err
		}
		dc.SetColor(c)
		dc.DrawRectangle(0, 0, float64(dc.Width()), float64(dc.Height()))
		dc.Fill()
		return nil
	}
	if img == nil {
		return fmt.Errorf("background image was not loaded")
	}
	bounds := img.Bounds()
	w, h, x, y := CoverRect(dc.Width(), dc.Height(), bounds.Dx(), bounds.Dy())
	dc.DrawImage(imaging.Resize(img, w, h, imaging.Lanczos), x, y)
	return nil
}

func drawText(dc *gg.Context, f *truetype.Font, t Text, maxWidth, floor float64) error {
	c, err := parseColor(t.TextColor)
	if err != nil {
		return err
	}
	size := FitFontSize(func(size float64) float64 {
		dc.SetFontFace(fonts.Face(f, size))
		w, _ := dc.MeasureString(t.Content)
		return w
	}, t.FontSize, maxWidth, floor)

	dc.SetFontFace(fonts.Face(f, size))
	dc.SetColor(c)
	dc.DrawStringAnchored(t.Content, t.X, t.Y, 0.5, 0)
	return nil
}

func drawAvatar(dc *gg.Context, a Avatar, img image.Image) error {
	if img == nil {
		return fmt.Errorf("avatar image was not loaded")
	}
	r := a.Radius
	cx, cy := a.X+r, a.Y+r

	if a.Border != "" {
		c, err := parseColor(a.Border)
		if err != nil {
			return err
		}
		dc.SetColor(c)
		dc.DrawCircle(cx, cy, r+ringWidth)
		dc.Fill()
	}

	side := max(int(math.Round(2*r)), 1)
	scaled := imaging.Resize(img, side, side, imaging.Lanczos)

	dc.Push()
	defer dc.Pop()
	dc.DrawCircle(cx, cy, r)
	dc.Clip()
	dc.DrawImage(scaled, int(math.Round(a.X)), int(math.Round(a.Y)))
	return nil
}

func parseColor(hex string) (color.NRGBA, error) {
	c, ok := rules.ParseHex(hex)
	if !ok {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", hex)
	}
	return c, nil
}

func encode(img image.Image, f Format) ([]byte, error) {
	format := imaging.PNG
	if f == FormatJPEG {
		format = imaging.JPEG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", f, err)
	}
	return buf.Bytes(), nil
}
