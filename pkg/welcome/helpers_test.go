package welcome

import (
	"bytes"
	"context"
	stderrors "errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	errs "github.com/cacaonk0027/neekuro/pkg/errors"
)

// solidPNG encodes a w×h PNG filled with c.
func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	return img
}

func rgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -2 && d <= 2
}

func nearColor(a, b color.NRGBA) bool {
	return near(a.R, b.R) && near(a.G, b.G) && near(a.B, b.B)
}

// loaderFunc adapts a function to ImageLoader.
type loaderFunc func(ctx context.Context, src Source) (image.Image, error)

func (f loaderFunc) Load(ctx context.Context, src Source) (image.Image, error) { return f(ctx, src) }

var gifHeader = []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00}

// readyBuilder has every required field set with an in-memory avatar.
func readyBuilder(t *testing.T, opts ...Option) *Builder {
	t.Helper()
	avatar := solidPNG(t, 16, 16, color.NRGBA{0, 0, 255, 255})
	return New(opts...).
		SetAvatar(FromBytes(avatar)).
		SetTitle("Hi").
		SetDescription("Welcome")
}

func asError(err error, target **errs.Error) bool {
	return stderrors.As(err, target)
}
