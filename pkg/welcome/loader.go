package welcome

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp"

	"github.com/cacaonk0027/neekuro/pkg/buildinfo"
	"github.com/cacaonk0027/neekuro/pkg/observability"
)

// MaxImageBytes caps how much of a remote image is read.
const MaxImageBytes = 16 << 20

// ImageLoader turns a Source into a decoded image.
type ImageLoader interface {
	Load(ctx context.Context, src Source) (image.Image, error)
}

// HTTPLoader decodes byte sources in memory and fetches URL sources with GET.
// Fetched content must look like an image before it is decoded.
type HTTPLoader struct {
	client *http.Client
}

// NewHTTPLoader returns a loader using c, or [http.DefaultClient] when c is nil.
// No timeout is imposed beyond the client's own and the build context.
func NewHTTPLoader(c *http.Client) *HTTPLoader {
	if c == nil {
		c = http.DefaultClient
	}
	return &HTTPLoader{client: c}
}

// Load implements ImageLoader.
func (l *HTTPLoader) Load(ctx context.Context, src Source) (image.Image, error) {
	if src.IsBytes() {
		return decode(src.Data)
	}
	data, err := l.fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("content at %s is not an image", src.URL)
	}
	return decode(data)
}

func (l *HTTPLoader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse image url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("cannot fetch %s: only http and https are supported", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := l.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("fetch %s: image exceeds %d bytes", rawURL, MaxImageBytes)
	}
	return data, nil
}

func decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
