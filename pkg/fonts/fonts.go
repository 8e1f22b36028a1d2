// Package fonts provides the predefined welcome-card fonts and a registry for
// custom TrueType files.
//
// Predefined fonts are the Go font family embedded through
// golang.org/x/image/font/gofont, so the binary renders text without any
// system font installed. Custom fonts are parsed from disk once and kept in a
// [Registry] keyed by their resolved path.
package fonts

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"

	errs "github.com/cacaonk0027/neekuro/pkg/errors"
)

// Predefined font names.
const (
	Sans       = "sans"
	SansBold   = "sans-bold"
	SansMedium = "sans-medium"
	Mono       = "mono"
	SmallCaps  = "smallcaps"

	// Custom selects a TrueType file supplied by the caller.
	Custom = "custom"
)

// DPI used for every face. At 72 DPI one point equals one pixel, so font
// sizes in card configs are pixel sizes.
const DPI = 72

var predefined = map[string][]byte{
	Sans:       goregular.TTF,
	SansBold:   gobold.TTF,
	SansMedium: gomedium.TTF,
	Mono:       gomono.TTF,
	SmallCaps:  gosmallcaps.TTF,
}

// Names returns the predefined font names in sorted order.
func Names() []string {
	names := make([]string, 0, len(predefined))
	for name := range predefined {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsPredefined reports whether name is one of the embedded fonts.
func IsPredefined(name string) bool {
	_, ok := predefined[name]
	return ok
}

// Registry holds parsed fonts. Predefined fonts are parsed lazily on first
// use; custom fonts are added through [Registry.Load]. A Registry is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	fonts map[string]*truetype.Font
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{fonts: make(map[string]*truetype.Font)}
}

// Default is the process-wide registry used by builders that were not given
// their own.
var Default = NewRegistry()

// Load reads and parses the TrueType file at path and registers it under its
// cleaned path. Loading the same path twice returns the cached font.
func (r *Registry) Load(path string) (*truetype.Font, error) {
	key := filepath.Clean(path)

	r.mu.RLock()
	f, ok := r.fonts[key]
	r.mu.RUnlock()
	if ok {
		return f, nil
	}

	data, err := os.ReadFile(key)
	if err != nil {
		return nil, errs.Resource(err, "cannot read font file %q", key)
	}
	f, err = truetype.Parse(data)
	if err != nil {
		return nil, errs.Resource(err, "cannot parse font file %q", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.fonts[key]; ok {
		return existing, nil
	}
	r.fonts[key] = f
	return f, nil
}

// Registered reports whether a custom font was loaded from path.
func (r *Registry) Registered(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.fonts[filepath.Clean(path)]
	return ok
}

// Lookup returns the font for a predefined name, or for a custom path that
// was previously loaded.
func (r *Registry) Lookup(name string) (*truetype.Font, error) {
	if data, ok := predefined[name]; ok {
		return r.builtin(name, data)
	}

	r.mu.RLock()
	f, ok := r.fonts[filepath.Clean(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, errs.Resource(nil, "font %q is not registered", name)
	}
	return f, nil
}

func (r *Registry) builtin(name string, data []byte) (*truetype.Font, error) {
	key := "builtin:" + name

	r.mu.RLock()
	f, ok := r.fonts[key]
	r.mu.RUnlock()
	if ok {
		return f, nil
	}

	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errs.Resource(err, "cannot parse embedded font %q", name)
	}

	r.mu.Lock()
	r.fonts[key] = f
	r.mu.Unlock()
	return f, nil
}

// Face returns a face of the given pixel size for a font returned by Lookup
// or Load.
func Face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: DPI})
}
