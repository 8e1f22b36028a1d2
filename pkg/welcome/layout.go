package welcome

import "math"

// Text width budgets as a fraction of canvas width, and the smallest font
// size the shrink loop will reach.
const (
	titleBudget        = 0.8
	titleMinSize       = 10
	descriptionBudget  = 0.9
	descriptionMinSize = 8
)

// Measurer returns the rendered width of a fixed string at the given font size.
type Measurer func(size float64) float64

// FitFontSize shrinks size in unit steps while the measured width exceeds
// maxWidth, stopping at floor. A size already at or below floor is returned
// unchanged, and a non-finite size falls back to floor.
func FitFontSize(measure Measurer, size, maxWidth, floor float64) float64 {
	if math.IsNaN(size) || math.IsInf(size, 0) {
		return floor
	}
	for size > floor && measure(size) > maxWidth {
		size = math.Max(size-1, floor)
	}
	return size
}

// CoverRect scales an iw×ih image uniformly so it covers a cw×ch canvas and
// returns the scaled size plus the top-left offset that centers it. Offsets
// are zero or negative; the overflow is cropped by the canvas.
func CoverRect(cw, ch, iw, ih int) (w, h, x, y int) {
	if iw <= 0 || ih <= 0 {
		return cw, ch, 0, 0
	}
	scale := math.Max(float64(cw)/float64(iw), float64(ch)/float64(ih))
	w = int(math.Ceil(float64(iw) * scale))
	h = int(math.Ceil(float64(ih) * scale))
	w, h = max(w, cw), max(h, ch)
	return w, h, (cw - w) / 2, (ch - h) / 2
}
