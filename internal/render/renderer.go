// Package render converts pixel imagery into style-tagged glyph rows
// for terminal display. Three backends trade pixel density for glyph
// complexity: ascii (1x1), quadrant (2x2) and braille (2x4).
package render

import (
	"image"
	"sort"

	xdraw "golang.org/x/image/draw"
)

// Style is the visual style of a glyph run. The zero value means the
// terminal default foreground.
type Style struct {
	R, G, B uint8
	Colored bool
}

// Run is a stretch of adjacent same-styled glyphs.
type Run struct {
	Style Style
	Text  string
}

// Row is one terminal row as an ordered sequence of runs.
type Row []Run

// Backend converts an image into glyph rows for a cellW x cellH grid.
type Backend interface {
	Render(img image.Image, cellW, cellH int, colored bool, ramp []rune) []Row
}

// Renderer dispatches to a named backend and resolves palette names to
// glyph ramps. Unknown modes fall back to ascii; unknown palettes fall
// back to the default, then to a hardcoded minimal ramp.
type Renderer struct {
	palettes       map[string]string
	defaultPalette string
	backends       map[string]Backend
}

// New creates a renderer with the built-in palettes and all three
// backends registered.
func New() *Renderer {
	r := &Renderer{
		palettes:       DefaultPalettes(),
		defaultPalette: "ascii_dense",
		backends:       make(map[string]Backend),
	}
	r.Register("ascii", AsciiBackend{})
	r.Register("quadrant", QuadrantBackend{})
	r.Register("braille", BrailleBackend{})
	return r
}

// Register adds or replaces a backend under a mode name.
func (r *Renderer) Register(mode string, b Backend) {
	r.backends[mode] = b
}

// Modes returns the registered mode names.
func (r *Renderer) Modes() []string {
	return []string{"ascii", "quadrant", "braille"}
}

// PaletteNames returns the known palette names in sorted order.
func (r *Renderer) PaletteNames() []string {
	names := make([]string, 0, len(r.palettes))
	for name := range r.palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Palette resolves a palette name to a glyph ramp, sparse to dense.
func (r *Renderer) Palette(name string) []rune {
	if p, ok := r.palettes[name]; ok && p != "" {
		return []rune(p)
	}
	if p, ok := r.palettes[r.defaultPalette]; ok && p != "" {
		return []rune(p)
	}
	return []rune(" .")
}

// Render converts img to a cellW x cellH frame of glyph rows using the
// named mode and palette.
func (r *Renderer) Render(img image.Image, cellW, cellH int, colored bool, mode, paletteName string) []Row {
	backend, ok := r.backends[mode]
	if !ok {
		backend = r.backends["ascii"]
	}
	return backend.Render(img, cellW, cellH, colored, r.Palette(paletteName))
}

// placeholderRows is the output for non-positive target dimensions.
func placeholderRows() []Row {
	return []Row{{Run{}}}
}

// resizeRGBA scales img to exactly w x h pixels with a smooth filter.
func resizeRGBA(img image.Image, w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		xdraw.Draw(out, out.Bounds(), img, img.Bounds().Min, xdraw.Src)
		return out
	}
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return out
}

// luminance returns Rec.601 luminance normalized to [0, 1].
func luminance(r, g, b uint8) float64 {
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255.0
}

// rowBuilder accumulates glyphs, merging adjacent same-style runs.
type rowBuilder struct {
	runs    []Run
	style   Style
	pending []rune
}

func (rb *rowBuilder) append(style Style, ch rune) {
	if style != rb.style && len(rb.pending) > 0 {
		rb.runs = append(rb.runs, Run{Style: rb.style, Text: string(rb.pending)})
		rb.pending = rb.pending[:0]
	}
	rb.style = style
	rb.pending = append(rb.pending, ch)
}

func (rb *rowBuilder) row() Row {
	if len(rb.pending) > 0 {
		rb.runs = append(rb.runs, Run{Style: rb.style, Text: string(rb.pending)})
		rb.pending = rb.pending[:0]
	}
	if len(rb.runs) == 0 {
		return Row{Run{}}
	}
	return rb.runs
}
