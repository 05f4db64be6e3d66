// Package composite assembles map tiles into a single pixel canvas
// centered on a geographic point, then applies post-filters.
package composite

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"termatlas/internal/geodesy"
	"termatlas/internal/tilecache"
)

// TileSource supplies tiles for compositing. Implementations return
// false for tiles they cannot provide; those regions stay black.
type TileSource interface {
	GetWithOverzoom(tc geodesy.TileCoord, levels int) (*image.RGBA, bool)
}

// Options controls overzoom depth and the post-filter chain. Filters
// apply after cropping in fixed order: contrast, edge enhance, unsharp
// mask, invert. Each is independently best-effort.
type Options struct {
	OverzoomLevels   int
	Contrast         float64 // 1.0 = unchanged
	EdgeBoost        bool
	SharpenPercent   int // 100 = unchanged
	SharpenRadius    float64
	SharpenThreshold int
	Invert           bool
}

// FromTiles assembles a widthPx x heightPx RGBA image centered on
// (lat, lon) at zoom z. Tile columns wrap east-west; rows outside the
// grid stay black. Missing tiles leave black regions rather than
// failing the whole composite.
func FromTiles(src TileSource, lat, lon float64, z, widthPx, heightPx int, opts Options) (*image.RGBA, error) {
	if widthPx < 1 || heightPx < 1 {
		return nil, fmt.Errorf("composite: invalid output size %dx%d", widthPx, heightPx)
	}

	xt, yt := geodesy.LatLonToTileXY(lat, lon, z)
	tx, ty := int(math.Floor(xt)), int(math.Floor(yt))
	n := 1 << z

	// Whole-tile span covering the output plus a one-tile margin per side.
	const tileSize = tilecache.TileSize
	tilesX := int(math.Ceil(float64(widthPx)/tileSize)) + 2
	tilesY := int(math.Ceil(float64(heightPx)/tileSize)) + 2

	canvas := image.NewRGBA(image.Rect(0, 0, tilesX*tileSize, tilesY*tileSize))

	startX := tx - tilesX/2
	startY := ty - tilesY/2

	for dy := 0; dy < tilesY; dy++ {
		y := startY + dy
		if y < 0 || y >= n {
			continue // no pole wrap
		}
		for dx := 0; dx < tilesX; dx++ {
			x := ((startX+dx)%n + n) % n // east-west wrap
			tile, ok := src.GetWithOverzoom(geodesy.TileCoord{Z: z, X: x, Y: y}, opts.OverzoomLevels)
			if !ok {
				continue
			}
			dst := image.Rect(dx*tileSize, dy*tileSize, (dx+1)*tileSize, (dy+1)*tileSize)
			draw.Draw(canvas, dst, tile, tile.Bounds().Min, draw.Src)
		}
	}

	// Crop a widthPx x heightPx window centered on the exact
	// fractional center.
	cx := (xt - float64(startX)) * tileSize
	cy := (yt - float64(startY)) * tileSize
	left := int(cx - float64(widthPx)/2)
	top := int(cy - float64(heightPx)/2)

	out := image.NewRGBA(image.Rect(0, 0, widthPx, heightPx))
	draw.Draw(out, out.Bounds(), canvas, image.Point{X: left, Y: top}, draw.Src)

	applyFilters(out, opts)
	return out, nil
}

// applyFilters runs the post-filter chain in place. A filter with
// unusable parameters is skipped, never aborting the pipeline.
func applyFilters(img *image.RGBA, opts Options) {
	if opts.Contrast != 1.0 && opts.Contrast > 0 {
		adjustContrast(img, opts.Contrast)
	}
	if opts.EdgeBoost {
		convolve3x3(img, edgeEnhanceKernel)
	}
	if opts.SharpenPercent != 100 && opts.SharpenPercent > 0 && opts.SharpenRadius > 0 {
		unsharpMask(img, opts.SharpenRadius, opts.SharpenPercent, opts.SharpenThreshold)
	}
	if opts.Invert {
		invert(img)
	}
}
