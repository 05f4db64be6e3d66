package composite

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"termatlas/internal/geodesy"
	"termatlas/internal/tilecache"
)

// fakeSource serves a solid color for every valid tile and records the
// indices it was asked for.
type fakeSource struct {
	mu       sync.Mutex
	fill     color.RGBA
	empty    bool
	requests []geodesy.TileCoord
}

func (f *fakeSource) GetWithOverzoom(tc geodesy.TileCoord, levels int) (*image.RGBA, bool) {
	f.mu.Lock()
	f.requests = append(f.requests, tc)
	f.mu.Unlock()
	if f.empty {
		return nil, false
	}
	img := image.NewRGBA(image.Rect(0, 0, tilecache.TileSize, tilecache.TileSize))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = f.fill.R
		img.Pix[i+1] = f.fill.G
		img.Pix[i+2] = f.fill.B
		img.Pix[i+3] = 255
	}
	return img, true
}

func TestFromTilesExactOutputSize(t *testing.T) {
	src := &fakeSource{fill: color.RGBA{255, 255, 255, 255}}
	img, err := FromTiles(src, 42.36, -71.05, 10, 300, 180, Options{Contrast: 1.0, SharpenPercent: 100})
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 180 {
		t.Errorf("output = %v, want 300x180", img.Bounds())
	}
	// Fully covered view: center pixel carries the tile color.
	r, g, b, _ := img.At(150, 90).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("center pixel = %d,%d,%d, want white", r>>8, g>>8, b>>8)
	}
}

func TestFromTilesMissingTilesStayBlack(t *testing.T) {
	src := &fakeSource{empty: true}
	img, err := FromTiles(src, 0, 0, 5, 128, 128, Options{Contrast: 1.0, SharpenPercent: 100})
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := img.At(64, 64).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("pixel = %d,%d,%d, want black", r, g, b)
	}
}

func TestFromTilesNoPoleWrap(t *testing.T) {
	// Centered on the very top of the Mercator band: everything above
	// the grid must stay black while the grid half renders.
	src := &fakeSource{fill: color.RGBA{200, 200, 200, 255}}
	img, err := FromTiles(src, geodesy.MaxLat, 0, 3, 100, 200, Options{Contrast: 1.0, SharpenPercent: 100})
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := img.At(50, 5).RGBA(); r != 0 {
		t.Errorf("above-grid pixel not black: %d", r>>8)
	}
	if r, _, _, _ := img.At(50, 195).RGBA(); r>>8 != 200 {
		t.Errorf("on-grid pixel = %d, want 200", r>>8)
	}

	for _, tc := range src.requests {
		if tc.Y < 0 || tc.Y >= 1<<tc.Z {
			t.Errorf("requested off-grid row: %+v", tc)
		}
	}
}

func TestFromTilesWrapsEastWest(t *testing.T) {
	src := &fakeSource{fill: color.RGBA{1, 1, 1, 255}}
	if _, err := FromTiles(src, 0, 179.9, 2, 600, 100, Options{Contrast: 1.0, SharpenPercent: 100}); err != nil {
		t.Fatal(err)
	}
	if len(src.requests) == 0 {
		t.Fatal("no tiles requested")
	}
	for _, tc := range src.requests {
		if tc.X < 0 || tc.X >= 1<<tc.Z {
			t.Errorf("unwrapped column requested: %+v", tc)
		}
	}
}

func TestFromTilesRejectsNonPositiveSize(t *testing.T) {
	src := &fakeSource{}
	if _, err := FromTiles(src, 0, 0, 1, 0, 50, Options{}); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := FromTiles(src, 0, 0, 1, 50, -1, Options{}); err == nil {
		t.Error("expected error for negative height")
	}
}

func TestInvertFilter(t *testing.T) {
	src := &fakeSource{fill: color.RGBA{10, 20, 30, 255}}
	img, err := FromTiles(src, 0, 0, 4, 64, 64, Options{
		Contrast: 1.0, SharpenPercent: 100, Invert: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := img.At(32, 32).RGBA()
	if r>>8 != 245 || g>>8 != 235 || b>>8 != 225 {
		t.Errorf("inverted pixel = %d,%d,%d, want 245,235,225", r>>8, g>>8, b>>8)
	}
}

func TestBadFilterParamsAreSkipped(t *testing.T) {
	src := &fakeSource{fill: color.RGBA{100, 100, 100, 255}}
	img, err := FromTiles(src, 0, 0, 4, 32, 32, Options{
		Contrast:       -5,  // unusable, skipped
		SharpenPercent: 200, // radius 0: skipped
		SharpenRadius:  0,
	})
	if err != nil {
		t.Fatal(err)
	}
	r, _, _, _ := img.At(16, 16).RGBA()
	if r>>8 != 100 {
		t.Errorf("pixel changed by skipped filters: %d", r>>8)
	}
}

func TestContrastPushesAwayFromMean(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{50, 50, 50, 255})
	img.SetRGBA(1, 0, color.RGBA{200, 200, 200, 255})
	adjustContrast(img, 2.0)
	dark := img.RGBAAt(0, 0)
	bright := img.RGBAAt(1, 0)
	if dark.R >= 50 {
		t.Errorf("dark pixel = %d, want < 50", dark.R)
	}
	if bright.R <= 200 {
		t.Errorf("bright pixel = %d, want > 200", bright.R)
	}
}
