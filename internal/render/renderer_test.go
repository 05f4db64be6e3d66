package render

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func rowText(r Row) string {
	var s string
	for _, run := range r {
		s += run.Text
	}
	return s
}

func TestAsciiWhiteImageDensestGlyph(t *testing.T) {
	r := New()
	r.palettes["classic"] = " .:-=+*#%@"
	img := solid(2, 1, color.RGBA{255, 255, 255, 255})

	rows := r.Render(img, 2, 1, false, "ascii", "classic")
	if len(rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(rows))
	}
	if len(rows[0]) != 1 {
		t.Fatalf("run count = %d, want 1", len(rows[0]))
	}
	if rows[0][0].Text != "@@" {
		t.Errorf("run text = %q, want \"@@\"", rows[0][0].Text)
	}
}

func TestRowAndColumnInvariant(t *testing.T) {
	r := New()
	img := solid(100, 60, color.RGBA{128, 64, 32, 255})
	dims := []struct{ w, h int }{{1, 1}, {7, 3}, {80, 24}, {120, 36}}

	for _, mode := range []string{"ascii", "quadrant", "braille"} {
		for _, d := range dims {
			rows := r.Render(img, d.w, d.h, true, mode, "ascii_basic")
			if len(rows) != d.h {
				t.Errorf("%s %dx%d: row count = %d", mode, d.w, d.h, len(rows))
			}
			for i, row := range rows {
				if n := len([]rune(rowText(row))); n != d.w {
					t.Errorf("%s %dx%d row %d: cell count = %d", mode, d.w, d.h, i, n)
				}
			}
		}
	}
}

func TestMonochromeSingleRunPerRow(t *testing.T) {
	r := New()
	img := solid(30, 20, color.RGBA{10, 200, 90, 255})
	for _, mode := range []string{"ascii", "quadrant", "braille"} {
		rows := r.Render(img, 10, 5, false, mode, "ascii_basic")
		for i, row := range rows {
			if len(row) != 1 {
				t.Errorf("%s row %d: run count = %d, want 1", mode, i, len(row))
			}
			if row[0].Style.Colored {
				t.Errorf("%s row %d: colored style with color off", mode, i)
			}
		}
	}
}

func TestColoredSplitsRuns(t *testing.T) {
	// Left half red, right half blue: each row needs two runs.
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 {
				img.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}
	rows := AsciiBackend{}.Render(img, 4, 2, true, []rune(" .:@"))
	for i, row := range rows {
		if len(row) != 2 {
			t.Errorf("row %d: run count = %d, want 2", i, len(row))
		}
	}
}

func TestUnknownModeFallsBackToAscii(t *testing.T) {
	r := New()
	img := solid(4, 4, color.RGBA{255, 255, 255, 255})
	rows := r.Render(img, 2, 2, false, "hologram", "ascii_basic")
	if len(rows) != 2 {
		t.Fatalf("row count = %d", len(rows))
	}
	if rowText(rows[0]) != "@@" {
		t.Errorf("fallback render = %q", rowText(rows[0]))
	}
}

func TestPaletteFallbackChain(t *testing.T) {
	r := New()
	if got := string(r.Palette("no_such_palette")); got != DefaultPalettes()["ascii_dense"] {
		t.Errorf("unknown palette resolved to %q", got)
	}

	r.palettes = map[string]string{}
	if got := string(r.Palette("anything")); got != " ." {
		t.Errorf("minimal fallback = %q, want \" .\"", got)
	}
}

func TestNonPositiveDimensions(t *testing.T) {
	r := New()
	img := solid(4, 4, color.RGBA{0, 0, 0, 255})
	for _, mode := range []string{"ascii", "quadrant", "braille"} {
		for _, d := range []struct{ w, h int }{{0, 5}, {5, 0}, {-1, -1}} {
			rows := r.Render(img, d.w, d.h, false, mode, "ascii_basic")
			if len(rows) != 1 {
				t.Errorf("%s %dx%d: row count = %d, want 1 placeholder", mode, d.w, d.h, len(rows))
			}
		}
	}
}

func TestQuadrantPatterns(t *testing.T) {
	// Black fills every sub-pixel, white none.
	black := solid(2, 2, color.RGBA{0, 0, 0, 255})
	rows := QuadrantBackend{}.Render(black, 1, 1, false, nil)
	if rowText(rows[0]) != "█" {
		t.Errorf("black cell = %q, want full block", rowText(rows[0]))
	}

	white := solid(2, 2, color.RGBA{255, 255, 255, 255})
	rows = QuadrantBackend{}.Render(white, 1, 1, false, nil)
	if rowText(rows[0]) != " " {
		t.Errorf("white cell = %q, want space", rowText(rows[0]))
	}

	// Left column dark: TL|BL = left half block.
	half := image.NewRGBA(image.Rect(0, 0, 2, 2))
	half.SetRGBA(0, 0, color.RGBA{0, 0, 0, 255})
	half.SetRGBA(0, 1, color.RGBA{0, 0, 0, 255})
	half.SetRGBA(1, 0, color.RGBA{255, 255, 255, 255})
	half.SetRGBA(1, 1, color.RGBA{255, 255, 255, 255})
	rows = QuadrantBackend{}.Render(half, 1, 1, false, nil)
	if rowText(rows[0]) != "▌" {
		t.Errorf("half cell = %q, want left half block", rowText(rows[0]))
	}
}

func TestBraillePatterns(t *testing.T) {
	black := solid(2, 4, color.RGBA{0, 0, 0, 255})
	rows := BrailleBackend{}.Render(black, 1, 1, false, nil)
	if rowText(rows[0]) != string(rune(0x28FF)) {
		t.Errorf("black cell = %q, want all-dots pattern", rowText(rows[0]))
	}

	white := solid(2, 4, color.RGBA{255, 255, 255, 255})
	rows = BrailleBackend{}.Render(white, 1, 1, false, nil)
	if rowText(rows[0]) != string(rune(0x2800)) {
		t.Errorf("white cell = %q, want blank pattern", rowText(rows[0]))
	}

	// Only the top-left sub-pixel dark: dot 1 alone.
	one := solid(2, 4, color.RGBA{255, 255, 255, 255})
	one.SetRGBA(0, 0, color.RGBA{0, 0, 0, 255})
	rows = BrailleBackend{}.Render(one, 1, 1, false, nil)
	if rowText(rows[0]) != string(rune(0x2801)) {
		t.Errorf("single-dot cell = %q, want dot 1", rowText(rows[0]))
	}
}

func TestQuadrantColorIsBlockMean(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(1, 1, color.RGBA{0, 0, 255, 255})
	rows := QuadrantBackend{}.Render(img, 1, 1, true, nil)
	st := rows[0][0].Style
	if !st.Colored {
		t.Fatal("expected colored style")
	}
	if st.R != 127 || st.B != 127 {
		t.Errorf("mean color = %d,%d,%d, want 127,0,127", st.R, st.G, st.B)
	}
}
