package render

import "image"

// AsciiBackend maps one pixel to one glyph by quantizing luminance
// into the palette ramp.
type AsciiBackend struct{}

func (AsciiBackend) Render(img image.Image, cellW, cellH int, colored bool, ramp []rune) []Row {
	if cellW < 1 || cellH < 1 {
		return placeholderRows()
	}
	if len(ramp) == 0 {
		ramp = []rune(" .")
	}

	src := resizeRGBA(img, cellW, cellH)
	rows := make([]Row, 0, cellH)

	for y := 0; y < cellH; y++ {
		var rb rowBuilder
		line := src.Pix[y*src.Stride : y*src.Stride+cellW*4]
		for x := 0; x < cellW; x++ {
			p := line[x*4 : x*4+3]
			lum := luminance(p[0], p[1], p[2])
			idx := int(lum*float64(len(ramp)-1) + 0.5)
			if idx < 0 {
				idx = 0
			} else if idx >= len(ramp) {
				idx = len(ramp) - 1
			}

			var style Style
			if colored {
				style = Style{R: p[0], G: p[1], B: p[2], Colored: true}
			}
			rb.append(style, ramp[idx])
		}
		rows = append(rows, rb.row())
	}
	return rows
}
