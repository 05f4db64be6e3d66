package render

import "image"

// brailleBase is the blank Braille pattern codepoint; dot bits OR in.
const brailleBase = 0x2800

// dotBits maps (row, col) of the 4x2 sub-pixel grid to its dot bit.
//
//	dots: 1 4
//	      2 5
//	      3 6
//	      7 8
var dotBits = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// BrailleBackend encodes a 2x4 pixel block per cell as a Braille
// pattern. A sub-pixel darker than 0.5 luminance sets its dot.
type BrailleBackend struct{}

func (BrailleBackend) Render(img image.Image, cellW, cellH int, colored bool, ramp []rune) []Row {
	if cellW < 1 || cellH < 1 {
		return placeholderRows()
	}

	w, h := cellW*2, cellH*4
	src := resizeRGBA(img, w, h)
	rows := make([]Row, 0, cellH)

	for cy := 0; cy < h; cy += 4 {
		var rb rowBuilder
		for cx := 0; cx < w; cx += 2 {
			bits := 0
			var sumR, sumG, sumB int
			for sy := 0; sy < 4; sy++ {
				for sx := 0; sx < 2; sx++ {
					off := (cy+sy)*src.Stride + (cx+sx)*4
					r, g, b := src.Pix[off], src.Pix[off+1], src.Pix[off+2]
					if luminance(r, g, b) < 0.5 {
						bits |= dotBits[sy][sx]
					}
					sumR += int(r)
					sumG += int(g)
					sumB += int(b)
				}
			}

			var style Style
			if colored {
				style = Style{
					R:       uint8(sumR / 8),
					G:       uint8(sumG / 8),
					B:       uint8(sumB / 8),
					Colored: true,
				}
			}
			rb.append(style, rune(brailleBase|bits))
		}
		rows = append(rows, rb.row())
	}
	return rows
}
