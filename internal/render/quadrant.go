package render

import "image"

// quadGlyphs maps a 4-bit TL|TR|BL|BR fill pattern to a block glyph.
var quadGlyphs = [16]rune{
	0b0000: ' ',
	0b0001: '▗',
	0b0010: '▖',
	0b0011: '▄',
	0b0100: '▝',
	0b0101: '▐',
	0b0110: '▞',
	0b0111: '▟',
	0b1000: '▘',
	0b1001: '▚',
	0b1010: '▌',
	0b1011: '▙',
	0b1100: '▀',
	0b1101: '▜',
	0b1110: '▛',
	0b1111: '█',
}

// QuadrantBackend encodes a 2x2 pixel block per cell using Unicode
// block elements. A sub-pixel darker than 0.5 luminance sets its bit.
type QuadrantBackend struct{}

func (QuadrantBackend) Render(img image.Image, cellW, cellH int, colored bool, ramp []rune) []Row {
	if cellW < 1 || cellH < 1 {
		return placeholderRows()
	}

	w, h := cellW*2, cellH*2
	src := resizeRGBA(img, w, h)
	rows := make([]Row, 0, cellH)

	for cy := 0; cy < h; cy += 2 {
		var rb rowBuilder
		for cx := 0; cx < w; cx += 2 {
			bits := 0
			var sumR, sumG, sumB int
			for sy := 0; sy < 2; sy++ {
				for sx := 0; sx < 2; sx++ {
					off := (cy+sy)*src.Stride + (cx+sx)*4
					r, g, b := src.Pix[off], src.Pix[off+1], src.Pix[off+2]
					if luminance(r, g, b) < 0.5 {
						bits |= 0b1000 >> (sy*2 + sx)
					}
					sumR += int(r)
					sumG += int(g)
					sumB += int(b)
				}
			}

			var style Style
			if colored {
				style = Style{
					R:       uint8(sumR / 4),
					G:       uint8(sumG / 4),
					B:       uint8(sumB / 4),
					Colored: true,
				}
			}
			rb.append(style, quadGlyphs[bits])
		}
		rows = append(rows, rb.row())
	}
	return rows
}
