package composite

import "image"

// edgeEnhanceKernel is a strong 3x3 edge enhancement kernel.
var edgeEnhanceKernel = [9]float64{
	-1, -1, -1,
	-1, 9, -1,
	-1, -1, -1,
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// adjustContrast scales each channel around the image's mean luminance.
func adjustContrast(img *image.RGBA, factor float64) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}

	var sum float64
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+3]
			sum += 0.299*float64(p[0]) + 0.587*float64(p[1]) + 0.114*float64(p[2])
		}
	}
	mean := sum / float64(w*h)

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+3]
			for c := 0; c < 3; c++ {
				p[c] = clampByte(mean + (float64(p[c])-mean)*factor)
			}
		}
	}
}

// convolve3x3 applies a 3x3 kernel to the RGB channels. Edge pixels use
// clamped neighbor sampling.
func convolve3x3(img *image.RGBA, kernel [9]float64) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return
	}

	src := make([]uint8, len(img.Pix))
	copy(src, img.Pix)

	clampIdx := func(v, max int) int {
		if v < 0 {
			return 0
		}
		if v >= max {
			return max - 1
		}
		return v
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc [3]float64
			k := 0
			for ky := -1; ky <= 1; ky++ {
				sy := clampIdx(y+ky, h)
				for kx := -1; kx <= 1; kx++ {
					sx := clampIdx(x+kx, w)
					off := sy*img.Stride + sx*4
					weight := kernel[k]
					acc[0] += weight * float64(src[off])
					acc[1] += weight * float64(src[off+1])
					acc[2] += weight * float64(src[off+2])
					k++
				}
			}
			off := y*img.Stride + x*4
			img.Pix[off] = clampByte(acc[0])
			img.Pix[off+1] = clampByte(acc[1])
			img.Pix[off+2] = clampByte(acc[2])
		}
	}
}

// boxBlur performs one horizontal+vertical box blur pass of the given
// radius into dst. Three passes approximate a gaussian.
func boxBlur(src, dst []uint8, w, h, stride, radius int) {
	tmp := make([]uint8, len(src))
	size := float64(2*radius + 1)

	// Horizontal pass.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc [3]float64
			for k := -radius; k <= radius; k++ {
				sx := x + k
				if sx < 0 {
					sx = 0
				} else if sx >= w {
					sx = w - 1
				}
				off := y*stride + sx*4
				acc[0] += float64(src[off])
				acc[1] += float64(src[off+1])
				acc[2] += float64(src[off+2])
			}
			off := y*stride + x*4
			tmp[off] = clampByte(acc[0] / size)
			tmp[off+1] = clampByte(acc[1] / size)
			tmp[off+2] = clampByte(acc[2] / size)
			tmp[off+3] = src[off+3]
		}
	}

	// Vertical pass.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc [3]float64
			for k := -radius; k <= radius; k++ {
				sy := y + k
				if sy < 0 {
					sy = 0
				} else if sy >= h {
					sy = h - 1
				}
				off := sy*stride + x*4
				acc[0] += float64(tmp[off])
				acc[1] += float64(tmp[off+1])
				acc[2] += float64(tmp[off+2])
			}
			off := y*stride + x*4
			dst[off] = clampByte(acc[0] / size)
			dst[off+1] = clampByte(acc[1] / size)
			dst[off+2] = clampByte(acc[2] / size)
			dst[off+3] = tmp[off+3]
		}
	}
}

// unsharpMask sharpens by adding back the difference between the image
// and a blurred copy, scaled by percent. Differences at or below the
// threshold are left untouched.
func unsharpMask(img *image.RGBA, radius float64, percent, threshold int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	r := int(radius + 0.5)
	if r < 1 || w < 2 || h < 2 {
		return
	}

	blurred := make([]uint8, len(img.Pix))
	boxBlur(img.Pix, blurred, w, h, img.Stride, r)

	amount := float64(percent) / 100.0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*img.Stride + x*4
			for c := 0; c < 3; c++ {
				orig := float64(img.Pix[off+c])
				diff := orig - float64(blurred[off+c])
				if diff < 0 {
					if -diff <= float64(threshold) {
						continue
					}
				} else if diff <= float64(threshold) {
					continue
				}
				img.Pix[off+c] = clampByte(orig + diff*amount)
			}
		}
	}
}

// invert replaces each RGB channel with its complement.
func invert(img *image.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+3]
			p[0] = 255 - p[0]
			p[1] = 255 - p[1]
			p[2] = 255 - p[2]
		}
	}
}
