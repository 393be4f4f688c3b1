package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/ivlev/spotdiff/internal/detector"
)

// Heatmap renders a jet-style false-color map of the per-pixel difference
// magnitude between two images: cool colors for low difference, warm colors
// for high. Inputs are aligned first; the output matches the aligned size.
func Heatmap(a, b *image.RGBA) *image.RGBA {
	a, b = detector.Align(a, b)
	gray := detector.AbsDiffGray(a, b)
	if len(gray.Pix) == 0 {
		return image.NewRGBA(gray.Bounds())
	}

	lo, hi := gray.Pix[0], gray.Pix[0]
	for _, v := range gray.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	span := float64(hi) - float64(lo)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := gray.Pix[y*gray.Stride+x]
			var norm uint8
			if span > 0 {
				norm = uint8(float64(v-lo)/span*255 + 0.5)
			}
			out.SetRGBA(x, y, jetColor(norm))
		}
	}
	return out
}

// jetColor maps an intensity to the standard jet ramp: blue through cyan,
// green and yellow to red.
func jetColor(v uint8) color.RGBA {
	t := float64(v) / 255
	r := jetChannel(1.5 - math.Abs(4*t-3))
	g := jetChannel(1.5 - math.Abs(4*t-2))
	b := jetChannel(1.5 - math.Abs(4*t-1))
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func jetChannel(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}

// SideBySide joins two images horizontally on one canvas.
func SideBySide(a, b *image.RGBA) *image.RGBA {
	aw, ah := a.Bounds().Dx(), a.Bounds().Dy()
	bw, bh := b.Bounds().Dx(), b.Bounds().Dy()

	out := image.NewRGBA(image.Rect(0, 0, aw+bw, max(ah, bh)))
	draw.Draw(out, image.Rect(0, 0, aw, ah), a, a.Bounds().Min, draw.Src)
	draw.Draw(out, image.Rect(aw, 0, aw+bw, bh), b, b.Bounds().Min, draw.Src)
	return out
}
