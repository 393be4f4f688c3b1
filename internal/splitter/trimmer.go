package splitter

import (
	"image"
	"math"

	"github.com/ivlev/spotdiff/internal/source"
)

// Side selects the edge a border scan starts from.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

const (
	borderStdTol      = 60.0 // max per-channel std for a line to count as border
	borderDiffTol     = 80.0 // max mean color distance from the extreme edge line
	borderSearchLimit = 50
	profileMedianFrac = 0.5 // threshold fraction of the profile median
	safetyMargin      = 3
	horizontalMargin  = 5 // extra trim against anti-aliased vertical edges
	minCropDim        = 10
	fallbackCropFrac  = 0.02
)

type borders struct {
	left, right, top, bottom int
}

// DetectUniformBorder scans up to maxSearch pixels inward from the given side
// and returns how many consecutive lines qualify as uniform border. A line
// qualifies when the middle 50% band has low per-channel variation and stays
// close in color to the outermost edge line.
func DetectUniformBorder(img *image.RGBA, side Side, maxSearch int) int {
	edge := sampleLine(img, side, 0)
	for d := 0; d < maxSearch; d++ {
		line := sampleLine(img, side, d)
		if maxChannelStd(line) >= borderStdTol || meanAbsDiff(line, edge) >= borderDiffTol {
			return d
		}
	}
	return maxSearch
}

// sampleLine collects the middle 50% band of the line at the given inward
// offset, split per channel. The band avoids corner artifacts.
func sampleLine(img *image.RGBA, side Side, offset int) [3][]float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	var out [3][]float64

	put := func(x, y int) {
		i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
		for c := 0; c < 3; c++ {
			out[c] = append(out[c], float64(img.Pix[i+c]))
		}
	}

	switch side {
	case SideLeft:
		for y := h / 4; y < h-h/4; y++ {
			put(offset, y)
		}
	case SideRight:
		for y := h / 4; y < h-h/4; y++ {
			put(w-1-offset, y)
		}
	case SideTop:
		for x := w / 4; x < w-w/4; x++ {
			put(x, offset)
		}
	case SideBottom:
		for x := w / 4; x < w-w/4; x++ {
			put(x, h-1-offset)
		}
	}
	return out
}

func maxChannelStd(line [3][]float64) float64 {
	var maxStd float64
	for c := 0; c < 3; c++ {
		n := float64(len(line[c]))
		if n == 0 {
			continue
		}
		var sum, sumSq float64
		for _, v := range line[c] {
			sum += v
			sumSq += v * v
		}
		m := sum / n
		variance := sumSq/n - m*m
		if variance > 0 {
			if s := math.Sqrt(variance); s > maxStd {
				maxStd = s
			}
		}
	}
	return maxStd
}

func meanAbsDiff(line, edge [3][]float64) float64 {
	var sum float64
	var n int
	for c := 0; c < 3; c++ {
		for i := range line[c] {
			if i < len(edge[c]) {
				sum += math.Abs(line[c][i] - edge[c][i])
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// firstAbove returns the first index within limit where the signal exceeds
// threshold, or limit when it never does.
func firstAbove(sig []float64, threshold float64, limit int) int {
	if limit > len(sig) {
		limit = len(sig)
	}
	for i := 0; i < limit; i++ {
		if sig[i] > threshold {
			return i
		}
	}
	return limit
}

func firstAboveFromEnd(sig []float64, threshold float64, limit int) int {
	if limit > len(sig) {
		limit = len(sig)
	}
	for i := 0; i < limit; i++ {
		if sig[len(sig)-1-i] > threshold {
			return i
		}
	}
	return limit
}

// detectBorders estimates raw border widths on all four sides. Each side takes
// the outward-most boundary agreed by any of three signals: the uniform-line
// scan, the smoothed color-variance profile and the Sobel gradient profile.
func detectBorders(img *image.RGBA) borders {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	hSearch := min(borderSearchLimit, w/2)
	vSearch := min(borderSearchLimit, h/2)

	colVar := smooth(colStdDev(img), 5)
	rowVar := smooth(rowStdDev(img), 5)
	rowGrad, colGrad := sobelProfiles(grayOf(img))

	colVarThresh := median(colVar) * profileMedianFrac
	rowVarThresh := median(rowVar) * profileMedianFrac
	colGradThresh := median(colGrad) * profileMedianFrac
	rowGradThresh := median(rowGrad) * profileMedianFrac

	return borders{
		left: min(DetectUniformBorder(img, SideLeft, hSearch),
			firstAbove(colVar, colVarThresh, hSearch),
			firstAbove(colGrad, colGradThresh, hSearch)),
		right: min(DetectUniformBorder(img, SideRight, hSearch),
			firstAboveFromEnd(colVar, colVarThresh, hSearch),
			firstAboveFromEnd(colGrad, colGradThresh, hSearch)),
		top: min(DetectUniformBorder(img, SideTop, vSearch),
			firstAbove(rowVar, rowVarThresh, vSearch),
			firstAbove(rowGrad, rowGradThresh, vSearch)),
		bottom: min(DetectUniformBorder(img, SideBottom, vSearch),
			firstAboveFromEnd(rowVar, rowVarThresh, vSearch),
			firstAboveFromEnd(rowGrad, rowGradThresh, vSearch)),
	}
}

// cropRect converts raw border widths into a crop rectangle, adding the fixed
// safety margins. Collapses to a conservative fractional crop when the result
// would be degenerate.
func cropRect(w, h int, bd borders) image.Rectangle {
	x0 := bd.left + safetyMargin + horizontalMargin
	x1 := w - bd.right - safetyMargin - horizontalMargin
	y0 := bd.top + safetyMargin
	y1 := h - bd.bottom - safetyMargin

	if x1-x0 < minCropDim || y1-y0 < minCropDim {
		mx := int(float64(w) * fallbackCropFrac)
		my := int(float64(h) * fallbackCropFrac)
		return image.Rect(mx, my, w-mx, h-my)
	}
	return image.Rect(x0, y0, x1, y1)
}

// CropBorders removes detected non-content margins from a single image.
func CropBorders(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	return source.Crop(img, cropRect(b.Dx(), b.Dy(), detectBorders(img)))
}

// reconcileBorder merges two independently detected widths for the same side.
// Widths that agree within 50% take the smaller value so content is never
// clipped; a larger disagreement is treated as detector noise and halved.
func reconcileBorder(a, b int) int {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi == 0 {
		return 0
	}
	if hi-lo <= hi/2 {
		return lo
	}
	return hi / 2
}

// CropBordersUnified trims two images with a single reconciled set of border
// widths, so both outputs cover the same logical content window.
func CropBordersUnified(a, b *image.RGBA) (*image.RGBA, *image.RGBA) {
	ba := detectBorders(a)
	bb := detectBorders(b)

	u := borders{
		left:   reconcileBorder(ba.left, bb.left),
		right:  reconcileBorder(ba.right, bb.right),
		top:    reconcileBorder(ba.top, bb.top),
		bottom: reconcileBorder(ba.bottom, bb.bottom),
	}

	ra := cropRect(a.Bounds().Dx(), a.Bounds().Dy(), u)
	rb := cropRect(b.Bounds().Dx(), b.Bounds().Dy(), u)
	return source.Crop(a, ra), source.Crop(b, rb)
}
