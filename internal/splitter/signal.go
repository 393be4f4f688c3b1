package splitter

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// rowStdDev computes, for every row, the standard deviation over all color
// channel values in that row. High values mean actual image content, low
// values mean background or a solid divider.
func rowStdDev(img *image.RGBA) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, h)

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		var sum, sumSq float64
		for x := 0; x < w; x++ {
			for c := 0; c < 3; c++ {
				v := float64(row[x*4+c])
				sum += v
				sumSq += v * v
			}
		}
		n := float64(w * 3)
		mean := sum / n
		variance := sumSq/n - mean*mean
		if variance > 0 {
			out[y] = math.Sqrt(variance)
		}
	}
	return out
}

// colStdDev is the per-column counterpart of rowStdDev.
func colStdDev(img *image.RGBA) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, w)

	for x := 0; x < w; x++ {
		var sum, sumSq float64
		for y := 0; y < h; y++ {
			i := y*img.Stride + x*4
			for c := 0; c < 3; c++ {
				v := float64(img.Pix[i+c])
				sum += v
				sumSq += v * v
			}
		}
		n := float64(h * 3)
		mean := sum / n
		variance := sumSq/n - mean*mean
		if variance > 0 {
			out[x] = math.Sqrt(variance)
		}
	}
	return out
}

// smooth applies a zero-padded moving average of the given window width.
func smooth(sig []float64, window int) []float64 {
	out := make([]float64, len(sig))
	half := window / 2
	for i := range sig {
		var sum float64
		for k := i - half; k <= i+half; k++ {
			if k >= 0 && k < len(sig) {
				sum += sig[k]
			}
		}
		out[i] = sum / float64(window)
	}
	return out
}

func mean(sig []float64) float64 {
	if len(sig) == 0 {
		return 0
	}
	var sum float64
	for _, v := range sig {
		sum += v
	}
	return sum / float64(len(sig))
}

func median(sig []float64) float64 {
	if len(sig) == 0 {
		return 0
	}
	sorted := make([]float64, len(sig))
	copy(sorted, sig)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// normalize rescales a signal to [0,1]. A flat signal maps to all zeros.
func normalize(sig []float64) []float64 {
	out := make([]float64, len(sig))
	if len(sig) == 0 {
		return out
	}
	lo, hi := sig[0], sig[0]
	for _, v := range sig {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		return out
	}
	for i, v := range sig {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

func grayOf(img *image.RGBA) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// sobelProfiles returns the mean Sobel gradient magnitude per row and per
// column. Used by the border trimmer to cross-validate detected margins.
func sobelProfiles(gray *image.Gray) (rows, cols []float64) {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	rows = make([]float64, h)
	cols = make([]float64, w)
	if w < 3 || h < 3 {
		return rows, cols
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx, gy := sobelAt(gray, x, y)
			mag := math.Sqrt(gx*gx + gy*gy)
			rows[y] += mag
			cols[x] += mag
		}
	}
	for y := range rows {
		rows[y] /= float64(w)
	}
	for x := range cols {
		cols[x] /= float64(h)
	}
	return rows, cols
}

// sobelRowEdges returns the mean absolute vertical gradient per row, i.e. the
// strength of horizontal edges. A divider line between two stacked images
// shows up as a sharp peak in this profile.
func sobelRowEdges(gray *image.Gray) []float64 {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, h)
	if w < 3 || h < 3 {
		return out
	}

	for y := 1; y < h-1; y++ {
		var sum float64
		for x := 1; x < w-1; x++ {
			_, gy := sobelAt(gray, x, y)
			sum += math.Abs(gy)
		}
		out[y] = sum / float64(w)
	}
	return out
}

func sobelAt(gray *image.Gray, x, y int) (gx, gy float64) {
	p := func(dx, dy int) float64 {
		return float64(gray.GrayAt(gray.Bounds().Min.X+x+dx, gray.Bounds().Min.Y+y+dy).Y)
	}
	gx = -p(-1, -1) + p(1, -1) - 2*p(-1, 0) + 2*p(1, 0) - p(-1, 1) + p(1, 1)
	gy = -p(-1, -1) - 2*p(0, -1) - p(1, -1) + p(-1, 1) + 2*p(0, 1) + p(1, 1)
	return gx, gy
}
