// Package detector locates visual differences between two aligned images.
package detector

import (
	"image"
)

const (
	blurKernel    = 7
	edgeMargin    = 20  // encode/scale artifacts near edges are not differences
	maxRegionFrac = 0.8 // larger blobs are misalignment, not a real difference
	mergePadding  = 20
)

// FindDifferences compares two images and returns the bounding rectangles of
// their visual differences, in contour discovery order. minArea discards
// candidates below that pixel count; diffThreshold (0-255) binarizes the
// blurred grayscale difference signal.
func FindDifferences(a, b *image.RGBA, minArea, diffThreshold int) []image.Rectangle {
	a, b = Align(a, b)
	w, h := a.Bounds().Dx(), a.Bounds().Dy()

	// Step 1: per-pixel absolute difference reduced to luminance
	gray := AbsDiffGray(a, b)

	// Step 2: blur to suppress compression-noise false positives
	blurred := boxBlur(gray, blurKernel)

	// Step 3: binarize and drop edge artifacts
	mask := binarize(blurred, diffThreshold)
	zeroMargin(mask, edgeMargin)

	// Step 4: morphology - kill speckle, bridge fragments of one difference
	mask = erode(mask, 3, 1)
	mask = dilate(mask, 9, 3)
	mask = erode(mask, 3, 2)

	// Step 5: contours, size filtering, merging
	contours := findContours(mask)
	maxW := int(float64(w) * maxRegionFrac)
	maxH := int(float64(h) * maxRegionFrac)
	rects := filterContours(contours, minArea, maxW, maxH)

	return MergeOverlapping(rects, mergePadding)
}

// AbsDiffGray computes the per-pixel absolute channel difference of two
// equally sized images, reduced to a single luminance-weighted channel.
func AbsDiffGray(a, b *image.RGBA) *image.Gray {
	w, h := a.Bounds().Dx(), a.Bounds().Dy()
	gray := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		rowA := a.Pix[y*a.Stride:]
		rowB := b.Pix[y*b.Stride:]
		out := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			i := x * 4
			dr := absDiff8(rowA[i], rowB[i])
			dg := absDiff8(rowA[i+1], rowB[i+1])
			db := absDiff8(rowA[i+2], rowB[i+2])
			v := 0.299*float64(dr) + 0.587*float64(dg) + 0.114*float64(db)
			if v > 255 {
				v = 255
			}
			out[x] = uint8(v + 0.5)
		}
	}
	return gray
}

func absDiff8(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// boxBlur applies a k x k mean filter with edge replication, as two separable
// passes.
func boxBlur(img *image.Gray, k int) *image.Gray {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	half := k / 2

	tmp := image.NewGray(img.Bounds())
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		out := tmp.Pix[y*tmp.Stride:]
		for x := 0; x < w; x++ {
			sum := 0
			for d := -half; d <= half; d++ {
				sum += int(row[clampInt(x+d, 0, w-1)])
			}
			out[x] = uint8(sum / k)
		}
	}

	dst := image.NewGray(img.Bounds())
	for y := 0; y < h; y++ {
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			sum := 0
			for d := -half; d <= half; d++ {
				sum += int(tmp.Pix[clampInt(y+d, 0, h-1)*tmp.Stride+x])
			}
			out[x] = uint8(sum / k)
		}
	}
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func binarize(img *image.Gray, threshold int) *image.Gray {
	out := image.NewGray(img.Bounds())
	for i, v := range img.Pix {
		if int(v) > threshold {
			out.Pix[i] = 255
		}
	}
	return out
}

// zeroMargin clears a band of the given width along all four edges, in place.
func zeroMargin(img *image.Gray, margin int) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if margin*2 >= w || margin*2 >= h {
		for i := range img.Pix {
			img.Pix[i] = 0
		}
		return
	}
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		if y < margin || y >= h-margin {
			for x := range row {
				row[x] = 0
			}
			continue
		}
		for x := 0; x < margin; x++ {
			row[x] = 0
			row[w-1-x] = 0
		}
	}
}

// dilate grows white regions with a square kernel of the given size.
func dilate(img *image.Gray, kernelSize, iterations int) *image.Gray {
	return morph(img, kernelSize, iterations, true)
}

// erode shrinks white regions with a square kernel of the given size.
func erode(img *image.Gray, kernelSize, iterations int) *image.Gray {
	return morph(img, kernelSize, iterations, false)
}

func morph(img *image.Gray, kernelSize, iterations int, grow bool) *image.Gray {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	half := kernelSize / 2

	result := image.NewGray(img.Bounds())
	copy(result.Pix, img.Pix)

	for iter := 0; iter < iterations; iter++ {
		temp := image.NewGray(img.Bounds())

		for y := half; y < h-half; y++ {
			for x := half; x < w-half; x++ {
				val := result.Pix[(y-half)*result.Stride+x-half]
				for ky := -half; ky <= half; ky++ {
					row := result.Pix[(y+ky)*result.Stride:]
					for kx := -half; kx <= half; kx++ {
						v := row[x+kx]
						if grow && v > val {
							val = v
						}
						if !grow && v < val {
							val = v
						}
					}
				}
				temp.Pix[y*temp.Stride+x] = val
			}
		}

		result = temp
	}
	return result
}
