// Package splitter extracts the two stacked sub-images from a composite
// spot-the-difference screenshot.
package splitter

import (
	"fmt"
	"image"

	"github.com/ivlev/spotdiff/internal/source"
)

// Method tags how the two sub-image regions were resolved.
type Method int

const (
	// TwoRegions means exactly two content regions were found and used directly.
	TwoRegions Method = iota
	// MultiRegionReduced means more than two regions were found and reduced
	// to the adjacent pair with the closest heights.
	MultiRegionReduced
	// SingleRegionSplit means one contiguous region was split at a detected
	// separator line.
	SingleRegionSplit
	// FallbackFixed means no content region was found and fixed fractional
	// geometry was used. Callers should treat this as a low-confidence result.
	FallbackFixed
)

func (m Method) String() string {
	switch m {
	case TwoRegions:
		return "two_regions"
	case MultiRegionReduced:
		return "multi_region_reduced"
	case SingleRegionSplit:
		return "single_region_split"
	case FallbackFixed:
		return "fallback_fixed"
	}
	return "unknown"
}

// Interval is a half-open row range [Start, End) within the composite.
type Interval struct {
	Start, End int
}

func (iv Interval) Height() int { return iv.End - iv.Start }

// Result holds the two extracted, border-trimmed sub-images.
type Result struct {
	Top, Bottom         *image.RGBA
	TopRows, BottomRows Interval
	Method              Method
}

const (
	smoothWindow      = 5
	contentThreshFrac = 0.6  // content threshold as fraction of mean signal
	minRegionFrac     = 0.15 // noise rejection: minimum region height
	sepWindowLow      = 0.40 // separator search window within a single region
	sepWindowHigh     = 0.60
	sepEdgeWeight     = 2.0
	sepLookahead      = 5
	sepMinGapFrac     = 0.005
	fallbackTopLow    = 0.17 // degraded default when no content is found
	fallbackTopHigh   = 0.48
	fallbackBotLow    = 0.52
	fallbackBotHigh   = 0.83
)

// Split locates the two game images inside a composite screenshot and returns
// them trimmed to their mutual content window.
func Split(img *image.RGBA) (*Result, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty composite image")
	}

	rowVar := smooth(rowStdDev(img), smoothWindow)
	threshold := mean(rowVar) * contentThreshFrac
	minRun := int(float64(h) * minRegionFrac)
	runs := contentRuns(rowVar, threshold, minRun)

	var r1, r2 Interval
	var method Method

	switch {
	case len(runs) == 2:
		method = TwoRegions
		r1, r2 = runs[0], runs[1]
	case len(runs) > 2:
		method = MultiRegionReduced
		r1, r2 = reduceRegions(runs)
	case len(runs) == 1:
		method = SingleRegionSplit
		edgeRow := sobelRowEdges(grayOf(img))
		r1, r2 = splitSingleRegion(runs[0], rowVar, edgeRow)
	default:
		method = FallbackFixed
		r1 = Interval{int(float64(h) * fallbackTopLow), int(float64(h) * fallbackTopHigh)}
		r2 = Interval{int(float64(h) * fallbackBotLow), int(float64(h) * fallbackBotHigh)}
	}

	top := source.Crop(img, image.Rect(0, r1.Start, w, r1.End))
	bottom := source.Crop(img, image.Rect(0, r2.Start, w, r2.End))
	top, bottom = CropBordersUnified(top, bottom)

	return &Result{
		Top:        top,
		Bottom:     bottom,
		TopRows:    r1,
		BottomRows: r2,
		Method:     method,
	}, nil
}

// contentRuns folds the content signal into maximal runs of consecutive rows
// above threshold, dropping runs at or below minRun rows.
func contentRuns(sig []float64, threshold float64, minRun int) []Interval {
	var runs []Interval
	start := -1
	for y, v := range sig {
		if v > threshold {
			if start < 0 {
				start = y
			}
			continue
		}
		if start >= 0 {
			if y-start > minRun {
				runs = append(runs, Interval{start, y})
			}
			start = -1
		}
	}
	if start >= 0 && len(sig)-start > minRun {
		runs = append(runs, Interval{start, len(sig)})
	}
	return runs
}

// reduceRegions picks the adjacent pair with the closest heights. The two game
// images are expected to be equal height, so height similarity wins over size.
func reduceRegions(runs []Interval) (Interval, Interval) {
	bestIdx := -1
	bestDiff := 0
	bestSize := 0
	for i := 0; i+1 < len(runs); i++ {
		diff := runs[i].Height() - runs[i+1].Height()
		if diff < 0 {
			diff = -diff
		}
		size := runs[i].Height() + runs[i+1].Height()
		if bestIdx < 0 || diff < bestDiff || (diff == bestDiff && size > bestSize) {
			bestIdx, bestDiff, bestSize = i, diff, size
		}
	}
	if bestIdx >= 0 {
		return runs[bestIdx], runs[bestIdx+1]
	}

	// No adjacent pair: keep the two largest, in vertical order.
	first, second := 0, 1
	for i := range runs {
		if runs[i].Height() > runs[first].Height() {
			second = first
			first = i
		} else if runs[i].Height() > runs[second].Height() {
			second = i
		}
	}
	if first > second {
		first, second = second, first
	}
	return runs[first], runs[second]
}

// splitSingleRegion finds a separator inside the middle 20% of a contiguous
// region by combining horizontal edge strength (weighted, higher is better)
// with the content-variance signal (inverted, lower is better), then expands
// the separator band outward while edge strength holds.
func splitSingleRegion(region Interval, rowVar, edgeRow []float64) (Interval, Interval) {
	rh := region.Height()
	lo := region.Start + int(float64(rh)*sepWindowLow)
	hi := region.Start + int(float64(rh)*sepWindowHigh)
	if hi-lo < 2 {
		hi = min(lo+2, region.End)
	}

	edgeN := normalize(edgeRow[lo:hi])
	varN := normalize(rowVar[lo:hi])

	center := lo
	bestScore := -1.0
	for y := lo; y < hi; y++ {
		score := sepEdgeWeight*edgeN[y-lo] + (1 - varN[y-lo])
		if score > bestScore {
			bestScore = score
			center = y
		}
	}

	half := edgeRow[center] / 2
	sepStart := expandSeparator(edgeRow, center, lo-1, -1, half)
	sepEnd := expandSeparator(edgeRow, center, hi, 1, half) + 1

	minGap := max(2, int(float64(rh)*sepMinGapFrac))
	if sepEnd-sepStart < minGap {
		pad := (minGap - (sepEnd - sepStart) + 1) / 2
		sepStart -= pad
		sepEnd += pad
	}
	sepStart = max(region.Start+1, sepStart)
	sepEnd = min(region.End-1, max(sepEnd, sepStart+1))

	return Interval{region.Start, sepStart}, Interval{sepEnd, region.End}
}

// expandSeparator walks from center in the given direction while edge strength
// stays above half the center value, looking up to sepLookahead rows past a
// weak row so single-row noise does not stop the expansion early.
func expandSeparator(edgeRow []float64, center, limit, step int, half float64) int {
	pos := center
	for {
		next := pos + step
		if next == limit || next < 0 || next >= len(edgeRow) {
			break
		}
		if edgeRow[next] >= half {
			pos = next
			continue
		}
		found := false
		for k := 2; k <= sepLookahead+1; k++ {
			cand := pos + step*k
			if cand < 0 || cand >= len(edgeRow) {
				break
			}
			if step > 0 && cand >= limit {
				break
			}
			if step < 0 && cand <= limit {
				break
			}
			if edgeRow[cand] >= half {
				pos = cand
				found = true
				break
			}
		}
		if !found {
			break
		}
	}
	return pos
}
