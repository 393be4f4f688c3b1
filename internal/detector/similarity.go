package detector

import (
	"image"

	"github.com/corona10/goimagehash"
)

// Similarity returns the perceptual-hash Hamming distance between two images.
// Zero means perceptually identical; larger values mean more divergence. The
// distance is a coarse quality signal only and never replaces pixel-level
// detection.
func Similarity(a, b image.Image) (int, error) {
	ha, err := goimagehash.PerceptionHash(a)
	if err != nil {
		return 0, err
	}
	hb, err := goimagehash.PerceptionHash(b)
	if err != nil {
		return 0, err
	}
	return ha.Distance(hb)
}
