package detector

import (
	"image"

	"github.com/ivlev/spotdiff/internal/source"
)

// Align center-crops both images to their shared minimum dimensions so they
// are directly comparable pixel by pixel. Cropping only, never resampling:
// interpolation would blur real differences away.
func Align(a, b *image.RGBA) (*image.RGBA, *image.RGBA) {
	w := min(a.Bounds().Dx(), b.Bounds().Dx())
	h := min(a.Bounds().Dy(), b.Bounds().Dy())
	return centerCrop(a, w, h), centerCrop(b, w, h)
}

func centerCrop(img *image.RGBA, w, h int) *image.RGBA {
	b := img.Bounds()
	x0 := b.Min.X + (b.Dx()-w)/2
	y0 := b.Min.Y + (b.Dy()-h)/2
	return source.Crop(img, image.Rect(x0, y0, x0+w, y0+h))
}
