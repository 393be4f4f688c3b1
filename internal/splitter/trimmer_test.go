package splitter

import (
	"image"
	"image/color"
	"testing"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

// fillChecker paints a per-pixel checkerboard, which has high variance and
// strong gradients along both axes.
func fillChecker(img *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, black)
			} else {
				img.SetRGBA(x, y, white)
			}
		}
	}
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func TestDetectUniformBorder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	fill(img, img.Bounds(), white)
	// content with high vertical variation starting at x=10
	for y := 0; y < 100; y++ {
		for x := 10; x < 100; x++ {
			if y%2 == 0 {
				img.SetRGBA(x, y, black)
			}
		}
	}

	if got := DetectUniformBorder(img, SideLeft, 50); got != 10 {
		t.Errorf("left border = %d, want 10", got)
	}
	if got := DetectUniformBorder(img, SideRight, 50); got != 0 {
		t.Errorf("right border = %d, want 0", got)
	}
}

func TestReconcileBorder(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{10, 12, 10}, // close agreement takes the smaller
		{12, 10, 10},
		{8, 12, 8},
		{10, 30, 15}, // disagreement takes half the larger
		{0, 10, 5},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := reconcileBorder(tt.a, tt.b); got != tt.want {
			t.Errorf("reconcileBorder(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCropBordersSolidImage(t *testing.T) {
	// A solid-color image has zero gradient and uniform edge lines; only the
	// variance signal keeps the trimmer from eating it whole. The result must
	// lose the fixed safety margins and nothing else.
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	fill(img, img.Bounds(), color.RGBA{40, 80, 160, 255})

	out := CropBorders(img)
	wantW := 100 - 2*(safetyMargin+horizontalMargin)
	wantH := 100 - 2*safetyMargin
	if out.Bounds().Dx() != wantW || out.Bounds().Dy() != wantH {
		t.Errorf("crop = %dx%d, want %dx%d", out.Bounds().Dx(), out.Bounds().Dy(), wantW, wantH)
	}
}

func TestCropBordersUnified(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 100, 100))
	fill(a, a.Bounds(), white)
	fillChecker(a, image.Rect(10, 10, 90, 90))

	b := image.NewRGBA(image.Rect(0, 0, 104, 104))
	fill(b, b.Bounds(), white)
	fillChecker(b, image.Rect(12, 12, 92, 92))

	ca, cb := CropBordersUnified(a, b)

	// Reconciled border widths are shared, so the size delta between the two
	// crops must equal the raw size delta of the inputs.
	if cb.Bounds().Dx()-ca.Bounds().Dx() != 4 {
		t.Errorf("width delta = %d, want 4 (a=%d b=%d)",
			cb.Bounds().Dx()-ca.Bounds().Dx(), ca.Bounds().Dx(), cb.Bounds().Dx())
	}
	if cb.Bounds().Dy()-ca.Bounds().Dy() != 4 {
		t.Errorf("height delta = %d, want 4 (a=%d b=%d)",
			cb.Bounds().Dy()-ca.Bounds().Dy(), ca.Bounds().Dy(), cb.Bounds().Dy())
	}

	// Borders plus margins must have been removed, but most content kept.
	if ca.Bounds().Dx() < 55 || ca.Bounds().Dx() >= 90 {
		t.Errorf("suspicious crop width %d", ca.Bounds().Dx())
	}
}

func TestCropBordersCollapseFallback(t *testing.T) {
	// Tiny image: any detected crop collapses below the minimum, so the
	// conservative fractional fallback applies and output stays non-empty.
	img := image.NewRGBA(image.Rect(0, 0, 12, 12))
	fill(img, img.Bounds(), white)

	out := CropBorders(img)
	if out.Bounds().Dx() <= 0 || out.Bounds().Dy() <= 0 {
		t.Fatalf("fallback crop is empty: %v", out.Bounds())
	}
}
