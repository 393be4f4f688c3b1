package detector

import (
	"image"
	"image/color"
	"testing"
)

func solidRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func paintRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func TestAlignCenterCrop(t *testing.T) {
	a := solidRGBA(100, 80, color.RGBA{R: 10, A: 255})
	b := solidRGBA(90, 100, color.RGBA{R: 20, A: 255})

	ca, cb := Align(a, b)
	if ca.Bounds().Dx() != 90 || ca.Bounds().Dy() != 80 {
		t.Errorf("aligned a = %v, want 90x80", ca.Bounds())
	}
	if cb.Bounds().Dx() != 90 || cb.Bounds().Dy() != 80 {
		t.Errorf("aligned b = %v, want 90x80", cb.Bounds())
	}
}

func TestAbsDiffGray(t *testing.T) {
	a := solidRGBA(4, 4, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	b := solidRGBA(4, 4, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	b.SetRGBA(2, 2, color.RGBA{R: 200, G: 100, B: 100, A: 255})

	gray := AbsDiffGray(a, b)
	if got := gray.GrayAt(0, 0).Y; got != 0 {
		t.Errorf("identical pixel diff = %d, want 0", got)
	}
	// 0.299 * 100 = 29.9, rounded to 30
	if got := gray.GrayAt(2, 2).Y; got != 30 {
		t.Errorf("red-channel diff = %d, want 30", got)
	}
}

func TestFindDifferencesIdentical(t *testing.T) {
	a := solidRGBA(200, 200, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	b := solidRGBA(200, 200, color.RGBA{R: 128, G: 128, B: 128, A: 255})

	regions := FindDifferences(a, b, 80, 35)
	if len(regions) != 0 {
		t.Errorf("got %d regions for identical images: %v", len(regions), regions)
	}
}

func TestFindDifferencesSingleSquare(t *testing.T) {
	a := solidRGBA(200, 200, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	b := solidRGBA(200, 200, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	paintRect(b, image.Rect(80, 80, 120, 120), color.RGBA{R: 255, G: 255, B: 255, A: 255})

	regions := FindDifferences(a, b, 80, 35)
	if len(regions) != 1 {
		t.Fatalf("got %d regions, want 1: %v", len(regions), regions)
	}

	r := regions[0]
	cx := (r.Min.X + r.Max.X) / 2
	cy := (r.Min.Y + r.Max.Y) / 2
	if cx < 90 || cx > 110 || cy < 90 || cy > 110 {
		t.Errorf("region center = (%d, %d), want near (100, 100)", cx, cy)
	}
	// Morphology inflates the 40px square but should stay in the same ballpark.
	if r.Dx() < 35 || r.Dx() > 80 {
		t.Errorf("region width = %d, want 35-80", r.Dx())
	}
}

func TestFindDifferencesRejectsFullFrame(t *testing.T) {
	a := solidRGBA(200, 200, color.RGBA{A: 255})
	b := solidRGBA(200, 200, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	// The entire frame differs; a blob covering >80% of either dimension is
	// treated as misalignment rather than a difference.
	regions := FindDifferences(a, b, 80, 35)
	if len(regions) != 0 {
		t.Errorf("full-frame diff produced regions: %v", regions)
	}
}

func TestFindDifferencesEdgeMarginSuppressed(t *testing.T) {
	a := solidRGBA(200, 200, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	b := solidRGBA(200, 200, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	// Difference entirely inside the 20px edge band.
	paintRect(b, image.Rect(0, 0, 15, 15), color.RGBA{R: 255, G: 255, B: 255, A: 255})

	regions := FindDifferences(a, b, 80, 35)
	if len(regions) != 0 {
		t.Errorf("edge artifact produced regions: %v", regions)
	}
}

func TestFilterContoursMinArea(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 300, 300))
	paint := func(r image.Rectangle) {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				mask.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	paint(image.Rect(10, 10, 18, 20))    // 8x10 = 80 px, at the threshold
	paint(image.Rect(100, 100, 107, 111)) // 7x11 = 77 px, below

	rects := filterContours(findContours(mask), 80, 240, 240)
	if len(rects) != 1 {
		t.Fatalf("got %d rects, want 1: %v", len(rects), rects)
	}
	if rects[0] != image.Rect(10, 10, 18, 20) {
		t.Errorf("kept rect = %v, want (10,10)-(18,20)", rects[0])
	}
}

func TestMergeOverlapping(t *testing.T) {
	in := []image.Rectangle{
		image.Rect(0, 0, 50, 50),
		image.Rect(60, 60, 110, 110), // within 20px padding of the first
		image.Rect(200, 0, 250, 50),  // far away, untouched
	}

	out := MergeOverlapping(in, 20)
	if len(out) != 2 {
		t.Fatalf("got %d rects, want 2: %v", len(out), out)
	}
	if out[0] != image.Rect(0, 0, 110, 110) {
		t.Errorf("merged rect = %v, want (0,0)-(110,110)", out[0])
	}
	if out[1] != image.Rect(200, 0, 250, 50) {
		t.Errorf("isolated rect = %v, want unchanged", out[1])
	}

	if got := MergeOverlapping(nil, 20); got != nil {
		t.Errorf("nil input returned %v", got)
	}
}

func TestSimilarityIdentical(t *testing.T) {
	img := solidRGBA(64, 64, color.RGBA{R: 40, G: 90, B: 160, A: 255})
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 220, G: 40, B: 10, A: 255})
		}
	}

	d, err := Similarity(img, img)
	if err != nil {
		t.Fatalf("Similarity failed: %v", err)
	}
	if d != 0 {
		t.Errorf("self-distance = %d, want 0", d)
	}
}
