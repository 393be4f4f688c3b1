package source

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"))
	if err == nil {
		t.Fatal("expected error for invalid bytes")
	}
	if !errors.Is(err, ErrInvalidImage) {
		t.Errorf("expected ErrInvalidImage, got %v", err)
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 20),
				G: uint8(y * 20),
				B: uint8(x + y),
				A: 255,
			})
		}
	}

	data, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded.Bounds() != src.Bounds() {
		t.Fatalf("bounds changed: %v != %v", decoded.Bounds(), src.Bounds())
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if decoded.RGBAAt(x, y) != src.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) changed: %v != %v", x, y, decoded.RGBAAt(x, y), src.RGBAAt(x, y))
			}
		}
	}
}

func TestCrop(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	src.SetRGBA(5, 7, color.RGBA{R: 200, A: 255})

	out := Crop(src, image.Rect(4, 6, 14, 16))
	if out.Bounds().Dx() != 10 || out.Bounds().Dy() != 10 {
		t.Fatalf("unexpected crop size: %v", out.Bounds())
	}
	if out.RGBAAt(1, 1).R != 200 {
		t.Errorf("cropped content not preserved: %v", out.RGBAAt(1, 1))
	}
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"shot.png", true},
		{"shot.JPG", true},
		{"shot.jpeg", true},
		{"shot.bmp", true},
		{"shot.webp", true},
		{"shot.txt", false},
		{"shot", false},
	}
	for _, tt := range tests {
		if got := IsImageFile(tt.name); got != tt.want {
			t.Errorf("IsImageFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFindLatestImage(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "old.png")
	newer := filepath.Join(dir, "new.png")
	for _, p := range []string{older, newer} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	base := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, base, base); err != nil {
		t.Fatal(err)
	}

	got, err := FindLatestImage(dir)
	if err != nil {
		t.Fatalf("FindLatestImage failed: %v", err)
	}
	if got != newer {
		t.Errorf("expected %s, got %s", newer, got)
	}

	if _, err := FindLatestImage(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
}
