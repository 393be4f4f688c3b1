// Package renderer draws annotated output images for detected differences.
package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	markerPadding   = 15 // gap between a difference and its marker
	minCircleRadius = 20
	circleBoundsGap = 5
	labelGap        = 8
	minLabelY       = 20
	aspectThreshold = 0.6 // below this the region is elongated, use a rectangle
)

// Shape selects the marker drawn around a difference region.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeRectangle
)

// shapeFor picks a circle for near-square regions and a rectangle for
// elongated ones.
func shapeFor(r image.Rectangle) Shape {
	w, h := r.Dx(), r.Dy()
	long := max(w, h)
	if long == 0 {
		return ShapeCircle
	}
	if float64(min(w, h))/float64(long) >= aspectThreshold {
		return ShapeCircle
	}
	return ShapeRectangle
}

// DrawDifferences returns a copy of img with every region circled or boxed and
// labeled with its 1-based index. The caller's image is never mutated.
func DrawDifferences(img *image.RGBA, regions []image.Rectangle, col color.RGBA, thickness int) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)

	w, h := out.Bounds().Dx(), out.Bounds().Dy()

	for i, r := range regions {
		cx := r.Min.X + r.Dx()/2
		cy := r.Min.Y + r.Dy()/2
		var textY int

		switch shapeFor(r) {
		case ShapeCircle:
			radius := max(r.Dx(), r.Dy())/2 + markerPadding
			limit := min(cx, cy, w-cx, h-cy) - circleBoundsGap
			if radius > limit {
				radius = limit
			}
			if radius < minCircleRadius {
				radius = minCircleRadius
			}
			drawCircle(out, cx, cy, radius, col, thickness)
			textY = max(minLabelY, cy-radius-labelGap)
		case ShapeRectangle:
			box := image.Rect(
				max(0, r.Min.X-markerPadding),
				max(0, r.Min.Y-markerPadding),
				min(w-1, r.Max.X+markerPadding),
				min(h-1, r.Max.Y+markerPadding),
			)
			drawRectOutline(out, box, col, thickness)
			textY = max(minLabelY, box.Min.Y-labelGap)
		}

		drawLabel(out, strconv.Itoa(i+1), cx, textY, col)
	}
	return out
}

// drawCircle renders a circle outline of the given radius and line thickness.
func drawCircle(dst *image.RGBA, cx, cy, radius int, col color.RGBA, thickness int) {
	outer := float64(radius) + float64(thickness)/2
	inner := float64(radius) - float64(thickness)/2
	box := image.Rect(cx-radius-thickness, cy-radius-thickness, cx+radius+thickness+1, cy+radius+thickness+1)
	box = box.Intersect(dst.Bounds())

	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			d := math.Hypot(float64(x-cx), float64(y-cy))
			if d >= inner && d <= outer {
				dst.SetRGBA(x, y, col)
			}
		}
	}
}

// drawRectOutline renders a rectangle outline as four filled bands.
func drawRectOutline(dst *image.RGBA, r image.Rectangle, col color.RGBA, thickness int) {
	half := thickness / 2
	bands := []image.Rectangle{
		image.Rect(r.Min.X-half, r.Min.Y-half, r.Max.X+half+1, r.Min.Y+half+1), // top
		image.Rect(r.Min.X-half, r.Max.Y-half, r.Max.X+half+1, r.Max.Y+half+1), // bottom
		image.Rect(r.Min.X-half, r.Min.Y-half, r.Min.X+half+1, r.Max.Y+half+1), // left
		image.Rect(r.Max.X-half, r.Min.Y-half, r.Max.X+half+1, r.Max.Y+half+1), // right
	}
	for _, band := range bands {
		band = band.Intersect(dst.Bounds())
		for y := band.Min.Y; y < band.Max.Y; y++ {
			for x := band.Min.X; x < band.Max.X; x++ {
				dst.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLabel renders text horizontally centered on cx with its baseline at y.
func drawLabel(dst *image.RGBA, text string, cx, y int, col color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	x := cx - width/2
	if x < 5 {
		x = 5
	}

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
