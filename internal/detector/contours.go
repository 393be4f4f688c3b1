package detector

import "image"

// contour is one connected white component: its bounding rectangle and the
// number of pixels it covers.
type contour struct {
	rect image.Rectangle
	area int
}

// findContours extracts external connected components from a binary mask in
// scanline discovery order.
func findContours(img *image.Gray) []contour {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	visited := make([]bool, w*h)

	var contours []contour
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.Pix[y*img.Stride+x] > 128 && !visited[y*w+x] {
				contours = append(contours, floodFill(img, visited, x, y))
			}
		}
	}
	return contours
}

// floodFill walks a 4-connected component and returns its bounding rectangle
// and pixel count.
func floodFill(img *image.Gray, visited []bool, startX, startY int) contour {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	minX, minY := startX, startY
	maxX, maxY := startX, startY
	area := 0

	stack := []image.Point{{X: startX, Y: startY}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := p.X, p.Y
		if x < 0 || x >= w || y < 0 || y >= h {
			continue
		}
		if visited[y*w+x] || img.Pix[y*img.Stride+x] <= 128 {
			continue
		}
		visited[y*w+x] = true
		area++

		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}

		stack = append(stack,
			image.Point{X: x + 1, Y: y},
			image.Point{X: x - 1, Y: y},
			image.Point{X: x, Y: y + 1},
			image.Point{X: x, Y: y - 1},
		)
	}

	return contour{rect: image.Rect(minX, minY, maxX+1, maxY+1), area: area}
}

// filterContours keeps contours with at least minArea pixels whose bounding
// box stays under the per-dimension limits, preserving discovery order.
func filterContours(contours []contour, minArea, maxW, maxH int) []image.Rectangle {
	var rects []image.Rectangle
	for _, c := range contours {
		if c.area < minArea {
			continue
		}
		if c.rect.Dx() >= maxW || c.rect.Dy() >= maxH {
			continue
		}
		rects = append(rects, c.rect)
	}
	return rects
}
