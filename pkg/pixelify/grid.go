package pixelify

import "image"

// UniformGrid returns the anchors for a w x h image at stride s.
//
// Anchors start at s rather than 0 on both axes so that no block is
// clipped away entirely by the left or top edge. They are ordered by x,
// then y: all anchors of one column come before the next column. When
// blocks overlap, the later anchor wins.
//
// The grid is empty when s >= w or s >= h. UniformGrid panics if s <= 0.
func UniformGrid(w, h, s int) []Anchor {
	if s <= 0 {
		panic("pixelify: grid stride must be positive")
	}
	if s >= w || s >= h {
		return nil
	}
	cols := (w - 1) / s
	rows := (h - 1) / s
	grid := make([]Anchor, 0, cols*rows)
	for x := s; x < w; x += s {
		for y := s; y < h; y += s {
			grid = append(grid, Anchor{X: x, Y: y})
		}
	}
	return grid
}

// BlockBounds returns the block of side s centered on a, clamped to a
// w x h image. Coordinates are relative to the image origin.
func BlockBounds(a Anchor, s, w, h int) image.Rectangle {
	half := s / 2
	x1 := max(0, a.X-half)
	y1 := max(0, a.Y-half)
	x2 := min(w, x1+s)
	y2 := min(h, y1+s)
	if x2 < x1 {
		x2 = x1
	}
	if y2 < y1 {
		y2 = y1
	}
	return image.Rect(x1, y1, x2, y2)
}

// skipAnchor reports whether the anchor sits on the image boundary, where
// its block would be asymmetric. The outermost ring of pixels is never
// touched as a result.
func skipAnchor(a Anchor, s, w, h int) bool {
	half := s / 2
	return a.X < half || a.Y < half || a.X+1 == w || a.Y+1 == h
}
