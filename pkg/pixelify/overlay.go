package pixelify

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	overlayWidth    = 800
	overlayMinH     = 100
	overlaySummaryH = 60
)

var (
	blockColor   = color.RGBA{80, 220, 120, 255}
	skippedColor = color.RGBA{255, 80, 80, 255}
	anchorColor  = color.RGBA{255, 255, 255, 255}
	summaryColor = color.RGBA{220, 220, 220, 255}
)

// RenderGridOverlay draws the block grid over a pixelated image and writes
// it to outputPath as JPEG. Nothing is left at outputPath on failure.
func RenderGridOverlay(img *image.NRGBA, scale int, m *Metrics, outputPath string) error {
	data, err := RenderGridOverlayBytes(img, scale, m)
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create overlay file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(outputPath)
		return fmt.Errorf("write overlay file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(outputPath)
		return fmt.Errorf("close overlay file: %w", err)
	}
	return nil
}

// RenderGridOverlayBytes is like RenderGridOverlay but returns the JPEG bytes.
func RenderGridOverlayBytes(img *image.NRGBA, scale int, m *Metrics) ([]byte, error) {
	overlay, err := renderGridImage(img, scale, m)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, overlay, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderGridImage(img *image.NRGBA, scale int, m *Metrics) (*image.RGBA, error) {
	if img == nil || m == nil {
		return nil, fmt.Errorf("no pixelation result")
	}
	if scale <= 0 {
		return nil, fmt.Errorf("invalid overlay scale %d", scale)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image")
	}

	zoom := float64(overlayWidth) / float64(w)
	imgW := overlayWidth
	imgH := max(int(float64(h)*zoom), overlayMinH)
	totalH := imgH + overlaySummaryH

	canvas := image.NewRGBA(image.Rect(0, 0, imgW, totalH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 255}), image.Point{}, draw.Src)
	draw.NearestNeighbor.Scale(canvas, image.Rect(0, 0, imgW, imgH), img, b, draw.Over, nil)

	toCanvas := func(x, y int) (int, int) {
		return int(float64(x) * zoom), int(float64(y) * float64(imgH) / float64(h))
	}

	for _, a := range UniformGrid(w, h, scale) {
		ax, ay := toCanvas(a.X, a.Y)
		if skipAnchor(a, scale, w, h) {
			drawCross(canvas, ax, ay, 4, skippedColor)
			continue
		}
		r := BlockBounds(a, scale, w, h)
		x0, y0 := toCanvas(r.Min.X, r.Min.Y)
		x1, y1 := toCanvas(r.Max.X, r.Max.Y)
		drawRect(canvas, x0, y0, x1-1, y1-1, blockColor)
		drawCircle(canvas, ax, ay, 2, anchorColor)
	}

	face := basicfont.Face7x13
	summaryY := imgH + 15
	line1 := fmt.Sprintf("Scale: %d  Image: %dx%d  Anchors: %d", scale, w, h, m.Anchors)
	line2 := fmt.Sprintf("Blended: %d  Skipped: %d  Empty: %d  Pixels: %d", m.Blended, m.Skipped, m.Empty, m.PixelsWritten)
	drawText(canvas, face, line1, 10, summaryY, summaryColor)
	drawText(canvas, face, line2, 10, summaryY+18, summaryColor)

	return canvas, nil
}

// drawText draws a string at (x, y) using the given font face.
func drawText(img *image.RGBA, face font.Face, s string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawRect draws a 1px rectangle outline with inclusive corners.
func drawRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	drawLine(img, x0, y0, x1, y0, c)
	drawLine(img, x1, y0, x1, y1, c)
	drawLine(img, x1, y1, x0, y1, c)
	drawLine(img, x0, y1, x0, y0, c)
}

func drawCross(img *image.RGBA, cx, cy, size int, c color.RGBA) {
	drawLine(img, cx-size, cy-size, cx+size, cy+size, c)
	drawLine(img, cx-size, cy+size, cx+size, cy-size, c)
}

// drawCircle draws a circle outline using the midpoint algorithm.
func drawCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	x := radius
	y := 0
	err := 0

	for x >= y {
		img.Set(cx+x, cy+y, c)
		img.Set(cx+y, cy+x, c)
		img.Set(cx-y, cy+x, c)
		img.Set(cx-x, cy+y, c)
		img.Set(cx-x, cy-y, c)
		img.Set(cx-y, cy-x, c)
		img.Set(cx+y, cy-x, c)
		img.Set(cx+x, cy-y, c)

		y++
		err += 1 + 2*y
		if 2*(err-x)+1 > 0 {
			x--
			err += 1 - 2*x
		}
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := intAbs(x1 - x0)
	dy := -intAbs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
