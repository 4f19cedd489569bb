package pixelify

import (
	"image"
	"image/color"
	"math/rand"
)

// makeNRGBA returns a w x h image filled with c.
func makeNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// makePattern returns an image whose pixels are a deterministic function
// of their position.
func makePattern(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 25),
				G: uint8(y * 25),
				B: uint8((x*7 + y*13) % 256),
				A: uint8(255 - x - y),
			})
		}
	}
	return img
}

// makeNoise returns a reproducible random image.
func makeNoise(w, h int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	rng.Read(img.Pix)
	return img
}

func cloneNRGBA(img *image.NRGBA) *image.NRGBA {
	c := image.NewNRGBA(img.Rect)
	copy(c.Pix, img.Pix)
	return c
}
