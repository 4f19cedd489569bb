package pixelify

import "image"

// BlendBlock replaces every pixel of the block around a with the block's
// mean color and returns the number of pixels written.
//
// Boundary anchors (see UniformGrid) are left alone and 0 is returned. The
// mean of each channel is the truncated integer quotient of its sum and the
// pixel count; there is no rounding. The block is read once to sum and
// written once, fully replacing any color an earlier block left there.
func BlendBlock(img *image.NRGBA, a Anchor, s int) int {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if skipAnchor(a, s, w, h) {
		return 0
	}

	r := BlockBounds(a, s, w, h).Add(b.Min)

	var rSum, gSum, bSum, aSum uint64
	var n uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			rSum += uint64(img.Pix[off])
			gSum += uint64(img.Pix[off+1])
			bSum += uint64(img.Pix[off+2])
			aSum += uint64(img.Pix[off+3])
			n++
			off += 4
		}
	}
	if n == 0 {
		return 0
	}

	mr := uint8(rSum / n)
	mg := uint8(gSum / n)
	mb := uint8(bSum / n)
	ma := uint8(aSum / n)

	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Pix[off] = mr
			img.Pix[off+1] = mg
			img.Pix[off+2] = mb
			img.Pix[off+3] = ma
			off += 4
		}
	}
	return int(n)
}
