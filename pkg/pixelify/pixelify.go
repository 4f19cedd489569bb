package pixelify

import (
	"fmt"
	"image"
)

// Validate checks scale against a w x h image. Checks run in order and
// the first failure is returned as a *ScaleError.
func Validate(w, h, scale int, opts *Options) error {
	opts = optionsOrDefault(opts)
	fail := func(reason string) error {
		return &ScaleError{Scale: scale, Width: w, Height: h, Reason: reason}
	}

	if scale >= w || scale >= h {
		return fail("scale larger than image")
	}
	if scale <= 1 {
		return fail("scale must exceed one pixel")
	}
	if !opts.Strict {
		return nil
	}
	if scale > w/2 || scale > h/2 || w%scale != 0 || h%scale != 0 {
		reason := fmt.Sprintf("scale should divide %dx%d evenly and be at most half of each side", w, h)
		if hi := min(w, h) / 3; hi >= 3 {
			reason += fmt.Sprintf("; try a scale between 3 and %d", hi)
		}
		return fail(reason)
	}
	return nil
}

// Pixelate validates scale and then averages every grid block of img in
// place. img is not touched when validation fails.
func Pixelate(img *image.NRGBA, scale int, opts *Options) (*Metrics, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if err := Validate(w, h, scale, opts); err != nil {
		return nil, err
	}

	grid := UniformGrid(w, h, scale)
	Logger().Debug("pixelify: grid", "width", w, "height", h, "scale", scale, "anchors", len(grid))

	m := &Metrics{Scale: scale, Anchors: len(grid)}
	for _, a := range grid {
		if skipAnchor(a, scale, w, h) {
			m.Skipped++
			continue
		}
		n := BlendBlock(img, a, scale)
		if n == 0 {
			m.Empty++
			continue
		}
		m.Blended++
		m.PixelsWritten += int64(n)
	}

	Logger().Debug("pixelify: done", "metrics", m.String())
	return m, nil
}

// Run decodes data, validates scale against the decoded dimensions and
// pixelates the image.
func Run(data []byte, scale int, opts *Options) (*Result, error) {
	img, format, err := Decode(data)
	if err != nil {
		return nil, err
	}

	m, err := Pixelate(img, scale, opts)
	if err != nil {
		return nil, err
	}

	return &Result{Image: img, Format: format, Metrics: m}, nil
}
