//go:build !purego && !js

package pixelify

import "testing"

func TestDecode_OpenCVOnlyFormat(t *testing.T) {
	// Binary PPM: OpenCV reads it, the image package has no decoder for it.
	ppm := append([]byte("P6\n2 2\n255\n"),
		10, 20, 30, 40, 50, 60,
		70, 80, 90, 100, 110, 120,
	)

	img, format, err := Decode(ppm)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != unknownFormat {
		t.Errorf("format = %q, want %q", format, unknownFormat)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 2x2", b)
	}
	if got := img.NRGBAAt(1, 1); got.R != 100 || got.G != 110 || got.B != 120 || got.A != 255 {
		t.Errorf("pixel (1,1) = %v, want {100 110 120 255}", got)
	}
}
