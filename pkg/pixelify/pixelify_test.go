package pixelify

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestValidate(t *testing.T) {
	lenient := &Options{Strict: false}
	tests := []struct {
		name   string
		w, h   int
		scale  int
		opts   *Options
		reason string // empty when the scale is valid
	}{
		{"zero", 10, 10, 0, nil, "exceed one pixel"},
		{"one", 10, 10, 1, nil, "exceed one pixel"},
		{"negative", 10, 10, -3, nil, "exceed one pixel"},
		{"equal to width", 10, 20, 10, nil, "larger than image"},
		{"equal to height", 20, 10, 10, nil, "larger than image"},
		{"beyond both", 10, 10, 12, nil, "larger than image"},
		{"divides evenly", 12, 12, 4, nil, ""},
		{"half of each side", 20, 20, 10, nil, ""},
		{"not divisible", 12, 12, 5, nil, "try a scale between 3 and 4"},
		{"more than half", 30, 12, 8, nil, "try a scale between 3 and 4"},
		{"small image", 6, 6, 4, nil, "divide 6x6 evenly"},
		{"not divisible lenient", 12, 12, 5, lenient, ""},
		{"more than half lenient", 12, 12, 11, lenient, ""},
		{"one lenient", 12, 12, 1, lenient, "exceed one pixel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.w, tt.h, tt.scale, tt.opts)
			if tt.reason == "" {
				if err != nil {
					t.Fatalf("Validate(%d, %d, %d) = %v, want nil", tt.w, tt.h, tt.scale, err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidScale) {
				t.Fatalf("Validate(%d, %d, %d) = %v, want ErrInvalidScale", tt.w, tt.h, tt.scale, err)
			}
			var se *ScaleError
			if !errors.As(err, &se) {
				t.Fatalf("Validate error %T is not *ScaleError", err)
			}
			if se.Scale != tt.scale || se.Width != tt.w || se.Height != tt.h {
				t.Errorf("ScaleError = %+v, want scale %d for %dx%d", se, tt.scale, tt.w, tt.h)
			}
			if !strings.Contains(se.Reason, tt.reason) {
				t.Errorf("Reason = %q, want it to contain %q", se.Reason, tt.reason)
			}
		})
	}
}

func TestValidate_SmallImageHint(t *testing.T) {
	// min(w, h)/3 < 3 leaves no scale range to suggest.
	for _, c := range [][3]int{{6, 6, 4}, {8, 20, 3}, {20, 7, 4}} {
		w, h, scale := c[0], c[1], c[2]
		err := Validate(w, h, scale, nil)
		var se *ScaleError
		if !errors.As(err, &se) {
			t.Fatalf("Validate(%d, %d, %d) = %v, want *ScaleError", w, h, scale, err)
		}
		if strings.Contains(se.Reason, "try a scale") {
			t.Errorf("Validate(%d, %d, %d) reason = %q, want no scale range", w, h, scale, se.Reason)
		}
	}
	err := Validate(9, 9, 4, nil)
	if err == nil || !strings.Contains(err.Error(), "try a scale between 3 and 3") {
		t.Errorf("Validate(9, 9, 4) = %v, want a 3..3 hint", err)
	}
}

func TestPixelate_LiteralOutput(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			v := uint8(y*6 + x)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: 255 - v, B: 0, A: 255})
		}
	}

	wantR := []uint8{
		0, 1, 2, 3, 4, 5,
		6, 10, 10, 12, 12, 11,
		12, 10, 10, 12, 12, 17,
		18, 22, 22, 24, 24, 23,
		24, 22, 22, 24, 24, 29,
		30, 31, 32, 33, 34, 35,
	}
	wantG := []uint8{
		255, 254, 253, 252, 251, 250,
		249, 244, 244, 242, 242, 244,
		243, 244, 244, 242, 242, 238,
		237, 232, 232, 230, 230, 232,
		231, 232, 232, 230, 230, 226,
		225, 224, 223, 222, 221, 220,
	}
	want := make([]uint8, 0, len(img.Pix))
	for i := range wantR {
		want = append(want, wantR[i], wantG[i], 0, 255)
	}

	m, err := Pixelate(img, 2, nil)
	if err != nil {
		t.Fatalf("Pixelate: %v", err)
	}
	if !bytes.Equal(img.Pix, want) {
		t.Errorf("Pix =\n%v\nwant\n%v", img.Pix, want)
	}
	if m.Anchors != 4 || m.Blended != 4 || m.Skipped != 0 || m.PixelsWritten != 16 {
		t.Errorf("Metrics = %v, want 4 anchors, 4 blended, 16 pixels", m)
	}
}

func TestRun_EndToEnd(t *testing.T) {
	src := makePattern(10, 10)
	data := encodePNG(t, src)

	res, err := Run(data, 2, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Format != "png" {
		t.Errorf("Format = %q, want png", res.Format)
	}
	out := res.Image
	if out.Bounds() != src.Bounds() {
		t.Fatalf("Bounds = %v, want %v", out.Bounds(), src.Bounds())
	}

	for _, a := range UniformGrid(10, 10, 2) {
		r := BlockBounds(a, 2, 10, 10)
		first := out.NRGBAAt(r.Min.X, r.Min.Y)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if got := out.NRGBAAt(x, y); got != first {
					t.Errorf("block %v pixel (%d,%d) = %v, want %v", a, x, y, got, first)
				}
			}
		}
	}

	// The outer ring is never written.
	for i := 0; i < 10; i++ {
		for _, p := range []image.Point{{i, 0}, {i, 9}, {0, i}, {9, i}} {
			if got, want := out.NRGBAAt(p.X, p.Y), src.NRGBAAt(p.X, p.Y); got != want {
				t.Errorf("edge pixel %v = %v, want %v", p, got, want)
			}
		}
	}

	m := res.Metrics
	if m.Anchors != 16 || m.Blended != 16 || m.PixelsWritten != 64 {
		t.Errorf("Metrics = %v, want 16 anchors, 16 blended, 64 pixels", m)
	}
}

func TestPixelate_PreservesDimensions(t *testing.T) {
	for _, size := range []image.Point{{12, 12}, {30, 18}, {9, 27}} {
		img := makeNoise(size.X, size.Y, 1)
		if _, err := Pixelate(img, 3, nil); err != nil {
			t.Fatalf("Pixelate %v: %v", size, err)
		}
		if img.Bounds().Dx() != size.X || img.Bounds().Dy() != size.Y {
			t.Errorf("Bounds = %v, want %v", img.Bounds(), size)
		}
	}
}

func TestPixelate_CountsSkippedAnchors(t *testing.T) {
	img := makeNoise(10, 10, 3)
	m, err := Pixelate(img, 3, &Options{Strict: false})
	if err != nil {
		t.Fatalf("Pixelate: %v", err)
	}
	// Anchors in column 9 and row 9 touch the last column or row.
	if m.Anchors != 9 || m.Skipped != 5 || m.Blended != 4 {
		t.Errorf("Metrics = %v, want 9 anchors, 5 skipped, 4 blended", m)
	}
	if m.PixelsWritten != 36 {
		t.Errorf("PixelsWritten = %d, want 36", m.PixelsWritten)
	}
}

func TestPixelate_InvalidScaleLeavesImageUntouched(t *testing.T) {
	img := makeNoise(10, 10, 5)
	before := cloneNRGBA(img)

	_, err := Pixelate(img, 4, nil)
	if !errors.Is(err, ErrInvalidScale) {
		t.Fatalf("Pixelate = %v, want ErrInvalidScale", err)
	}
	if !bytes.Equal(img.Pix, before.Pix) {
		t.Error("image modified despite validation failure")
	}
}

// Blocks at stride s tile without overlap, so a second pass at the same
// scale finds uniform blocks and leaves them as they are.
func TestPixelate_RerunWithSameScaleIsStable(t *testing.T) {
	img := makeNoise(10, 10, 11)
	opts := &Options{Strict: false}
	if _, err := Pixelate(img, 3, opts); err != nil {
		t.Fatalf("first Pixelate: %v", err)
	}
	once := cloneNRGBA(img)
	if _, err := Pixelate(img, 3, opts); err != nil {
		t.Fatalf("second Pixelate: %v", err)
	}
	if !bytes.Equal(img.Pix, once.Pix) {
		t.Error("second pass at the same scale changed pixels")
	}
}

// Pixelating is not idempotent in general: blocks of another scale do not
// line up with earlier block boundaries.
func TestPixelate_RerunWithOtherScaleChangesPixels(t *testing.T) {
	img := makeNoise(10, 10, 11)
	opts := &Options{Strict: false}
	if _, err := Pixelate(img, 3, opts); err != nil {
		t.Fatalf("first Pixelate: %v", err)
	}
	once := cloneNRGBA(img)
	if _, err := Pixelate(img, 4, opts); err != nil {
		t.Fatalf("second Pixelate: %v", err)
	}
	if bytes.Equal(img.Pix, once.Pix) {
		t.Error("pass with a misaligned scale left every pixel unchanged")
	}
}

func TestRun_Errors(t *testing.T) {
	valid := encodePNG(t, makePattern(10, 10))
	tests := []struct {
		name  string
		data  []byte
		scale int
		want  error
	}{
		{"empty", nil, 3, ErrDecode},
		{"garbage", []byte("definitely not an image"), 3, ErrDecode},
		{"truncated png", valid[:20], 2, ErrDecode},
		{"scale too large", valid, 10, ErrInvalidScale},
		{"scale too small", valid, 1, ErrInvalidScale},
		{"scale not divisible", valid, 3, ErrInvalidScale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(tt.data, tt.scale, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Run = %v, want %v", err, tt.want)
			}
			if res != nil {
				t.Errorf("Run returned a result alongside error %v", err)
			}
		})
	}
}

func TestRun_DecodeErrorBeforeScaleCheck(t *testing.T) {
	_, err := Run([]byte("junk"), 0, nil)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Run = %v, want ErrDecode", err)
	}
	if errors.Is(err, ErrInvalidScale) {
		t.Error("decode failure also reported as invalid scale")
	}
}
