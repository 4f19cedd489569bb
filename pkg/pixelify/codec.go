package pixelify

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 90

// unknownFormat names inputs that decode but have no registered Go format.
const unknownFormat = "unknown"

// Decode decodes an encoded image, sniffing the format from its content.
// It returns a fresh buffer and the name of the detected format.
func Decode(data []byte) (*image.NRGBA, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty data", ErrDecode)
	}
	img, format, err := decodeBytes(data)
	if err != nil {
		return nil, "", err
	}
	b := img.Bounds()
	Logger().Debug("pixelify: decoded", "format", format, "width", b.Dx(), "height", b.Dy())
	return img, format, nil
}

// DecodeFile reads and decodes the image at path.
func DecodeFile(path string) (*image.NRGBA, string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return Decode(data)
}

// pureDecode decodes with the formats registered in the image package.
func pureDecode(data []byte) (*image.NRGBA, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return ToNRGBA(img), format, nil
}

// sniffFormat returns the registered format name for data, or "".
func sniffFormat(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return format
}

// ToNRGBA copies img into a new non-premultiplied RGBA buffer whose
// bounds start at the origin.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if src, ok := img.(*image.NRGBA); ok {
		rowBytes := b.Dx() * 4
		for y := 0; y < b.Dy(); y++ {
			srcOff := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowBytes], src.Pix[srcOff:srcOff+rowBytes])
		}
		return dst
	}

	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// outputFormat normalizes a format name or file extension.
func outputFormat(name string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(name, "."))
	switch ext {
	case "webp":
		return "webp", nil
	case "":
		return "", fmt.Errorf("%w: no output format", ErrEncode)
	}
	f, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrEncode, name, err)
	}
	return strings.ToLower(f.String()), nil
}

// Encode writes img to w in the named format: png, jpeg (jpg), gif, bmp,
// tiff (tif) or webp. WebP output is lossless.
func Encode(w io.Writer, img image.Image, format string) error {
	name, err := outputFormat(format)
	if err != nil {
		return err
	}

	if name == "webp" {
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("%w: webp: %w", ErrEncode, err)
		}
		return nil
	}

	f, err := imaging.FormatFromExtension(name)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrEncode, name, err)
	}
	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncode, name, err)
	}
	return nil
}

// Save encodes img into path, choosing the format from the extension.
// The file is removed again if anything fails, so it only exists after a
// complete write.
func Save(img image.Image, path string) error {
	format, err := outputFormat(filepath.Ext(path))
	if err != nil {
		return err
	}

	path = filepath.Clean(path)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	if err := Encode(f, img, format); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	Logger().Debug("pixelify: saved", "path", path, "format", format)
	return nil
}
