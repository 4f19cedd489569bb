package pixelify

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"
)

// FITS header layout: 2880-byte blocks of 36 cards, 80 bytes each.
const (
	fitsCardSize     = 80
	fitsCardsPerUnit = 36
	fitsMaxSide      = 1 << 15
)

func init() {
	image.RegisterFormat("fits", "SIMPLE  =", decodeFITS, decodeFITSConfig)
}

type fitsHeader struct {
	bitpix int
	naxis  int
	width  int
	height int
	bzero  float64
	bscale float64
}

func readFITSHeader(r io.Reader) (*fitsHeader, error) {
	hdr := &fitsHeader{bscale: 1}
	card := make([]byte, fitsCardSize)

	for {
		done := false
		for i := 0; i < fitsCardsPerUnit; i++ {
			if _, err := io.ReadFull(r, card); err != nil {
				return nil, fmt.Errorf("fits: reading header card: %w", err)
			}
			if done {
				continue
			}
			keyword := strings.TrimSpace(string(card[:8]))
			if keyword == "END" {
				done = true
				continue
			}
			if card[8] != '=' || card[9] != ' ' {
				continue
			}
			value := strings.TrimSpace(strings.SplitN(string(card[10:]), "/", 2)[0])
			switch keyword {
			case "BITPIX":
				hdr.bitpix, _ = strconv.Atoi(value)
			case "NAXIS":
				hdr.naxis, _ = strconv.Atoi(value)
			case "NAXIS1":
				hdr.width, _ = strconv.Atoi(value)
			case "NAXIS2":
				hdr.height, _ = strconv.Atoi(value)
			case "BZERO":
				hdr.bzero, _ = strconv.ParseFloat(value, 64)
			case "BSCALE":
				hdr.bscale, _ = strconv.ParseFloat(value, 64)
			}
		}
		if done {
			break
		}
	}

	if hdr.naxis < 2 || hdr.width <= 0 || hdr.height <= 0 {
		return nil, fmt.Errorf("fits: invalid axes NAXIS=%d, NAXIS1=%d, NAXIS2=%d", hdr.naxis, hdr.width, hdr.height)
	}
	if hdr.width > fitsMaxSide || hdr.height > fitsMaxSide {
		return nil, fmt.Errorf("fits: image %dx%d exceeds %d pixels per side", hdr.width, hdr.height, fitsMaxSide)
	}
	switch hdr.bitpix {
	case 8, 16, 32, -32:
	default:
		return nil, fmt.Errorf("fits: unsupported BITPIX %d", hdr.bitpix)
	}
	return hdr, nil
}

func decodeFITSConfig(r io.Reader) (image.Config, error) {
	hdr, err := readFITSHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	model := color.Gray16Model
	if hdr.bitpix == 8 {
		model = color.GrayModel
	}
	return image.Config{ColorModel: model, Width: hdr.width, Height: hdr.height}, nil
}

// decodeFITS reads the primary image of a FITS file. 8-bit data becomes
// *image.Gray, everything else *image.Gray16 with physical values
// (raw*BSCALE+BZERO) clamped to [0, 65535]. Rows are kept in file order.
func decodeFITS(r io.Reader) (image.Image, error) {
	hdr, err := readFITSHeader(r)
	if err != nil {
		return nil, err
	}

	n := hdr.width * hdr.height
	bytesPerPixel := intAbs(hdr.bitpix) / 8
	size := int64(n) * int64(bytesPerPixel)
	// The buffer grows only with the data actually present.
	raw, err := io.ReadAll(io.LimitReader(r, size))
	if err != nil {
		return nil, fmt.Errorf("fits: reading %d-bit pixel data: %w", hdr.bitpix, err)
	}
	if int64(len(raw)) < size {
		return nil, fmt.Errorf("fits: pixel data truncated: got %d of %d bytes: %w", len(raw), size, io.ErrUnexpectedEOF)
	}

	rect := image.Rect(0, 0, hdr.width, hdr.height)
	physical := func(v float64) float64 {
		return clampFloat64(v*hdr.bscale+hdr.bzero, 0, math.MaxUint16)
	}

	if hdr.bitpix == 8 {
		img := image.NewGray(rect)
		for i, v := range raw {
			img.Pix[i] = uint8(clampFloat64(float64(v)*hdr.bscale+hdr.bzero, 0, math.MaxUint8))
		}
		return img, nil
	}

	img := image.NewGray16(rect)
	for i := 0; i < n; i++ {
		var v float64
		switch hdr.bitpix {
		case 16:
			v = float64(int16(binary.BigEndian.Uint16(raw[i*2:])))
		case 32:
			v = float64(int32(binary.BigEndian.Uint32(raw[i*4:])))
		case -32:
			v = float64(math.Float32frombits(binary.BigEndian.Uint32(raw[i*4:])))
		}
		binary.BigEndian.PutUint16(img.Pix[i*2:], uint16(physical(v)))
	}
	return img, nil
}

func clampFloat64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
