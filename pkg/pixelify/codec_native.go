//go:build !purego && !js

package pixelify

import (
	"image"

	"gocv.io/x/gocv"
)

// decodeBytes decodes with OpenCV. Inputs OpenCV cannot read, or reads
// into a mat other than 8-bit gray/BGR/BGRA (GIF, 16-bit PNG), go through
// the pure Go decoders instead.
func decodeBytes(data []byte) (*image.NRGBA, string, error) {
	format := sniffFormat(data)

	mat, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err != nil {
		Logger().Debug("pixelify: opencv decode failed", "err", err)
		return pureDecode(data)
	}
	defer mat.Close()

	if mat.Empty() {
		Logger().Debug("pixelify: opencv returned an empty mat", "format", format)
		return pureDecode(data)
	}

	img, ok := matToNRGBA(mat)
	if !ok {
		Logger().Debug("pixelify: unsupported mat type", "type", int(mat.Type()))
		return pureDecode(data)
	}
	if format == "" {
		format = unknownFormat
	}
	return img, format, nil
}

// matToNRGBA converts an 8-bit gray, BGR or BGRA mat.
func matToNRGBA(mat gocv.Mat) (*image.NRGBA, bool) {
	switch mat.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
	default:
		return nil, false
	}

	data, err := mat.DataPtrUint8()
	if err != nil {
		return nil, false
	}

	w, h := mat.Cols(), mat.Rows()
	channels := mat.Channels()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := y * w * channels
		dst := y * img.Stride
		for x := 0; x < w; x++ {
			switch channels {
			case 1:
				v := data[src]
				img.Pix[dst], img.Pix[dst+1], img.Pix[dst+2], img.Pix[dst+3] = v, v, v, 255
			case 3:
				img.Pix[dst] = data[src+2]
				img.Pix[dst+1] = data[src+1]
				img.Pix[dst+2] = data[src]
				img.Pix[dst+3] = 255
			case 4:
				img.Pix[dst] = data[src+2]
				img.Pix[dst+1] = data[src+1]
				img.Pix[dst+2] = data[src]
				img.Pix[dst+3] = data[src+3]
			}
			src += channels
			dst += 4
		}
	}
	return img, true
}
