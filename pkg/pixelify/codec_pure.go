//go:build purego || js

package pixelify

import "image"

func decodeBytes(data []byte) (*image.NRGBA, string, error) {
	return pureDecode(data)
}
