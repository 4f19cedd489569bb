package pixelify

import (
	"errors"
	"fmt"
)

// Errors returned by the pixelation pipeline.
var (
	ErrDecode       = errors.New("pixelify: cannot decode image")
	ErrInvalidScale = errors.New("pixelify: invalid scale")
	ErrEncode       = errors.New("pixelify: cannot encode image")
)

// ScaleError describes why a scale was rejected for an image.
type ScaleError struct {
	Scale  int
	Width  int
	Height int
	Reason string
}

func (e *ScaleError) Error() string {
	return fmt.Sprintf("pixelify: invalid scale %d for %dx%d image: %s", e.Scale, e.Width, e.Height, e.Reason)
}

// Is reports whether target is ErrInvalidScale.
func (e *ScaleError) Is(target error) bool {
	return target == ErrInvalidScale
}
