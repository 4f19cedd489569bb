package pixelify

import (
	"fmt"
	"image"
)

// DefaultScale is the block size used when none is given.
const DefaultScale = 3

// Anchor is the center of a block on the sampling grid.
type Anchor struct {
	X, Y int
}

func (a Anchor) String() string {
	return fmt.Sprintf("(%d,%d)", a.X, a.Y)
}

// Options controls validation of a pixelation run.
type Options struct {
	// Strict rejects scales larger than half of either dimension and
	// scales that do not divide both dimensions evenly.
	Strict bool
}

// NewOptions creates Options with default values.
func NewOptions() *Options {
	return &Options{
		Strict: true,
	}
}

func optionsOrDefault(opts *Options) *Options {
	if opts == nil {
		return NewOptions()
	}
	return opts
}

// Metrics counts what happened during one pixelation run.
type Metrics struct {
	Scale         int
	Anchors       int
	Blended       int
	Skipped       int
	Empty         int
	PixelsWritten int64
}

func (m *Metrics) String() string {
	return fmt.Sprintf("{Scale=%d, Anchors=%d, Blended=%d, Skipped=%d, Empty=%d, PixelsWritten=%d}",
		m.Scale, m.Anchors, m.Blended, m.Skipped, m.Empty, m.PixelsWritten)
}

// Result is the output of Run.
type Result struct {
	Image   *image.NRGBA
	Format  string
	Metrics *Metrics
}
