package roi

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/floats"
)

// Mask is a binary 2D array marking the pixels of one ROI, stored row-major.
//
// A Mask can carry values other than 0 and 1; such masks are rejected with
// ErrInvalidMaskValue when they are scored.
type Mask struct {
	width  int
	height int
	pix    []float64
}

// NewMask wraps a row-major pixel buffer of width*height values.
// The buffer is copied.
func NewMask(width, height int, pix []float64) (Mask, error) {
	if width < 0 || height < 0 {
		return Mask{}, fmt.Errorf("%w: negative dimensions %dx%d", ErrShapeMismatch, width, height)
	}
	if len(pix) != width*height {
		return Mask{}, fmt.Errorf("%w: %d pixels for a %dx%d mask", ErrShapeMismatch, len(pix), width, height)
	}
	return Mask{
		width:  width,
		height: height,
		pix:    append([]float64(nil), pix...),
	}, nil
}

// EmptyMask returns an all-zero mask. It panics on negative dimensions.
func EmptyMask(width, height int) Mask {
	return Mask{
		width:  width,
		height: height,
		pix:    make([]float64, width*height),
	}
}

// MaskFromPoints returns a mask with the given pixels set.
// Duplicate points are allowed.
func MaskFromPoints(width, height int, pts []image.Point) (Mask, error) {
	if width < 0 || height < 0 {
		return Mask{}, fmt.Errorf("%w: negative dimensions %dx%d", ErrShapeMismatch, width, height)
	}
	m := EmptyMask(width, height)
	bounds := image.Rect(0, 0, width, height)
	for _, p := range pts {
		if !p.In(bounds) {
			return Mask{}, fmt.Errorf("%w: %v outside %dx%d", ErrPointOutOfBounds, p, width, height)
		}
		m.pix[p.Y*width+p.X] = 1
	}
	return m, nil
}

// Disk returns a mask with a filled disk of the given radius around center,
// clipped to the mask bounds.
func Disk(width, height int, center image.Point, radius int) Mask {
	m := EmptyMask(width, height)
	r2 := radius * radius
	for y := max(center.Y-radius, 0); y <= min(center.Y+radius, height-1); y++ {
		for x := max(center.X-radius, 0); x <= min(center.X+radius, width-1); x++ {
			dx, dy := x-center.X, y-center.Y
			if dx*dx+dy*dy <= r2 {
				m.pix[y*width+x] = 1
			}
		}
	}
	return m
}

// Width returns the mask width in pixels.
func (m Mask) Width() int { return m.width }

// Height returns the mask height in pixels.
func (m Mask) Height() int { return m.height }

// At returns the value at column x, row y.
func (m Mask) At(x, y int) float64 {
	return m.pix[y*m.width+x]
}

// Area returns the number of set pixels.
func (m Mask) Area() float64 {
	return floats.Sum(m.pix)
}

// SameShape reports whether both masks have the same width and height.
func (m Mask) SameShape(o Mask) bool {
	return m.width == o.width && m.height == o.height
}

// Equal reports whether both masks have the same shape and pixels.
func (m Mask) Equal(o Mask) bool {
	return m.SameShape(o) && floats.Equal(m.pix, o.pix)
}

// Validate checks that every element is exactly 0 or 1.
func (m Mask) Validate() error {
	for i, v := range m.pix {
		if v != 0 && v != 1 {
			return fmt.Errorf("%w: %v at (%d, %d)", ErrInvalidMaskValue, v, i%m.width, i/m.width)
		}
	}
	return nil
}

func (m Mask) String() string {
	return fmt.Sprintf("Mask(%dx%d, area=%g)", m.width, m.height, m.Area())
}
