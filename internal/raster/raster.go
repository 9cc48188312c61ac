package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/hpungsan/aas/internal/errors"
)

// Raster is a single-channel intensity grid, stored row-major.
// len(pixels) is always width*height.
type Raster struct {
	width  int
	height int
	pixels []uint8
}

// New creates a Raster over a copy of pixels.
func New(width, height int, pixels []uint8) (*Raster, error) {
	if err := checkDims(width, height); err != nil {
		return nil, err
	}
	if len(pixels) != width*height {
		return nil, errors.NewInvalidParameter(
			fmt.Sprintf("pixel count %d does not match %dx%d", len(pixels), width, height))
	}
	p := make([]uint8, len(pixels))
	copy(p, pixels)
	return &Raster{width: width, height: height, pixels: p}, nil
}

// Uniform creates a Raster where every cell has the same intensity.
func Uniform(width, height int, value uint8) (*Raster, error) {
	if err := checkDims(width, height); err != nil {
		return nil, err
	}
	p := make([]uint8, width*height)
	for i := range p {
		p[i] = value
	}
	return &Raster{width: width, height: height, pixels: p}, nil
}

// checkDims rejects non-positive sizes and sizes whose cell count overflows int.
func checkDims(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.NewInvalidDimension(width, height)
	}
	if width > math.MaxInt/height {
		return errors.NewInvalidParameter(fmt.Sprintf("raster %dx%d is too large", width, height))
	}
	return nil
}

// Width returns the number of columns.
func (r *Raster) Width() int { return r.width }

// Height returns the number of rows.
func (r *Raster) Height() int { return r.height }

// AspectRatio returns height/width.
func (r *Raster) AspectRatio() float64 {
	return float64(r.height) / float64(r.width)
}

// At returns the intensity at column x, row y. Coordinates are not checked.
func (r *Raster) At(x, y int) uint8 {
	return r.pixels[x+r.width*y]
}

// Pixels returns a copy of the backing intensities.
func (r *Raster) Pixels() []uint8 {
	p := make([]uint8, len(r.pixels))
	copy(p, r.pixels)
	return p
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	return &Raster{width: r.width, height: r.height, pixels: r.Pixels()}
}

// Mean returns the average intensity.
func (r *Raster) Mean() float64 {
	var sum uint64
	for _, v := range r.pixels {
		sum += uint64(v)
	}
	return float64(sum) / float64(len(r.pixels))
}

// Gray returns the raster as an *image.Gray sharing no memory with r.
func (r *Raster) Gray() *image.Gray {
	return &image.Gray{
		Pix:    r.Pixels(),
		Stride: r.width,
		Rect:   image.Rect(0, 0, r.width, r.height),
	}
}

// Equal reports whether both rasters have the same size and intensities.
func (r *Raster) Equal(o *Raster) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.width != o.width || r.height != o.height {
		return false
	}
	for i := range r.pixels {
		if r.pixels[i] != o.pixels[i] {
			return false
		}
	}
	return true
}
