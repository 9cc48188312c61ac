package raster

import (
	"fmt"
	"math"

	"github.com/hpungsan/aas/internal/errors"
)

// ApplyBrightness scales every intensity by factor in place.
// Calls compound: each one works on the current intensities.
func (r *Raster) ApplyBrightness(factor float64) error {
	if err := validateFactor("brightness", factor); err != nil {
		return err
	}
	if factor == 1 {
		return nil
	}
	r.blend(0, factor)
	return nil
}

// ApplyContrast scales each intensity's distance from the rounded mean gray
// level by factor in place. Calls compound like ApplyBrightness.
func (r *Raster) ApplyContrast(factor float64) error {
	if err := validateFactor("contrast", factor); err != nil {
		return err
	}
	if factor == 1 {
		return nil
	}
	mean := int(r.Mean() + 0.5)
	r.blend(mean, factor)
	return nil
}

// blend moves every pixel from degenerate toward (or past) its own value:
// out = d + alpha*(v-d), truncated and clamped to [0,255].
// Arithmetic is float32 so results match the usual 8-bit enhancer output.
func (r *Raster) blend(degenerate int, factor float64) {
	alpha := float32(factor)
	d := float32(degenerate)
	for i, v := range r.pixels {
		out := d + alpha*(float32(v)-d)
		switch {
		case out <= 0:
			r.pixels[i] = 0
		case out >= 255:
			r.pixels[i] = 255
		default:
			r.pixels[i] = uint8(out)
		}
	}
}

func validateFactor(name string, factor float64) error {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return errors.NewInvalidParameter(fmt.Sprintf("%s must be a positive number, got %v", name, factor))
	}
	return nil
}
