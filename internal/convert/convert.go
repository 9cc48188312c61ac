// Package convert turns rasters into character grids.
//
// Cells are quantized against a fixed ten-step ramp running from the densest
// glyph (black) to a space (white). Target dimensions are derived from the
// source aspect ratio, with a correction for character cells being taller
// than they are wide.
package convert

import (
	"fmt"
	"math"
	"strings"

	"github.com/hpungsan/aas/internal/errors"
	"github.com/hpungsan/aas/internal/raster"
)

// Ramp is ordered densest to lightest.
const Ramp = "@%#*+=-:. "

// Levels is the number of glyphs in Ramp.
const Levels = len(Ramp)

// CorrectionFactor compensates for glyphs being taller than wide.
const CorrectionFactor = 0.6

// Grid is a rendered image: one string per row, top to bottom.
type Grid []string

// Width returns the number of columns, or 0 for an empty grid.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Height returns the number of rows.
func (g Grid) Height() int { return len(g) }

// String joins rows with newlines.
func (g Grid) String() string { return strings.Join(g, "\n") }

// Equal reports whether both grids hold identical rows.
func (g Grid) Equal(o Grid) bool {
	if len(g) != len(o) {
		return false
	}
	for i := range g {
		if g[i] != o[i] {
			return false
		}
	}
	return true
}

// Index maps an intensity to its ramp position: min(floor(v/255*Levels), Levels-1).
func Index(v uint8) int {
	idx := int(float64(v) / 255 * float64(Levels))
	if idx > Levels-1 {
		idx = Levels - 1
	}
	return idx
}

// Quantize returns the glyph for intensity v.
func Quantize(v uint8) byte {
	return Ramp[Index(v)]
}

// InferDimensions fills in whichever target dimension is unset (0).
//
// Height from width applies CorrectionFactor; width from height does not.
// The two paths are deliberately not symmetric.
func InferDimensions(srcWidth, srcHeight, targetWidth, targetHeight int) (int, int, error) {
	if srcWidth <= 0 || srcHeight <= 0 {
		return 0, 0, errors.NewInvalidDimension(srcWidth, srcHeight)
	}
	if targetWidth < 0 || targetHeight < 0 {
		return 0, 0, errors.NewInvalidParameter(
			fmt.Sprintf("target dimensions must not be negative: %dx%d", targetWidth, targetHeight))
	}

	aspectRatio := float64(srcHeight) / float64(srcWidth)

	switch {
	case targetWidth > 0 && targetHeight > 0:
		return targetWidth, targetHeight, nil
	case targetWidth > 0:
		h := math.RoundToEven(float64(targetWidth) * aspectRatio * CorrectionFactor)
		return targetWidth, atLeastOne(h), nil
	case targetHeight > 0:
		w := math.RoundToEven(float64(targetHeight) / aspectRatio)
		return atLeastOne(w), targetHeight, nil
	default:
		return 0, 0, errors.NewInvalidParameter("target width or height must be set")
	}
}

// atLeastOne keeps derived dimensions resample-safe for extreme aspect ratios.
func atLeastOne(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}

// Convert resamples src to width x height and quantizes every cell.
// Identical inputs always produce an identical Grid.
func Convert(src *raster.Raster, width, height int, filter raster.Filter) (Grid, error) {
	resized, err := src.Resample(width, height, filter)
	if err != nil {
		return nil, err
	}

	grid := make(Grid, height)
	row := make([]byte, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			row[x] = Quantize(resized.At(x, y))
		}
		grid[y] = string(row)
	}
	return grid, nil
}
