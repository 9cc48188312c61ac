package raster

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"

	"github.com/hpungsan/aas/internal/errors"
)

// Filter selects the interpolation used by Resample.
type Filter string

const (
	// FilterCatmullRom is bicubic (a=-0.5). Default.
	FilterCatmullRom Filter = "catmullrom"

	// FilterBiLinear is full bilinear with proper downscale support.
	FilterBiLinear Filter = "bilinear"

	// FilterApproxBiLinear is faster and lower quality when shrinking.
	FilterApproxBiLinear Filter = "approxbilinear"

	// FilterNearest is nearest-neighbor.
	FilterNearest Filter = "nearest"
)

// DefaultFilter is used when no filter is configured.
const DefaultFilter = FilterCatmullRom

// Filters lists every accepted filter name.
var Filters = []Filter{FilterCatmullRom, FilterBiLinear, FilterApproxBiLinear, FilterNearest}

// ParseFilter maps a config name to a Filter. Empty means the default.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultFilter, nil
	}
	for _, f := range Filters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errors.NewInvalidParameter(fmt.Sprintf("unknown resample filter %q", s))
}

func (f Filter) interpolator() draw.Interpolator {
	switch f {
	case FilterBiLinear:
		return draw.BiLinear
	case FilterApproxBiLinear:
		return draw.ApproxBiLinear
	case FilterNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// Resample produces a new raster of exactly width x height.
// The receiver is not modified.
func (r *Raster) Resample(width, height int, filter Filter) (*Raster, error) {
	if err := checkDims(width, height); err != nil {
		return nil, err
	}
	if width == r.width && height == r.height {
		return r.Clone(), nil
	}

	src := &image.Gray{Pix: r.pixels, Stride: r.width, Rect: image.Rect(0, 0, r.width, r.height)}
	dst := image.NewGray(image.Rect(0, 0, width, height))
	filter.interpolator().Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return &Raster{width: width, height: height, pixels: dst.Pix}, nil
}
