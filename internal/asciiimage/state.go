package asciiimage

import (
	"fmt"

	"github.com/hpungsan/aas/internal/errors"
	"github.com/hpungsan/aas/internal/raster"
)

// State is everything needed to rebuild an Image elsewhere.
// Source holds the raster as already adjusted, so levels are not reapplied.
type State struct {
	Filename     string
	Alias        string
	TargetWidth  int
	TargetHeight int
	Brightness   float64
	Contrast     float64
	Source       *raster.Raster
}

// State returns a deep copy of the image's persistent state.
func (img *Image) State() State {
	return State{
		Filename:     img.filename,
		Alias:        img.alias,
		TargetWidth:  img.targetWidth,
		TargetHeight: img.targetHeight,
		Brightness:   img.brightness,
		Contrast:     img.contrast,
		Source:       img.source.Clone(),
	}
}

// Restore rebuilds an Image from s and renders its grid.
func Restore(s State, filter raster.Filter) (*Image, error) {
	if s.Source == nil {
		return nil, errors.NewDecode(s.Filename, fmt.Errorf("state has no raster"))
	}
	if s.TargetWidth <= 0 || s.TargetHeight <= 0 {
		return nil, errors.NewInvalidDimension(s.TargetWidth, s.TargetHeight)
	}
	if s.Brightness <= 0 || s.Contrast <= 0 {
		return nil, errors.NewInvalidParameter(
			fmt.Sprintf("brightness and contrast must be positive, got %v and %v", s.Brightness, s.Contrast))
	}

	img := &Image{
		filename:     s.Filename,
		alias:        s.Alias,
		source:       s.Source.Clone(),
		filter:       filter,
		targetWidth:  s.TargetWidth,
		targetHeight: s.TargetHeight,
		brightness:   s.Brightness,
		contrast:     s.Contrast,
	}
	if _, err := img.Render(); err != nil {
		return nil, err
	}
	return img, nil
}
