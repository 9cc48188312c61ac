package asciiimage

import (
	"fmt"
	"math"

	"github.com/hpungsan/aas/internal/convert"
	"github.com/hpungsan/aas/internal/errors"
	"github.com/hpungsan/aas/internal/raster"
)

// Options configures a new Image.
type Options struct {
	// Filename is the path the source was decoded from
	Filename string

	// Alias is an optional short name; when set it is the registry key
	Alias string

	// TargetWidth is the requested column count (0 = derive from height)
	TargetWidth int

	// TargetHeight is the requested row count (0 = derive from width)
	TargetHeight int

	// Filter is the resampling filter used on every render
	Filter raster.Filter
}

// Image is one managed conversion unit: a raster it exclusively owns, the
// display configuration, and the last rendered grid.
type Image struct {
	filename string
	alias    string
	source   *raster.Raster
	filter   raster.Filter

	targetWidth  int
	targetHeight int

	// brightness and contrast record the last requested factor, not the
	// cumulative effect already applied to source.
	brightness float64
	contrast   float64

	grid  convert.Grid
	stale bool
}

// Info is a read-only snapshot of an Image's configuration.
type Info struct {
	Key          string  `json:"key"`
	Filename     string  `json:"filename"`
	Alias        string  `json:"alias,omitempty"`
	SourceWidth  int     `json:"source_width"`
	SourceHeight int     `json:"source_height"`
	TargetWidth  int     `json:"target_width"`
	TargetHeight int     `json:"target_height"`
	Brightness   float64 `json:"brightness"`
	Contrast     float64 `json:"contrast"`
	Stale        bool    `json:"stale"`
}

// New builds an Image from src and computes its initial grid.
func New(src *raster.Raster, opts Options) (*Image, error) {
	if src == nil {
		return nil, errors.NewDecode(opts.Filename, fmt.Errorf("no source raster"))
	}

	w, h, err := convert.InferDimensions(src.Width(), src.Height(), opts.TargetWidth, opts.TargetHeight)
	if err != nil {
		return nil, err
	}

	img := &Image{
		filename:     opts.Filename,
		alias:        opts.Alias,
		source:       src,
		filter:       opts.Filter,
		targetWidth:  w,
		targetHeight: h,
		brightness:   1.0,
		contrast:     1.0,
	}
	if _, err := img.Render(); err != nil {
		return nil, err
	}
	return img, nil
}

// Key returns the alias if set, otherwise the filename.
func (img *Image) Key() string {
	if img.alias != "" {
		return img.alias
	}
	return img.filename
}

func (img *Image) Filename() string    { return img.filename }
func (img *Image) Alias() string       { return img.alias }
func (img *Image) TargetWidth() int    { return img.targetWidth }
func (img *Image) TargetHeight() int   { return img.targetHeight }
func (img *Image) Brightness() float64 { return img.brightness }
func (img *Image) Contrast() float64   { return img.contrast }

// Stale reports whether configuration changed since the last Render.
func (img *Image) Stale() bool { return img.stale }

// Grid returns the cached grid, which may be stale.
func (img *Image) Grid() convert.Grid {
	out := make(convert.Grid, len(img.grid))
	copy(out, img.grid)
	return out
}

// SetWidth sets the column count and derives rows as
// round(aspect * width * CorrectionFactor). The grid is not regenerated.
func (img *Image) SetWidth(width int) error {
	if width <= 0 {
		return errors.NewInvalidParameter(fmt.Sprintf("width must be a positive integer, got %d", width))
	}
	h := math.RoundToEven(img.source.AspectRatio() * float64(width) * convert.CorrectionFactor)

	img.targetWidth = width
	img.targetHeight = max(int(h), 1)
	img.stale = true
	return nil
}

// SetHeight sets the row count and derives columns as
// round(height / aspect / CorrectionFactor). The grid is not regenerated.
func (img *Image) SetHeight(height int) error {
	if height <= 0 {
		return errors.NewInvalidParameter(fmt.Sprintf("height must be a positive integer, got %d", height))
	}
	w := math.RoundToEven(float64(height) / img.source.AspectRatio() / convert.CorrectionFactor)

	img.targetHeight = height
	img.targetWidth = max(int(w), 1)
	img.stale = true
	return nil
}

// SetBrightness applies level on top of the raster's current state and
// records it as the last requested brightness.
func (img *Image) SetBrightness(level float64) error {
	if err := img.source.ApplyBrightness(level); err != nil {
		return err
	}
	img.brightness = level
	img.stale = true
	return nil
}

// SetContrast applies level on top of the raster's current state and
// records it as the last requested contrast.
func (img *Image) SetContrast(level float64) error {
	if err := img.source.ApplyContrast(level); err != nil {
		return err
	}
	img.contrast = level
	img.stale = true
	return nil
}

// Render regenerates the grid from the current raster and dimensions.
func (img *Image) Render() ([]string, error) {
	grid, err := convert.Convert(img.source, img.targetWidth, img.targetHeight, img.filter)
	if err != nil {
		return nil, err
	}
	img.grid = grid
	img.stale = false
	return img.Grid(), nil
}

// Info returns a snapshot of the image configuration.
func (img *Image) Info() Info {
	return Info{
		Key:          img.Key(),
		Filename:     img.filename,
		Alias:        img.alias,
		SourceWidth:  img.source.Width(),
		SourceHeight: img.source.Height(),
		TargetWidth:  img.targetWidth,
		TargetHeight: img.targetHeight,
		Brightness:   img.brightness,
		Contrast:     img.contrast,
		Stale:        img.stale,
	}
}
