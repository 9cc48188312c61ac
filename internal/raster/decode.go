package raster

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/hpungsan/aas/internal/errors"
)

// Decoder turns encoded image files into grayscale rasters.
// Supports PNG, JPEG, GIF, BMP, TIFF and WebP.
type Decoder struct {
	// MaxPixels rejects sources larger than this many pixels. 0 means unlimited.
	MaxPixels int
}

// DecodeFile opens and decodes the image at path.
func (d Decoder) DecodeFile(path string) (*Raster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewDecode(path, err)
	}
	return d.decode(path, data)
}

// Decode reads an encoded image from r. name is only used in error messages.
func (d Decoder) Decode(r io.Reader, name string) (*Raster, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewDecode(name, err)
	}
	return d.decode(name, data)
}

func (d Decoder) decode(name string, data []byte) (*Raster, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewDecode(name, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.NewDecode(name, fmt.Errorf("empty image %dx%d", cfg.Width, cfg.Height))
	}
	if d.MaxPixels > 0 && cfg.Width*cfg.Height > d.MaxPixels {
		return nil, errors.NewDecode(name,
			fmt.Errorf("image is %dx%d, exceeds %d pixels", cfg.Width, cfg.Height, d.MaxPixels))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewDecode(name, err)
	}
	return FromImage(img), nil
}

// DecodeFile decodes path with no size limit.
func DecodeFile(path string) (*Raster, error) {
	return Decoder{}.DecodeFile(path)
}

// FromImage converts any image to a luminance raster.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if g, ok := img.(*image.Gray); ok && g.Stride == w && len(g.Pix) == w*h {
		p := make([]uint8, len(g.Pix))
		copy(p, g.Pix)
		return &Raster{width: w, height: h, pixels: p}
	}

	gray := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return &Raster{width: w, height: h, pixels: gray.Pix}
}
