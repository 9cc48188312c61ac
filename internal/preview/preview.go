// Package preview rasterizes a character grid into a PNG using the built-in
// 7x13 bitmap face, black glyphs on white.
package preview

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/hpungsan/aas/internal/convert"
	"github.com/hpungsan/aas/internal/errors"
)

// Cell dimensions of basicfont.Face7x13.
const (
	CellWidth  = 7
	CellHeight = 13
)

// Render draws grid with one CellWidth x CellHeight cell per character.
func Render(grid convert.Grid) (*image.Gray, error) {
	if grid.Width() == 0 || grid.Height() == 0 {
		return nil, errors.NewInvalidDimension(grid.Width(), grid.Height())
	}

	img := image.NewGray(image.Rect(0, 0, grid.Width()*CellWidth, grid.Height()*CellHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
	}
	ascent := face.Metrics().Ascent
	for y, row := range grid {
		d.Dot = fixed.Point26_6{
			X: 0,
			Y: fixed.I(y*CellHeight) + ascent,
		}
		d.DrawString(row)
	}
	return img, nil
}

// Encode writes grid to w as a PNG.
func Encode(w io.Writer, grid convert.Grid) error {
	img, err := Render(grid)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return errors.NewInternal(fmt.Errorf("encode png: %w", err))
	}
	return nil
}

// WriteFile encodes grid to path, which must end in .png.
// The file is written beside its destination and renamed into place.
func WriteFile(path string, grid convert.Grid) error {
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return errors.NewInvalidParameter("path must have .png extension")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".preview-*.png")
	if err != nil {
		return errors.NewInternal(fmt.Errorf("create preview file: %w", err))
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, grid); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.NewInternal(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.NewInternal(fmt.Errorf("finalize preview: %w", err))
	}
	return nil
}
