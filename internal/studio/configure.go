package studio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hpungsan/aas/internal/asciiimage"
	"github.com/hpungsan/aas/internal/errors"
)

// Property names a configurable image setting.
type Property string

const (
	PropWidth      Property = "width"
	PropHeight     Property = "height"
	PropBrightness Property = "brightness"
	PropContrast   Property = "contrast"
)

// Properties lists every settable property.
var Properties = []Property{PropWidth, PropHeight, PropBrightness, PropContrast}

// ParseProperty maps a user-supplied name to a Property.
func ParseProperty(s string) (Property, error) {
	p := Property(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PropWidth, PropHeight, PropBrightness, PropContrast:
		return p, nil
	}
	return "", errors.NewInvalidParameter(
		fmt.Sprintf("unknown property %q (expected width, height, brightness or contrast)", s))
}

// Configure parses value for p and applies it to the image under key.
// On success that image becomes current.
func (s *Studio) Configure(key string, p Property, value string) error {
	switch p {
	case PropWidth, PropHeight:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return errors.NewInvalidParameter(fmt.Sprintf("%s must be an integer, got %q", p, value))
		}
		if p == PropWidth {
			return s.SetWidth(key, n)
		}
		return s.SetHeight(key, n)
	case PropBrightness, PropContrast:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return errors.NewInvalidParameter(fmt.Sprintf("%s must be a number, got %q", p, value))
		}
		if p == PropBrightness {
			return s.SetBrightness(key, f)
		}
		return s.SetContrast(key, f)
	default:
		_, err := ParseProperty(string(p))
		return err
	}
}

// SetWidth resizes the image under key by column count.
func (s *Studio) SetWidth(key string, width int) error {
	return s.mutate(key, func(img *asciiimage.Image) error { return img.SetWidth(width) })
}

// SetHeight resizes the image under key by row count.
func (s *Studio) SetHeight(key string, height int) error {
	return s.mutate(key, func(img *asciiimage.Image) error { return img.SetHeight(height) })
}

// SetBrightness adjusts brightness of the image under key.
func (s *Studio) SetBrightness(key string, level float64) error {
	return s.mutate(key, func(img *asciiimage.Image) error { return img.SetBrightness(level) })
}

// SetContrast adjusts contrast of the image under key.
func (s *Studio) SetContrast(key string, level float64) error {
	return s.mutate(key, func(img *asciiimage.Image) error { return img.SetContrast(level) })
}

func (s *Studio) mutate(key string, fn func(*asciiimage.Image) error) error {
	img, ok := s.images[key]
	if !ok {
		return errors.NewNotFound(key)
	}
	if err := fn(img); err != nil {
		return err
	}
	s.current = key
	return nil
}

// RenderResult is returned by Render.
type RenderResult struct {
	Key  string
	Rows []string
}

// Text joins the rendered rows with newlines.
func (r *RenderResult) Text() string { return strings.Join(r.Rows, "\n") }

// Render regenerates and returns the grid of the image under key. An empty
// or unknown key falls back to the current image; with no current image the
// result is NO_CURRENT_IMAGE. The rendered image becomes current.
func (s *Studio) Render(key string) (*RenderResult, error) {
	img, ok := s.images[key]
	if !ok {
		if s.current == "" {
			return nil, errors.NewNoCurrentImage()
		}
		key = s.current
		img = s.images[key]
	}

	rows, err := img.Render()
	if err != nil {
		return nil, err
	}
	s.current = key
	return &RenderResult{Key: key, Rows: rows}, nil
}

// Snapshot is a read-only view of the studio.
type Snapshot struct {
	Current *asciiimage.Info  `json:"current"`
	Images  []asciiimage.Info `json:"images"`
}

// ListInfo describes the current image and every stored image in insertion order.
func (s *Studio) ListInfo() Snapshot {
	snap := Snapshot{Images: make([]asciiimage.Info, 0, len(s.order))}
	for _, k := range s.order {
		info := s.images[k].Info()
		snap.Images = append(snap.Images, info)
		if k == s.current {
			cur := info
			snap.Current = &cur
		}
	}
	return snap
}
