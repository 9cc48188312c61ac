// Package studio manages a registry of converted images keyed by alias or
// filename, with a single "current" selection used when a caller omits a key.
//
// A Studio is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
package studio

import (
	"fmt"
	"slices"

	"github.com/hpungsan/aas/internal/asciiimage"
	"github.com/hpungsan/aas/internal/errors"
	"github.com/hpungsan/aas/internal/raster"
)

// DefaultWidth is the column count used when neither dimension is given.
const DefaultWidth = 50

// Decoder produces a raster for a file path.
type Decoder interface {
	DecodeFile(path string) (*raster.Raster, error)
}

// DecoderFunc adapts a plain function to Decoder.
type DecoderFunc func(path string) (*raster.Raster, error)

// DecodeFile calls f(path).
func (f DecoderFunc) DecodeFile(path string) (*raster.Raster, error) { return f(path) }

// Codec serializes a whole studio. Decode must return a fresh Studio.
type Codec interface {
	Encode(s *Studio) ([]byte, error)
	Decode(data []byte) (*Studio, error)
}

// Studio holds images in insertion order plus the current key.
type Studio struct {
	images  map[string]*asciiimage.Image
	order   []string
	current string
	filter  raster.Filter
}

// Option configures a Studio.
type Option func(*Studio)

// WithFilter sets the resampling filter for images added to the studio.
func WithFilter(f raster.Filter) Option {
	return func(s *Studio) { s.filter = f }
}

// New returns an empty studio.
func New(opts ...Option) *Studio {
	s := &Studio{
		images: make(map[string]*asciiimage.Image),
		filter: raster.DefaultFilter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Filter returns the resampling filter used for new images.
func (s *Studio) Filter() raster.Filter { return s.filter }

// AddInput describes an image to load.
type AddInput struct {
	Filename     string
	Alias        string
	TargetWidth  int
	TargetHeight int
}

// Key returns the identity key the input would be stored under.
func (in AddInput) Key() string {
	if in.Alias != "" {
		return in.Alias
	}
	return in.Filename
}

// AddResult is returned by Add.
type AddResult struct {
	Key  string
	Info asciiimage.Info
}

// Add decodes and inserts a new image, making it current.
//
// A colliding key returns ALREADY_EXISTS and leaves the existing entry and
// the current selection alone. A decode failure leaves the studio unchanged.
func (s *Studio) Add(in AddInput, dec Decoder) (*AddResult, error) {
	if in.Filename == "" {
		return nil, errors.NewInvalidParameter("filename is required")
	}
	key := in.Key()
	if _, ok := s.images[key]; ok {
		return nil, errors.NewAlreadyExists(key)
	}

	if in.TargetWidth == 0 && in.TargetHeight == 0 {
		in.TargetWidth = DefaultWidth
	}

	src, err := dec.DecodeFile(in.Filename)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.NewDecode(in.Filename, err)
	}

	img, err := asciiimage.New(src, asciiimage.Options{
		Filename:     in.Filename,
		Alias:        in.Alias,
		TargetWidth:  in.TargetWidth,
		TargetHeight: in.TargetHeight,
		Filter:       s.filter,
	})
	if err != nil {
		return nil, err
	}

	s.insert(key, img)
	s.current = key
	return &AddResult{Key: key, Info: img.Info()}, nil
}

func (s *Studio) insert(key string, img *asciiimage.Image) {
	s.images[key] = img
	s.order = append(s.order, key)
}

// Get returns the image stored under key.
func (s *Studio) Get(key string) (*asciiimage.Image, bool) {
	img, ok := s.images[key]
	return img, ok
}

// Len returns the number of images.
func (s *Studio) Len() int { return len(s.images) }

// Keys returns image keys in insertion order.
func (s *Studio) Keys() []string { return slices.Clone(s.order) }

// Current returns the current key, or "" when nothing is selected.
func (s *Studio) Current() string { return s.current }

// Images returns the stored images in insertion order.
func (s *Studio) Images() []*asciiimage.Image {
	out := make([]*asciiimage.Image, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.images[k])
	}
	return out
}

// Remove deletes the image under key, clearing current if it pointed there.
func (s *Studio) Remove(key string) error {
	if _, ok := s.images[key]; !ok {
		return errors.NewNotFound(key)
	}
	delete(s.images, key)
	s.order = slices.DeleteFunc(s.order, func(k string) bool { return k == key })
	if s.current == key {
		s.current = ""
	}
	return nil
}

// Restore builds a studio from previously exported images.
// current must be "" or one of the image keys.
func Restore(images []*asciiimage.Image, current string, opts ...Option) (*Studio, error) {
	s := New(opts...)
	for _, img := range images {
		key := img.Key()
		if key == "" {
			return nil, errors.NewInvalidParameter("image has no filename or alias")
		}
		if _, ok := s.images[key]; ok {
			return nil, errors.NewAlreadyExists(key)
		}
		s.insert(key, img)
	}
	if current != "" {
		if _, ok := s.images[current]; !ok {
			return nil, errors.NewInvalidParameter(fmt.Sprintf("current image %q is not in the session", current))
		}
	}
	s.current = current
	return s, nil
}

// ExportState serializes the studio with c.
func (s *Studio) ExportState(c Codec) ([]byte, error) {
	return c.Encode(s)
}

// ImportState decodes data with c into a new studio. The receiver is not
// modified; callers replace their studio with the result.
func (s *Studio) ImportState(c Codec, data []byte) (*Studio, error) {
	return c.Decode(data)
}
