package ops

import (
	"strings"

	"github.com/hpungsan/aas/internal/asciiimage"
	"github.com/hpungsan/aas/internal/convert"
	"github.com/hpungsan/aas/internal/errors"
	"github.com/hpungsan/aas/internal/preview"
	"github.com/hpungsan/aas/internal/studio"
)

// LoadInput contains parameters for the Load operation.
type LoadInput struct {
	Path   string `json:"path"`
	Alias  string `json:"alias,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// LoadOutput contains the result of the Load operation.
type LoadOutput struct {
	Key  string          `json:"key"`
	Info asciiimage.Info `json:"info"`
}

// Load decodes an image into the studio and makes it current.
func (e *Env) Load(input LoadInput) (*LoadOutput, error) {
	input.Path = strings.TrimSpace(input.Path)
	input.Alias = strings.TrimSpace(input.Alias)
	if input.Path == "" {
		return nil, errors.NewInvalidParameter("path is required")
	}
	if input.Width < 0 || input.Height < 0 {
		return nil, errors.NewInvalidParameter("width and height must not be negative")
	}
	if input.Width == 0 && input.Height == 0 {
		input.Width = e.Config.DefaultWidth
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.studio.Add(studio.AddInput{
		Filename:     input.Path,
		Alias:        input.Alias,
		TargetWidth:  input.Width,
		TargetHeight: input.Height,
	}, e.Decoder)
	if err != nil {
		e.Logger.Debug("load failed", "path", input.Path, "alias", input.Alias, "error", err)
		return nil, err
	}

	e.Logger.Info("image loaded", "key", res.Key,
		"source", [2]int{res.Info.SourceWidth, res.Info.SourceHeight},
		"target", [2]int{res.Info.TargetWidth, res.Info.TargetHeight})
	return &LoadOutput{Key: res.Key, Info: res.Info}, nil
}

// SetInput contains parameters for the Set operation.
type SetInput struct {
	Key      string `json:"key"`
	Property string `json:"property"`
	Value    string `json:"value"`
}

// SetOutput contains the result of the Set operation.
type SetOutput struct {
	Info asciiimage.Info `json:"info"`
}

// Set changes one property of an image. The grid is regenerated on the next render.
func (e *Env) Set(input SetInput) (*SetOutput, error) {
	input.Key = strings.TrimSpace(input.Key)
	prop, err := studio.ParseProperty(input.Property)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.studio.Configure(input.Key, prop, input.Value); err != nil {
		return nil, err
	}
	img, _ := e.studio.Get(input.Key)

	e.Logger.Info("image configured", "key", input.Key, "property", prop, "value", input.Value)
	return &SetOutput{Info: img.Info()}, nil
}

// RenderInput contains parameters for the Render operation.
type RenderInput struct {
	Key string `json:"key,omitempty"`
}

// RenderOutput contains the result of the Render operation.
type RenderOutput struct {
	Key    string   `json:"key"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Rows   []string `json:"rows"`
	Text   string   `json:"text"`
}

// Render regenerates an image's grid. An empty or unknown key renders the current image.
func (e *Env) Render(input RenderInput) (*RenderOutput, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.studio.Render(strings.TrimSpace(input.Key))
	if err != nil {
		return nil, err
	}
	return newRenderOutput(res), nil
}

func newRenderOutput(res *studio.RenderResult) *RenderOutput {
	grid := convert.Grid(res.Rows)
	return &RenderOutput{
		Key:    res.Key,
		Width:  grid.Width(),
		Height: grid.Height(),
		Rows:   res.Rows,
		Text:   res.Text(),
	}
}

// InfoOutput contains the result of the Info operation.
type InfoOutput struct {
	Current *asciiimage.Info  `json:"current"`
	Images  []asciiimage.Info `json:"images"`
}

// Info describes the current image and every loaded image.
func (e *Env) Info() *InfoOutput {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.studio.ListInfo()
	return &InfoOutput{Current: snap.Current, Images: snap.Images}
}

// RenderPNGInput contains parameters for the RenderPNG operation.
type RenderPNGInput struct {
	Key  string `json:"key,omitempty"`
	Path string `json:"path"`
}

// RenderPNGOutput contains the result of the RenderPNG operation.
type RenderPNGOutput struct {
	Key         string `json:"key"`
	Path        string `json:"path"`
	PixelWidth  int    `json:"pixel_width"`
	PixelHeight int    `json:"pixel_height"`
}

// RenderPNG renders an image and writes the grid as a PNG preview.
func (e *Env) RenderPNG(input RenderPNGInput) (*RenderPNGOutput, error) {
	if strings.TrimSpace(input.Path) == "" {
		return nil, errors.NewInvalidParameter("path is required")
	}

	out, err := e.Render(RenderInput{Key: input.Key})
	if err != nil {
		return nil, err
	}
	if err := preview.WriteFile(input.Path, convert.Grid(out.Rows)); err != nil {
		return nil, err
	}

	e.Logger.Info("preview written", "key", out.Key, "path", input.Path)
	return &RenderPNGOutput{
		Key:         out.Key,
		Path:        input.Path,
		PixelWidth:  out.Width * preview.CellWidth,
		PixelHeight: out.Height * preview.CellHeight,
	}, nil
}

// View renders every loaded image without changing the current image.
func (e *Env) View() (*ViewSessionOutput, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := &ViewSessionOutput{
		Current: e.studio.Current(),
		Images:  make([]SessionImage, 0, e.studio.Len()),
	}
	for _, img := range e.studio.Images() {
		rows, err := img.Render()
		if err != nil {
			return nil, err
		}
		out.Images = append(out.Images, SessionImage{
			Info: img.Info(),
			Text: strings.Join(rows, "\n"),
		})
	}
	return out, nil
}
