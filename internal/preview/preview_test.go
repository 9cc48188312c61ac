package preview

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/aas/internal/convert"
	"github.com/hpungsan/aas/internal/errors"
)

func TestRender_Size(t *testing.T) {
	img, err := Render(convert.Grid{"@@@", "@ @"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 3*CellWidth || b.Dy() != 2*CellHeight {
		t.Errorf("bounds = %v, want %dx%d", b, 3*CellWidth, 2*CellHeight)
	}
}

func TestRender_BlankIsWhite(t *testing.T) {
	img, err := Render(convert.Grid{"  ", "  "})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for _, p := range img.Pix {
		if p != 0xff {
			t.Fatalf("found non-white pixel %d in blank grid", p)
		}
	}
}

func TestRender_GlyphsDrawInk(t *testing.T) {
	img, err := Render(convert.Grid{"@"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	dark := 0
	for _, p := range img.Pix {
		if p < 0x80 {
			dark++
		}
	}
	if dark == 0 {
		t.Error("'@' produced no dark pixels")
	}
}

func TestRender_Empty(t *testing.T) {
	if _, err := Render(convert.Grid{}); !errors.Is(err, errors.ErrInvalidDimension) {
		t.Errorf("error = %v, want INVALID_DIMENSION", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "art.png")

	if err := WriteFile(path, convert.Grid{"=#", "#="}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("not a PNG: %v", err)
	}
	if cfg.Width != 2*CellWidth || cfg.Height != 2*CellHeight {
		t.Errorf("png = %dx%d", cfg.Width, cfg.Height)
	}

	if err := WriteFile(filepath.Join(dir, "art.txt"), convert.Grid{"="}); !errors.Is(err, errors.ErrInvalidParameter) {
		t.Errorf("error = %v, want INVALID_PARAMETER", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want only art.png", len(entries))
	}
}
