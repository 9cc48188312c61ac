package convert

import (
	"math"
	"strings"
	"testing"

	"github.com/hpungsan/aas/internal/errors"
	"github.com/hpungsan/aas/internal/raster"
)

func TestRamp(t *testing.T) {
	if Levels != 10 {
		t.Fatalf("Levels = %d, want 10", Levels)
	}
	if Ramp[0] != '@' || Ramp[Levels-1] != ' ' {
		t.Errorf("Ramp = %q, want densest '@' first and space last", Ramp)
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		v    uint8
		want byte
	}{
		{0, '@'},
		{25, '@'},
		{26, '%'},
		{128, '='},
		{229, '.'},
		{230, ' '},
		{255, ' '},
	}
	for _, tt := range tests {
		if got := Quantize(tt.v); got != tt.want {
			t.Errorf("Quantize(%d) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestQuantize_Monotonic(t *testing.T) {
	prev := Index(0)
	for v := 1; v <= 255; v++ {
		idx := Index(uint8(v))
		if idx < prev {
			t.Fatalf("Index(%d) = %d < Index(%d) = %d", v, idx, v-1, prev)
		}
		if idx < 0 || idx >= Levels {
			t.Fatalf("Index(%d) = %d out of range", v, idx)
		}
		prev = idx
	}
}

func TestInferDimensions(t *testing.T) {
	tests := []struct {
		name         string
		srcW, srcH   int
		tw, th       int
		wantW, wantH int
	}{
		{"square width only", 100, 100, 50, 0, 50, 30},
		{"landscape width only", 200, 100, 50, 0, 50, 15},
		{"portrait width only", 100, 200, 50, 0, 50, 60},
		{"height only skips correction", 200, 100, 0, 30, 60, 30},
		{"square height only", 100, 100, 0, 30, 30, 30},
		{"both set verbatim", 100, 100, 7, 9, 7, 9},
		{"tiny derived height clamps to one", 1000, 1, 10, 0, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := InferDimensions(tt.srcW, tt.srcH, tt.tw, tt.th)
			if err != nil {
				t.Fatalf("InferDimensions failed: %v", err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("InferDimensions = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestInferDimensions_WidthOnlyFormula(t *testing.T) {
	const srcW, srcH = 640, 427
	aspect := float64(srcH) / float64(srcW)
	for w := 1; w <= 300; w++ {
		_, h, err := InferDimensions(srcW, srcH, w, 0)
		if err != nil {
			t.Fatalf("InferDimensions(%d) failed: %v", w, err)
		}
		want := int(math.RoundToEven(float64(w) * aspect * CorrectionFactor))
		if want < 1 {
			want = 1
		}
		if h != want {
			t.Fatalf("width %d: height = %d, want %d", w, h, want)
		}
	}
}

func TestInferDimensions_BankersRounding(t *testing.T) {
	// 5 / 2.0 = 2.5 rounds to 2.
	w, _, err := InferDimensions(10, 20, 0, 5)
	if err != nil {
		t.Fatalf("InferDimensions failed: %v", err)
	}
	if w != 2 {
		t.Errorf("width = %d, want 2 (half rounds to even)", w)
	}
}

func TestInferDimensions_Errors(t *testing.T) {
	if _, _, err := InferDimensions(10, 10, 0, 0); !errors.Is(err, errors.ErrInvalidParameter) {
		t.Errorf("both unset: error = %v, want INVALID_PARAMETER", err)
	}
	if _, _, err := InferDimensions(10, 10, -3, 0); !errors.Is(err, errors.ErrInvalidParameter) {
		t.Errorf("negative: error = %v, want INVALID_PARAMETER", err)
	}
	if _, _, err := InferDimensions(0, 10, 5, 0); !errors.Is(err, errors.ErrInvalidDimension) {
		t.Errorf("empty source: error = %v, want INVALID_DIMENSION", err)
	}
}

func TestConvert_UniformMidGray(t *testing.T) {
	src, err := raster.Uniform(100, 100, 128)
	if err != nil {
		t.Fatalf("Uniform failed: %v", err)
	}
	w, h, err := InferDimensions(src.Width(), src.Height(), 50, 0)
	if err != nil {
		t.Fatalf("InferDimensions failed: %v", err)
	}
	if w != 50 || h != 30 {
		t.Fatalf("dimensions = %dx%d, want 50x30", w, h)
	}

	grid, err := Convert(src, w, h, raster.FilterCatmullRom)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if grid.Height() != 30 || grid.Width() != 50 {
		t.Fatalf("grid = %dx%d, want 50x30", grid.Width(), grid.Height())
	}
	want := strings.Repeat("=", 50)
	for i, row := range grid {
		if row != want {
			t.Fatalf("row %d = %q, want all '='", i, row)
		}
	}
}

func TestConvert_Polarity(t *testing.T) {
	src, _ := raster.New(2, 1, []uint8{0, 255})
	grid, err := Convert(src, 2, 1, raster.FilterNearest)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if grid[0] != "@ " {
		t.Errorf("grid = %q, want %q", grid[0], "@ ")
	}
}

func TestConvert_Idempotent(t *testing.T) {
	p := make([]uint8, 64*32)
	for i := range p {
		p[i] = uint8(i * 7)
	}
	src, _ := raster.New(64, 32, p)

	a, err := Convert(src, 20, 6, raster.FilterCatmullRom)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	b, err := Convert(src, 20, 6, raster.FilterCatmullRom)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !a.Equal(b) || a.String() != b.String() {
		t.Error("Convert is not idempotent")
	}
}

func TestConvert_InvalidDimension(t *testing.T) {
	src, _ := raster.Uniform(4, 4, 0)
	if _, err := Convert(src, 0, 4, raster.FilterNearest); !errors.Is(err, errors.ErrInvalidDimension) {
		t.Errorf("error = %v, want INVALID_DIMENSION", err)
	}
}

func TestGrid_String(t *testing.T) {
	g := Grid{"ab", "cd"}
	if g.String() != "ab\ncd" {
		t.Errorf("String() = %q", g.String())
	}
	if (Grid{}).Width() != 0 {
		t.Error("empty grid width should be 0")
	}
}
