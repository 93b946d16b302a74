package render

import (
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestFillPaletteRGBAShadesAndClamps(t *testing.T) {
	palette := []color.RGBA{
		{R: 200, G: 100, B: 50, A: 255},
		{R: 10, G: 20, B: 30, A: 128},
	}
	cells := []uint8{0, 1, 7}
	buf := make([]byte, 4*len(cells))
	FillPaletteRGBA(buf, cells, palette, []float64{0.5, 1})

	want := []byte{
		100, 50, 25, 255,
		10, 20, 30, 128,
		10, 20, 30, 128, // out of range clamps to last entry, unshaded
	}
	if !slices.Equal(buf, want) {
		t.Fatalf("buf = %v, want %v", buf, want)
	}
}

func TestFillPaletteRGBAEmptyPaletteClears(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	FillPaletteRGBA(buf, []uint8{3, 4}, nil, nil)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("buf[%d] = %d, want 0", i, b)
		}
	}
}

func TestFillMaskRGBA(t *testing.T) {
	buf := make([]byte, 8)
	FillMaskRGBA(buf, []uint8{0, 1}, color.RGBA{R: 255, A: 255}, color.Transparent)
	if !slices.Equal(buf, []byte{0, 0, 0, 0, 255, 0, 0, 255}) {
		t.Fatalf("buf = %v", buf)
	}
}

func TestHillshade(t *testing.T) {
	up := mgl64.Vec3{0, 0, 1}
	away := DefaultLight.Mul(-1)
	shade := Hillshade([]mgl64.Vec3{DefaultLight, away, up}, DefaultLight)
	if math.Abs(shade[0]-1) > 1e-9 {
		t.Fatalf("facing light = %v, want 1", shade[0])
	}
	if shade[1] != Ambient {
		t.Fatalf("facing away = %v, want ambient", shade[1])
	}
	if !(shade[2] > Ambient && shade[2] < 1) {
		t.Fatalf("flat shade = %v", shade[2])
	}
}
