package ui

import (
	"github.com/go-gl/mathgl/mgl64"

	"terrasculpt/internal/terrain"
)

// terrainProvider is implemented by sims that expose a heightfield and the
// river paths carved into it.
type terrainProvider interface {
	Grid() *terrain.HeightGrid
	Paths() []terrain.Path
}

type erosionProvider interface {
	LastErosion() *terrain.ErosionField
}

// screenPoint maps a grid-plane point to the centre of its vertex pixel.
func screenPoint(p mgl64.Vec2, tileSize float64, scale int) (float64, float64) {
	s := float64(max(scale, 1))
	return (p[0]/tileSize + 0.5) * s, (p[1]/tileSize + 0.5) * s
}

// erosionIntensity normalises per-vertex erosion to [0, 1] against the
// largest value in the field.
func erosionIntensity(f *terrain.ErosionField, total int) []float32 {
	out := make([]float32, total)
	if f == nil || len(f.Erosion) != total {
		return out
	}
	peak := 0.0
	for _, e := range f.Erosion {
		peak = max(peak, e)
	}
	if peak <= 0 {
		return out
	}
	for i, e := range f.Erosion {
		out[i] = float32(e / peak)
	}
	return out
}

// dirtyMask marks vertices changed since the last upload.
func dirtyMask(g *terrain.HeightGrid) []uint8 {
	out := make([]uint8, g.VertexCount())
	for _, i := range g.DirtyIndices() {
		out[i] = 1
	}
	return out
}
