// Package terrain owns the heightfield of a generated map and the operations
// that reshape it: river carving, sculpting and hydraulic erosion.
package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"terrasculpt/internal/core"
)

// Sampler produces a normalised height in [0, 1] for a vertex coordinate.
// *noise.Field satisfies it.
type Sampler interface {
	Sample(x, y float64) float64
}

// HeightGrid is a (Width+1)×(Height+1) lattice of vertex heights in
// row-major order. Vertex (x, y) sits at local position
// (x*TileSize, y*TileSize, height).
type HeightGrid struct {
	Width    int
	Height   int
	TileSize float64

	lat     core.Lattice
	heights []float64
	base    []float64
	dirty   []bool
}

// NewHeightGrid allocates a flat grid of width×height cells.
func NewHeightGrid(width, height int, tileSize float64) (*HeightGrid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: grid must be at least 1x1 cells, got %dx%d", ErrInvalidParameter, width, height)
	}
	if !(tileSize > 0) {
		return nil, fmt.Errorf("%w: tile size must be > 0, got %g", ErrInvalidParameter, tileSize)
	}
	lat := core.NewLattice(width+1, height+1)
	return &HeightGrid{
		Width:    width,
		Height:   height,
		TileSize: tileSize,
		lat:      lat,
		heights:  make([]float64, lat.Len()),
		base:     make([]float64, lat.Len()),
		dirty:    make([]bool, lat.Len()),
	}, nil
}

// Initialize allocates a grid and fills it from field.
func Initialize(width, height int, tileSize float64, field Sampler, heightMultiplier float64) (*HeightGrid, error) {
	g, err := NewHeightGrid(width, height, tileSize)
	if err != nil {
		return nil, err
	}
	g.Fill(field, heightMultiplier)
	g.ClearDirty()
	return g, nil
}

// Fill sets every vertex to field.Sample(x, y)*heightMultiplier and records
// the result as the displacement baseline. Vertices whose height changed are
// marked dirty; only an upload clears them.
func (g *HeightGrid) Fill(field Sampler, heightMultiplier float64) {
	for y := 0; y < g.lat.H; y++ {
		for x := 0; x < g.lat.W; x++ {
			i := g.lat.Index(x, y)
			g.set(i, field.Sample(float64(x), float64(y))*heightMultiplier)
		}
	}
	copy(g.base, g.heights)
}

// Lattice exposes the vertex lattice dimensions.
func (g *HeightGrid) Lattice() core.Lattice { return g.lat }

// VertexCount returns the number of vertices, (Width+1)*(Height+1).
func (g *HeightGrid) VertexCount() int { return len(g.heights) }

// Heights exposes the backing height slice. Writes through it bypass dirty
// tracking.
func (g *HeightGrid) Heights() []float64 { return g.heights }

// Index returns the vertex index of (x, y).
func (g *HeightGrid) Index(x, y int) (int, bool) {
	if !g.lat.InBounds(x, y) {
		return 0, false
	}
	return g.lat.Index(x, y), true
}

// Coords returns the lattice coordinates of vertex i.
func (g *HeightGrid) Coords(i int) (int, int) { return g.lat.Coords(i) }

// Position returns the local-space position of vertex i.
func (g *HeightGrid) Position(i int) mgl64.Vec3 {
	x, y := g.lat.Coords(i)
	return mgl64.Vec3{float64(x) * g.TileSize, float64(y) * g.TileSize, g.heights[i]}
}

// Positions returns the local-space positions of every vertex.
func (g *HeightGrid) Positions() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(g.heights))
	for i := range out {
		out[i] = g.Position(i)
	}
	return out
}

func (g *HeightGrid) planar(i int) mgl64.Vec2 {
	x, y := g.lat.Coords(i)
	return mgl64.Vec2{float64(x) * g.TileSize, float64(y) * g.TileSize}
}

// SetHeight overwrites the height of vertex i.
func (g *HeightGrid) SetHeight(i int, z float64) error {
	if !g.lat.Valid(i) {
		return fmt.Errorf("%w: vertex %d of %d", ErrOutOfBounds, i, len(g.heights))
	}
	g.set(i, z)
	return nil
}

func (g *HeightGrid) set(i int, z float64) {
	if g.heights[i] != z {
		g.heights[i] = z
		g.dirty[i] = true
	}
}

// HeightAt returns the bilinearly interpolated height at a local point.
// Vertices report their exact height.
func (g *HeightGrid) HeightAt(worldX, worldY float64) (float64, error) {
	return g.sample(g.heights, worldX, worldY)
}

// Displacement returns how far vertex i has moved from its generated height.
// Negative values mean the terrain was carved or eroded.
func (g *HeightGrid) Displacement(i int) float64 {
	if !g.lat.Valid(i) {
		return 0
	}
	return g.heights[i] - g.base[i]
}

// DisplacementAt interpolates Displacement at a local point.
func (g *HeightGrid) DisplacementAt(worldX, worldY float64) (float64, error) {
	h, err := g.sample(g.heights, worldX, worldY)
	if err != nil {
		return 0, err
	}
	b, err := g.sample(g.base, worldX, worldY)
	if err != nil {
		return 0, err
	}
	return h - b, nil
}

func (g *HeightGrid) sample(field []float64, worldX, worldY float64) (float64, error) {
	if len(field) == 0 {
		return 0, fmt.Errorf("%w: empty grid", ErrOutOfBounds)
	}
	fx := worldX / g.TileSize
	fy := worldY / g.TileSize
	if math.IsNaN(fx) || math.IsNaN(fy) || fx < 0 || fy < 0 || fx > float64(g.Width) || fy > float64(g.Height) {
		return 0, fmt.Errorf("%w: point (%g, %g)", ErrOutOfBounds, worldX, worldY)
	}
	x0 := min(int(fx), g.Width-1)
	y0 := min(int(fy), g.Height-1)
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	h00 := field[g.lat.Index(x0, y0)]
	h10 := field[g.lat.Index(x0+1, y0)]
	h01 := field[g.lat.Index(x0, y0+1)]
	h11 := field[g.lat.Index(x0+1, y0+1)]
	top := h00 + (h10-h00)*tx
	bottom := h01 + (h11-h01)*tx
	return top + (bottom-top)*ty, nil
}

// Dirty reports whether vertex i changed since the last ClearDirty.
func (g *HeightGrid) Dirty(i int) bool {
	return g.lat.Valid(i) && g.dirty[i]
}

// DirtyIndices lists changed vertices in ascending order.
func (g *HeightGrid) DirtyIndices() []int {
	var out []int
	for i, d := range g.dirty {
		if d {
			out = append(out, i)
		}
	}
	return out
}

// ClearDirty marks every vertex as uploaded.
func (g *HeightGrid) ClearDirty() {
	for i := range g.dirty {
		g.dirty[i] = false
	}
}

// Clone returns a deep copy of the grid.
func (g *HeightGrid) Clone() *HeightGrid {
	c := *g
	c.heights = append([]float64(nil), g.heights...)
	c.base = append([]float64(nil), g.base...)
	c.dirty = append([]bool(nil), g.dirty...)
	return &c
}
