package terrain

import "github.com/go-gl/mathgl/mgl64"

// Mesh is the neutral mesh-section payload handed to a rendering layer.
type Mesh struct {
	Vertices  []mgl64.Vec3
	Triangles []int32
	Normals   []mgl64.Vec3
	UVs       []mgl64.Vec2
	Tangents  []mgl64.Vec3
	// Dirty lists vertices changed since the previous upload. Sinks may
	// ignore it and re-upload everything.
	Dirty []int
}

// Sink accepts mesh uploads.
type Sink interface {
	Upload(m Mesh) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(m Mesh) error

// Upload calls f(m).
func (f SinkFunc) Upload(m Mesh) error { return f(m) }

// Triangulate emits two triangles per cell, (i0,i2,i1) and (i1,i2,i3), in
// row-major cell order. The winding fixes the face normal direction and must
// not change.
func (g *HeightGrid) Triangulate() []int32 {
	if g.Width <= 0 || g.Height <= 0 || len(g.heights) == 0 {
		return nil
	}
	stride := g.Width + 1
	tris := make([]int32, 0, g.Width*g.Height*6)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			i0 := int32(y*stride + x)
			i1 := i0 + 1
			i2 := i0 + int32(stride)
			i3 := i2 + 1
			tris = append(tris, i0, i2, i1, i1, i2, i3)
		}
	}
	return tris
}

// UVs maps vertex (x, y) to (x/Width, y/Height).
func (g *HeightGrid) UVs() []mgl64.Vec2 {
	uvs := make([]mgl64.Vec2, len(g.heights))
	for i := range uvs {
		x, y := g.lat.Coords(i)
		uvs[i] = mgl64.Vec2{float64(x) / float64(g.Width), float64(y) / float64(g.Height)}
	}
	return uvs
}

// slope returns the height gradient at vertex (x, y) using central
// differences, one-sided at the borders.
func (g *HeightGrid) slope(x, y int) (float64, float64) {
	xl, xr := max(x-1, 0), min(x+1, g.lat.W-1)
	yd, yu := max(y-1, 0), min(y+1, g.lat.H-1)
	var dzdx, dzdy float64
	if xr != xl {
		dzdx = (g.heights[g.lat.Index(xr, y)] - g.heights[g.lat.Index(xl, y)]) / (float64(xr-xl) * g.TileSize)
	}
	if yu != yd {
		dzdy = (g.heights[g.lat.Index(x, yu)] - g.heights[g.lat.Index(x, yd)]) / (float64(yu-yd) * g.TileSize)
	}
	return dzdx, dzdy
}

// Normals returns unit surface normals (+Z up on flat ground).
func (g *HeightGrid) Normals() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(g.heights))
	for i := range out {
		x, y := g.lat.Coords(i)
		dzdx, dzdy := g.slope(x, y)
		out[i] = mgl64.Vec3{-dzdx, -dzdy, 1}.Normalize()
	}
	return out
}

// Tangents returns unit tangents along the +X surface direction.
func (g *HeightGrid) Tangents() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(g.heights))
	for i := range out {
		x, y := g.lat.Coords(i)
		dzdx, _ := g.slope(x, y)
		out[i] = mgl64.Vec3{1, 0, dzdx}.Normalize()
	}
	return out
}

// BuildMesh assembles the full mesh section, including the current dirty set.
func (g *HeightGrid) BuildMesh() Mesh {
	return Mesh{
		Vertices:  g.Positions(),
		Triangles: g.Triangulate(),
		Normals:   g.Normals(),
		UVs:       g.UVs(),
		Tangents:  g.Tangents(),
		Dirty:     g.DirtyIndices(),
	}
}
