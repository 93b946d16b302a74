// Package view3d turns terrain mesh uploads into renderable geometry. The
// raylib window lives behind the raylib build tag; the geometry side builds
// everywhere.
package view3d

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"terrasculpt/internal/terrain"
)

// Source supplies per-vertex display values and the palette they index.
type Source interface {
	Cells() []uint8
	Palette() []color.RGBA
}

// Scene holds geometry in viewer space: y up, scaled by Unit, centred on
// the origin. It implements terrain.Sink.
type Scene struct {
	Positions [][3]float32
	Colors    []color.RGBA
	Indices   []int32

	// Unit converts terrain units to viewer units.
	Unit float64

	source  Source
	offset  [3]float64
	uploads int
}

// NewScene returns an empty scene coloured from src.
func NewScene(src Source, unit float64) *Scene {
	if !(unit > 0) {
		unit = 0.01
	}
	return &Scene{source: src, Unit: unit}
}

// Uploads counts accepted mesh uploads.
func (s *Scene) Uploads() int { return s.uploads }

// Upload rebuilds the scene when the topology changes and otherwise only
// rewrites the dirty vertices.
func (s *Scene) Upload(m terrain.Mesh) error {
	s.uploads++
	if len(m.Vertices) != len(s.Positions) || len(m.Triangles) != len(s.Indices) {
		s.rebuild(m)
		return nil
	}
	for _, i := range m.Dirty {
		if i >= 0 && i < len(m.Vertices) {
			s.setVertex(i, m)
		}
	}
	return nil
}

func (s *Scene) rebuild(m terrain.Mesh) {
	s.Positions = make([][3]float32, len(m.Vertices))
	s.Colors = make([]color.RGBA, len(m.Vertices))
	s.Indices = append(s.Indices[:0], m.Triangles...)
	s.offset = [3]float64{}
	if len(m.Vertices) > 0 {
		lo, hi := m.Vertices[0], m.Vertices[0]
		for _, v := range m.Vertices[1:] {
			for k := 0; k < 2; k++ {
				lo[k] = min(lo[k], v[k])
				hi[k] = max(hi[k], v[k])
			}
		}
		s.offset = [3]float64{(lo[0] + hi[0]) / 2, (lo[1] + hi[1]) / 2, 0}
	}
	for i := range m.Vertices {
		s.setVertex(i, m)
	}
}

func (s *Scene) setVertex(i int, m terrain.Mesh) {
	s.Positions[i] = s.ToView(m.Vertices[i])
	s.Colors[i] = s.vertexColor(i)
}

// ToView maps a terrain point (x, y, z up) to viewer space (x, y up, z).
func (s *Scene) ToView(p mgl64.Vec3) [3]float32 {
	return [3]float32{
		float32((p[0] - s.offset[0]) * s.Unit),
		float32(p[2] * s.Unit),
		float32((p[1] - s.offset[1]) * s.Unit),
	}
}

func (s *Scene) vertexColor(i int) color.RGBA {
	if s.source == nil {
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
	cells, palette := s.source.Cells(), s.source.Palette()
	if i >= len(cells) || int(cells[i]) >= len(palette) {
		return color.RGBA{A: 255}
	}
	return palette[cells[i]]
}

// Recolor refreshes every vertex colour from the source.
func (s *Scene) Recolor() {
	for i := range s.Colors {
		s.Colors[i] = s.vertexColor(i)
	}
}

// TriangleCount returns the number of triangles in the scene.
func (s *Scene) TriangleCount() int { return len(s.Indices) / 3 }

// Triangle returns the corners of triangle t and their averaged colour.
func (s *Scene) Triangle(t int) (a, b, c [3]float32, col color.RGBA) {
	i0, i1, i2 := s.Indices[3*t], s.Indices[3*t+1], s.Indices[3*t+2]
	c0, c1, c2 := s.Colors[i0], s.Colors[i1], s.Colors[i2]
	col = color.RGBA{
		R: uint8((int(c0.R) + int(c1.R) + int(c2.R)) / 3),
		G: uint8((int(c0.G) + int(c1.G) + int(c2.G)) / 3),
		B: uint8((int(c0.B) + int(c1.B) + int(c2.B)) / 3),
		A: 255,
	}
	return s.Positions[i0], s.Positions[i1], s.Positions[i2], col
}

// Extent returns the larger horizontal half-size of the scene, used to
// place the camera.
func (s *Scene) Extent() float32 {
	var e float32
	for _, p := range s.Positions {
		e = max(e, abs32(p[0]), abs32(p[2]))
	}
	return e
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
