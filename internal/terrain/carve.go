package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// WaterOffset is the default height of water markers above a carved vertex.
const WaterOffset = 1.0

// CarvePath lowers every vertex within width of the path by
// depth*(1-distance/width) and returns the carved vertex indices in
// ascending order. Paths with fewer than two points carve nothing.
func (g *HeightGrid) CarvePath(path Path, width, depth float64) ([]int, error) {
	if err := validateCarve(width, depth); err != nil {
		return nil, err
	}
	if len(path) < 2 {
		return nil, nil
	}
	return g.carve(width, depth, path.DistanceTo), nil
}

// CarveLine carves a straight channel along the infinite line through start
// and end.
func (g *HeightGrid) CarveLine(start, end mgl64.Vec2, width, depth float64) ([]int, error) {
	if err := validateCarve(width, depth); err != nil {
		return nil, err
	}
	return g.carve(width, depth, func(p mgl64.Vec2) float64 {
		return pointLineDistance(p, start, end)
	}), nil
}

func validateCarve(width, depth float64) error {
	if !(width > 0) {
		return fmt.Errorf("%w: carve width must be > 0, got %g", ErrInvalidParameter, width)
	}
	if depth < 0 {
		return fmt.Errorf("%w: carve depth must be >= 0, got %g", ErrInvalidParameter, depth)
	}
	return nil
}

func (g *HeightGrid) carve(width, depth float64, distance func(mgl64.Vec2) float64) []int {
	var carved []int
	for i := range g.heights {
		d := distance(g.planar(i))
		if d > width {
			continue
		}
		falloff := 1 - d/width
		g.set(i, g.heights[i]-depth*falloff)
		carved = append(carved, i)
	}
	return carved
}

// Sculpt raises (delta > 0) or lowers (delta < 0) the terrain around center
// with a linear falloff to zero at radius.
func (g *HeightGrid) Sculpt(center mgl64.Vec2, radius, delta float64) ([]int, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: sculpt radius must be > 0, got %g", ErrInvalidParameter, radius)
	}
	return g.radial(center, radius, func(i int, falloff float64) {
		g.set(i, g.heights[i]+delta*falloff)
	}), nil
}

// Level pulls the terrain around center towards target, fully at the centre
// and not at all at radius.
func (g *HeightGrid) Level(center mgl64.Vec2, radius, target float64) ([]int, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: level radius must be > 0, got %g", ErrInvalidParameter, radius)
	}
	return g.radial(center, radius, func(i int, falloff float64) {
		h := g.heights[i]
		g.set(i, h+(target-h)*falloff)
	}), nil
}

func (g *HeightGrid) radial(center mgl64.Vec2, radius float64, apply func(i int, falloff float64)) []int {
	var touched []int
	for i := range g.heights {
		d := g.planar(i).Sub(center).Len()
		if d > radius {
			continue
		}
		apply(i, 1-d/radius)
		touched = append(touched, i)
	}
	return touched
}

// WaterMarkers returns marker positions offset above the given vertices, for
// an instancing layer that draws water over carved channels.
func (g *HeightGrid) WaterMarkers(indices []int, offset float64) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, len(indices))
	for _, i := range indices {
		if !g.lat.Valid(i) {
			continue
		}
		p := g.Position(i)
		p[2] += offset
		out = append(out, p)
	}
	return out
}
