package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Path is a polyline in local grid space, ordered from source to mouth.
type Path []mgl64.Vec2

// CurvedPath returns numPoints+1 points from start to end with a sinusoidal
// lateral meander of the given amplitude and frequency.
func CurvedPath(numPoints int, start, end mgl64.Vec2, amplitude, frequency float64) (Path, error) {
	if numPoints < 1 {
		return nil, fmt.Errorf("%w: river path needs at least 1 segment, got %d", ErrInvalidParameter, numPoints)
	}
	perp := perpendicular(end.Sub(start))

	path := make(Path, 0, numPoints+1)
	for i := 0; i <= numPoints; i++ {
		t := float64(i) / float64(numPoints)
		linear := lerp2(start, end, t)
		offset := math.Sin(t*math.Pi*frequency) * amplitude
		path = append(path, linear.Add(perp.Mul(offset)))
	}
	return path, nil
}

// perpendicular returns the unit left normal of dir, or the zero vector when
// dir has no length.
func perpendicular(dir mgl64.Vec2) mgl64.Vec2 {
	l := dir.Len()
	if l == 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{-dir[1] / l, dir[0] / l}
}

func lerp2(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

// DistanceTo returns the minimum distance from p to any segment of the path.
// Paths with fewer than two points have no segments and report +Inf.
func (p Path) DistanceTo(pt mgl64.Vec2) float64 {
	best := math.Inf(1)
	for j := 0; j+1 < len(p); j++ {
		best = math.Min(best, pointSegmentDistance(pt, p[j], p[j+1]))
	}
	return best
}

// NearestPoint returns the path point closest to pt. The first of several
// equidistant points wins.
func (p Path) NearestPoint(pt mgl64.Vec2) (mgl64.Vec2, float64, bool) {
	if len(p) == 0 {
		return mgl64.Vec2{}, math.Inf(1), false
	}
	best := p[0]
	bestDist := pt.Sub(best).Len()
	for _, q := range p[1:] {
		if d := pt.Sub(q).Len(); d < bestDist {
			best, bestDist = q, d
		}
	}
	return best, bestDist, true
}

// Length returns the total polyline length.
func (p Path) Length() float64 {
	total := 0.0
	for j := 0; j+1 < len(p); j++ {
		total += p[j+1].Sub(p[j]).Len()
	}
	return total
}

func pointSegmentDistance(pt, a, b mgl64.Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return pt.Sub(a).Len()
	}
	t := pt.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return pt.Sub(a.Add(ab.Mul(t))).Len()
}

// pointLineDistance measures against the infinite line through a and b,
// falling back to point distance when a == b.
func pointLineDistance(pt, a, b mgl64.Vec2) float64 {
	ab := b.Sub(a)
	l := ab.Len()
	if l == 0 {
		return pt.Sub(a).Len()
	}
	ap := pt.Sub(a)
	return math.Abs(ab[0]*ap[1]-ab[1]*ap[0]) / l
}
