package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RiverParams shapes a generated river or tributary.
type RiverParams struct {
	Points    int
	Amplitude float64
	Frequency float64
	Width     float64
	Depth     float64
}

var (
	// MainRiver is the default shape of the map's main river.
	MainRiver = RiverParams{Points: 50, Amplitude: 300, Frequency: 3, Width: 300, Depth: 200}
	// TributaryRiver is the default, smaller shape used by AddTributary.
	TributaryRiver = RiverParams{Points: 20, Amplitude: 100, Frequency: 2, Width: 120, Depth: 80}
)

// State owns a heightfield together with every river path carved into it.
// Paths is append-only and ordered by carve time; each tributary attaches
// to the paths that existed when it was carved.
type State struct {
	Grid  *HeightGrid
	Paths []Path
}

// NewState wraps grid with an empty path collection.
func NewState(grid *HeightGrid) *State {
	return &State{Grid: grid}
}

// CarveRiver generates a meandering path from start to end, carves it and
// records it. It returns the path and the carved vertex indices.
func (s *State) CarveRiver(start, end mgl64.Vec2, p RiverParams) (Path, []int, error) {
	path, err := CurvedPath(p.Points, start, end, p.Amplitude, p.Frequency)
	if err != nil {
		return nil, nil, err
	}
	carved, err := s.Grid.CarvePath(path, p.Width, p.Depth)
	if err != nil {
		return nil, nil, err
	}
	s.Paths = append(s.Paths, path)
	return path, carved, nil
}

// AddTributary joins start to the nearest point of any recorded path with a
// smaller meandering channel. With no recorded paths or an empty grid it
// does nothing and returns a nil path.
func (s *State) AddTributary(start mgl64.Vec2, p RiverParams) (Path, []int, error) {
	if len(s.Paths) == 0 || s.Grid == nil || s.Grid.VertexCount() == 0 {
		return nil, nil, nil
	}
	target, ok := s.NearestPathPoint(start)
	if !ok {
		return nil, nil, nil
	}
	return s.CarveRiver(start, target, p)
}

// NearestPathPoint scans every recorded path point for the one closest to pt.
func (s *State) NearestPathPoint(pt mgl64.Vec2) (mgl64.Vec2, bool) {
	best := mgl64.Vec2{}
	bestDist := math.Inf(1)
	found := false
	for _, path := range s.Paths {
		q, d, ok := path.NearestPoint(pt)
		if ok && d < bestDist {
			best, bestDist, found = q, d, true
		}
	}
	return best, found
}

// Flush uploads the current mesh to sink and clears the dirty set when the
// upload succeeds.
func (s *State) Flush(sink Sink) error {
	if err := sink.Upload(s.Grid.BuildMesh()); err != nil {
		return err
	}
	s.Grid.ClearDirty()
	return nil
}

// LocalPoint maps a world-space point into the grid's local plane using the
// inverse of the local-to-world transform xf.
func LocalPoint(world mgl64.Vec3, xf mgl64.Mat4) mgl64.Vec2 {
	local := mgl64.TransformCoordinate(world, xf.Inv())
	return mgl64.Vec2{local[0], local[1]}
}

// WorldPoint maps a local-space position into world space.
func WorldPoint(local mgl64.Vec3, xf mgl64.Mat4) mgl64.Vec3 {
	return mgl64.TransformCoordinate(local, xf)
}
