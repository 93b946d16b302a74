package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErosionParams tunes one erosion invocation.
type ErosionParams struct {
	Iterations int
	RainAmount float64
	Strength   float64

	// FlowRate is the fraction of the combined height difference moved to
	// the lowest neighbour per pass.
	FlowRate float64

	// ChannelDepth and ChannelBoost drive channel deepening in localized
	// erosion: when the downhill neighbour's raw height is more than
	// ChannelDepth below the current vertex, erosion gains an extra
	// flow*ChannelBoost. Both are tunables, not physical constants.
	ChannelDepth float64
	ChannelBoost float64

	// DoubleBuffer makes each flow pass read water from a snapshot taken at
	// the start of the pass, so results no longer depend on scan order.
	// The default same-buffer scan lets water moved earlier in a pass keep
	// flowing within the same pass.
	DoubleBuffer bool
}

// DefaultErosionParams returns the standard tunables with a light rain.
func DefaultErosionParams() ErosionParams {
	return ErosionParams{
		Iterations:   10,
		RainAmount:   1,
		Strength:     0.5,
		FlowRate:     0.5,
		ChannelDepth: 50,
		ChannelBoost: 1.5,
	}
}

// Validate reports why p cannot drive erosion, wrapping ErrInvalidParameter.
// Rain and strength below zero would raise terrain; a flow rate outside
// (0, 1] either stalls the water or moves more than the height difference.
func (p ErosionParams) Validate() error {
	switch {
	case !(p.RainAmount >= 0):
		return fmt.Errorf("%w: rain amount must be >= 0, got %g", ErrInvalidParameter, p.RainAmount)
	case !(p.Strength >= 0):
		return fmt.Errorf("%w: erosion strength must be >= 0, got %g", ErrInvalidParameter, p.Strength)
	case !(p.FlowRate > 0 && p.FlowRate <= 1):
		return fmt.Errorf("%w: flow rate must be in (0, 1], got %g", ErrInvalidParameter, p.FlowRate)
	case !(p.ChannelBoost >= 0):
		return fmt.Errorf("%w: channel boost must be >= 0, got %g", ErrInvalidParameter, p.ChannelBoost)
	case math.IsNaN(p.ChannelDepth):
		return fmt.Errorf("%w: channel depth is NaN", ErrInvalidParameter)
	}
	return nil
}

// ErosionField is the transient state of one invocation.
type ErosionField struct {
	Water   []float64
	Erosion []float64
	// Active lists the rained-on vertices in ascending order.
	Active []int
}

// Removed returns the total height removed, Σ Erosion[i]*strength over the
// active set.
func (f *ErosionField) Removed(strength float64) float64 {
	total := 0.0
	for _, i := range f.Active {
		total += f.Erosion[i] * strength
	}
	return total
}

// Erode runs global erosion over every vertex. An empty grid or a
// non-positive iteration count is a no-op; invalid tunables are rejected
// before the grid is touched.
func (g *HeightGrid) Erode(p ErosionParams) (*ErosionField, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(g.heights) == 0 || g.Width <= 0 || g.Height <= 0 {
		return &ErosionField{}, nil
	}
	active := make([]int, len(g.heights))
	for i := range active {
		active[i] = i
	}
	return g.erode(active, p, false), nil
}

// ErodeAt runs localized erosion over the vertices within radius of center.
// The affected set is computed once; an empty set leaves the grid untouched.
func (g *HeightGrid) ErodeAt(center mgl64.Vec2, radius float64, p ErosionParams) (*ErosionField, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(g.heights) == 0 || g.Width <= 0 || g.Height <= 0 || !(radius > 0) {
		return &ErosionField{}, nil
	}
	var active []int
	for i := range g.heights {
		if g.planar(i).Sub(center).Len() <= radius {
			active = append(active, i)
		}
	}
	if len(active) == 0 {
		return &ErosionField{}, nil
	}
	return g.erode(active, p, true), nil
}

func (g *HeightGrid) erode(active []int, p ErosionParams, channels bool) *ErosionField {
	n := len(g.heights)
	f := &ErosionField{
		Water:   make([]float64, n),
		Erosion: make([]float64, n),
		Active:  active,
	}
	if p.Iterations <= 0 {
		return f
	}

	var snapshot []float64
	if p.DoubleBuffer {
		snapshot = make([]float64, n)
	}
	neighbours := make([]int, 0, 4)

	for iter := 0; iter < p.Iterations; iter++ {
		for _, i := range active {
			f.Water[i] += p.RainAmount
		}

		read := f.Water
		if p.DoubleBuffer {
			copy(snapshot, f.Water)
			read = snapshot
		}

		for _, i := range active {
			current := g.heights[i] + read[i]
			lowest := current
			target := -1

			x, y := g.lat.Coords(i)
			neighbours = g.lat.Neighbors4(neighbours[:0], x, y)
			for _, nb := range neighbours {
				if h := g.heights[nb] + read[nb]; h < lowest {
					lowest = h
					target = nb
				}
			}
			if target < 0 {
				continue
			}

			flow := clamp((current-lowest)*p.FlowRate, 0, read[i])
			f.Water[i] -= flow
			f.Water[target] += flow
			f.Erosion[i] += flow

			if channels && g.heights[target] < g.heights[i]-p.ChannelDepth {
				f.Erosion[i] += flow * p.ChannelBoost
			}
		}
	}

	for _, i := range active {
		g.set(i, g.heights[i]-f.Erosion[i]*p.Strength)
	}
	return f
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
