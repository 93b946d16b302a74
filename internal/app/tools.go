package app

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"terrasculpt/internal/terrain"
)

// Tool is the action applied when the terrain view is clicked.
type Tool int

const (
	ToolRaise Tool = iota
	ToolLower
	ToolLevel
	ToolErode
	ToolTributary
)

var toolNames = [...]string{"raise", "lower", "level", "erode", "tributary"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("tool(%d)", int(t))
	}
	return toolNames[t]
}

// Brushable is the surface the viewer's tools operate on.
type Brushable interface {
	VertexWorld(x, y int) (mgl64.Vec3, bool)
	Brush() (radius, strength float64)
	SculptAt(world mgl64.Vec3, radius, delta float64) ([]int, error)
	LevelAt(world mgl64.Vec3, radius, target float64) ([]int, error)
	ErodeAt(world mgl64.Vec3, radius float64) (*terrain.ErosionField, error)
	AddTributaryAt(world mgl64.Vec3) (terrain.Path, error)
	HeightAt(world mgl64.Vec3) (float64, error)
}

// Apply runs tool at lattice vertex (x, y). Level flattens towards the
// clicked vertex's own height. Clicks outside the lattice are ignored.
func Apply(target Brushable, tool Tool, x, y int) error {
	at, ok := target.VertexWorld(x, y)
	if !ok {
		return nil
	}
	radius, strength := target.Brush()
	var err error
	switch tool {
	case ToolRaise:
		_, err = target.SculptAt(at, radius, strength)
	case ToolLower:
		_, err = target.SculptAt(at, radius, -strength)
	case ToolLevel:
		var h float64
		if h, err = target.HeightAt(at); err == nil {
			_, err = target.LevelAt(at, radius, h)
		}
	case ToolErode:
		_, err = target.ErodeAt(at, radius)
	case ToolTributary:
		_, err = target.AddTributaryAt(at)
	default:
		err = fmt.Errorf("unknown tool %d", int(tool))
	}
	return err
}
