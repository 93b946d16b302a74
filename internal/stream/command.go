package stream

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Command is a client request. X, Y and Z are world-space coordinates.
type Command struct {
	Type   string   `json:"type"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Z      float64  `json:"z"`
	Radius float64  `json:"radius,omitempty"`
	Delta  float64  `json:"delta,omitempty"`
	Target *float64 `json:"target,omitempty"`
	Count  int      `json:"count,omitempty"`
	Seed   int64    `json:"seed,omitempty"`
	Enable bool     `json:"enable,omitempty"`
}

// Reply acknowledges a command.
type Reply struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Touched int    `json:"touched,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (c Command) point() mgl64.Vec3 { return mgl64.Vec3{c.X, c.Y, c.Z} }

// Apply executes cmd against the world and reports whether the mesh changed.
func (s *Server) Apply(cmd Command) (Reply, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	touched, changed, err := s.apply(cmd)
	if err != nil {
		return Reply{Type: "error", Command: cmd.Type, Error: err.Error()}, false
	}
	return Reply{Type: "ack", Command: cmd.Type, Touched: touched}, changed
}

func (s *Server) apply(cmd Command) (int, bool, error) {
	radius, strength := s.world.Brush()
	if cmd.Radius > 0 {
		radius = cmd.Radius
	}
	switch cmd.Type {
	case "erode":
		n := max(cmd.Count, 1)
		for range n {
			s.world.Step()
		}
		return n, true, s.world.Err()
	case "erode_at":
		field, err := s.world.ErodeAt(cmd.point(), radius)
		if err != nil {
			return 0, false, err
		}
		return len(field.Active), len(field.Active) > 0, nil
	case "sculpt":
		delta := cmd.Delta
		if delta == 0 {
			delta = strength
		}
		touched, err := s.world.SculptAt(cmd.point(), radius, delta)
		return len(touched), len(touched) > 0, err
	case "level":
		var target float64
		if cmd.Target != nil {
			target = *cmd.Target
		} else {
			h, err := s.world.HeightAt(cmd.point())
			if err != nil {
				return 0, false, err
			}
			target = h
		}
		touched, err := s.world.LevelAt(cmd.point(), radius, target)
		return len(touched), len(touched) > 0, err
	case "tributary":
		path, err := s.world.AddTributaryAt(cmd.point())
		return len(path), path != nil, err
	case "reset":
		s.world.Reset(cmd.Seed)
		return 0, true, s.world.Err()
	case "run":
		s.running = cmd.Enable
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("unknown command %q", cmd.Type)
	}
}
