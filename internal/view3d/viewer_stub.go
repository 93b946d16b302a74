//go:build !raylib

package view3d

import (
	"fmt"

	"terrasculpt/internal/core"
)

// Viewer is a placeholder for builds without the raylib tag.
type Viewer struct{}

// New reports that the 3D viewer was not compiled in.
func New(core.Sim, int64) (*Viewer, error) {
	return nil, fmt.Errorf("view3d requires building with the 'raylib' tag")
}

// Run always fails in the headless build.
func (v *Viewer) Run(int32, int32, int) error {
	return fmt.Errorf("view3d requires building with the 'raylib' tag")
}
