//go:build raylib

package view3d

import (
	"fmt"
	"image/color"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"terrasculpt/internal/core"
	"terrasculpt/internal/terrain"
)

type flusher interface {
	Flush(sink terrain.Sink) error
	Mesh() terrain.Mesh
}

type markerSource interface {
	WaterMarkers() []mgl64.Vec3
}

var (
	colorBG    = color.RGBA{R: 18, G: 22, B: 30, A: 255}
	colorWater = color.RGBA{R: 70, G: 140, B: 220, A: 200}
	colorText  = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// Viewer is an orbiting 3D window over a terrain simulation.
type Viewer struct {
	sim    core.Sim
	scene  *Scene
	seed   int64
	paused bool
	water  bool
}

// New returns a viewer for sim. The sim must expose Cells and Palette.
func New(sim core.Sim, seed int64) (*Viewer, error) {
	src, ok := sim.(Source)
	if !ok {
		return nil, fmt.Errorf("sim %q has no palette", sim.Name())
	}
	if _, ok := sim.(flusher); !ok {
		return nil, fmt.Errorf("sim %q does not produce a mesh", sim.Name())
	}
	return &Viewer{sim: sim, scene: NewScene(src, 0.01), seed: seed, paused: true, water: true}, nil
}

// Run opens the window and blocks until it is closed.
func (v *Viewer) Run(width, height int32, tps int) error {
	f := v.sim.(flusher)
	if err := v.scene.Upload(f.Mesh()); err != nil {
		return err
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(width, height, "terrasculpt: "+v.sim.Name())
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	extent := max(v.scene.Extent(), 1)
	camera := rl.Camera3D{
		Position:   rl.NewVector3(extent*1.4, extent, extent*1.4),
		Target:     rl.NewVector3(0, 0, 0),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}

	step := core.NewFixedStep(tps)
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			v.paused = !v.paused
		}
		if rl.IsKeyPressed(rl.KeyW) {
			v.water = !v.water
		}
		if rl.IsKeyPressed(rl.KeyR) {
			v.sim.Reset(v.seed)
			v.flush(f)
		}
		if rl.IsKeyPressed(rl.KeyS) {
			v.seed = time.Now().UnixNano()
			v.sim.Reset(v.seed)
			v.flush(f)
		}
		if rl.IsKeyPressed(rl.KeyN) || (!v.paused && step.ShouldStep()) {
			v.sim.Step()
			v.flush(f)
		}
		rl.UpdateCamera(&camera, rl.CameraOrbital)

		rl.BeginDrawing()
		rl.ClearBackground(colorBG)
		rl.BeginMode3D(camera)
		v.drawTerrain()
		if v.water {
			v.drawWater()
		}
		rl.EndMode3D()
		v.drawStatus()
		rl.EndDrawing()
	}
	return nil
}

func (v *Viewer) flush(f flusher) {
	if err := f.Flush(v.scene); err != nil {
		rl.TraceLog(rl.LogWarning, "flush: %v", err)
	}
}

func (v *Viewer) drawTerrain() {
	rl.DisableBackfaceCulling()
	defer rl.EnableBackfaceCulling()
	for t := 0; t < v.scene.TriangleCount(); t++ {
		a, b, c, col := v.scene.Triangle(t)
		rl.DrawTriangle3D(vec(a), vec(b), vec(c), col)
	}
}

func (v *Viewer) drawWater() {
	src, ok := v.sim.(markerSource)
	if !ok {
		return
	}
	radius := float32(v.scene.Unit * 20)
	for _, m := range src.WaterMarkers() {
		rl.DrawSphere(vec(v.scene.ToView(m)), radius, colorWater)
	}
}

func (v *Viewer) drawStatus() {
	y := int32(10)
	if s, ok := v.sim.(interface{ Status() []string }); ok {
		for _, line := range s.Status() {
			rl.DrawText(line, 10, y, 18, colorText)
			y += 22
		}
	}
	state := "running"
	if v.paused {
		state = "paused"
	}
	rl.DrawText(fmt.Sprintf("%s  uploads %d  [space] pause [n] step [r] reset [w] water", state, v.scene.Uploads()), 10, y, 18, colorText)
}

func vec(p [3]float32) rl.Vector3 { return rl.NewVector3(p[0], p[1], p[2]) }
