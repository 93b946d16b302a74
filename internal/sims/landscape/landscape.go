package landscape

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"terrasculpt/internal/core"
	"terrasculpt/internal/noise"
	"terrasculpt/internal/terrain"
	pcore "terrasculpt/pkg/core"
)

// World is a generated heightfield with its rivers, driven through the
// core.Sim contract. Step runs one global erosion invocation.
type World struct {
	cfg Config

	grid  *terrain.HeightGrid
	state *terrain.State
	xf    mgl64.Mat4

	// river marks vertices carved by a river or tributary.
	river   []bool
	display []uint8

	rng         *pcore.RNG
	seed        int64
	steps       int
	lastErosion *terrain.ErosionField
	err         error
}

// New returns a terrain world with the provided cell dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a terrain world configured from the provided options.
// Invalid dimensions leave the world empty and are reported by Err.
func NewWithConfig(cfg Config) *World {
	w := &World{
		cfg: cfg,
		xf:  mgl64.Ident4(),
		rng: pcore.NewRNG(cfg.Seed),
	}
	grid, err := terrain.NewHeightGrid(cfg.Width, cfg.Height, cfg.TileSize)
	if err != nil {
		w.err = err
		log.Printf("landscape: %v", err)
		return w
	}
	w.grid = grid
	w.state = terrain.NewState(grid)
	w.river = make([]bool, grid.VertexCount())
	w.display = make([]uint8, grid.VertexCount())
	return w
}

// Name returns the simulation identifier.
func (w *World) Name() string {
	if w.cfg.Params.Noise.Basis == noise.BasisSimplex {
		return "terrain-simplex"
	}
	return "terrain"
}

// Size reports the vertex lattice dimensions.
func (w *World) Size() core.Size {
	if w.grid == nil {
		return core.Size{}
	}
	lat := w.grid.Lattice()
	return core.Size{W: lat.W, H: lat.H}
}

// Cells exposes the display buffer, one value per vertex.
func (w *World) Cells() []uint8 { return w.display }

// Err reports the most recent configuration or generation failure.
func (w *World) Err() error { return w.err }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Grid exposes the heightfield.
func (w *World) Grid() *terrain.HeightGrid { return w.grid }

// Paths returns every carved river path, main river first.
func (w *World) Paths() []terrain.Path {
	if w.state == nil {
		return nil
	}
	return w.state.Paths
}

// River reports whether vertex i lies in a carved channel.
func (w *World) River(i int) bool {
	return i >= 0 && i < len(w.river) && w.river[i]
}

// Steps returns how many erosion steps ran since the last Reset.
func (w *World) Steps() int { return w.steps }

// LastErosion returns the field of the most recent erosion invocation.
func (w *World) LastErosion() *terrain.ErosionField { return w.lastErosion }

// Status summarises the world for HUD and terminal status lines.
func (w *World) Status() []string {
	if w.err != nil {
		return []string{"error: " + w.err.Error()}
	}
	return []string{
		fmt.Sprintf("%s %dx%d seed %d", w.cfg.Params.Noise.Basis, w.cfg.Width, w.cfg.Height, w.seed),
		fmt.Sprintf("rivers %d  erosion steps %d", len(w.Paths()), w.steps),
	}
}

// Brush returns the interactive tool radius and strength.
func (w *World) Brush() (radius, strength float64) {
	return w.cfg.Params.BrushRadius, w.cfg.Params.BrushStrength
}

// Transform returns the local-to-world transform.
func (w *World) Transform() mgl64.Mat4 { return w.xf }

// SetTransform places the grid in world space.
func (w *World) SetTransform(xf mgl64.Mat4) { w.xf = xf }

// Reset regenerates the heightfield and rivers using deterministic
// randomness. A zero seed selects the configured seed.
func (w *World) Reset(seed int64) {
	if w.grid == nil {
		return
	}
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng = pcore.NewRNG(effective)
	w.seed = effective
	w.steps = 0
	w.lastErosion = nil
	w.err = nil
	clear(w.river)

	ncfg := w.cfg.Params.Noise
	ncfg.Seed = effective
	field, err := noise.New(ncfg)
	if err != nil {
		w.fail(err)
		return
	}
	w.grid.Fill(field, w.cfg.Params.HeightMultiplier)
	w.state = terrain.NewState(w.grid)

	span := mgl64.Vec2{float64(w.cfg.Width) * w.cfg.TileSize, float64(w.cfg.Height) * w.cfg.TileSize}
	start := mgl64.Vec2{0, span[1] / 2}
	end := mgl64.Vec2{span[0], span[1] / 2}
	_, carved, err := w.state.CarveRiver(start, end, w.cfg.Params.MainRiver)
	if err != nil {
		w.fail(fmt.Errorf("main river: %w", err))
		return
	}
	w.markRiver(carved)

	for i := 0; i < w.cfg.Params.TributaryCount; i++ {
		src := mgl64.Vec2{w.rng.Range(0, span[0]), w.rng.Range(0, span[1])}
		_, carved, err := w.state.AddTributary(src, w.cfg.Params.Tributary)
		if err != nil {
			w.fail(fmt.Errorf("tributary %d: %w", i, err))
			return
		}
		w.markRiver(carved)
	}
	w.rebuildDisplay()
}

// Step advances the simulation by one global erosion invocation.
func (w *World) Step() {
	if w.grid == nil {
		return
	}
	field, err := w.grid.Erode(w.cfg.Params.Erosion)
	if err != nil {
		w.fail(err)
		return
	}
	w.lastErosion = field
	w.steps++
	w.rebuildDisplay()
}

// LocalPoint maps a world-space point onto the grid plane.
func (w *World) LocalPoint(world mgl64.Vec3) mgl64.Vec2 {
	return terrain.LocalPoint(world, w.xf)
}

// VertexWorld returns the world-space position of lattice vertex (x, y).
func (w *World) VertexWorld(x, y int) (mgl64.Vec3, bool) {
	if w.grid == nil {
		return mgl64.Vec3{}, false
	}
	i, ok := w.grid.Index(x, y)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return terrain.WorldPoint(w.grid.Position(i), w.xf), true
}

// AddTributaryAt carves a tributary from a world-space source to the nearest
// existing river point.
func (w *World) AddTributaryAt(world mgl64.Vec3) (terrain.Path, error) {
	if w.state == nil {
		return nil, w.err
	}
	path, carved, err := w.state.AddTributary(w.LocalPoint(world), w.cfg.Params.Tributary)
	if err != nil {
		return nil, err
	}
	w.markRiver(carved)
	w.rebuildDisplay()
	return path, nil
}

// ErodeAt runs localized erosion around a world-space point.
func (w *World) ErodeAt(world mgl64.Vec3, radius float64) (*terrain.ErosionField, error) {
	if w.grid == nil {
		return nil, w.err
	}
	field, err := w.grid.ErodeAt(w.LocalPoint(world), radius, w.cfg.Params.Erosion)
	if err != nil {
		return nil, err
	}
	w.lastErosion = field
	w.rebuildDisplay()
	return field, nil
}

// SculptAt raises (delta > 0) or lowers the terrain around a world point.
func (w *World) SculptAt(world mgl64.Vec3, radius, delta float64) ([]int, error) {
	if w.grid == nil {
		return nil, w.err
	}
	touched, err := w.grid.Sculpt(w.LocalPoint(world), radius, delta)
	if err != nil {
		return nil, err
	}
	w.rebuildDisplay()
	return touched, nil
}

// LevelAt flattens the terrain around a world point towards target.
func (w *World) LevelAt(world mgl64.Vec3, radius, target float64) ([]int, error) {
	if w.grid == nil {
		return nil, w.err
	}
	touched, err := w.grid.Level(w.LocalPoint(world), radius, target)
	if err != nil {
		return nil, err
	}
	w.rebuildDisplay()
	return touched, nil
}

// HeightAt returns the interpolated grid height under a world point.
func (w *World) HeightAt(world mgl64.Vec3) (float64, error) {
	if w.grid == nil {
		return 0, w.err
	}
	local := w.LocalPoint(world)
	return w.grid.HeightAt(local[0], local[1])
}

// WaterMarkers returns world-space marker positions over every river vertex.
func (w *World) WaterMarkers() []mgl64.Vec3 {
	if w.grid == nil {
		return nil
	}
	var idx []int
	for i, r := range w.river {
		if r {
			idx = append(idx, i)
		}
	}
	markers := w.grid.WaterMarkers(idx, terrain.WaterOffset)
	for i := range markers {
		markers[i] = terrain.WorldPoint(markers[i], w.xf)
	}
	return markers
}

// Mesh builds the current mesh section.
func (w *World) Mesh() terrain.Mesh {
	if w.grid == nil {
		return terrain.Mesh{}
	}
	return w.grid.BuildMesh()
}

// Flush uploads the mesh to sink and clears the dirty set on success.
func (w *World) Flush(sink terrain.Sink) error {
	if w.state == nil {
		return w.err
	}
	return w.state.Flush(sink)
}

func (w *World) markRiver(indices []int) {
	for _, i := range indices {
		w.river[i] = true
	}
}

func (w *World) fail(err error) {
	w.err = err
	log.Printf("landscape: %v", err)
}

func init() {
	core.Register("terrain", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		c.Params.Noise.Basis = noise.BasisPerlin
		return NewWithConfig(c)
	})
	core.Register("terrain-simplex", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		c.Params.Noise.Basis = noise.BasisSimplex
		return NewWithConfig(c)
	})
}
