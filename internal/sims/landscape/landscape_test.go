package landscape

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"terrasculpt/internal/core"
	"terrasculpt/internal/noise"
	"terrasculpt/internal/terrain"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 24
	cfg.Height = 16
	cfg.TileSize = 100
	cfg.Seed = 42
	cfg.Params.TributaryCount = 2
	return cfg
}

func TestFromMapParsesAndFallsBack(t *testing.T) {
	cfg := FromMap(map[string]string{
		"w":                  "64",
		"h":                  "-3",
		"seed":               "99",
		"basis":              "simplex",
		"octaves":            "6",
		"persistence":        "nope",
		"river_width":        "150",
		"tributary_depth":    "40",
		"erosion_iterations": "3",
		"double_buffer":      "true",
		"brush_strength":     "-25",
	})
	def := DefaultConfig()
	if cfg.Width != 64 || cfg.Height != def.Height {
		t.Fatalf("size = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Seed != 99 {
		t.Fatalf("seed = %d", cfg.Seed)
	}
	if cfg.Params.Noise.Basis != noise.BasisSimplex || cfg.Params.Noise.Octaves != 6 {
		t.Fatalf("noise = %+v", cfg.Params.Noise)
	}
	if cfg.Params.Noise.Persistence != def.Params.Noise.Persistence {
		t.Fatalf("invalid persistence must keep default, got %v", cfg.Params.Noise.Persistence)
	}
	if cfg.Params.MainRiver.Width != 150 || cfg.Params.Tributary.Depth != 40 {
		t.Fatalf("rivers = %+v / %+v", cfg.Params.MainRiver, cfg.Params.Tributary)
	}
	if cfg.Params.Erosion.Iterations != 3 || !cfg.Params.Erosion.DoubleBuffer {
		t.Fatalf("erosion = %+v", cfg.Params.Erosion)
	}
	if cfg.Params.BrushStrength != -25 {
		t.Fatalf("brush strength = %v", cfg.Params.BrushStrength)
	}
	if got := FromMap(nil); got != def {
		t.Fatal("nil map must yield defaults")
	}
}

func TestResetDeterministic(t *testing.T) {
	world := NewWithConfig(smallConfig())
	world.Reset(0)
	if err := world.Err(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	heights := append([]float64(nil), world.Grid().Heights()...)
	cells := append([]uint8(nil), world.Cells()...)

	world.Grid().Heights()[0] = 9999
	world.Step()
	world.Reset(0)

	if !slices.Equal(heights, world.Grid().Heights()) {
		t.Fatal("Reset with config seed not deterministic for heights")
	}
	if !slices.Equal(cells, world.Cells()) {
		t.Fatal("Reset with config seed not deterministic for display buffer")
	}
	if world.Steps() != 0 || world.LastErosion() != nil {
		t.Fatal("Reset must clear erosion state")
	}

	world.Reset(777)
	if slices.Equal(heights, world.Grid().Heights()) {
		t.Fatal("different seeds should produce different terrain")
	}
}

func TestResetCarvesMainRiverAndTributaries(t *testing.T) {
	cfg := smallConfig()
	world := NewWithConfig(cfg)
	world.Reset(0)

	paths := world.Paths()
	if len(paths) != 1+cfg.Params.TributaryCount {
		t.Fatalf("paths = %d, want main river plus %d tributaries", len(paths), cfg.Params.TributaryCount)
	}
	main := paths[0]
	if len(main) != cfg.Params.MainRiver.Points+1 {
		t.Fatalf("main river points = %d", len(main))
	}
	if main[0] != (mgl64.Vec2{0, 800}) {
		t.Fatalf("main river starts at %v, want west edge midline", main[0])
	}

	g := world.Grid()
	for i := 0; i < g.VertexCount(); i++ {
		if main.DistanceTo(g.Position(i).Vec2()) < cfg.Params.MainRiver.Width {
			if !world.River(i) {
				t.Fatalf("vertex %d inside the main river not marked", i)
			}
			if g.Displacement(i) >= 0 {
				t.Fatalf("vertex %d inside the main river not lowered", i)
			}
			if world.Cells()[i] < WaterBase {
				t.Fatalf("vertex %d inside the main river not drawn as water", i)
			}
		}
	}
}

func TestStepErodesWithoutRaising(t *testing.T) {
	world := NewWithConfig(smallConfig())
	world.Reset(0)
	before := append([]float64(nil), world.Grid().Heights()...)
	world.Step()
	world.Step()
	if world.Steps() != 2 {
		t.Fatalf("steps = %d", world.Steps())
	}
	lowered := 0
	for i, h := range world.Grid().Heights() {
		if h > before[i] {
			t.Fatalf("vertex %d rose after erosion", i)
		}
		if h < before[i] {
			lowered++
		}
	}
	if lowered == 0 {
		t.Fatal("erosion removed nothing")
	}
	if world.LastErosion() == nil || len(world.LastErosion().Active) != world.Grid().VertexCount() {
		t.Fatal("global step must rain on every vertex")
	}
}

func TestWorldOperationsHonourTransform(t *testing.T) {
	world := NewWithConfig(smallConfig())
	world.SetTransform(mgl64.Translate3D(5000, 2000, 0))
	world.Reset(0)

	local := mgl64.Vec3{1200, 400, 0}
	worldPt := local.Add(mgl64.Vec3{5000, 2000, 0})

	want, err := world.Grid().HeightAt(local[0], local[1])
	if err != nil {
		t.Fatalf("grid HeightAt: %v", err)
	}
	got, err := world.HeightAt(worldPt)
	if err != nil || math.Abs(got-want) > 1e-9 {
		t.Fatalf("HeightAt = %v, %v; want %v", got, err, want)
	}
	if _, err := world.HeightAt(local); !errors.Is(err, terrain.ErrOutOfBounds) {
		t.Fatalf("untransformed point error = %v, want ErrOutOfBounds", err)
	}

	touched, err := world.SculptAt(worldPt, 250, 40)
	if err != nil || len(touched) == 0 {
		t.Fatalf("SculptAt = %v, %v", touched, err)
	}
	if raised, _ := world.HeightAt(worldPt); raised <= want {
		t.Fatalf("sculpt did not raise terrain: %v -> %v", want, raised)
	}

	if _, err := world.LevelAt(worldPt, 250, 0); err != nil {
		t.Fatalf("LevelAt: %v", err)
	}
	if h, _ := world.HeightAt(worldPt); math.Abs(h) > 1e-9 {
		t.Fatalf("level centre = %v, want 0", h)
	}

	before := len(world.Paths())
	path, err := world.AddTributaryAt(mgl64.Vec3{5100, 2100, 0})
	if err != nil || path == nil {
		t.Fatalf("AddTributaryAt = %v, %v", path, err)
	}
	if path[0].Sub(mgl64.Vec2{100, 100}).Len() > 1e-9 {
		t.Fatalf("tributary starts at %v, want local (100,100)", path[0])
	}
	if len(world.Paths()) != before+1 {
		t.Fatal("tributary not recorded")
	}

	field, err := world.ErodeAt(worldPt, 300)
	if err != nil || len(field.Active) == 0 {
		t.Fatalf("ErodeAt = %v, %v", field, err)
	}

	for _, m := range world.WaterMarkers() {
		if m[0] < 5000 || m[1] < 2000 {
			t.Fatalf("water marker %v not in world space", m)
		}
	}
}

func TestFlushUploadsMesh(t *testing.T) {
	world := NewWithConfig(smallConfig())
	world.Reset(0)
	world.Step()

	var uploaded terrain.Mesh
	err := world.Flush(terrain.SinkFunc(func(m terrain.Mesh) error {
		uploaded = m
		return nil
	}))
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(uploaded.Vertices) != world.Grid().VertexCount() || len(uploaded.Dirty) == 0 {
		t.Fatalf("uploaded %d vertices, %d dirty", len(uploaded.Vertices), len(uploaded.Dirty))
	}
	if len(world.Grid().DirtyIndices()) != 0 {
		t.Fatal("flush must clear dirty vertices")
	}
}

func TestInvalidConfigReportsError(t *testing.T) {
	cfg := smallConfig()
	cfg.Width = 0
	world := NewWithConfig(cfg)
	if !errors.Is(world.Err(), terrain.ErrInvalidParameter) {
		t.Fatalf("Err = %v", world.Err())
	}
	world.Reset(0)
	world.Step()
	if len(world.Cells()) != 0 || world.Size() != (core.Size{}) {
		t.Fatal("invalid world must stay empty")
	}

	cfg = smallConfig()
	cfg.Params.Noise.Octaves = 0
	world = NewWithConfig(cfg)
	world.Reset(0)
	if !errors.Is(world.Err(), noise.ErrInvalidConfiguration) {
		t.Fatalf("Err = %v, want noise configuration error", world.Err())
	}
}

func TestRegisteredVariants(t *testing.T) {
	for name, basis := range map[string]noise.Basis{"terrain": noise.BasisPerlin, "terrain-simplex": noise.BasisSimplex} {
		factory, err := core.Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		sim := factory(map[string]string{"w": "8", "h": "6"})
		world, ok := sim.(*World)
		if !ok {
			t.Fatalf("%s factory returned %T", name, sim)
		}
		if world.Name() != name || world.Config().Params.Noise.Basis != basis {
			t.Fatalf("%s: name %q basis %q", name, world.Name(), world.Config().Params.Noise.Basis)
		}
		if world.Size() != (core.Size{W: 9, H: 7}) {
			t.Fatalf("%s: size = %+v, want vertex lattice 9x7", name, world.Size())
		}
	}
}

func TestPaletteCoversDisplayValues(t *testing.T) {
	world := NewWithConfig(smallConfig())
	world.Reset(0)
	palette := world.Palette()
	if len(palette) != landLevels+waterLevels {
		t.Fatalf("palette size = %d", len(palette))
	}
	for i, c := range world.Cells() {
		if int(c) >= len(palette) {
			t.Fatalf("cell %d value %d outside palette", i, c)
		}
	}
	if encodeElevation(-50, 300) != 0 || encodeElevation(1000, 300) != landLevels-1 {
		t.Fatal("elevation encoding must clamp")
	}
	if encodeWater(500, 200) != WaterBase+waterLevels-1 {
		t.Fatal("water encoding must clamp to the deepest shade")
	}
}

func TestParameterSetters(t *testing.T) {
	world := NewWithConfig(smallConfig())

	if !world.SetFloatParameter("flow_rate", 3) {
		t.Fatal("expected flow rate to be adjustable")
	}
	if got := world.Config().Params.Erosion.FlowRate; got != 1 {
		t.Fatalf("flow rate = %v, want clamp to 1", got)
	}
	if !world.SetIntParameter("erosion_iterations", 7) {
		t.Fatal("expected iterations to be adjustable")
	}
	if world.SetIntParameter("unknown", 1) || world.SetFloatParameter("seed", 1) {
		t.Fatal("unknown keys must be rejected")
	}

	snap := world.Parameters()
	p, ok := snap.Lookup("erosion_iterations")
	if !ok || p.Value != "7" {
		t.Fatalf("snapshot erosion_iterations = %+v, %v", p, ok)
	}
	if p, ok := snap.Lookup("double_buffer"); !ok || p.Type != core.ParamTypeBool {
		t.Fatalf("double_buffer parameter = %+v", p)
	}

	for _, c := range world.ParameterControls() {
		if _, ok := snap.Lookup(c.Key); !ok {
			t.Fatalf("control %q missing from snapshot", c.Key)
		}
		var accepted bool
		switch c.Type {
		case core.ParamTypeInt:
			accepted = world.SetIntParameter(c.Key, int(c.Min))
		case core.ParamTypeFloat:
			accepted = world.SetFloatParameter(c.Key, c.Min)
		}
		if !accepted {
			t.Fatalf("control %q has no setter", c.Key)
		}
	}
}
