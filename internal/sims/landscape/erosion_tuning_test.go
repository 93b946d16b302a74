package landscape

import (
	"testing"

	"terrasculpt/internal/terrain"
)

func tuningConfig() Config {
	cfg := smallConfig()
	cfg.Width = 16
	cfg.Height = 12
	cfg.Params.TributaryCount = 1
	return cfg
}

func TestErosionRunMeasuresDrop(t *testing.T) {
	cfg := tuningConfig()
	res := ErosionRun(cfg, 2)
	if res.Steps != 2 || res.Removed <= 0 || res.ErodedVertices == 0 {
		t.Fatalf("result = %+v", res)
	}
	if res.DeepestCut <= 0 || res.DeepestCut > res.Removed {
		t.Fatalf("deepest cut %v inconsistent with removed %v", res.DeepestCut, res.Removed)
	}
	if again := ErosionRun(cfg, 2); again != res {
		t.Fatalf("erosion run not deterministic: %+v vs %+v", again, res)
	}
	if empty := ErosionRun(cfg, 0); empty.Removed != 0 || empty.Steps != 0 {
		t.Fatalf("zero steps result = %+v", empty)
	}
}

func TestSweepErosionKeepsOrder(t *testing.T) {
	cfg := tuningConfig()
	light := terrain.DefaultErosionParams()
	light.Strength = 0.1
	heavy := light
	heavy.Strength = 1.5
	sets := []terrain.ErosionParams{heavy, light, heavy}

	serial := SweepErosion(cfg, sets, 1, 1)
	parallel := SweepErosion(cfg, sets, 1, 3)
	for i := range sets {
		if serial[i] != parallel[i] {
			t.Fatalf("result %d differs between worker counts", i)
		}
		if serial[i].Params != sets[i] {
			t.Fatalf("result %d reports params %+v", i, serial[i].Params)
		}
	}
	if !(serial[0].Removed > serial[1].Removed) {
		t.Fatalf("heavy strength removed %v, light %v", serial[0].Removed, serial[1].Removed)
	}
}

func TestErosionParameterSweepApproachesTarget(t *testing.T) {
	cfg := tuningConfig()
	baseline := ErosionRun(cfg, 1)
	target := baseline.MeanDrop * 3

	params, result, trace := ErosionParameterSweep(cfg, 1, 1, 4, target)
	if len(trace) == 0 || trace[0].Parameter != "baseline" {
		t.Fatalf("trace must start with the baseline, got %+v", trace)
	}
	if result.Params != params {
		t.Fatal("result must describe the returned params")
	}
	gotGap := abs(result.MeanDrop - target)
	baseGap := abs(baseline.MeanDrop - target)
	if gotGap > baseGap {
		t.Fatalf("sweep moved away from target: gap %v > baseline %v", gotGap, baseGap)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
