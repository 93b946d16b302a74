package landscape

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"terrasculpt/internal/terrain"
	pcore "terrasculpt/pkg/core"
)

// ErosionResult captures telemetry from a deterministic erosion run used for
// tuning.
type ErosionResult struct {
	Params terrain.ErosionParams
	// Removed is the total height removed across every vertex.
	Removed float64
	// DeepestCut is the largest single-vertex height drop.
	DeepestCut float64
	// MeanDrop is Removed divided by the vertex count.
	MeanDrop float64
	// ErodedVertices counts vertices that ended lower than they started.
	ErodedVertices int
	Steps          int
}

// SweepRecord documents a single improvement encountered while exploring the
// erosion parameter space.
type SweepRecord struct {
	Pass      int
	Parameter string
	Value     string
	Result    ErosionResult
	Params    terrain.ErosionParams
}

// ErosionRun generates the configured world, runs steps global erosion
// invocations and measures how far the terrain moved from its post-carve
// state.
func ErosionRun(cfg Config, steps int) ErosionResult {
	result := ErosionResult{Params: cfg.Params.Erosion}
	if steps <= 0 {
		return result
	}
	world := NewWithConfig(cfg)
	world.Reset(0)
	if world.Err() != nil {
		return result
	}
	before := append([]float64(nil), world.Grid().Heights()...)
	for step := 0; step < steps; step++ {
		world.Step()
	}
	result.Steps = steps

	for i, h := range world.Grid().Heights() {
		drop := before[i] - h
		if drop <= 0 {
			continue
		}
		result.Removed += drop
		result.ErodedVertices++
		if drop > result.DeepestCut {
			result.DeepestCut = drop
		}
	}
	if len(before) > 0 {
		result.MeanDrop = result.Removed / float64(len(before))
	}
	return result
}

// SweepErosion evaluates every parameter set against base on a pool of
// workers. Results keep the order of sets.
func SweepErosion(base Config, sets []terrain.ErosionParams, steps, workers int) []ErosionResult {
	if workers <= 0 {
		workers = 1
	}
	type job struct {
		idx    int
		params terrain.ErosionParams
	}
	results := make([]ErosionResult, len(sets))
	jobs := make(chan job)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = ErosionRun(applyErosion(base, j.params), steps)
			}
		}()
	}
	for idx, p := range sets {
		jobs <- job{idx: idx, params: p}
	}
	close(jobs)
	wg.Wait()
	return results
}

type erosionSpec struct {
	name   string
	values []float64
	getter func(terrain.ErosionParams) float64
	setter func(*terrain.ErosionParams, float64)
	format func(float64) string
}

// ErosionParameterSweep performs a coarse coordinate-descent search for the
// erosion parameters whose mean height drop over steps invocations comes
// closest to targetDrop, preferring deeper channels on ties. It returns the
// best parameters, their telemetry and the improvement trace.
func ErosionParameterSweep(base Config, steps, passes, workers int, targetDrop float64) (terrain.ErosionParams, ErosionResult, []SweepRecord) {
	if steps <= 0 {
		steps = 5
	}
	if passes <= 0 {
		passes = 1
	}
	if workers <= 0 {
		workers = 1
	}

	current := base.Params.Erosion
	currentResult := ErosionRun(base, steps)
	records := []SweepRecord{{
		Pass:      0,
		Parameter: "baseline",
		Result:    currentResult,
		Params:    current,
	}}

	better := func(a, b ErosionResult) bool {
		da := math.Abs(a.MeanDrop - targetDrop)
		db := math.Abs(b.MeanDrop - targetDrop)
		if !almostEqual(da, db) {
			return da < db
		}
		return a.DeepestCut > b.DeepestCut
	}

	rng := pcore.NewRNG(base.Seed + 0x5f3759df)
	randomSamples := max(passes*4, 8)
	samples := make([]terrain.ErosionParams, randomSamples)
	for i := range samples {
		samples[i] = randomizeErosion(rng, base.Params.Erosion)
	}
	for i, res := range SweepErosion(base, samples, steps, workers) {
		if better(res, currentResult) {
			current, currentResult = samples[i], res
			records = append(records, SweepRecord{
				Parameter: fmt.Sprintf("random#%d", i+1),
				Result:    res,
				Params:    samples[i],
			})
		}
	}

	formatFloat := func(v float64) string { return fmt.Sprintf("%.3f", v) }
	specs := []erosionSpec{
		{
			name:   "erosion_iterations",
			values: []float64{2, 5, 10, 20, 40},
			getter: func(p terrain.ErosionParams) float64 { return float64(p.Iterations) },
			setter: func(p *terrain.ErosionParams, v float64) { p.Iterations = int(v) },
			format: func(v float64) string { return strconv.Itoa(int(v)) },
		},
		{
			name:   "rain_amount",
			values: []float64{0.25, 0.5, 1, 2, 4},
			getter: func(p terrain.ErosionParams) float64 { return p.RainAmount },
			setter: func(p *terrain.ErosionParams, v float64) { p.RainAmount = v },
			format: formatFloat,
		},
		{
			name:   "erosion_strength",
			values: []float64{0.1, 0.25, 0.5, 1, 2},
			getter: func(p terrain.ErosionParams) float64 { return p.Strength },
			setter: func(p *terrain.ErosionParams, v float64) { p.Strength = v },
			format: formatFloat,
		},
		{
			name:   "flow_rate",
			values: []float64{0.25, 0.5, 0.75, 1},
			getter: func(p terrain.ErosionParams) float64 { return p.FlowRate },
			setter: func(p *terrain.ErosionParams, v float64) { p.FlowRate = v },
			format: formatFloat,
		},
	}

	for pass := 1; pass <= passes; pass++ {
		improved := false
		for _, spec := range specs {
			var candidates []terrain.ErosionParams
			var values []float64
			for _, v := range spec.values {
				if almostEqual(v, spec.getter(current)) {
					continue
				}
				p := current
				spec.setter(&p, v)
				candidates = append(candidates, p)
				values = append(values, v)
			}
			for i, res := range SweepErosion(base, candidates, steps, workers) {
				if !better(res, currentResult) {
					continue
				}
				current, currentResult = candidates[i], res
				improved = true
				records = append(records, SweepRecord{
					Pass:      pass,
					Parameter: spec.name,
					Value:     spec.format(values[i]),
					Result:    res,
					Params:    candidates[i],
				})
			}
		}
		if !improved {
			break
		}
	}
	return current, currentResult, records
}

func almostEqual(a, b float64) bool {
	const eps = 1e-9
	return math.Abs(a-b) <= eps
}

func applyErosion(base Config, p terrain.ErosionParams) Config {
	cfg := base
	cfg.Params.Erosion = p
	return cfg
}

func randomizeErosion(rng *pcore.RNG, base terrain.ErosionParams) terrain.ErosionParams {
	p := base
	p.Iterations = 1 + rng.IntN(40)
	p.RainAmount = rng.Range(0.1, 4)
	p.Strength = rng.Range(0.05, 2)
	p.FlowRate = rng.Range(0.1, 1)
	return p
}
