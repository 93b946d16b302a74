package main

import (
	"flag"
	"fmt"
	"runtime"
	"sort"
	"time"

	"terrasculpt/internal/app"
	"terrasculpt/internal/sims/landscape"
	"terrasculpt/internal/terrain"
)

func main() {
	steps := flag.Int("steps", 10, "erosion invocations per candidate")
	passes := flag.Int("passes", 3, "coordinate-descent passes to execute")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel candidate evaluations")
	target := flag.Float64("target", 2.0, "target mean height drop per vertex")
	grid := flag.Bool("grid", false, "run the exhaustive grid sweep instead of the tuner")
	manualOnly := flag.Bool("manual", false, "skip sweeping and only evaluate the provided overrides")
	overrides := app.Params{"w": "64", "h": "64"}
	flag.Var(overrides, "set", "parameter override in key=value form (repeatable)")
	flag.Parse()

	cfg := landscape.FromMap(overrides)

	baseline := landscape.ErosionRun(cfg, *steps)
	fmt.Printf("Baseline: %s\n", describe(baseline))

	if *manualOnly {
		fmt.Println("Manual evaluation requested; skipping sweep.")
		printParams(cfg.Params.Erosion)
		return
	}
	if *grid {
		gridSweep(cfg, *steps, *workers)
		return
	}

	params, result, trace := landscape.ErosionParameterSweep(cfg, *steps, *passes, *workers, *target)
	fmt.Printf("\nBest found (target mean drop %.2f): %s\n", *target, describe(result))
	printParams(params)

	if len(trace) > 1 {
		fmt.Println("\nImprovements:")
		for _, rec := range trace[1:] {
			fmt.Printf("  pass %d: %s=%s -> %s\n", rec.Pass, rec.Parameter, rec.Value, describe(rec.Result))
		}
	}
}

func gridSweep(cfg landscape.Config, steps, workers int) {
	var sets []terrain.ErosionParams
	for _, iterations := range []int{5, 10, 20} {
		for _, rain := range []float64{0.5, 1, 2} {
			for _, strength := range []float64{0.25, 0.5, 1} {
				for _, flow := range []float64{0.25, 0.5, 1} {
					p := cfg.Params.Erosion
					p.Iterations = iterations
					p.RainAmount = rain
					p.Strength = strength
					p.FlowRate = flow
					sets = append(sets, p)
				}
			}
		}
	}

	fmt.Printf("Sweeping %d parameter sets (%d workers, %d steps)\n", len(sets), workers, steps)
	start := time.Now()
	all := landscape.SweepErosion(cfg, sets, steps, workers)
	sort.SliceStable(all, func(i, j int) bool { return all[i].DeepestCut > all[j].DeepestCut })

	fmt.Printf("\nTop 5 results (elapsed %s):\n", time.Since(start).Round(time.Millisecond))
	for i := 0; i < len(all) && i < 5; i++ {
		res := all[i]
		fmt.Printf("%2d) %s iterations=%d rain=%.2f strength=%.2f flow=%.2f\n",
			i+1, describe(res), res.Params.Iterations, res.Params.RainAmount, res.Params.Strength, res.Params.FlowRate)
	}
}

func describe(r landscape.ErosionResult) string {
	return fmt.Sprintf("removed %.1f, mean drop %.3f, deepest cut %.2f, eroded vertices %d over %d steps",
		r.Removed, r.MeanDrop, r.DeepestCut, r.ErodedVertices, r.Steps)
}

func printParams(p terrain.ErosionParams) {
	fmt.Println("Parameters:")
	fmt.Printf("  erosion_iterations=%d\n", p.Iterations)
	fmt.Printf("  rain_amount=%.3f\n", p.RainAmount)
	fmt.Printf("  erosion_strength=%.3f\n", p.Strength)
	fmt.Printf("  flow_rate=%.3f\n", p.FlowRate)
	fmt.Printf("  channel_depth=%.3f\n", p.ChannelDepth)
	fmt.Printf("  channel_boost=%.3f\n", p.ChannelBoost)
	fmt.Printf("  double_buffer=%t\n", p.DoubleBuffer)
}
