package main

import (
	"flag"
	"log"

	"terrasculpt/internal/app"
	"terrasculpt/internal/core"
	"terrasculpt/internal/settings"
	_ "terrasculpt/internal/sims/landscape"
	"terrasculpt/internal/view3d"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	width := flag.Int("width", 1280, "window width")
	height := flag.Int("height", 800, "window height")
	flag.Parse()

	file, found, err := settings.Load(cfg.Settings)
	if err != nil {
		log.Fatalf("settings: %v", err)
	}
	if found {
		cfg.ApplySettings(flag.CommandLine, file)
	}

	factory, err := core.Lookup(cfg.Sim)
	if err != nil {
		log.Fatal(err)
	}
	sim := factory(cfg.Params)
	sim.Reset(cfg.Seed)

	viewer, err := view3d.New(sim, cfg.Seed)
	if err != nil {
		log.Fatal(err)
	}
	if err := viewer.Run(int32(*width), int32(*height), cfg.TPS); err != nil {
		log.Fatal(err)
	}
}
