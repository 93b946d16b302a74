//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"terrasculpt/internal/app"
	"terrasculpt/internal/core"
	"terrasculpt/internal/settings"
	_ "terrasculpt/internal/sims/landscape"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
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

	game := app.New(sim, cfg.Scale, cfg.HUDWidth, cfg.Seed)
	size := sim.Size()

	ebiten.SetWindowTitle("terrasculpt: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	w, h := game.Layout(size.W*cfg.Scale, size.H*cfg.Scale)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
