package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"terrasculpt/internal/app"
	"terrasculpt/internal/core"
	"terrasculpt/internal/settings"
	_ "terrasculpt/internal/sims/landscape"
	"terrasculpt/internal/tui"
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

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tui.NewView(screen, sim, cfg.Seed).Run(ctx, cfg.TPS)
}
