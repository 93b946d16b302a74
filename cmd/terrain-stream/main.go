package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"terrasculpt/internal/app"
	"terrasculpt/internal/core"
	"terrasculpt/internal/settings"
	"terrasculpt/internal/stream"
	_ "terrasculpt/internal/sims/landscape"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	addr := flag.String("addr", "", "listen address (overrides settings)")
	flag.Parse()

	file, found, err := settings.Load(cfg.Settings)
	if err != nil {
		log.Fatalf("settings: %v", err)
	}
	if found {
		cfg.ApplySettings(flag.CommandLine, file)
	}
	if *addr == "" {
		*addr = file.Server.Addr
	}

	factory, err := core.Lookup(cfg.Sim)
	if err != nil {
		log.Fatal(err)
	}
	sim := factory(cfg.Params)
	world, ok := sim.(stream.Terrain)
	if !ok {
		log.Fatalf("sim %q cannot be streamed", cfg.Sim)
	}
	sim.Reset(cfg.Seed)
	if err := world.Err(); err != nil {
		log.Fatalf("generate: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	srv := stream.New(world, file.Server.UpdateInterval(), logger)
	if err := srv.ListenAndServe(ctx, *addr); err != nil {
		log.Fatal(err)
	}
}
