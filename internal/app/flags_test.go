package app

import (
	"flag"
	"testing"

	"terrasculpt/internal/settings"
)

func TestBindParsesFlags(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("terrain", flag.ContinueOnError)
	cfg.Bind(fs)
	err := fs.Parse([]string{
		"-sim", "terrain-simplex",
		"-scale", "3",
		"-seed", "-9",
		"-set", "w=40",
		"-set", "river_width=120",
		"-set", "w=48",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Sim != "terrain-simplex" || cfg.Scale != 3 || cfg.Seed != -9 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.TPS != 10 || cfg.HUDWidth != 260 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.Params["w"] != "48" || cfg.Params["river_width"] != "120" {
		t.Fatalf("params = %v", cfg.Params)
	}
	if got := cfg.Params.String(); got != "river_width=120,w=48" {
		t.Fatalf("String() = %q", got)
	}
}

func TestParamsRejectsMalformed(t *testing.T) {
	p := Params{}
	for _, in := range []string{"noequals", "=value"} {
		if err := p.Set(in); err == nil {
			t.Fatalf("Set(%q) should fail", in)
		}
	}
	if err := p.Set("basis="); err != nil {
		t.Fatalf("empty value should be accepted: %v", err)
	}
	if v, ok := p["basis"]; !ok || v != "" {
		t.Fatalf("params = %v", p)
	}
}

func TestApplySettingsRespectsExplicitFlags(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("terrain", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-seed", "5", "-set", "w=20"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	file := settings.Default()
	file.Sim = "terrain-simplex"
	file.Seed = 77
	file.Params["w"] = "99"
	file.Params["h"] = "30"

	cfg.ApplySettings(fs, file)
	if cfg.Sim != "terrain-simplex" {
		t.Fatalf("sim = %q", cfg.Sim)
	}
	if cfg.Seed != 5 {
		t.Fatalf("explicit seed overridden: %d", cfg.Seed)
	}
	if cfg.Params["w"] != "20" || cfg.Params["h"] != "30" {
		t.Fatalf("params = %v", cfg.Params)
	}
}
