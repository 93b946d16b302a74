package app

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"terrasculpt/internal/settings"
)

// Params collects repeated -set key=value flags into a sim config map.
type Params map[string]string

// String implements flag.Value.
func (p Params) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + p[k]
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value.
func (p Params) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	p[key] = val
	return nil
}

// Config represents the command-line parameters for the viewers.
type Config struct {
	Sim      string
	Scale    int
	TPS      int
	Seed     int64
	HUDWidth int
	Settings string
	Params   Params
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Sim:      "terrain",
		Scale:    6,
		TPS:      10,
		Seed:     1337,
		HUDWidth: 260,
		Params:   Params{},
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "parameter panel width in pixels (0 hides it)")
	fs.StringVar(&c.Settings, "settings", c.Settings, "optional JSON settings file")
	fs.Var(c.Params, "set", "sim parameter override in key=value form (repeatable)")
}

// ApplySettings fills in values from a settings file. Flags given explicitly
// on fs win over the file, and -set overrides win over file params.
func (c *Config) ApplySettings(fs *flag.FlagSet, s settings.Settings) {
	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	if !explicit["sim"] && s.Sim != "" {
		c.Sim = s.Sim
	}
	if !explicit["seed"] && s.Seed != 0 {
		c.Seed = s.Seed
	}
	c.Params = Params(s.Merge(c.Params))
}
