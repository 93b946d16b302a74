package landscape

import (
	"strconv"

	"terrasculpt/internal/noise"
	"terrasculpt/internal/terrain"
)

// Params holds the generation, river and erosion tunables of a terrain world.
type Params struct {
	Noise            noise.Config
	HeightMultiplier float64

	MainRiver      terrain.RiverParams
	Tributary      terrain.RiverParams
	TributaryCount int

	Erosion terrain.ErosionParams

	// BrushRadius and BrushStrength drive the interactive sculpt, level and
	// localized erosion tools in world units.
	BrushRadius   float64
	BrushStrength float64
}

// Config controls the terrain world dimensions.
type Config struct {
	Width    int
	Height   int
	TileSize float64

	Seed int64

	Params Params
}

// DefaultConfig returns the standard configuration: a 100x100-cell map with
// 100-unit tiles, one main river and a few tributaries.
func DefaultConfig() Config {
	return Config{
		Width:    100,
		Height:   100,
		TileSize: 100,
		Seed:     1337,
		Params: Params{
			Noise:            noise.DefaultConfig(),
			HeightMultiplier: 300,
			MainRiver:        terrain.MainRiver,
			Tributary:        terrain.TributaryRiver,
			TributaryCount:   3,
			Erosion:          terrain.DefaultErosionParams(),
			BrushRadius:      300,
			BrushStrength:    20,
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparseable or out-of-range values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	p := &c.Params

	positiveInt(cfg, "w", &c.Width)
	positiveInt(cfg, "h", &c.Height)
	positiveFloat(cfg, "tile", &c.TileSize)
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}

	positiveFloat(cfg, "noise_scale", &p.Noise.Scale)
	positiveInt(cfg, "octaves", &p.Noise.Octaves)
	nonNegativeFloat(cfg, "persistence", &p.Noise.Persistence)
	positiveFloat(cfg, "lacunarity", &p.Noise.Lacunarity)
	positiveFloat(cfg, "frequency", &p.Noise.Frequency)
	if v, ok := cfg["basis"]; ok {
		switch b := noise.Basis(v); b {
		case noise.BasisPerlin, noise.BasisSimplex:
			p.Noise.Basis = b
		}
	}
	nonNegativeFloat(cfg, "height_multiplier", &p.HeightMultiplier)

	riverFromMap(cfg, "river", &p.MainRiver)
	riverFromMap(cfg, "tributary", &p.Tributary)
	nonNegativeInt(cfg, "tributary_count", &p.TributaryCount)

	nonNegativeInt(cfg, "erosion_iterations", &p.Erosion.Iterations)
	nonNegativeFloat(cfg, "rain_amount", &p.Erosion.RainAmount)
	nonNegativeFloat(cfg, "erosion_strength", &p.Erosion.Strength)
	positiveFloat(cfg, "flow_rate", &p.Erosion.FlowRate)
	nonNegativeFloat(cfg, "channel_depth", &p.Erosion.ChannelDepth)
	nonNegativeFloat(cfg, "channel_boost", &p.Erosion.ChannelBoost)
	if v, ok := cfg["double_buffer"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			p.Erosion.DoubleBuffer = parsed
		}
	}

	positiveFloat(cfg, "brush_radius", &p.BrushRadius)
	if v, ok := cfg["brush_strength"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			p.BrushStrength = parsed
		}
	}
	return c
}

func riverFromMap(cfg map[string]string, prefix string, r *terrain.RiverParams) {
	positiveInt(cfg, prefix+"_points", &r.Points)
	nonNegativeFloat(cfg, prefix+"_amplitude", &r.Amplitude)
	nonNegativeFloat(cfg, prefix+"_frequency", &r.Frequency)
	positiveFloat(cfg, prefix+"_width", &r.Width)
	nonNegativeFloat(cfg, prefix+"_depth", &r.Depth)
}

func positiveInt(cfg map[string]string, key string, dst *int) {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			*dst = parsed
		}
	}
}

func nonNegativeInt(cfg map[string]string, key string, dst *int) {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			*dst = parsed
		}
	}
}

func positiveFloat(cfg map[string]string, key string, dst *float64) {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			*dst = parsed
		}
	}
}

func nonNegativeFloat(cfg map[string]string, key string, dst *float64) {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			*dst = parsed
		}
	}
}
