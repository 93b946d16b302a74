// Package noise generates fractal heightfield values from smooth 2D gradient
// noise.
package noise

import (
	"errors"
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// ErrInvalidConfiguration is returned when a Config cannot produce a bounded
// fractal sum (for example zero octaves).
var ErrInvalidConfiguration = errors.New("noise: invalid configuration")

// Basis names the base gradient-noise primitive summed by a Field.
type Basis string

const (
	BasisPerlin  Basis = "perlin"
	BasisSimplex Basis = "simplex"
)

// Config holds the fractal noise parameters for one generation run.
type Config struct {
	Scale       float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Seed        int64

	// Frequency of the first octave.
	Frequency float64
	Basis     Basis
}

// DefaultConfig returns the standard map settings.
func DefaultConfig() Config {
	return Config{
		Scale:       50,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2,
		Seed:        1337,
		Frequency:   6.5,
		Basis:       BasisPerlin,
	}
}

// Validate reports why c cannot be sampled, wrapping ErrInvalidConfiguration.
func (c Config) Validate() error {
	switch {
	case c.Octaves < 1:
		return fmt.Errorf("%w: octaves must be >= 1, got %d", ErrInvalidConfiguration, c.Octaves)
	case !finitePositive(c.Scale):
		return fmt.Errorf("%w: scale must be finite and > 0, got %g", ErrInvalidConfiguration, c.Scale)
	case !finitePositive(c.Frequency):
		return fmt.Errorf("%w: frequency must be finite and > 0, got %g", ErrInvalidConfiguration, c.Frequency)
	case !finitePositive(c.Lacunarity):
		return fmt.Errorf("%w: lacunarity must be finite and > 0, got %g", ErrInvalidConfiguration, c.Lacunarity)
	case !(c.Persistence >= 0) || math.IsInf(c.Persistence, 1):
		return fmt.Errorf("%w: persistence must be finite and >= 0, got %g", ErrInvalidConfiguration, c.Persistence)
	}
	switch c.Basis {
	case BasisPerlin, BasisSimplex, "":
		return nil
	default:
		return fmt.Errorf("%w: unknown basis %q", ErrInvalidConfiguration, c.Basis)
	}
}

func finitePositive(v float64) bool { return v > 0 && !math.IsInf(v, 1) }

// Field samples multi-octave noise in [0, 1]. It is deterministic for a
// given Config and safe for concurrent reads.
type Field struct {
	cfg  Config
	base func(x, y float64) float64
}

// New builds a Field for cfg. An empty Basis selects Perlin noise.
func New(cfg Config) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Basis == "" {
		cfg.Basis = BasisPerlin
	}
	f := &Field{cfg: cfg}
	switch cfg.Basis {
	case BasisSimplex:
		f.base = opensimplex.New(cfg.Seed).Eval2
	default:
		// One octave only; the fractal sum happens in Sample.
		f.base = perlin.NewPerlin(2, 2, 1, cfg.Seed).Noise2D
	}
	return f, nil
}

// Config returns the configuration the field was built with.
func (f *Field) Config() Config { return f.cfg }

// Sample returns the normalised fractal value at (x, y).
func (f *Field) Sample(x, y float64) float64 {
	total := 0.0
	maxValue := 0.0
	amplitude := 1.0
	freq := f.cfg.Frequency

	for i := 0; i < f.cfg.Octaves; i++ {
		sx := x / f.cfg.Scale * freq
		sy := y / f.cfg.Scale * freq
		v := clamp01(f.base(sx, sy)*0.5 + 0.5)

		total += v * amplitude
		maxValue += amplitude
		amplitude *= f.cfg.Persistence
		freq *= f.cfg.Lacunarity
	}
	return total / maxValue
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
