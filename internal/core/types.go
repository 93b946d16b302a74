package core

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a terrain simulation must implement.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// Names returns the registered simulation names in sorted order.
func Names() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a simulation factory by name. Unknown names produce an
// error that suggests the closest registered name when one is near enough.
func Lookup(name string) (Factory, error) {
	if f, ok := sims[name]; ok {
		return f, nil
	}
	if suggestion := closestName(name); suggestion != "" {
		return nil, fmt.Errorf("unknown sim %q (did you mean %q?)", name, suggestion)
	}
	return nil, fmt.Errorf("unknown sim %q (available: %v)", name, Names())
}

func closestName(name string) string {
	best := ""
	bestDist := 0
	for _, cand := range Names() {
		dist := levenshtein.ComputeDistance(name, cand)
		if dist > suggestionLimit(len(cand)) {
			continue
		}
		if best == "" || dist < bestDist {
			best = cand
			bestDist = dist
		}
	}
	return best
}

func suggestionLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
