package app

import (
	"math"
	"slices"
	"testing"

	"terrasculpt/internal/sims/landscape"
)

func testWorld(t *testing.T) *landscape.World {
	t.Helper()
	cfg := landscape.DefaultConfig()
	cfg.Width = 12
	cfg.Height = 8
	cfg.Seed = 7
	cfg.Params.TributaryCount = 1
	w := landscape.NewWithConfig(cfg)
	w.Reset(0)
	if err := w.Err(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	return w
}

func TestApplyRaiseAndLower(t *testing.T) {
	w := testWorld(t)
	_, strength := w.Brush()
	i, _ := w.Grid().Index(4, 3)
	before := w.Grid().Heights()[i]

	if err := Apply(w, ToolRaise, 4, 3); err != nil {
		t.Fatalf("raise: %v", err)
	}
	if got := w.Grid().Heights()[i] - before; math.Abs(got-strength) > 1e-9 {
		t.Fatalf("raise moved centre by %v, want %v", got, strength)
	}
	if err := Apply(w, ToolLower, 4, 3); err != nil {
		t.Fatalf("lower: %v", err)
	}
	if got := w.Grid().Heights()[i]; math.Abs(got-before) > 1e-9 {
		t.Fatalf("lower did not undo raise: %v vs %v", got, before)
	}
}

func TestApplyLevelKeepsClickedHeight(t *testing.T) {
	w := testWorld(t)
	i, _ := w.Grid().Index(6, 4)
	before := w.Grid().Heights()[i]
	if err := Apply(w, ToolLevel, 6, 4); err != nil {
		t.Fatalf("level: %v", err)
	}
	if got := w.Grid().Heights()[i]; math.Abs(got-before) > 1e-9 {
		t.Fatalf("centre moved from %v to %v", before, got)
	}
}

func TestApplyErodeAndTributary(t *testing.T) {
	w := testWorld(t)
	if err := Apply(w, ToolErode, 5, 5); err != nil {
		t.Fatalf("erode: %v", err)
	}
	if w.LastErosion() == nil {
		t.Fatalf("erode tool did not record an erosion field")
	}
	paths := len(w.Paths())
	if err := Apply(w, ToolTributary, 1, 1); err != nil {
		t.Fatalf("tributary: %v", err)
	}
	if got := len(w.Paths()); got != paths+1 {
		t.Fatalf("paths = %d, want %d", got, paths+1)
	}
}

func TestApplyOutsideLatticeIsIgnored(t *testing.T) {
	w := testWorld(t)
	before := slices.Clone(w.Grid().Heights())
	for _, tool := range []Tool{ToolRaise, ToolLower, ToolLevel, ToolErode, ToolTributary} {
		if err := Apply(w, tool, -1, 2); err != nil {
			t.Fatalf("%s outside lattice: %v", tool, err)
		}
		if err := Apply(w, tool, 2, 100); err != nil {
			t.Fatalf("%s outside lattice: %v", tool, err)
		}
	}
	if !slices.Equal(before, w.Grid().Heights()) {
		t.Fatalf("clicks outside the lattice changed the terrain")
	}
}

func TestApplyUnknownTool(t *testing.T) {
	w := testWorld(t)
	if err := Apply(w, Tool(42), 0, 0); err == nil {
		t.Fatalf("expected error for unknown tool")
	}
	if got := Tool(42).String(); got != "tool(42)" {
		t.Fatalf("String() = %q", got)
	}
	if got := ToolTributary.String(); got != "tributary" {
		t.Fatalf("String() = %q", got)
	}
}
