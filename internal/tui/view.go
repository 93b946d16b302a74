// Package tui renders a terrain simulation in a terminal with tcell.
package tui

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"

	"terrasculpt/internal/app"
	"terrasculpt/internal/core"
	"terrasculpt/internal/terrain"
)

const statusRows = 3

type paletteProvider interface {
	Palette() []color.RGBA
}

type statusProvider interface {
	Status() []string
}

type flusher interface {
	Flush(sink terrain.Sink) error
}

// View draws one lattice vertex per terminal cell, striding across the
// lattice when it is larger than the screen. Arrow keys move a cursor that
// the selected tool is applied at.
type View struct {
	screen tcell.Screen
	sim    core.Sim

	cursorX, cursorY int
	tool             app.Tool
	paused           bool
	seed             int64

	uploads   int
	lastDirty int
	lastErr   error
}

// NewView binds sim to an initialised screen.
func NewView(screen tcell.Screen, sim core.Sim, seed int64) *View {
	size := sim.Size()
	return &View{
		screen:  screen,
		sim:     sim,
		cursorX: size.W / 2,
		cursorY: size.H / 2,
		paused:  true,
		seed:    seed,
	}
}

// Upload records a mesh flush. View implements terrain.Sink so the world can
// be flushed to it after every change.
func (v *View) Upload(m terrain.Mesh) error {
	v.uploads++
	v.lastDirty = len(m.Dirty)
	return nil
}

// Cursor returns the lattice vertex under the cursor.
func (v *View) Cursor() (int, int) { return v.cursorX, v.cursorY }

// Tool returns the selected tool.
func (v *View) Tool() app.Tool { return v.tool }

// Paused reports whether continuous erosion is stopped.
func (v *View) Paused() bool { return v.paused }

// HandleEvent applies one terminal event. It returns false when the view
// should exit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *View) handleKey(ev *tcell.EventKey) bool {
	size := v.sim.Size()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		v.cursorX = max(v.cursorX-1, 0)
	case tcell.KeyRight:
		v.cursorX = min(v.cursorX+1, size.W-1)
	case tcell.KeyUp:
		v.cursorY = max(v.cursorY-1, 0)
	case tcell.KeyDown:
		v.cursorY = min(v.cursorY+1, size.H-1)
	case tcell.KeyEnter:
		v.applyTool()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			v.paused = !v.paused
		case 'n':
			v.step()
		case 'r':
			v.sim.Reset(v.seed)
			v.flush()
		case 'u':
			v.tool = app.ToolRaise
		case 'd':
			v.tool = app.ToolLower
		case 'l':
			v.tool = app.ToolLevel
		case 'e':
			v.tool = app.ToolErode
		case 't':
			v.tool = app.ToolTributary
		}
	}
	return true
}

func (v *View) applyTool() {
	target, ok := v.sim.(app.Brushable)
	if !ok {
		return
	}
	v.lastErr = app.Apply(target, v.tool, v.cursorX, v.cursorY)
	v.flush()
}

func (v *View) step() {
	v.sim.Step()
	v.flush()
}

func (v *View) flush() {
	if f, ok := v.sim.(flusher); ok {
		if err := f.Flush(v); err != nil {
			v.lastErr = err
		}
	}
}

// Tick advances the simulation unless paused.
func (v *View) Tick() {
	if !v.paused {
		v.step()
	}
}

// Draw renders the heightmap and status lines.
func (v *View) Draw() {
	v.screen.Clear()
	sw, sh := v.screen.Size()
	mapH := max(sh-statusRows, 0)
	size := v.sim.Size()
	cells := v.sim.Cells()

	var palette []color.RGBA
	if p, ok := v.sim.(paletteProvider); ok {
		palette = p.Palette()
	}
	strideX := stride(size.W, sw)
	strideY := stride(size.H, mapH)

	for cy := 0; cy < mapH; cy++ {
		y := cy * strideY
		if y >= size.H {
			break
		}
		for cx := 0; cx < sw; cx++ {
			x := cx * strideX
			if x >= size.W {
				break
			}
			i := y*size.W + x
			if i >= len(cells) {
				continue
			}
			style := tcell.StyleDefault.Background(cellColor(palette, cells[i]))
			ch := ' '
			if x/strideX == v.cursorX/strideX && y/strideY == v.cursorY/strideY {
				ch = '+'
				style = style.Foreground(tcell.ColorRed).Bold(true)
			}
			v.screen.SetContent(cx, cy, ch, nil, style)
		}
	}

	row := mapH
	for _, line := range v.statusLines() {
		if row >= sh {
			break
		}
		drawText(v.screen, 0, row, line, tcell.StyleDefault)
		row++
	}
	v.screen.Show()
}

func (v *View) statusLines() []string {
	var lines []string
	if s, ok := v.sim.(statusProvider); ok {
		lines = append(lines, s.Status()...)
	}
	state := "running"
	if v.paused {
		state = "paused"
	}
	line := fmt.Sprintf("%s  tool %s  cursor %d,%d  uploads %d (%d dirty)",
		state, v.tool, v.cursorX, v.cursorY, v.uploads, v.lastDirty)
	if v.lastErr != nil {
		line += "  error: " + v.lastErr.Error()
	}
	return append(lines, line)
}

// Run polls terminal events and ticks the simulation until the user quits
// or ctx is done.
func (v *View) Run(ctx context.Context, tps int) {
	if tps <= 0 {
		tps = 10
	}
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !v.HandleEvent(ev) {
				return
			}
			v.Draw()
		case <-ticker.C:
			v.Tick()
			v.Draw()
		}
	}
}

func stride(n, space int) int {
	if space <= 0 || n <= space {
		return 1
	}
	return (n + space - 1) / space
}

func cellColor(palette []color.RGBA, value uint8) tcell.Color {
	if int(value) >= len(palette) {
		return tcell.ColorBlack
	}
	c := palette[value]
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
