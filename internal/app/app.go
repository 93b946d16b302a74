//go:build ebiten

package app

import (
	"image/color"
	"log"
	"time"

	"terrasculpt/internal/core"
	"terrasculpt/internal/render"
	"terrasculpt/internal/terrain"
	"terrasculpt/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

type gridProvider interface {
	Grid() *terrain.HeightGrid
}

// Game adapts a terrain simulation to the ebiten.Game interface. The view
// is paused by default; Space toggles continuous erosion.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
	tool     Tool
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, scale, hudWidth int, seed int64) *Game {
	size := sim.Size()
	return &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		overlay: ui.NewOverlay(sim, scale),
		hud:     ui.NewHUD(sim, hudWidth),
		scale:   scale,
		paused:  true,
		seed:    seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	for key, tool := range map[ebiten.Key]Tool{
		ebiten.KeyU: ToolRaise,
		ebiten.KeyD: ToolLower,
		ebiten.KeyL: ToolLevel,
		ebiten.KeyE: ToolErode,
		ebiten.KeyT: ToolTributary,
	} {
		if inpututil.IsKeyJustPressed(key) {
			g.tool = tool
		}
	}

	g.overlay.Update()
	viewW := g.sim.Size().W * g.scale
	g.hud.Update(viewW)
	g.handleClick(viewW)

	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

func (g *Game) handleClick(viewW int) {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	target, ok := g.sim.(Brushable)
	if !ok {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx >= viewW {
		return
	}
	if err := Apply(target, g.tool, mx/g.scale, my/g.scale); err != nil {
		log.Printf("%s: %v", g.tool, err)
	}
}

// Draw renders the current terrain with hillshading, then the overlay and
// the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	var palette []color.RGBA
	if p, ok := g.sim.(paletteProvider); ok {
		palette = p.Palette()
	}
	var shade []float64
	if gp, ok := g.sim.(gridProvider); ok && gp.Grid() != nil {
		shade = render.Hillshade(gp.Grid().Normals(), render.DefaultLight)
	}
	g.painter.Blit(screen, g.sim.Cells(), palette, shade, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hud.Width(), s.H * g.scale
}
