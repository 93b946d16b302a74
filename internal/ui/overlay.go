//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"terrasculpt/internal/core"
	"terrasculpt/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var (
	mainRiverColor = color.RGBA{R: 140, G: 220, B: 255, A: 230}
	tributaryColor = color.RGBA{R: 90, G: 180, B: 240, A: 200}
	dirtyColor     = color.RGBA{R: 255, G: 220, B: 60, A: 110}
	erosionTint    = color.RGBA{R: 255, G: 90, B: 40, A: 0}
)

// Overlay draws optional debugging layers on top of the terrain view:
// river centre lines (1), vertices awaiting upload (2) and the most recent
// erosion field (3).
type Overlay struct {
	sim         core.Sim
	scale       int
	showPaths   bool
	showDirty   bool
	showErosion bool

	maskImg *ebiten.Image
	maskBuf []byte
	dirty   *render.GridPainter
	pixel   *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: max(scale, 1), showPaths: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles layers from the number keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showPaths = !o.showPaths
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showDirty = !o.showDirty
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showErosion = !o.showErosion
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	provider, ok := o.sim.(terrainProvider)
	if !ok || provider.Grid() == nil {
		return
	}
	grid := provider.Grid()

	if o.showErosion {
		if ep, ok := o.sim.(erosionProvider); ok {
			o.drawMask(screen, size, erosionIntensity(ep.LastErosion(), size.W*size.H))
		}
	}
	if o.showDirty {
		if o.dirty == nil {
			o.dirty = render.NewGridPainter(size.W, size.H)
		}
		o.dirty.BlitMask(screen, dirtyMask(grid), dirtyColor, o.scale)
	}
	if o.showPaths {
		thickness := math.Max(1, float64(o.scale)*0.6)
		for i, path := range provider.Paths() {
			col := tributaryColor
			if i == 0 {
				col = mainRiverColor
			}
			for k := 1; k < len(path); k++ {
				x1, y1 := screenPoint(path[k-1], grid.TileSize, o.scale)
				x2, y2 := screenPoint(path[k], grid.TileSize, o.scale)
				o.drawLine(screen, x1, y1, x2, y2, thickness, col)
			}
		}
	}
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawMask(screen *ebiten.Image, size core.Size, mask []float32) {
	total := size.W * size.H
	if len(mask) != total {
		return
	}
	if o.maskImg == nil || len(o.maskBuf) != 4*total {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*total)
	}
	const (
		maxAlpha  = 160.0
		glowBase  = 0.35
		glowRange = 0.65
	)
	for i, v := range mask {
		base := i * 4
		intensity := math.Max(0, math.Min(1, float64(v)))
		if intensity == 0 {
			clear(o.maskBuf[base : base+4])
			continue
		}
		glow := glowBase + glowRange*math.Sqrt(intensity)
		o.maskBuf[base+0] = uint8(float64(erosionTint.R) * glow)
		o.maskBuf[base+1] = uint8(float64(erosionTint.G) * glow)
		o.maskBuf[base+2] = uint8(float64(erosionTint.B) * glow)
		o.maskBuf[base+3] = uint8(math.Round(maxAlpha * math.Pow(intensity, 0.75)))
	}
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.maskImg, op)
}
