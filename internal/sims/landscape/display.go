package landscape

import (
	"image/color"
	"math"
)

const (
	landLevels  = 48
	waterLevels = 16
	// WaterBase is the first display value used for river vertices.
	WaterBase = landLevels
)

var landscapePalette = buildLandscapePalette()

// Palette exposes the color palette used for rendering the terrain world:
// an elevation gradient followed by water shades from shallow to deep.
func (w *World) Palette() []color.RGBA {
	return landscapePalette
}

type gradientStop struct {
	at  float64
	col color.NRGBA
}

var landStops = []gradientStop{
	{0.00, color.NRGBA{R: 194, G: 178, B: 128, A: 255}},
	{0.15, color.NRGBA{R: 96, G: 150, B: 72, A: 255}},
	{0.45, color.NRGBA{R: 52, G: 110, B: 50, A: 255}},
	{0.70, color.NRGBA{R: 120, G: 100, B: 80, A: 255}},
	{0.88, color.NRGBA{R: 150, G: 150, B: 155, A: 255}},
	{1.00, color.NRGBA{R: 245, G: 245, B: 250, A: 255}},
}

var (
	shallowWater = color.NRGBA{R: 90, G: 160, B: 210, A: 255}
	deepWater    = color.NRGBA{R: 20, G: 50, B: 120, A: 255}
)

func buildLandscapePalette() []color.RGBA {
	palette := make([]color.RGBA, landLevels+waterLevels)
	for i := 0; i < landLevels; i++ {
		palette[i] = toRGBA(gradientAt(float64(i) / float64(landLevels-1)))
	}
	for i := 0; i < waterLevels; i++ {
		t := float64(i) / float64(waterLevels-1)
		palette[WaterBase+i] = toRGBA(blendColors(shallowWater, deepWater, t))
	}
	return palette
}

func gradientAt(t float64) color.NRGBA {
	if t <= landStops[0].at {
		return landStops[0].col
	}
	for i := 1; i < len(landStops); i++ {
		hi := landStops[i]
		if t > hi.at {
			continue
		}
		lo := landStops[i-1]
		return blendColors(lo.col, hi.col, (t-lo.at)/(hi.at-lo.at))
	}
	return landStops[len(landStops)-1].col
}

func toRGBA(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func blendColors(base, overlay color.NRGBA, overlayWeight float64) color.NRGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	br, bg, bb, ba := float64(base.R), float64(base.G), float64(base.B), float64(base.A)
	or, og, ob, oa := float64(overlay.R), float64(overlay.G), float64(overlay.B), float64(overlay.A)
	w := overlayWeight
	inv := 1 - w
	return color.NRGBA{
		R: uint8(br*inv + or*w + 0.5),
		G: uint8(bg*inv + og*w + 0.5),
		B: uint8(bb*inv + ob*w + 0.5),
		A: uint8(ba*inv + oa*w + 0.5),
	}
}

// encodeElevation maps a height onto the land gradient, 0 at sea level and
// landLevels-1 at the height multiplier.
func encodeElevation(h, multiplier float64) uint8 {
	if !(multiplier > 0) {
		return 0
	}
	t := math.Max(0, math.Min(1, h/multiplier))
	return uint8(t*float64(landLevels-1) + 0.5)
}

// encodeWater maps how far a river vertex sits below its generated height
// onto the water shades.
func encodeWater(depth, maxDepth float64) uint8 {
	if !(maxDepth > 0) {
		return WaterBase
	}
	t := math.Max(0, math.Min(1, depth/maxDepth))
	return WaterBase + uint8(t*float64(waterLevels-1)+0.5)
}

func (w *World) rebuildDisplay() {
	if w.grid == nil {
		return
	}
	heights := w.grid.Heights()
	maxDepth := w.cfg.Params.MainRiver.Depth
	for i := range w.display {
		if w.river[i] {
			w.display[i] = encodeWater(-w.grid.Displacement(i), maxDepth)
			continue
		}
		w.display[i] = encodeElevation(heights[i], w.cfg.Params.HeightMultiplier)
	}
}
