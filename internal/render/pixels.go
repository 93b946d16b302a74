package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultLight is the direction towards the sun used for hillshading: low in
// the north-west.
var DefaultLight = mgl64.Vec3{-1, -1, 1.5}.Normalize()

// Ambient is the minimum shade applied to faces turned away from the light.
const Ambient = 0.35

// FillMaskRGBA converts mask data (0 or non-zero) into RGBA pixels in buf.
func FillMaskRGBA(buf []byte, mask []uint8, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, c := range mask {
		base := i * 4
		if c != 0 {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

// FillPaletteRGBA converts cell values into RGBA pixels using a palette,
// multiplying colour channels by shade[i] when shade is non-nil. When the
// palette is empty the buffer is cleared to transparent black.
func FillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA, shade []float64) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		s := 1.0
		if i < len(shade) {
			s = shade[i]
		}
		buf[base+0] = scaleChannel(col.R, s)
		buf[base+1] = scaleChannel(col.G, s)
		buf[base+2] = scaleChannel(col.B, s)
		buf[base+3] = col.A
	}
}

func scaleChannel(c uint8, s float64) uint8 {
	v := float64(c)*s + 0.5
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// Hillshade returns a per-vertex shade factor in [Ambient, 1] for the given
// surface normals lit from light.
func Hillshade(normals []mgl64.Vec3, light mgl64.Vec3) []float64 {
	out := make([]float64, len(normals))
	l := light.Normalize()
	for i, n := range normals {
		out[i] = Ambient + (1-Ambient)*math.Max(0, n.Dot(l))
	}
	return out
}
