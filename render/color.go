package render

import (
	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
)

// Color is a linear RGB color with channels nominally in 0..1. Channels
// may exceed 1 while light contributions are being accumulated; they are
// clamped when packed into a pixel.
type Color struct {
	R, G, B float32
}

// Grey returns a color with all channels set to v.
func Grey(v float32) Color { return Color{R: v, G: v, B: v} }

// Add returns the channel-wise sum of c and d.
func (c Color) Add(d Color) Color {
	return Color{R: c.R + d.R, G: c.G + d.G, B: c.B + d.B}
}

// Mul returns the channel-wise product of c and d.
func (c Color) Mul(d Color) Color {
	return Color{R: c.R * d.R, G: c.G * d.G, B: c.B * d.B}
}

// Scale returns c with every channel multiplied by f.
func (c Color) Scale(f float32) Color {
	return Color{R: c.R * f, G: c.G * f, B: c.B * f}
}

// Pack converts c to a 24 bit RGB value stored in the least significant
// bits of a uint32. Channels are clamped to 0..1 and rounded to the nearest
// 8 bit value. NaN channels are packed as zero.
func (c Color) Pack() uint32 {
	return uint32(channel8(c.R))<<16 | uint32(channel8(c.G))<<8 | uint32(channel8(c.B))
}

func channel8(v float32) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(ms1.Clamp(v, 0, 1) * math.MaxUint8))
}

// Unpack splits a 24 bit packed RGB value into its 8 bit channels.
func Unpack(c uint32) (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// PackRGB packs 8 bit channels into a 24 bit RGB value.
func PackRGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// averagePacked averages packed samples channel by channel, rounding
// each channel average independently.
func averagePacked(samples []uint32) uint32 {
	if len(samples) == 0 {
		return 0
	}
	var sr, sg, sb uint32
	for _, s := range samples {
		r, g, b := Unpack(s)
		sr += uint32(r)
		sg += uint32(g)
		sb += uint32(b)
	}
	n := float32(len(samples))
	return PackRGB(
		uint8(math.Round(float32(sr)/n)),
		uint8(math.Round(float32(sg)/n)),
		uint8(math.Round(float32(sb)/n)),
	)
}
