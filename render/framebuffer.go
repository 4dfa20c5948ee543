package render

import (
	"image"
	"image/color"
)

// Framebuffer stores a rendered image as packed 0xRRGGBB pixels in display
// order, that is, the first row is the top of the image.
// Framebuffer implements [image.Image].
type Framebuffer struct {
	width  int
	height int
	pix    []uint32
}

// NewFramebuffer allocates a black width×height framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]uint32, width*height),
	}
}

// Width returns the width of the image in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the height of the image in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// Pix returns the underlying packed pixel buffer in display order.
func (fb *Framebuffer) Pix() []uint32 { return fb.pix }

// ColorPixel sets pixel (x,y) where y=0 is the bottom of the image in world terms.
func (fb *Framebuffer) ColorPixel(x, y int, c uint32) {
	fb.worldRow(y)[x] = c
}

// RGB returns the packed color of pixel (x,y) in display coordinates (y=0 is the top row).
func (fb *Framebuffer) RGB(x, y int) uint32 {
	return fb.pix[y*fb.width+x]
}

// worldRow returns the pixels of row y in world terms, where y=0 is the bottom row.
func (fb *Framebuffer) worldRow(y int) []uint32 {
	off := (fb.height - y - 1) * fb.width
	return fb.pix[off : off+fb.width : off+fb.width]
}

// ColorModel implements [image.Image].
func (fb *Framebuffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements [image.Image].
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.width, fb.height)
}

// At implements [image.Image] in display coordinates.
func (fb *Framebuffer) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(fb.Bounds()) {
		return color.RGBA{}
	}
	r, g, b := Unpack(fb.RGB(x, y))
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
