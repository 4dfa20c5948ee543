package gfractalaux

import (
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/soypat/gfractal"
	"github.com/soypat/gfractal/render"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const (
	minCaptionSize = 10
	maxCaptionSize = 24
)

var captionFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// captionBackground darkens the area under the caption so it is legible over bright renders.
var captionBackground = image.NewUniform(color.RGBA{A: 160})

// DrawCaption draws text over the top left corner of img on a translucent dark box.
// The font size is chosen from the image height.
func DrawCaption(img draw.Image, text string) error {
	ttf, err := captionFont()
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	size := min(maxCaptionSize, max(minCaptionSize, float64(bounds.Dy())/32))
	face := truetype.NewFace(ttf, &truetype.Options{Size: size, Hinting: font.HintingFull})
	defer face.Close()

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	pad := lineHeight / 3
	var width fixed.Int26_6
	for _, line := range lines {
		width = max(width, font.MeasureString(face, line))
	}
	box := image.Rect(0, 0, width.Ceil()+2*pad, len(lines)*lineHeight+2*pad).Add(bounds.Min).Intersect(bounds)
	draw.Draw(img, box, captionBackground, image.Point{}, draw.Over)

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(ttf)
	c.SetFontSize(size)
	c.SetHinting(font.HintingFull)
	c.SetClip(box)
	c.SetDst(img)
	c.SetSrc(image.White)
	pt := freetype.Pt(bounds.Min.X+pad, bounds.Min.Y+pad+metrics.Ascent.Ceil())
	for _, line := range lines {
		_, err = c.DrawString(line, pt)
		if err != nil {
			return err
		}
		pt.Y += fixed.I(lineHeight)
	}
	return nil
}

// Caption returns a description of f and the camera suitable for [DrawCaption].
func Caption(f *gfractal.Fractal, cam render.Camera) string {
	var b strings.Builder
	b.WriteString(f.String())
	for _, p := range f.Parameters() {
		b.WriteString("  ")
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	pos := cam.Position()
	dir := cam.Direction()
	b.WriteByte('\n')
	b.WriteString("camera ")
	b.WriteString(formatVec(pos.X, pos.Y, pos.Z))
	b.WriteString(" looking ")
	b.WriteString(formatVec(dir.X, dir.Y, dir.Z))
	return b.String()
}
