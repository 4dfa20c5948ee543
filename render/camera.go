package render

import (
	"math"

	"github.com/soypat/geometry/md3"
	"github.com/soypat/gfractal/sdfeval"
)

const (
	// FieldOfView is the horizontal field of view of the camera in radians.
	FieldOfView = 70 * math.Pi / 180
	// imageDistance is the distance from the camera position to the image plane.
	imageDistance = 1.0
)

// Camera is a perspective pinhole camera. Cameras are immutable values:
// moving a camera creates a new Camera with its basis and image plane recomputed,
// so a Camera is always internally consistent.
type Camera struct {
	position    md3.Vec
	direction   md3.Vec
	up          md3.Vec
	horizontal  md3.Vec
	vertical    md3.Vec
	imageCenter md3.Vec
	minX, maxX  float64
	minY, maxY  float64
	width       int
	height      int
}

// NewCamera creates a camera at position looking along direction for an image
// of width×height pixels. up must not be parallel to direction.
func NewCamera(position, direction, up md3.Vec, width, height int) Camera {
	c := Camera{width: width, height: height}
	return c.Adjust(position, direction, up)
}

// Adjust returns a camera with the same image dimensions as c placed at position and
// oriented by direction and up. The up vector is orthogonalized against direction.
// If up is parallel to direction the resulting camera geometry is degenerate (NaN).
func (c Camera) Adjust(position, direction, up md3.Vec) Camera {
	dir := sdfeval.Normalize(direction)
	horizontal := sdfeval.Normalize(md3.Cross(dir, sdfeval.Normalize(up)))
	vertical := sdfeval.Normalize(md3.Cross(horizontal, dir))
	imageWidth := 2 * imageDistance * math.Tan(0.5*FieldOfView)
	imageHeight := imageWidth / (float64(c.width) / float64(c.height))
	return Camera{
		position:    position,
		direction:   dir,
		up:          vertical,
		horizontal:  horizontal,
		vertical:    vertical,
		imageCenter: md3.Add(position, md3.Scale(imageDistance, dir)),
		minX:        -0.5 * imageWidth,
		maxX:        0.5 * imageWidth,
		minY:        -0.5 * imageHeight,
		maxY:        0.5 * imageHeight,
		width:       c.width,
		height:      c.height,
	}
}

// Position returns the camera's position in world space.
func (c Camera) Position() md3.Vec { return c.position }

// Direction returns the unit vector the camera looks along.
func (c Camera) Direction() md3.Vec { return c.direction }

// Up returns the camera's unit up vector, which is "up" on the image plane.
func (c Camera) Up() md3.Vec { return c.up }

// Horizontal returns the unit vector pointing right on the image plane.
func (c Camera) Horizontal() md3.Vec { return c.horizontal }

// Vertical returns the unit vector pointing up on the image plane.
func (c Camera) Vertical() md3.Vec { return c.vertical }

// Width returns the image width in pixels.
func (c Camera) Width() int { return c.width }

// Height returns the image height in pixels.
func (c Camera) Height() int { return c.height }

func (c Camera) pixelSize() float64 {
	return (c.maxX - c.minX) / float64(c.width)
}

// AppendPixelGrid appends gridSize×gridSize evenly spaced image plane points
// within pixel (x,y) to dst and returns the extended buffer. Points are
// appended row by row. y=0 is the bottom row of the image in world terms.
func (c Camera) AppendPixelGrid(dst []md3.Vec, x, y float64, gridSize int) []md3.Vec {
	rCorner := (c.maxX-c.minX)/float64(c.width)*x + c.minX
	sCorner := (c.maxY-c.minY)/float64(c.height)*y + c.minY
	increment := c.pixelSize() / float64(gridSize)
	for i := 0; i < gridSize; i++ {
		s := sCorner + (float64(i)+0.5)*increment
		for j := 0; j < gridSize; j++ {
			r := rCorner + (float64(j)+0.5)*increment
			coords := md3.Add(md3.Scale(r, c.horizontal), md3.Scale(s, c.vertical))
			dst = append(dst, md3.Add(c.imageCenter, coords))
		}
	}
	return dst
}

// PixelPosition returns the world space position of the center of pixel (x,y)
// on the image plane.
func (c Camera) PixelPosition(x, y float64) md3.Vec {
	var buf [1]md3.Vec
	return c.AppendPixelGrid(buf[:0], x, y, 1)[0]
}

// Project maps a world space point onto the image plane through the camera position
// and returns the pixel containing it. ok is false if p is behind the camera or
// lands outside the image.
func (c Camera) Project(p md3.Vec) (x, y int, ok bool) {
	toP := md3.Sub(p, c.position)
	depth := md3.Dot(toP, c.direction)
	if depth <= 0 {
		return -1, -1, false
	}
	onPlane := md3.Sub(md3.Add(c.position, md3.Scale(imageDistance/depth, toP)), c.imageCenter)
	r := md3.Dot(onPlane, c.horizontal)
	s := md3.Dot(onPlane, c.vertical)
	fx := (r - c.minX) / (c.maxX - c.minX) * float64(c.width)
	fy := (s - c.minY) / (c.maxY - c.minY) * float64(c.height)
	x = int(math.Floor(fx))
	y = int(math.Floor(fy))
	ok = x >= 0 && x < c.width && y >= 0 && y < c.height
	return x, y, ok
}
