package render

import (
	"errors"
	"math"

	"github.com/soypat/geometry/md3"
)

var (
	errNilField         = errors.New("nil field")
	errBadDimensions    = errors.New("image dimensions must be positive")
	errBadAntialiasing  = errors.New("antialiasing factor must be 1 or more")
	errBadFieldDistance = errors.New("field minimum distance must be positive")
)

const (
	// lightOffsetAngle is the angle between the camera and each default point light
	// as seen from the origin.
	lightOffsetAngle = 60 * math.Pi / 180
)

var worldUp = md3.Vec{Z: 1}

// Renderer renders a distance field from a navigable camera.
// A Renderer is not safe for concurrent use: the scene must not be mutated
// or navigated while Render is running.
type Renderer struct {
	width, height int
	field         Field
	cam           Camera
	ambient       Light
	lights        []Light
	// defaultAxis is the rotation axis used for left and right turns.
	defaultAxis md3.Vec
	workers     int
	stats       RenderStats
}

// DefaultAmbientLight is a sky blue ambient light.
func DefaultAmbientLight() Light {
	return NewLight(md3.Vec{}, 0.53, 0.81, 0.92, 1)
}

// NewRenderer creates a renderer for a width×height image of field with the camera
// and lights reset to the field's defaults. See [Renderer.ResetCamera].
func NewRenderer(width, height int, field Field) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, errBadDimensions
	}
	r := &Renderer{
		width:   width,
		height:  height,
		ambient: DefaultAmbientLight(),
	}
	if err := r.SetFractal(field); err != nil {
		return nil, err
	}
	return r, nil
}

// Render renders the scene with antialiasing×antialiasing samples per pixel
// and returns the resulting image. Rows are shared out among parallel workers.
func (r *Renderer) Render(antialiasing int) (*Framebuffer, error) {
	if antialiasing < 1 {
		return nil, errBadAntialiasing
	} else if !(r.field.MinDistance() > 0) {
		return nil, errBadFieldDistance
	}
	sc := newScene(r.cam, r.field, r.ambient, r.lights)
	fb := NewFramebuffer(r.width, r.height)
	r.stats = renderParallel(sc, fb, antialiasing, numWorkers(r.workers, r.height))
	return fb, nil
}

// LastStats returns the statistics of the last call to Render.
func (r *Renderer) LastStats() RenderStats { return r.stats }

// SetWorkers sets the amount of parallel workers used by Render.
// A value of zero or less uses one worker per available CPU.
func (r *Renderer) SetWorkers(n int) { r.workers = n }

// SetFractal sets the field to render and resets the camera and point lights.
// A nil field is rejected and leaves the renderer unchanged.
func (r *Renderer) SetFractal(field Field) error {
	if field == nil {
		return errNilField
	}
	r.field = field
	r.ResetCamera()
	return nil
}

// Field returns the field being rendered.
func (r *Renderer) Field() Field { return r.field }

// Camera returns the current camera.
func (r *Renderer) Camera() Camera { return r.cam }

// SetAmbientLight sets the ambient light, whose color is also the background color.
func (r *Renderer) SetAmbientLight(l Light) { r.ambient = l }

// AmbientLight returns the ambient light.
func (r *Renderer) AmbientLight() Light { return r.ambient }

// Lights returns a copy of the point lights in order.
func (r *Renderer) Lights() []Light {
	return append([]Light(nil), r.lights...)
}

// AddLight appends a point light.
func (r *Renderer) AddLight(l Light) { r.lights = append(r.lights, l) }

// RemoveLight removes the i'th point light. It returns false if i is out of range.
func (r *Renderer) RemoveLight(i int) bool {
	if i < 0 || i >= len(r.lights) {
		return false
	}
	r.lights = append(r.lights[:i], r.lights[i+1:]...)
	return true
}

// ClearLights removes all point lights.
func (r *Renderer) ClearLights() { r.lights = r.lights[:0] }

// SetImageDimensions sets the size of rendered images, keeping the camera's
// position and orientation.
func (r *Renderer) SetImageDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return errBadDimensions
	}
	r.width, r.height = width, height
	r.cam = NewCamera(r.cam.Position(), r.cam.Direction(), r.cam.Up(), width, height)
	return nil
}

// ResetCamera places the camera at the field's default position looking at the origin
// and replaces the point lights with two white lights flanking the camera at 60° from
// the camera's axis, with brightness growing with the distance from the origin.
func (r *Renderer) ResetCamera() {
	position := r.field.DefaultCameraPosition()
	s := math.Sin(lightOffsetAngle)
	scaledPos := md3.Scale(math.Cos(lightOffsetAngle), position)
	leftLight := md3.Add(scaledPos, md3.Scale(s, md3.Cross(position, worldUp)))
	rightLight := md3.Add(scaledPos, md3.Scale(s, md3.Cross(worldUp, position)))
	brightness := 1.5 * math.Pow(1.25, md3.Norm(position))

	r.cam = NewCamera(position, md3.Scale(-1, position), worldUp, r.width, r.height)
	r.defaultAxis = worldUp
	r.lights = append(r.lights[:0],
		NewLight(leftLight, 1, 1, 1, float32(brightness)),
		NewLight(rightLight, 1, 1, 1, float32(brightness)),
	)
}
