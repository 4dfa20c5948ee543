package render

import (
	"math"

	"github.com/soypat/geometry/md3"
	"github.com/soypat/gfractal/sdfeval"
)

const (
	// TurnAngle is the default angle of a camera turn in radians.
	TurnAngle = 15 * math.Pi / 180
	// moveFactor is the fraction of the distance to the surface covered by
	// a pan or forward zoom.
	moveFactor = 0.75
	// epsilon is the tolerance of orthogonality and parallelism checks.
	epsilon = 1e-15
)

// Forward returns the unit vector the camera looks along.
func (r *Renderer) Forward() md3.Vec { return r.cam.Direction() }

// Backward returns the unit vector opposite to the camera direction.
func (r *Renderer) Backward() md3.Vec { return md3.Scale(-1, r.cam.Direction()) }

// Up returns the camera's unit up vector.
func (r *Renderer) Up() md3.Vec { return r.cam.Up() }

// Down returns the unit vector opposite to the camera's up vector.
func (r *Renderer) Down() md3.Vec { return md3.Scale(-1, r.cam.Up()) }

// Left returns the unit vector pointing left relative to the camera.
func (r *Renderer) Left() md3.Vec { return cameraLeft(r.cam) }

// Right returns the unit vector pointing right relative to the camera.
func (r *Renderer) Right() md3.Vec { return cameraRight(r.cam) }

func cameraLeft(c Camera) md3.Vec  { return md3.Cross(c.Up(), c.Direction()) }
func cameraRight(c Camera) md3.Vec { return md3.Cross(c.Direction(), c.Up()) }

// Pan moves the camera along dir, which must be orthogonal to the camera direction.
// The camera moves 3/4 of its estimated distance to the surface.
// It returns false and leaves the camera untouched if dir is not orthogonal
// or the distance estimate at the camera is not finite.
func (r *Renderer) Pan(dir md3.Vec) bool {
	cam, ok := pan(r.cam, r.field, dir)
	if ok {
		r.cam = cam
	}
	return ok
}

// Zoom moves the camera forward or backward. dir must be parallel to the camera
// direction. Forward zooms cover 3/4 of the estimated distance to the surface,
// backward zooms retreat four times that distance.
// It returns false and leaves the camera untouched if dir is not parallel
// or the distance estimate at the camera is not finite.
func (r *Renderer) Zoom(dir md3.Vec) bool {
	cam, ok := zoom(r.cam, r.field, dir)
	if ok {
		r.cam = cam
	}
	return ok
}

// Turn rotates the camera by [TurnAngle] towards dir, which must be orthogonal
// to the camera direction.
func (r *Renderer) Turn(dir md3.Vec) bool {
	return r.TurnBy(dir, TurnAngle)
}

// TurnBy rotates the camera by angle radians towards dir, which must be orthogonal
// to the camera direction. Left and right turns rotate about the default axis of
// rotation, up and down turns rotate about the camera's horizontal axis.
// It returns false and leaves the camera untouched if dir is not orthogonal.
func (r *Renderer) TurnBy(dir md3.Vec, angle float64) bool {
	cam, ok := turn(r.cam, r.defaultAxis, dir, angle)
	if ok {
		r.cam = cam
	}
	return ok
}

// ZoomToPixel turns the camera to face pixel (x,y), y=0 being the bottom row, then
// zooms forward or backward. The turn is done horizontally first and vertically second.
// The camera is only modified if all steps succeed.
func (r *Renderer) ZoomToPixel(x, y int, forward bool) bool {
	cam := r.cam
	// Horizontal turn towards the pixel's column.
	toward := towardPixel(cam, float64(x), float64(cam.Height())/2)
	dir := cameraRight(cam)
	if md3.Dot(cameraLeft(cam), toward) > 0 {
		dir = cameraLeft(cam)
	}
	cam, ok := turn(cam, r.defaultAxis, dir, angleBetween(toward, cam.Direction()))
	if !ok {
		return false
	}
	// Vertical turn towards the pixel's row.
	toward = towardPixel(cam, float64(cam.Width())/2, float64(y))
	dir = md3.Scale(-1, cam.Up())
	if md3.Dot(cam.Up(), toward) > 0 {
		dir = cam.Up()
	}
	cam, ok = turn(cam, r.defaultAxis, dir, angleBetween(toward, cam.Direction()))
	if !ok {
		return false
	}
	zoomDir := cam.Direction()
	if !forward {
		zoomDir = md3.Scale(-1, zoomDir)
	}
	cam, ok = zoom(cam, r.field, zoomDir)
	if !ok {
		return false
	}
	r.cam = cam
	return true
}

func towardPixel(cam Camera, x, y float64) md3.Vec {
	return sdfeval.Normalize(md3.Sub(cam.PixelPosition(x, y), cam.Position()))
}

// angleBetween returns the angle between unit vectors a and b.
func angleBetween(a, b md3.Vec) float64 {
	// Rounding may push the cosine slightly out of acos's domain.
	return math.Acos(max(-1, min(1, md3.Dot(a, b))))
}

func pan(cam Camera, sdf sdfeval.SDF, dir md3.Vec) (Camera, bool) {
	dir = sdfeval.Normalize(dir)
	if !(math.Abs(md3.Dot(cam.Direction(), dir)) < epsilon) {
		return cam, false
	}
	distance := sdf.EstimateDistance(cam.Position())
	position := md3.Add(cam.Position(), md3.Scale(distance*moveFactor, dir))
	if !sdfeval.IsFinite(position) {
		return cam, false
	}
	return cam.Adjust(position, cam.Direction(), cam.Up()), true
}

func zoom(cam Camera, sdf sdfeval.SDF, dir md3.Vec) (Camera, bool) {
	dot := md3.Dot(cam.Direction(), sdfeval.Normalize(dir))
	if !(1-math.Abs(dot) < epsilon) {
		return cam, false
	}
	distance := sdf.EstimateDistance(cam.Position())
	factor := 1 / (1 - moveFactor)
	if dot > 0 {
		factor = moveFactor
	}
	position := md3.Add(cam.Position(), md3.Scale(dot*distance*factor, cam.Direction()))
	if !sdfeval.IsFinite(position) {
		return cam, false
	}
	return cam.Adjust(position, cam.Direction(), cam.Up()), true
}

func turn(cam Camera, defaultAxis, dir md3.Vec, angle float64) (Camera, bool) {
	dir = sdfeval.Normalize(dir)
	if !(math.Abs(md3.Dot(cam.Direction(), dir)) < epsilon) {
		return cam, false
	}
	axis := defaultAxis
	upDot := md3.Dot(cam.Up(), dir)
	switch {
	case 1-math.Abs(upDot) < epsilon:
		// Up and down turns rotate about the camera's horizontal axis.
		if 1-upDot < epsilon {
			axis = cameraRight(cam)
		} else {
			axis = cameraLeft(cam)
		}
	case math.Abs(1-md3.Dot(cameraRight(cam), dir)) < epsilon:
		axis = md3.Scale(-1, defaultAxis)
	}
	rot := rotationRows(axis, angle)
	direction := rot.apply(cam.Direction())
	up := rot.apply(cam.Up())
	return cam.Adjust(cam.Position(), direction, up), true
}

// rotation is a 3x3 rotation matrix stored by rows.
type rotation [3]md3.Vec

// rotationRows returns the matrix rotating by angle radians about the unit axis
// using Rodrigues' rotation formula.
func rotationRows(axis md3.Vec, angle float64) rotation {
	x, y, z := axis.X, axis.Y, axis.Z
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	return rotation{
		{X: c + x*x*t, Y: x*y*t - z*s, Z: x*z*t + y*s},
		{X: y*x*t + z*s, Y: c + y*y*t, Z: y*z*t - x*s},
		{X: z*x*t - y*s, Y: z*y*t + x*s, Z: c + z*z*t},
	}
}

func (rot rotation) apply(v md3.Vec) md3.Vec {
	return md3.Vec{X: md3.Dot(v, rot[0]), Y: md3.Dot(v, rot[1]), Z: md3.Dot(v, rot[2])}
}
