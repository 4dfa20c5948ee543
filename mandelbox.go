package gfractal

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/geometry/md3"
	"github.com/soypat/gfractal/render"
)

// Mandelbox parameter names.
const (
	ParamScale         = "Scale"
	ParamInnerRadius   = "Inner Radius"
	ParamBoxFoldFactor = "Box Fold Factor"
)

// mandelboxCameraAngle is the angle about the Z axis at which the default camera is placed.
const mandelboxCameraAngle = -40 * math.Pi / 180

// MandelboxConfig configures a Mandelbox fractal.
type MandelboxConfig struct {
	// Iterations of the formula. Must be 1 or more.
	Iterations int
	// Scale applied after folding. Its absolute value must be more than 1.
	Scale float64
	// InnerRadius of the sphere fold. Must be in [0, 1).
	InnerRadius float64
	// BoxFoldFactor scales the box fold. Its absolute value must be 0.5 or more.
	BoxFoldFactor float64
}

type mandelbox struct {
	scale         float64
	minRadiusSq   float64
	boxFoldFactor float64
}

// DefaultMandelbox returns a scale 2 Mandelbox.
func DefaultMandelbox() *Fractal {
	f, err := NewMandelbox(MandelboxConfig{
		Iterations:    10,
		Scale:         2,
		InnerRadius:   0.5,
		BoxFoldFactor: 1,
	})
	if err != nil {
		panic(err)
	}
	return f
}

// NewMandelbox creates a Mandelbox fractal. All invalid configuration values
// are reported in the returned error.
func NewMandelbox(cfg MandelboxConfig) (*Fractal, error) {
	var errs []error
	if cfg.Iterations < 1 {
		errs = append(errs, fmt.Errorf("%w: %s must be 1 or more", ErrInvalidParameter, ParamIterations))
	}
	var box mandelbox
	for _, p := range []struct {
		name  string
		value float64
	}{
		{ParamScale, cfg.Scale},
		{ParamInnerRadius, cfg.InnerRadius},
		{ParamBoxFoldFactor, cfg.BoxFoldFactor},
	} {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be finite", ErrInvalidParameter, p.name))
		} else if err := box.setParameter(p.name, p.value); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	f := &Fractal{
		kind:       KindMandelbox,
		iterations: cfg.Iterations,
		box:        box,
	}
	f.updateDerived()
	return f, nil
}

// estimateDistance iterates a box fold, a sphere fold and z ← z·scale·fold + p,
// accumulating the running derivative, and returns |z|/|dr|.
func (mb *mandelbox) estimateDistance(p md3.Vec, iterations int) float64 {
	z := p
	dr := 1.0
	for i := 0; i < iterations; i++ {
		z = md3.Scale(mb.boxFoldFactor, boxFold(z))
		fold := mb.sphereFold(z)
		z = md3.Add(md3.Scale(mb.scale*fold, z), p)
		dr = dr*math.Abs(mb.boxFoldFactor*fold*mb.scale) + 1
	}
	return md3.Norm(z) / math.Abs(dr)
}

// boxFold reflects each component outside [-1, 1] back across the sides of the unit box.
func boxFold(v md3.Vec) md3.Vec {
	return md3.Vec{X: foldComponent(v.X), Y: foldComponent(v.Y), Z: foldComponent(v.Z)}
}

func foldComponent(c float64) float64 {
	switch {
	case c > 1:
		return 2 - c
	case c < -1:
		return -2 - c
	}
	return c
}

// sphereFold returns the scaling factor that folds v across the inner or outer
// (unit) radius of a sphere.
func (mb *mandelbox) sphereFold(v md3.Vec) float64 {
	magSq := md3.Dot(v, v)
	switch {
	case magSq < mb.minRadiusSq:
		return 1 / mb.minRadiusSq
	case magSq < 1:
		return 1 / magSq
	}
	return 1
}

// bounds returns the maximum marching distance, which approximates the half
// diagonal of the Mandelbox's bounding cube, and a default camera position from
// which the whole Mandelbox fits in the field of view.
func (mb *mandelbox) bounds() (maxDistance float64, camera md3.Vec) {
	s, f := mb.scale, mb.boxFoldFactor
	halfSide := 2.0
	if s > -1 {
		halfSide *= (s + 1) / (s - 1)
	}
	if f <= 0 {
		// TODO: account for the box fold factor magnitude, not only its sign.
		halfSide *= (s - 1) / (s + 1)
	}
	maxDistance = md3.Norm(md3.Vec{X: halfSide, Y: halfSide, Z: halfSide})
	sin, cos := math.Sincos(mandelboxCameraAngle)
	tangent := math.Tan(render.FieldOfView / 2)
	camera = md3.Scale(maxDistance+halfSide/tangent, md3.Vec{X: cos, Y: sin})
	return maxDistance, camera
}

func (mb *mandelbox) appendParameters(dst []Parameter) []Parameter {
	return append(dst,
		Parameter{Name: ParamScale, Value: formatFloat(mb.scale)},
		Parameter{Name: ParamInnerRadius, Value: formatFloat(math.Sqrt(mb.minRadiusSq))},
		Parameter{Name: ParamBoxFoldFactor, Value: formatFloat(mb.boxFoldFactor)},
	)
}

func (mb *mandelbox) parameter(name string) (float64, bool) {
	switch name {
	case ParamScale:
		return mb.scale, true
	case ParamInnerRadius:
		return math.Sqrt(mb.minRadiusSq), true
	case ParamBoxFoldFactor:
		return mb.boxFoldFactor, true
	}
	return 0, false
}

func (mb *mandelbox) setParameter(name string, value float64) error {
	switch name {
	case ParamScale:
		if math.Abs(value) <= 1 {
			return fmt.Errorf("%w: absolute value of %s must be more than 1", ErrInvalidParameter, name)
		}
		mb.scale = value
	case ParamInnerRadius:
		if value < 0 || value >= 1 {
			return fmt.Errorf("%w: %s must be in [0, 1)", ErrInvalidParameter, name)
		}
		mb.minRadiusSq = value * value
	case ParamBoxFoldFactor:
		if math.Abs(value) < 0.5 {
			return fmt.Errorf("%w: absolute value of %s must be 0.5 or more", ErrInvalidParameter, name)
		}
		mb.boxFoldFactor = value
	default:
		return unknownParameter(name)
	}
	return nil
}
