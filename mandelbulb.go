package gfractal

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/geometry/md3"
)

// Mandelbulb parameter names.
const (
	ParamPower       = "Power"
	ParamThetaFactor = "Theta Factor"
	ParamPhiFactor   = "Phi Factor"
)

var mandelbulbCameraPosition = md3.Vec{Y: -2.5}

// MandelbulbConfig configures a Mandelbulb fractal.
type MandelbulbConfig struct {
	// Iterations of the formula. Must be 1 or more.
	Iterations int
	// Bailout is the escape radius of the iteration, also used as the maximum marching distance.
	Bailout float64
	// Power of the triplex exponentiation. Must be more than 1.
	Power float64
	// ThetaFactor and PhiFactor multiply the polar and azimuthal angles on each iteration.
	ThetaFactor float64
	PhiFactor   float64
}

type mandelbulb struct {
	bailout     float64
	power       float64
	thetaFactor float64
	phiFactor   float64
}

// DefaultMandelbulb returns the classic power 8 Mandelbulb.
func DefaultMandelbulb() *Fractal {
	f, err := NewMandelbulb(MandelbulbConfig{
		Iterations:  10,
		Bailout:     1.25331,
		Power:       8,
		ThetaFactor: 8,
		PhiFactor:   8,
	})
	if err != nil {
		panic(err)
	}
	return f
}

// NewMandelbulb creates a Mandelbulb fractal. All invalid configuration values
// are reported in the returned error.
func NewMandelbulb(cfg MandelbulbConfig) (*Fractal, error) {
	var errs []error
	if cfg.Iterations < 1 {
		errs = append(errs, fmt.Errorf("%w: %s must be 1 or more", ErrInvalidParameter, ParamIterations))
	}
	if !(cfg.Bailout > 0) || math.IsInf(cfg.Bailout, 0) {
		errs = append(errs, fmt.Errorf("%w: bailout must be positive and finite", ErrInvalidParameter))
	}
	var bulb mandelbulb
	for _, p := range []struct {
		name  string
		value float64
	}{
		{ParamPower, cfg.Power},
		{ParamThetaFactor, cfg.ThetaFactor},
		{ParamPhiFactor, cfg.PhiFactor},
	} {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be finite", ErrInvalidParameter, p.name))
		} else if err := bulb.setParameter(p.name, p.value); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	bulb.bailout = cfg.Bailout
	f := &Fractal{
		kind:       KindMandelbulb,
		iterations: cfg.Iterations,
		bulb:       bulb,
	}
	f.updateDerived()
	return f, nil
}

// estimateDistance iterates z ← |z|^power·(sinθcosφ, sinφsinθ, cosθ) + p while tracking
// the running derivative dr ← power·|z|^(power-1)·dr + 1, and returns 0.5·ln|z|·|z|/dr.
func (mb *mandelbulb) estimateDistance(p md3.Vec, iterations int) float64 {
	z := p
	radius := md3.Norm(z)
	dr := 1.0
	for i := 0; i < iterations && radius < mb.bailout; i++ {
		theta := mb.thetaFactor * math.Acos(z.Z/radius)
		phi := mb.phiFactor * math.Atan(z.Y/z.X)
		dr = math.Pow(radius, mb.power-1)*mb.power*dr + 1
		sinTheta, cosTheta := math.Sincos(theta)
		sinPhi, cosPhi := math.Sincos(phi)
		z = md3.Vec{X: sinTheta * cosPhi, Y: sinPhi * sinTheta, Z: cosTheta}
		z = md3.Add(md3.Scale(math.Pow(radius, mb.power), z), p)
		radius = md3.Norm(z)
	}
	return 0.5 * math.Log(radius) * radius / dr
}

func (mb *mandelbulb) appendParameters(dst []Parameter) []Parameter {
	return append(dst,
		Parameter{Name: ParamPower, Value: formatFloat(mb.power)},
		Parameter{Name: ParamThetaFactor, Value: formatFloat(mb.thetaFactor)},
		Parameter{Name: ParamPhiFactor, Value: formatFloat(mb.phiFactor)},
	)
}

func (mb *mandelbulb) parameter(name string) (float64, bool) {
	switch name {
	case ParamPower:
		return mb.power, true
	case ParamThetaFactor:
		return mb.thetaFactor, true
	case ParamPhiFactor:
		return mb.phiFactor, true
	}
	return 0, false
}

func (mb *mandelbulb) setParameter(name string, value float64) error {
	switch name {
	case ParamPower:
		if value <= 1 {
			return fmt.Errorf("%w: %s must be more than 1", ErrInvalidParameter, name)
		}
		mb.power = value
	case ParamThetaFactor:
		mb.thetaFactor = value
	case ParamPhiFactor:
		mb.phiFactor = value
	default:
		return unknownParameter(name)
	}
	return nil
}
