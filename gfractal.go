package gfractal

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/soypat/geometry/md3"
	"github.com/soypat/gfractal/render"
)

// Parameter names shared by fractal kinds.
const (
	ParamIterations = "Iterations"
)

// ErrInvalidParameter is returned (wrapped) when a fractal parameter is out of its domain.
var ErrInvalidParameter = errors.New("invalid fractal parameter")

// Kind identifies a fractal variant.
type Kind uint8

const (
	kindUndefined Kind = iota
	KindMandelbulb
	KindMandelbox
)

func (k Kind) String() string {
	switch k {
	case KindMandelbulb:
		return "Mandelbulb"
	case KindMandelbox:
		return "Mandelbox"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind parses a fractal kind name case insensitively.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(name, k.String()) {
			return k, nil
		}
	}
	return kindUndefined, fmt.Errorf("unknown fractal kind %q", name)
}

// Kinds returns all fractal kinds.
func Kinds() []Kind {
	return []Kind{KindMandelbulb, KindMandelbox}
}

// New returns the fractal of the given kind with default parameters.
func New(k Kind) (*Fractal, error) {
	switch k {
	case KindMandelbulb:
		return DefaultMandelbulb(), nil
	case KindMandelbox:
		return DefaultMandelbox(), nil
	}
	return nil, fmt.Errorf("unknown fractal kind %v", k)
}

// Parameter is a named fractal parameter and its current value formatted for display.
type Parameter struct {
	Name  string
	Value string
}

// Fractal is a distance estimated fractal. It is a closed sum type over
// the supported kinds: the kind tag selects which variant payload is live.
// Fractal implements [render.Field].
//
// Only [New], [DefaultMandelbulb] and [DefaultMandelbox] produce usable values: a zero
// Fractal has no surface and a zero minimum distance, which [render.Renderer.Render] rejects.
//
// EstimateDistance may be called concurrently as long as no parameter is being set.
type Fractal struct {
	kind        Kind
	iterations  int
	minDistance float64
	maxDistance float64
	defaultCam  md3.Vec
	bulb        mandelbulb
	box         mandelbox
}

var _ render.Field = (*Fractal)(nil)

// Kind returns the fractal variant.
func (f *Fractal) Kind() Kind { return f.kind }

func (f *Fractal) String() string { return f.kind.String() }

// Iterations returns the number of iterations of the fractal formula.
func (f *Fractal) Iterations() int { return f.iterations }

// EstimateDistance returns the estimated distance from p to the fractal's surface.
func (f *Fractal) EstimateDistance(p md3.Vec) float64 {
	switch f.kind {
	case KindMandelbulb:
		return f.bulb.estimateDistance(p, f.iterations)
	case KindMandelbox:
		return f.box.estimateDistance(p, f.iterations)
	}
	return math.Inf(1) // Zero value Fractal, rays march through it as misses.
}

// MinDistance returns the minimum step distance threshold for ray marching.
// It shrinks as the iteration count grows since more detail is resolved.
func (f *Fractal) MinDistance() float64 { return f.minDistance }

// MaxDistance returns the maximum ray marching distance past the camera's distance to the origin.
func (f *Fractal) MaxDistance() float64 { return f.maxDistance }

// DefaultCameraPosition returns the camera position from which the whole fractal is visible.
func (f *Fractal) DefaultCameraPosition() md3.Vec { return f.defaultCam }

// AmbientColor returns the surface color under ambient light.
func (f *Fractal) AmbientColor() render.Color { return render.Grey(0.3) }

// DiffuseColor returns the surface color under point lights.
func (f *Fractal) DiffuseColor() render.Color { return render.Grey(1) }

// Parameters returns the fractal's parameters in display order.
func (f *Fractal) Parameters() []Parameter {
	params := []Parameter{{Name: ParamIterations, Value: strconv.Itoa(f.iterations)}}
	switch f.kind {
	case KindMandelbulb:
		params = f.bulb.appendParameters(params)
	case KindMandelbox:
		params = f.box.appendParameters(params)
	}
	return params
}

// Parameter returns the current value of the named parameter.
func (f *Fractal) Parameter(name string) (float64, bool) {
	if name == ParamIterations {
		return float64(f.iterations), true
	}
	switch f.kind {
	case KindMandelbulb:
		return f.bulb.parameter(name)
	case KindMandelbox:
		return f.box.parameter(name)
	}
	return 0, false
}

// SetParameter validates and sets the named parameter. It returns false and leaves
// the fractal unchanged if the name is unknown or the value is outside the parameter's
// domain. Derived values such as the minimum marching distance are updated on success.
func (f *Fractal) SetParameter(name string, value float64) bool {
	return f.setParameter(name, value) == nil
}

func (f *Fractal) setParameter(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s must be finite", ErrInvalidParameter, name)
	}
	if name == ParamIterations {
		if value < 1 || value > math.MaxInt32 {
			return fmt.Errorf("%w: %s must be 1 or more", ErrInvalidParameter, name)
		}
		f.iterations = int(value)
		f.updateDerived()
		return nil
	}
	var err error
	switch f.kind {
	case KindMandelbulb:
		err = f.bulb.setParameter(name, value)
	case KindMandelbox:
		err = f.box.setParameter(name, value)
	default:
		err = errors.New("undefined fractal kind")
	}
	if err != nil {
		return err
	}
	f.updateDerived()
	return nil
}

// updateDerived refreshes values that depend on parameters.
func (f *Fractal) updateDerived() {
	switch f.kind {
	case KindMandelbulb:
		f.minDistance = 1 / (float64(f.iterations) * 100)
		f.maxDistance = f.bulb.bailout
		f.defaultCam = mandelbulbCameraPosition
	case KindMandelbox:
		f.minDistance = 1 / (float64(f.iterations) * 10)
		f.maxDistance, f.defaultCam = f.box.bounds()
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func unknownParameter(name string) error {
	return fmt.Errorf("%w: unknown parameter %q", ErrInvalidParameter, name)
}
