package sdfeval

import (
	"errors"
	"math"

	"github.com/soypat/geometry/md3"
)

// SDF implements a 3D distance field estimator. Implementations must never
// overestimate the true distance to the surface so that sphere tracing
// over the field is conservative.
type SDF interface {
	// EstimateDistance returns a lower bound of the distance from p to the surface.
	EstimateDistance(p md3.Vec) float64
}

var (
	errEmptyBuffers         = errors.New("empty buffers")
	errMismatchBufferLength = errors.New("position and distance buffer length mismatch")
)

// Evaluate evaluates the distance field over pos positions and stores results in dist.
// dist and pos must be of same length.
func Evaluate(s SDF, pos []md3.Vec, dist []float64) error {
	if len(pos) != len(dist) {
		return errMismatchBufferLength
	} else if len(pos) == 0 {
		return errEmptyBuffers
	} else if s == nil {
		return errors.New("nil SDF")
	}
	for i, p := range pos {
		dist[i] = s.EstimateDistance(p)
	}
	return nil
}

// Gradient uses central differences algorithm to approximate the distance
// field gradient at p. Each axis is sampled at p+step and p-step.
// The returned gradient is not normalized and is not divided by the step,
// so its magnitude is roughly 2*step for a well behaved distance field.
// A nil s yields a NaN gradient.
func Gradient(s SDF, p md3.Vec, step float64) md3.Vec {
	var pos [6]md3.Vec
	var dist [6]float64
	var vecs = [3]md3.Vec{{X: step}, {Y: step}, {Z: step}}
	for dim, h := range vecs {
		pos[2*dim] = md3.Add(p, h)
		pos[2*dim+1] = md3.Sub(p, h)
	}
	if err := Evaluate(s, pos[:], dist[:]); err != nil {
		nan := math.NaN()
		return md3.Vec{X: nan, Y: nan, Z: nan}
	}
	return md3.Vec{
		X: dist[0] - dist[1],
		Y: dist[2] - dist[3],
		Z: dist[4] - dist[5],
	}
}

// Normalize returns v scaled to unit length. A zero vector yields NaN components,
// callers must check for degenerate input when it matters.
func Normalize(v md3.Vec) md3.Vec {
	return md3.Scale(1/md3.Norm(v), v)
}

// IsFinite reports whether all of v's components are finite numbers.
func IsFinite(v md3.Vec) bool {
	return !math.IsNaN(v.X+v.Y+v.Z) && !math.IsInf(v.X+v.Y+v.Z, 0)
}

// Counter wraps an SDF and counts the evaluations performed through it.
// It is not safe for concurrent use, each goroutine should own its Counter.
type Counter struct {
	SDF   SDF
	evals uint64
}

// EstimateDistance implements [SDF] and counts the evaluation.
func (c *Counter) EstimateDistance(p md3.Vec) float64 {
	c.evals++
	return c.SDF.EstimateDistance(p)
}

// Evaluations returns total evaluations performed during the Counter's lifetime.
func (c *Counter) Evaluations() uint64 {
	return c.evals
}

// Reset sets the evaluation count to zero and swaps the underlying SDF.
func (c *Counter) Reset(s SDF) {
	*c = Counter{SDF: s}
}

// Func adapts an ordinary function to the [SDF] interface.
type Func func(p md3.Vec) float64

// EstimateDistance implements [SDF] by calling f.
func (f Func) EstimateDistance(p md3.Vec) float64 { return f(p) }
