package render

import (
	"math"
	"testing"

	"github.com/soypat/geometry/md3"
	"github.com/soypat/gfractal/sdfeval"
)

func unitSphere(p md3.Vec) float64 { return md3.Norm(p) - 1 }

func TestRayMarchSphere(t *testing.T) {
	const minDist = 1e-3
	ray := NewRay(md3.Vec{Y: -5}, md3.Vec{Y: 10})
	if ray.Direction() != (md3.Vec{Y: 1}) {
		t.Fatal("ray direction not normalized", ray.Direction())
	}
	hit := ray.March(minDist, 10, sdfeval.Func(unitSphere))
	if !ray.Intersected() {
		t.Fatal("expected hit")
	}
	if math.Abs(hit.Y+1) > minDist || hit.X != 0 || hit.Z != 0 {
		t.Error("bad intersection", hit)
	}
	if ray.Steps() != 2 {
		t.Error("head on ray should take 2 steps, took", ray.Steps())
	}

	// Pointing away from the sphere.
	ray = NewRay(md3.Vec{Y: -5}, md3.Vec{Y: -1})
	end := ray.March(minDist, 10, sdfeval.Func(unitSphere))
	if ray.Intersected() {
		t.Error("unexpected hit")
	}
	if md3.Norm(md3.Sub(end, ray.Endpoint())) < 10 {
		t.Error("missed ray should travel at least max distance")
	}
}

func TestRayMarchIdempotent(t *testing.T) {
	ray := NewRay(md3.Vec{X: 0.9, Y: -5}, md3.Vec{Y: 1})
	sdf := sdfeval.Func(unitSphere)
	first := ray.March(1e-4, 20, sdf)
	hit, steps := ray.Intersected(), ray.Steps()
	second := ray.March(1e-4, 20, sdf)
	if first != second || hit != ray.Intersected() || steps != ray.Steps() {
		t.Error("marching twice should give the same result")
	}
	// A hit ray marched with no budget resets its state.
	ray.March(1e-4, 0, sdf)
	if ray.Intersected() || ray.Steps() != 0 {
		t.Error("march state not reset")
	}
}

func TestRayMarchStepsMonotonic(t *testing.T) {
	sdf := sdfeval.Func(unitSphere)
	prevSteps := math.MaxInt
	for _, minDist := range []float64{1e-6, 1e-5, 1e-4, 1e-3, 1e-2, 1e-1} {
		// Grazing ray takes many steps.
		ray := NewRay(md3.Vec{X: 0.99, Y: -5}, md3.Vec{Y: 1})
		ray.March(minDist, 20, sdf)
		if !ray.Intersected() {
			t.Fatal("grazing ray should hit sphere at minDist", minDist)
		}
		if ray.Steps() > prevSteps {
			t.Errorf("larger min distance %g took more steps: %d > %d", minDist, ray.Steps(), prevSteps)
		}
		prevSteps = ray.Steps()
	}
}

func TestRayMarchNaN(t *testing.T) {
	ray := NewRay(md3.Vec{}, md3.Vec{X: 1})
	var c sdfeval.Counter
	c.Reset(sdfeval.Func(func(md3.Vec) float64 { return math.NaN() }))
	ray.March(1e-3, 10, &c)
	if ray.Intersected() {
		t.Error("NaN distance should not count as a hit")
	}
	if c.Evaluations() != 1 {
		t.Error("NaN distance should end the march, evaluations:", c.Evaluations())
	}
}
