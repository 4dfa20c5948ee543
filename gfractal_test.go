package gfractal_test

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/geometry/md3"
	"github.com/soypat/gfractal"
	"github.com/soypat/gfractal/render"
)

func TestMandelbulbParameters(t *testing.T) {
	f := gfractal.DefaultMandelbulb()
	if f.Kind() != gfractal.KindMandelbulb {
		t.Fatal("bad kind", f.Kind())
	}
	for _, test := range []struct {
		name  string
		value float64
		ok    bool
	}{
		{gfractal.ParamPower, 1.0, false},
		{gfractal.ParamPower, 0.5, false},
		{gfractal.ParamPower, 2.0, true},
		{gfractal.ParamIterations, 0, false},
		{gfractal.ParamIterations, 0.9, false},
		{gfractal.ParamIterations, 4, true},
		{gfractal.ParamThetaFactor, -3, true},
		{gfractal.ParamPhiFactor, 0, true},
		{gfractal.ParamPhiFactor, math.NaN(), false},
		{gfractal.ParamPower, math.Inf(1), false},
		{gfractal.ParamScale, 2, false}, // Mandelbox only.
		{"Nonexistent", 2, false},
	} {
		before := f.Parameters()
		minDist := f.MinDistance()
		got := f.SetParameter(test.name, test.value)
		if got != test.ok {
			t.Errorf("SetParameter(%q, %g)=%v, want %v", test.name, test.value, got, test.ok)
			continue
		}
		if !got {
			after := f.Parameters()
			for i := range before {
				if before[i] != after[i] {
					t.Errorf("rejected SetParameter(%q, %g) mutated %v -> %v", test.name, test.value, before[i], after[i])
				}
			}
			if f.MinDistance() != minDist {
				t.Error("rejected parameter changed min distance")
			}
			continue
		}
		v, ok := f.Parameter(test.name)
		if !ok || v != test.value {
			t.Errorf("Parameter(%q)=%g,%v want %g", test.name, v, ok, test.value)
		}
	}
	if f.Iterations() != 4 {
		t.Fatal("expected 4 iterations, got", f.Iterations())
	}
	if f.MinDistance() != 1/400. {
		t.Error("min distance not updated with iterations:", f.MinDistance())
	}
	params := f.Parameters()
	wantNames := []string{gfractal.ParamIterations, gfractal.ParamPower, gfractal.ParamThetaFactor, gfractal.ParamPhiFactor}
	wantValues := []string{"4", "2", "-3", "0"}
	if len(params) != len(wantNames) {
		t.Fatal("bad parameter count", params)
	}
	for i, p := range params {
		if p.Name != wantNames[i] || p.Value != wantValues[i] {
			t.Errorf("param %d: got %+v want {%s %s}", i, p, wantNames[i], wantValues[i])
		}
	}
}

func TestMandelboxParameters(t *testing.T) {
	f := gfractal.DefaultMandelbox()
	if f.MinDistance() != 1/100. {
		t.Error("bad default min distance", f.MinDistance())
	}
	// Default: scale 2, box fold 1 -> half side 2*(3/1) = 6.
	assertBounds(t, f, 6)

	for _, test := range []struct {
		name  string
		value float64
		ok    bool
	}{
		{gfractal.ParamScale, 1.0, false},
		{gfractal.ParamScale, -1.0, false},
		{gfractal.ParamScale, 0.3, false},
		{gfractal.ParamInnerRadius, 1, false},
		{gfractal.ParamInnerRadius, -0.1, false},
		{gfractal.ParamInnerRadius, 0, true},
		{gfractal.ParamInnerRadius, 0.25, true},
		{gfractal.ParamBoxFoldFactor, 0.49, false},
		{gfractal.ParamBoxFoldFactor, -0.5, true},
		{gfractal.ParamBoxFoldFactor, 1, true},
		{gfractal.ParamPower, 8, false}, // Mandelbulb only.
		{gfractal.ParamScale, -2.0, true},
	} {
		maxDist := f.MaxDistance()
		got := f.SetParameter(test.name, test.value)
		if got != test.ok {
			t.Errorf("SetParameter(%q, %g)=%v, want %v", test.name, test.value, got, test.ok)
		}
		if !got && f.MaxDistance() != maxDist {
			t.Errorf("rejected SetParameter(%q, %g) changed max distance", test.name, test.value)
		}
	}
	// Scale -2 -> half side 2.
	assertBounds(t, f, 2)
	if !f.SetParameter(gfractal.ParamBoxFoldFactor, -1) {
		t.Fatal("box fold factor -1 should be accepted")
	}
	// Negative box fold factor shrinks half side by (s-1)/(s+1) = 3.
	assertBounds(t, f, 6)
	v, _ := f.Parameter(gfractal.ParamInnerRadius)
	if v != 0.25 {
		t.Error("inner radius not preserved", v)
	}
}

func assertBounds(t *testing.T, f *gfractal.Fractal, halfSide float64) {
	t.Helper()
	const tol = 1e-12
	wantMax := math.Sqrt(3) * math.Abs(halfSide)
	if math.Abs(f.MaxDistance()-wantMax) > tol {
		t.Errorf("max distance: got %g want %g", f.MaxDistance(), wantMax)
	}
	cam := f.DefaultCameraPosition()
	wantDist := wantMax + halfSide/math.Tan(render.FieldOfView/2)
	if math.Abs(md3.Norm(cam)-math.Abs(wantDist)) > tol {
		t.Errorf("default camera distance: got %g want %g", md3.Norm(cam), wantDist)
	}
	if cam.Z != 0 {
		t.Error("default camera should lie on XY plane", cam)
	}
}

func TestConstructorErrors(t *testing.T) {
	_, err := gfractal.NewMandelbulb(gfractal.MandelbulbConfig{Iterations: 0, Bailout: 2, Power: 1})
	if !errors.Is(err, gfractal.ErrInvalidParameter) {
		t.Fatal("expected invalid parameter error, got", err)
	}
	_, err = gfractal.NewMandelbox(gfractal.MandelboxConfig{Iterations: 3, Scale: 1, InnerRadius: 2, BoxFoldFactor: 0})
	if !errors.Is(err, gfractal.ErrInvalidParameter) {
		t.Fatal("expected invalid parameter error, got", err)
	}
	// All three invalid values are reported.
	if joined, ok := err.(interface{ Unwrap() []error }); !ok || len(joined.Unwrap()) != 3 {
		t.Error("expected 3 joined errors, got", err)
	}
	f, err := gfractal.NewMandelbox(gfractal.MandelboxConfig{Iterations: 3, Scale: -1.5, InnerRadius: 0, BoxFoldFactor: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if f.MinDistance() != 1/30. {
		t.Error("bad min distance", f.MinDistance())
	}
}

func TestKinds(t *testing.T) {
	for _, k := range gfractal.Kinds() {
		parsed, err := gfractal.ParseKind(k.String())
		if err != nil || parsed != k {
			t.Errorf("ParseKind(%q)=%v,%v", k.String(), parsed, err)
		}
		f, err := gfractal.New(k)
		if err != nil {
			t.Fatal(err)
		}
		if f.Kind() != k || f.String() != k.String() {
			t.Errorf("New(%v) gave %v", k, f.Kind())
		}
	}
	if k, err := gfractal.ParseKind("MANDELBOX"); err != nil || k != gfractal.KindMandelbox {
		t.Error("parse should be case insensitive")
	}
	if _, err := gfractal.ParseKind("julia"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestMandelbulbDistance(t *testing.T) {
	f := gfractal.DefaultMandelbulb()
	// Outside the bailout radius no iteration runs.
	p := md3.Vec{Y: -2.5}
	want := 0.5 * math.Log(2.5) * 2.5
	if got := f.EstimateDistance(p); got != want {
		t.Errorf("distance outside bailout: got %g want %g", got, want)
	}
	// Distance estimates decrease as the surface is approached along an axis.
	prev := math.Inf(1)
	for y := -2.0; y < -1.25; y += 0.1 {
		d := f.EstimateDistance(md3.Vec{Y: y, Z: 0.01})
		if !(d < prev) {
			t.Fatalf("distance did not decrease approaching surface at y=%g: %g >= %g", y, d, prev)
		}
		prev = d
	}
	if d := f.EstimateDistance(md3.Vec{X: 0.1, Y: 0.2, Z: 0.1}); d > f.MinDistance() {
		t.Error("point inside mandelbulb should estimate below min distance, got", d)
	}
}

func TestMandelboxDistance(t *testing.T) {
	f := gfractal.DefaultMandelbox()
	if d := f.EstimateDistance(md3.Vec{}); d != 0 {
		t.Error("origin is inside the mandelbox, got distance", d)
	}
	far := f.EstimateDistance(f.DefaultCameraPosition())
	if !(far > f.MinDistance()) {
		t.Error("default camera position should be away from the surface, got", far)
	}
}

func TestZeroFractal(t *testing.T) {
	var f gfractal.Fractal
	if d := f.EstimateDistance(md3.Vec{X: 1}); !math.IsInf(d, 1) {
		t.Error("zero fractal should be infinitely far, got", d)
	}
	r, err := render.NewRenderer(4, 4, &f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render(1); err == nil {
		t.Error("expected error rendering zero fractal")
	}
}

func TestRenderMandelbulb(t *testing.T) {
	const w, h = 16, 12
	f := gfractal.DefaultMandelbulb()
	r, err := render.NewRenderer(w, h, f)
	if err != nil {
		t.Fatal(err)
	}
	fb, err := r.Render(1)
	if err != nil {
		t.Fatal(err)
	}
	background := r.AmbientLight().Color().Pack()
	if fb.RGB(w/2, h/2) == background {
		t.Error("center pixel should hit the mandelbulb")
	}
	if fb.RGB(0, 0) != background {
		t.Error("corner pixel should miss the mandelbulb")
	}
	stats := r.LastStats()
	if stats.Hits == 0 || stats.Misses == 0 || stats.Hits+stats.Misses != w*h {
		t.Errorf("unexpected stats %+v", stats)
	}
}
