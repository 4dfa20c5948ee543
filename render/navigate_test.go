package render

import (
	"math"
	"testing"

	"github.com/soypat/geometry/md3"
	"github.com/soypat/gfractal/sdfeval"
)

func vecNear(a, b md3.Vec, tol float64) bool {
	return md3.Norm(md3.Sub(a, b)) <= tol
}

func newSphereRenderer(t *testing.T, width, height int) *Renderer {
	t.Helper()
	r, err := NewRenderer(width, height, sphereField())
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestDirections(t *testing.T) {
	r := newSphereRenderer(t, 8, 8)
	for _, test := range []struct {
		name string
		got  md3.Vec
		want md3.Vec
	}{
		{"forward", r.Forward(), md3.Vec{Y: 1}},
		{"backward", r.Backward(), md3.Vec{Y: -1}},
		{"up", r.Up(), md3.Vec{Z: 1}},
		{"down", r.Down(), md3.Vec{Z: -1}},
		{"left", r.Left(), md3.Vec{X: -1}},
		{"right", r.Right(), md3.Vec{X: 1}},
	} {
		if !vecNear(test.got, test.want, 1e-15) {
			t.Errorf("%s: got %v want %v", test.name, test.got, test.want)
		}
	}
}

func TestPan(t *testing.T) {
	r := newSphereRenderer(t, 8, 8)
	if !r.Pan(r.Left()) {
		t.Fatal("pan left failed")
	}
	// Distance to surface is 4, pan covers 3/4 of it.
	if !vecNear(r.Camera().Position(), md3.Vec{X: -3, Y: -5}, 1e-12) {
		t.Error("bad position after pan", r.Camera().Position())
	}
	if !vecNear(r.Forward(), md3.Vec{Y: 1}, 1e-15) {
		t.Error("pan should not change the direction")
	}
	// Non unit directions are normalized.
	if !r.Pan(md3.Scale(3, r.Down())) {
		t.Fatal("pan down failed")
	}
	if r.Camera().Position().Z >= 0 {
		t.Error("pan down should lower the camera")
	}
}

func TestZoom(t *testing.T) {
	r := newSphereRenderer(t, 8, 8)
	if !r.Zoom(r.Forward()) {
		t.Fatal("zoom forward failed")
	}
	if !vecNear(r.Camera().Position(), md3.Vec{Y: -2}, 1e-12) {
		t.Error("bad position after forward zoom", r.Camera().Position())
	}
	if !r.Zoom(md3.Scale(0.5, r.Backward())) {
		t.Fatal("zoom backward failed")
	}
	// Distance to surface is 1, backward zoom covers 4 times that.
	if !vecNear(r.Camera().Position(), md3.Vec{Y: -6}, 1e-12) {
		t.Error("bad position after backward zoom", r.Camera().Position())
	}
}

func TestTurn(t *testing.T) {
	r := newSphereRenderer(t, 8, 8)
	if !r.TurnBy(r.Left(), math.Pi/2) {
		t.Fatal("turn left failed")
	}
	if !vecNear(r.Forward(), md3.Vec{X: -1}, 1e-12) || !vecNear(r.Up(), md3.Vec{Z: 1}, 1e-12) {
		t.Error("bad orientation after left turn", r.Forward(), r.Up())
	}
	if !r.TurnBy(r.Right(), math.Pi/2) {
		t.Fatal("turn right failed")
	}
	if !vecNear(r.Forward(), md3.Vec{Y: 1}, 1e-12) {
		t.Error("right turn should undo left turn", r.Forward())
	}
	if !r.TurnBy(r.Up(), math.Pi/2) {
		t.Fatal("turn up failed")
	}
	if !vecNear(r.Forward(), md3.Vec{Z: 1}, 1e-12) || !vecNear(r.Up(), md3.Vec{Y: -1}, 1e-12) {
		t.Error("bad orientation after up turn", r.Forward(), r.Up())
	}
	if !r.TurnBy(r.Down(), math.Pi/2) {
		t.Fatal("turn down failed")
	}
	if !vecNear(r.Forward(), md3.Vec{Y: 1}, 1e-12) || !vecNear(r.Up(), md3.Vec{Z: 1}, 1e-12) {
		t.Error("down turn should undo up turn", r.Forward(), r.Up())
	}
	// Default turns use the fixed turn angle.
	if !r.Turn(r.Right()) {
		t.Fatal("turn right failed")
	}
	if got := angleBetween(r.Forward(), md3.Vec{Y: 1}); math.Abs(got-TurnAngle) > 1e-12 {
		t.Error("bad turn angle", got)
	}
	if r.Camera().Position() != (md3.Vec{Y: -5}) {
		t.Error("turning should not move the camera")
	}
}

func TestNavigateRejectsSkewedDirections(t *testing.T) {
	r := newSphereRenderer(t, 8, 8)
	r.Pan(r.Up())
	r.Turn(r.Left())
	before := r.Camera()
	skewed := sdfeval.Normalize(md3.Add(r.Forward(), r.Left())) // 45° off.
	if r.Pan(skewed) {
		t.Error("pan should reject skewed direction")
	}
	if r.Zoom(skewed) {
		t.Error("zoom should reject skewed direction")
	}
	if r.Turn(skewed) {
		t.Error("turn should reject skewed direction")
	}
	if r.Zoom(r.Up()) {
		t.Error("zoom should reject orthogonal direction")
	}
	if r.Pan(r.Forward()) || r.Turn(r.Backward()) {
		t.Error("pan and turn should reject parallel directions")
	}
	if r.Camera() != before {
		t.Error("rejected navigation modified the camera")
	}
}

func TestZoomToPixel(t *testing.T) {
	const size = 101
	r := newSphereRenderer(t, size, size)
	if !r.ZoomToPixel(size/2, size/2, true) {
		t.Fatal("zoom to center pixel failed")
	}
	// Half a pixel of vertical bias from the column turn.
	if !vecNear(r.Forward(), md3.Vec{Y: 1}, 0.02) {
		t.Error("camera should still face the sphere", r.Forward())
	}
	if !vecNear(r.Camera().Position(), md3.Vec{Y: -2}, 0.06) {
		t.Error("bad position after zooming to center", r.Camera().Position())
	}

	r.ResetCamera()
	if !r.ZoomToPixel(0, size/2, false) {
		t.Fatal("zoom out of left edge pixel failed")
	}
	// Camera turned left, then moved back away from the sphere.
	if r.Forward().X >= 0 || r.Camera().Position().X <= 0 {
		t.Error("camera should face left and back away", r.Forward(), r.Camera().Position())
	}
	if angle := angleBetween(r.Forward(), md3.Vec{Y: 1}); math.Abs(angle-FieldOfView/2) > 0.02 {
		t.Error("camera should turn half the field of view, turned", angle)
	}
	if math.Abs(md3.Dot(r.Forward(), r.Up())) > 1e-12 {
		t.Error("camera basis not orthogonal after zoom to pixel")
	}
}

func TestNavigateNonFiniteDistance(t *testing.T) {
	field := sphereField()
	r, err := NewRenderer(8, 8, field)
	if err != nil {
		t.Fatal(err)
	}
	before := r.Camera()
	field.distance = func(md3.Vec) float64 { return math.Inf(1) }
	if r.Pan(r.Left()) || r.Zoom(r.Forward()) || r.ZoomToPixel(4, 4, true) {
		t.Error("moves by an infinite distance should be rejected")
	}
	if r.Camera() != before {
		t.Error("rejected navigation modified the camera")
	}
	if !r.Turn(r.Left()) {
		t.Error("turns do not depend on the distance estimate")
	}
}
