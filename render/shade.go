package render

import (
	"math"

	"github.com/soypat/geometry/md3"
	"github.com/soypat/gfractal/sdfeval"
)

// Field is a distance field that can be rendered. Besides the distance estimate
// it provides the marching thresholds, surface colors and a suggested camera position.
type Field interface {
	sdfeval.SDF
	// MinDistance is the distance estimate below which a ray counts as a surface hit.
	MinDistance() float64
	// MaxDistance is the marching budget beyond the camera's distance from the origin.
	MaxDistance() float64
	// AmbientColor is the surface color under ambient light.
	AmbientColor() Color
	// DiffuseColor is the surface color under point lights.
	DiffuseColor() Color
	// DefaultCameraPosition is where the camera is placed on reset, looking at the origin.
	DefaultCameraPosition() md3.Vec
}

// scene is the read-only state shared by all workers during a render.
type scene struct {
	cam     Camera
	field   Field
	ambient Light
	lights  []Light
	// Cached field values.
	minDistance float64
	maxDistance float64
	ambientBase Color
	diffuseBase Color
}

func newScene(cam Camera, field Field, ambient Light, lights []Light) *scene {
	return &scene{
		cam:         cam,
		field:       field,
		ambient:     ambient,
		lights:      append([]Light(nil), lights...),
		minDistance: field.MinDistance(),
		maxDistance: md3.Norm(cam.Position()) + field.MaxDistance(),
		ambientBase: field.AmbientColor(),
		diffuseBase: field.DiffuseColor(),
	}
}

// shader colors pixels of a scene. A shader is owned by a single worker.
type shader struct {
	sc      *scene
	sdf     sdfeval.Counter
	grid    []md3.Vec
	samples []uint32
	hits    uint64
	misses  uint64
}

func newShader(sc *scene) *shader {
	sh := &shader{sc: sc}
	sh.sdf.Reset(sc.field)
	return sh
}

// renderPixel returns the antialiased packed color of pixel (x,y) by averaging
// gridSize×gridSize samples across the pixel.
func (sh *shader) renderPixel(x, y, gridSize int) uint32 {
	sh.grid = sh.sc.cam.AppendPixelGrid(sh.grid[:0], float64(x), float64(y), gridSize)
	sh.samples = sh.samples[:0]
	for _, p := range sh.grid {
		sh.samples = append(sh.samples, sh.renderSubpixel(p))
	}
	return averagePacked(sh.samples)
}

// renderSubpixel returns the packed color seen through point on the image plane.
func (sh *shader) renderSubpixel(point md3.Vec) uint32 {
	sc := sh.sc
	camPos := sc.cam.Position()
	ray := NewRay(camPos, md3.Sub(point, camPos))
	intersection := ray.March(sc.minDistance, sc.maxDistance, &sh.sdf)
	if !ray.Intersected() {
		sh.misses++
		return sc.ambient.Color().Pack()
	}
	sh.hits++
	return sh.shade(intersection).Pack()
}

// shade returns the color at a surface point: ambient light modulated by
// [ambientIntensity] plus unobstructed Lambertian contributions of point lights
// with inverse square falloff.
func (sh *shader) shade(intersection md3.Vec) Color {
	sc := sh.sc
	minDist := sc.minDistance
	gradient := sdfeval.Gradient(&sh.sdf, intersection, minDist)
	normal := sdfeval.Normalize(gradient)
	intensity := ambientIntensity(intersection, gradient, normal, minDist)
	col := sc.ambient.Color().Scale(float32(intensity)).Mul(sc.ambientBase)

	shadowOrigin := md3.Add(intersection, md3.Scale(minDist, normal))
	for _, light := range sc.lights {
		lightVector := md3.Sub(light.Position(), intersection)
		lightDistance := md3.Norm(lightVector)
		shadow := NewRay(shadowOrigin, lightVector)
		shadow.March(minDist, lightDistance, &sh.sdf)
		if shadow.Intersected() {
			continue // Obstructed.
		}
		lambert := math.Max(0, md3.Dot(normal, shadow.Direction()))
		diffuse := lambert / (lightDistance * lightDistance)
		col = col.Add(light.Color().Scale(float32(diffuse)).Mul(sc.diffuseBase))
	}
	return col
}

// ambientIntensity is a rough ambient occlusion estimate: how open the surface is to
// the environment (gradient magnitude relative to minDistance) times how close the
// normal is to pointing directly away from the origin.
func ambientIntensity(intersection, gradient, normal md3.Vec, minDistance float64) float64 {
	openness := math.Min(1, md3.Norm(gradient)/minDistance)
	awayness := math.Max(0, md3.Dot(normal, sdfeval.Normalize(intersection)))
	return openness * awayness
}
