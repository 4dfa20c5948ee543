package render

import (
	"github.com/soypat/geometry/md3"
	"github.com/soypat/gfractal/sdfeval"
)

// Ray is a half line used for sphere tracing. A Ray is created for a single
// primary or shadow test; its hit state describes the last call to March.
type Ray struct {
	endpoint  md3.Vec
	direction md3.Vec
	hit       bool
	steps     int
}

// NewRay creates a ray starting at endpoint. direction is normalized.
func NewRay(endpoint, direction md3.Vec) Ray {
	return Ray{
		endpoint:  endpoint,
		direction: sdfeval.Normalize(direction),
	}
}

// Endpoint returns the ray's starting point.
func (r *Ray) Endpoint() md3.Vec { return r.endpoint }

// Direction returns the ray's unit direction.
func (r *Ray) Direction() md3.Vec { return r.direction }

// Intersected reports whether the last March found the surface.
func (r *Ray) Intersected() bool { return r.hit }

// Steps returns the number of distance estimations performed by the last March.
func (r *Ray) Steps() int { return r.steps }

// March sphere traces the ray against sdf. Starting at the endpoint the ray advances by
// the estimated distance until the estimate drops below minDistance, which is recorded
// as a hit, or the travelled distance reaches maxDistance. It returns the final point.
// A NaN estimate ends the march without a hit.
func (r *Ray) March(minDistance, maxDistance float64, sdf sdfeval.SDF) md3.Vec {
	totalDistance := 0.0
	r.hit = false
	r.steps = 0
	for totalDistance < maxDistance {
		pos := md3.Add(r.endpoint, md3.Scale(totalDistance, r.direction))
		distance := sdf.EstimateDistance(pos)
		r.steps++
		if distance < minDistance {
			r.hit = true
			break
		}
		totalDistance += distance
	}
	return md3.Add(r.endpoint, md3.Scale(totalDistance, r.direction))
}
