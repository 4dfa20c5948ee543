package render

import (
	"fmt"

	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/md3"
	"github.com/soypat/glgl/math/ms1"
)

// LightParameter enumerates the editable values of a [Light].
type LightParameter int

const (
	LightX LightParameter = iota
	LightY
	LightZ
	LightRed
	LightGreen
	LightBlue
	LightBrightness
	numLightParameters
)

// NumLightParameters is the amount of editable values of a [Light].
const NumLightParameters = int(numLightParameters)

func (p LightParameter) String() string {
	switch p {
	case LightX:
		return "X"
	case LightY:
		return "Y"
	case LightZ:
		return "Z"
	case LightRed:
		return "Red"
	case LightGreen:
		return "Green"
	case LightBlue:
		return "Blue"
	case LightBrightness:
		return "Brightness"
	}
	return fmt.Sprintf("LightParameter(%d)", int(p))
}

// Light is a point light or, when used as the renderer's ambient light,
// a positionless background/ambient contribution.
type Light struct {
	position   md3.Vec
	color      Color
	brightness float32
}

// NewLight creates a light. Color channels are clamped to 0..1 and negative
// brightness is clamped to zero.
func NewLight(position md3.Vec, red, green, blue, brightness float32) Light {
	return Light{
		position: position,
		color: Color{
			R: ms1.Clamp(red, 0, 1),
			G: ms1.Clamp(green, 0, 1),
			B: ms1.Clamp(blue, 0, 1),
		},
		brightness: math.Max(0, brightness),
	}
}

// NewLightFromParameters creates a light from values indexed by [LightParameter].
func NewLightFromParameters(params [NumLightParameters]float64) Light {
	return NewLight(
		md3.Vec{X: params[LightX], Y: params[LightY], Z: params[LightZ]},
		float32(params[LightRed]),
		float32(params[LightGreen]),
		float32(params[LightBlue]),
		float32(params[LightBrightness]),
	)
}

// Position returns the light's position in world space.
func (l Light) Position() md3.Vec { return l.position }

// Brightness returns the brightness multiplier of the light.
func (l Light) Brightness() float32 { return l.brightness }

// BaseColor returns the light's color before brightness is applied.
func (l Light) BaseColor() Color { return l.color }

// Color returns the emitted color, which is the base color scaled by brightness.
func (l Light) Color() Color {
	return l.color.Scale(l.brightness)
}

// Parameters returns the light's values indexed by [LightParameter].
func (l Light) Parameters() (params [NumLightParameters]float64) {
	params[LightX] = l.position.X
	params[LightY] = l.position.Y
	params[LightZ] = l.position.Z
	params[LightRed] = float64(l.color.R)
	params[LightGreen] = float64(l.color.G)
	params[LightBlue] = float64(l.color.B)
	params[LightBrightness] = float64(l.brightness)
	return params
}
