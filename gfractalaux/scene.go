package gfractalaux

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/soypat/gfractal"
	"github.com/soypat/gfractal/render"
)

// ParseLight parses a light from its comma separated parameters in
// [render.LightParameter] order: "x,y,z,red,green,blue,brightness".
func ParseLight(s string) (render.Light, error) {
	fields := strings.Split(s, ",")
	if len(fields) != render.NumLightParameters {
		return render.Light{}, fmt.Errorf("light %q: want %d comma separated values, got %d", s, render.NumLightParameters, len(fields))
	}
	var params [render.NumLightParameters]float64
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return render.Light{}, fmt.Errorf("light %s: %w", render.LightParameter(i), err)
		}
		params[i] = v
	}
	return render.NewLightFromParameters(params), nil
}

// FormatLight formats l in the form accepted by [ParseLight].
func FormatLight(l render.Light) string {
	params := l.Parameters()
	fields := make([]string, len(params))
	for i, v := range params {
		fields[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(fields, ",")
}

// ParseParameter parses a "Name=value" parameter assignment.
func ParseParameter(s string) (gfractal.Parameter, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return gfractal.Parameter{}, fmt.Errorf("parameter %q: want Name=value", s)
	}
	return gfractal.Parameter{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)}, nil
}

// ApplyParameters sets the given parameters on f, which must be the fractal rendered by r.
// Iterations must be an integer, other values may be any number. Every invalid value is
// reported in the returned error, valid values are still set.
// If all values are valid and a parameter other than the iterations changed, the camera
// and lights of r are reset since the fractal's shape and bounds may have changed.
func ApplyParameters(r *render.Renderer, f *gfractal.Fractal, params []gfractal.Parameter) (reset bool, err error) {
	var errs []error
	changed := false
	for _, p := range params {
		var value float64
		if p.Name == gfractal.ParamIterations {
			var it int
			it, err = strconv.Atoi(p.Value)
			value = float64(it)
		} else {
			value, err = strconv.ParseFloat(p.Value, 64)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", gfractal.ErrInvalidParameter, p.Name, err))
			continue
		}
		old, ok := f.Parameter(p.Name)
		if !f.SetParameter(p.Name, value) {
			errs = append(errs, fmt.Errorf("%w: %s=%s", gfractal.ErrInvalidParameter, p.Name, p.Value))
			continue
		}
		changed = changed || (ok && old != value && p.Name != gfractal.ParamIterations)
	}
	if len(errs) > 0 {
		return false, errors.Join(errs...)
	}
	if changed {
		r.ResetCamera()
	}
	return changed, nil
}

func formatVec(x, y, z float64) string {
	return "(" + strconv.FormatFloat(x, 'f', 3, 64) + ", " +
		strconv.FormatFloat(y, 'f', 3, 64) + ", " +
		strconv.FormatFloat(z, 'f', 3, 64) + ")"
}
