package gfractalaux

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soypat/gfractal/render"
)

type moveKind uint8

const (
	moveTurnUp moveKind = iota
	moveTurnDown
	moveTurnLeft
	moveTurnRight
	moveForward
	moveBack
	movePanLeft
	movePanRight
	movePanUp
	movePanDown
	moveClick
)

var moveNames = map[string]moveKind{
	"turn-up":    moveTurnUp,
	"turn-down":  moveTurnDown,
	"turn-left":  moveTurnLeft,
	"turn-right": moveTurnRight,
	"forward":    moveForward,
	"back":       moveBack,
	"pan-left":   movePanLeft,
	"pan-right":  movePanRight,
	"pan-up":     movePanUp,
	"pan-down":   movePanDown,
}

// Move is a single camera movement of a navigation script.
type Move struct {
	kind moveKind
	// Click fields. y is measured from the top of the image.
	x, y    int
	zoomIn  bool
	literal string
}

func (m Move) String() string { return m.literal }

// ParseMoves parses a navigation script. Moves are separated by whitespace or semicolons:
//
//	turn-up turn-down turn-left turn-right  rotate the camera by [render.TurnAngle]
//	forward back                            zoom along the camera direction
//	pan-left pan-right pan-up pan-down      move the camera sideways
//	click:x,y,in click:x,y,out              turn to pixel (x,y) and zoom, y=0 is the top row
func ParseMoves(script string) ([]Move, error) {
	fields := strings.FieldsFunc(script, func(r rune) bool {
		return r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	moves := make([]Move, 0, len(fields))
	for _, field := range fields {
		m, err := parseMove(field)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

func parseMove(s string) (Move, error) {
	if kind, ok := moveNames[strings.ToLower(s)]; ok {
		return Move{kind: kind, literal: s}, nil
	}
	args, ok := strings.CutPrefix(s, "click:")
	if !ok {
		return Move{}, fmt.Errorf("unknown move %q", s)
	}
	parts := strings.Split(args, ",")
	if len(parts) != 3 {
		return Move{}, fmt.Errorf("move %q: want click:x,y,in|out", s)
	}
	x, err := strconv.Atoi(parts[0])
	if err != nil {
		return Move{}, fmt.Errorf("move %q: %w", s, err)
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return Move{}, fmt.Errorf("move %q: %w", s, err)
	}
	m := Move{kind: moveClick, x: x, y: y, literal: s}
	switch parts[2] {
	case "in":
		m.zoomIn = true
	case "out":
	default:
		return Move{}, fmt.Errorf("move %q: zoom must be in or out", s)
	}
	return m, nil
}

// Apply performs the move on r and reports whether the camera moved.
// Clicks outside the image are rejected.
func (m Move) Apply(r *render.Renderer) bool {
	switch m.kind {
	case moveTurnUp:
		return r.Turn(r.Up())
	case moveTurnDown:
		return r.Turn(r.Down())
	case moveTurnLeft:
		return r.Turn(r.Left())
	case moveTurnRight:
		return r.Turn(r.Right())
	case moveForward:
		return r.Zoom(r.Forward())
	case moveBack:
		return r.Zoom(r.Backward())
	case movePanLeft:
		return r.Pan(r.Left())
	case movePanRight:
		return r.Pan(r.Right())
	case movePanUp:
		return r.Pan(r.Up())
	case movePanDown:
		return r.Pan(r.Down())
	case moveClick:
		cam := r.Camera()
		if m.x < 0 || m.x >= cam.Width() || m.y < 0 || m.y >= cam.Height() {
			return false
		}
		// Mouse coordinates grow downwards.
		return r.ZoomToPixel(m.x, cam.Height()-m.y-1, m.zoomIn)
	}
	return false
}

// Navigate parses script with [ParseMoves] and applies its moves to r in order.
// Nothing is applied if the script is malformed. It returns the moves that were
// rejected by the renderer, which leave the camera untouched.
func Navigate(r *render.Renderer, script string) (rejected []Move, err error) {
	moves, err := ParseMoves(script)
	if err != nil {
		return nil, err
	}
	for _, m := range moves {
		if !m.Apply(r) {
			rejected = append(rejected, m)
		}
	}
	return rejected, nil
}
