// Package outline turns a flat stream of path-drawing instructions into
// planar faces with correctly nested holes and islands.
package outline

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Op tags a drawing Instruction.
type Op int

const (
	OpMoveTo Op = iota
	OpLineTo
	OpQuadTo  // P[0] control, P[1] end
	OpCurveTo // P[0], P[1] controls, P[2] end
	OpClose
)

func (o Op) String() string {
	switch o {
	case OpMoveTo:
		return "move-to"
	case OpLineTo:
		return "line-to"
	case OpQuadTo:
		return "quad-to"
	case OpCurveTo:
		return "curve-to"
	case OpClose:
		return "close"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Instruction is one drawing command.
type Instruction struct {
	Op Op
	P  [3]v2.Vec
}

func MoveTo(p v2.Vec) Instruction { return Instruction{Op: OpMoveTo, P: [3]v2.Vec{p}} }
func LineTo(p v2.Vec) Instruction { return Instruction{Op: OpLineTo, P: [3]v2.Vec{p}} }
func QuadTo(c, p v2.Vec) Instruction {
	return Instruction{Op: OpQuadTo, P: [3]v2.Vec{c, p}}
}
func CurveTo(c1, c2, p v2.Vec) Instruction {
	return Instruction{Op: OpCurveTo, P: [3]v2.Vec{c1, c2, p}}
}
func Close() Instruction { return Instruction{Op: OpClose} }

// End returns the point the instruction moves the pen to.
func (in Instruction) End() v2.Vec {
	switch in.Op {
	case OpQuadTo:
		return in.P[1]
	case OpCurveTo:
		return in.P[2]
	}
	return in.P[0]
}

func (in Instruction) String() string {
	switch in.Op {
	case OpMoveTo, OpLineTo:
		return fmt.Sprintf("%s %v", in.Op, in.P[0])
	case OpQuadTo:
		return fmt.Sprintf("%s %v %v", in.Op, in.P[0], in.P[1])
	case OpCurveTo:
		return fmt.Sprintf("%s %v %v %v", in.Op, in.P[0], in.P[1], in.P[2])
	}
	return in.Op.String()
}

// Rect returns the instructions of an axis-aligned rectangle drawn
// counter-clockwise from (x0, y0).
func Rect(x0, y0, w, h float64) []Instruction {
	return []Instruction{
		MoveTo(v2.Vec{X: x0, Y: y0}),
		LineTo(v2.Vec{X: x0 + w, Y: y0}),
		LineTo(v2.Vec{X: x0 + w, Y: y0 + h}),
		LineTo(v2.Vec{X: x0, Y: y0 + h}),
		Close(),
	}
}
