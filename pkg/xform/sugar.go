package xform

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Unit axes.
var (
	AxisX = v3.Vec{X: 1}
	AxisY = v3.Vec{Y: 1}
	AxisZ = v3.Vec{Z: 1}
)

// Lengths are millimetres; angles are radians.
const (
	MM   = 1.0
	CM   = 10.0
	UM   = 0.001
	Inch = 25.4
)

// Deg converts degrees to radians.
func Deg(d float64) float64 { return d * math.Pi / 180 }

// Rad converts radians to degrees.
func Rad(r float64) float64 { return r * 180 / math.Pi }

func MoveX(d float64) Transform { return Translate(d, 0, 0) }
func MoveY(d float64) Transform { return Translate(0, d, 0) }
func MoveZ(d float64) Transform { return Translate(0, 0, d) }

func RotX(a float64) Transform { return FromM44(sdf.RotateX(a)) }
func RotY(a float64) Transform { return FromM44(sdf.RotateY(a)) }
func RotZ(a float64) Transform { return FromM44(sdf.RotateZ(a)) }

func ScaleX(s float64) Transform { return Scale(s, 1, 1) }
func ScaleY(s float64) Transform { return Scale(1, s, 1) }
func ScaleZ(s float64) Transform { return Scale(1, 1, s) }

// Axis mirrors reflect across the plane normal to the axis.
func MirrorX() Transform { return FromM44(sdf.MirrorYZ()) }
func MirrorY() Transform { return FromM44(sdf.MirrorXZ()) }
func MirrorZ() Transform { return FromM44(sdf.MirrorXY()) }

// The methods below apply an axis operation after t, so chains read in
// application order: xform.MoveX(1).RotZ(a) moves, then rotates.

func (t Transform) Move(dx, dy, dz float64) Transform { return Translate(dx, dy, dz).Compose(t) }
func (t Transform) MoveX(d float64) Transform         { return MoveX(d).Compose(t) }
func (t Transform) MoveY(d float64) Transform         { return MoveY(d).Compose(t) }
func (t Transform) MoveZ(d float64) Transform         { return MoveZ(d).Compose(t) }
func (t Transform) Rotate(a float64, axis v3.Vec) Transform {
	return Rotate(a, axis).Compose(t)
}
func (t Transform) RotX(a float64) Transform   { return RotX(a).Compose(t) }
func (t Transform) RotY(a float64) Transform   { return RotY(a).Compose(t) }
func (t Transform) RotZ(a float64) Transform   { return RotZ(a).Compose(t) }
func (t Transform) Scale(sx, sy, sz float64) Transform {
	return Scale(sx, sy, sz).Compose(t)
}
func (t Transform) ScaleX(s float64) Transform { return ScaleX(s).Compose(t) }
func (t Transform) ScaleY(s float64) Transform { return ScaleY(s).Compose(t) }
func (t Transform) ScaleZ(s float64) Transform { return ScaleZ(s).Compose(t) }
func (t Transform) MirrorX() Transform         { return MirrorX().Compose(t) }
func (t Transform) MirrorY() Transform         { return MirrorY().Compose(t) }
func (t Transform) MirrorZ() Transform         { return MirrorZ().Compose(t) }
