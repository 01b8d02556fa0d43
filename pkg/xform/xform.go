// Package xform implements composable, invertible affine transforms of 3-D
// space on top of the sdfx 4x4 matrix type.
package xform

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// singular is the determinant magnitude below which a transform has no
// inverse.
const singular = 1e-15

// Transform is an affine map held as a row-major sdf.M44 whose last row is
// (0, 0, 0, 1). The zero value is not the identity; use Identity().
type Transform struct {
	m sdf.M44
}

// FromM44 wraps an sdfx matrix.
func FromM44(m sdf.M44) Transform { return Transform{m: m} }

// M44 returns the underlying sdfx matrix.
func (t Transform) M44() sdf.M44 { return t.m }

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{m: sdf.Identity3d()}
}

// Translate returns a translation by (dx, dy, dz).
func Translate(dx, dy, dz float64) Transform {
	return TranslateVec(v3.Vec{X: dx, Y: dy, Z: dz})
}

// TranslateVec returns a translation by v.
func TranslateVec(v v3.Vec) Transform {
	return Transform{m: sdf.Translate3d(v)}
}

// Rotate returns a right-handed rotation by angle radians about axis.
// A zero axis yields the identity.
func Rotate(angle float64, axis v3.Vec) Transform {
	if axis.Length() == 0 {
		return Identity()
	}
	return Transform{m: sdf.Rotate3d(axis, angle)}
}

// Scale returns a non-uniform scale about the origin.
func Scale(sx, sy, sz float64) Transform {
	return Transform{m: sdf.Scale3d(v3.Vec{X: sx, Y: sy, Z: sz})}
}

// ScaleUniform returns Scale(s, s, s).
func ScaleUniform(s float64) Transform {
	return Scale(s, s, s)
}

// Mirror returns the reflection across the plane through the origin with
// the given normal, I - 2nn'. A zero normal yields the identity.
func Mirror(normal v3.Vec) Transform {
	l := normal.Length()
	if l == 0 {
		return Identity()
	}
	x, y, z := normal.X/l, normal.Y/l, normal.Z/l
	return Transform{m: sdf.NewM44([16]float64{
		1 - 2*x*x, -2 * x * y, -2 * x * z, 0,
		-2 * x * y, 1 - 2*y*y, -2 * y * z, 0,
		-2 * x * z, -2 * y * z, 1 - 2*z*z, 0,
		0, 0, 0, 1,
	})}
}

// Compose returns the transform that applies o first, then t.
func (t Transform) Compose(o Transform) Transform {
	return Transform{m: t.m.Mul(o.m)}
}

// Then returns the transform that applies t first, then o.
func (t Transform) Then(o Transform) Transform {
	return o.Compose(t)
}

// Inverse returns the inverse transform. It panics on a singular transform
// (a zero scale factor); use TryInverse to handle that case.
func (t Transform) Inverse() Transform {
	inv, err := t.TryInverse()
	if err != nil {
		panic(err)
	}
	return inv
}

// TryInverse returns the inverse, or an error if t is singular.
func (t Transform) TryInverse() (Transform, error) {
	if math.Abs(t.m.Determinant()) < singular {
		return Transform{}, fmt.Errorf("xform: singular transform %v", t)
	}
	return Transform{m: t.m.Inverse()}, nil
}

// Determinant returns the determinant of the linear part.
func (t Transform) Determinant() float64 {
	return t.m.Determinant()
}

// Apply maps a point.
func (t Transform) Apply(p v3.Vec) v3.Vec {
	return t.m.MulPosition(p)
}

// ApplyVector maps a direction, ignoring the offset.
func (t Transform) ApplyVector(v v3.Vec) v3.Vec {
	return t.m.MulPosition(v).Sub(t.Translation())
}

// ApplyBox returns the axis-aligned box enclosing the transformed box.
func (t Transform) ApplyBox(b sdf.Box3) sdf.Box3 {
	return t.m.MulBox(b)
}

// Translation returns the offset part.
func (t Transform) Translation() v3.Vec {
	return v3.Vec{X: t.m[3], Y: t.m[7], Z: t.m[11]}
}

// Linear returns the 3x3 linear part in row-major order.
func (t Transform) Linear() [9]float64 {
	m := t.m
	return [9]float64{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// IsIdentity reports whether t is the identity within tol.
func (t Transform) IsIdentity(tol float64) bool {
	return t.ApproxEqual(Identity(), tol)
}

// ApproxEqual compares every coefficient within tol.
func (t Transform) ApproxEqual(o Transform, tol float64) bool {
	return t.m.Equals(o.m, tol)
}

// Reflects reports whether t flips orientation.
func (t Transform) Reflects() bool {
	return t.m.Determinant() < 0
}

func (t Transform) String() string {
	m := t.m
	return fmt.Sprintf("[%g %g %g | %g; %g %g %g | %g; %g %g %g | %g]",
		m[0], m[1], m[2], m[3],
		m[4], m[5], m[6], m[7],
		m[8], m[9], m[10], m[11])
}
