package kernel

import (
	"math"

	"github.com/chazu/rcad/pkg/xform"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Box is an axis-aligned bounding box.
type Box struct {
	Min v3.Vec `json:"min"`
	Max v3.Vec `json:"max"`
}

// EmptyBox returns a box that contains nothing; extending it with a point
// yields the box of that point.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: v3.Vec{X: inf, Y: inf, Z: inf},
		Max: v3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether b contains no point.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend returns b grown to include p.
func (b Box) Extend(p v3.Vec) Box {
	return Box{
		Min: v3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)},
		Max: v3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)},
	}
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Size returns the extent along each axis.
func (b Box) Size() v3.Vec {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint.
func (b Box) Center() v3.Vec {
	return v3.Vec{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

// Corners returns the eight corners.
func (b Box) Corners() [8]v3.Vec {
	var c [8]v3.Vec
	for i := range c {
		p := b.Min
		if i&1 != 0 {
			p.X = b.Max.X
		}
		if i&2 != 0 {
			p.Y = b.Max.Y
		}
		if i&4 != 0 {
			p.Z = b.Max.Z
		}
		c[i] = p
	}
	return c
}

// Transform returns the axis-aligned box of the transformed corners.
func (b Box) Transform(t xform.Transform) Box {
	if b.IsEmpty() {
		return b
	}
	tb := t.ApplyBox(sdf.Box3{Min: b.Min, Max: b.Max})
	return Box{Min: tb.Min, Max: tb.Max}
}

// Contains reports whether p lies in b (boundary included).
func (b Box) Contains(p v3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
