// Package kernel defines the geometry kernel contract consumed by the shape
// tree. Implementations (sdfx, manifold) realize primitives, evaluate
// booleans and transforms, sweep 2-D profiles and produce meshes. Shapes
// are built once against this interface and can be realized by any backend.
package kernel

import (
	"github.com/chazu/rcad/pkg/xform"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Solid is an opaque handle to realized geometry. A Solid is either a 3-D
// volume or a planar 2-D region in the XY plane (Dim() == 2).
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box. 2-D solids have
	// Min.Z == Max.Z == 0.
	BoundingBox() Box
	Dim() int
}

// Kernel is the abstract geometry kernel.
//
// Placement conventions: boxes and rectangles have their minimum corner at
// the origin; cylinders and cones stand on z=0 along +Z; spheres, circles and
// tori are centered on the origin; extrusions run from z=0 to +height;
// revolutions sweep a profile drawn in the XY plane about the Y axis.
type Kernel interface {
	Name() string

	// 3-D primitives
	Box(x, y, z float64) (Solid, error)
	Cone(height, r0, r1 float64) (Solid, error) // cylinder when r0 == r1
	Sphere(r float64) (Solid, error)
	Torus(major, minor, angle float64) (Solid, error)
	Polyhedron(points []v3.Vec, faces [][]int) (Solid, error)

	// 2-D primitives
	Polygon(paths [][]v2.Vec) (Solid, error) // first path outer, the rest holes
	Circle(r float64) (Solid, error)
	Face(wires []Wire) (Solid, error)
	Contains(face Solid, p v2.Vec) (bool, error)
	Compound(parts []Solid) (Solid, error)

	// Boolean operations; both operands must have the same dimension.
	Union(a, b Solid) (Solid, error)
	Difference(a, b Solid) (Solid, error)
	Intersection(a, b Solid) (Solid, error)

	Transform(s Solid, t xform.Transform) (Solid, error)
	Hull(parts []Solid) (Solid, error)

	// Sweeps of a 2-D profile
	Extrude(profile Solid, height, twist float64) (Solid, error)
	Revolve(profile Solid, angle float64) (Solid, error)

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
