package shape

import (
	"github.com/chazu/rcad/pkg/xform"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Combine returns a combinator over children in order. The first child is
// the base of a difference.
func Combine(op Op, children ...*Node) *Node {
	return &Node{kind: KindCombinator, op: op, children: append([]*Node(nil), children...)}
}

func (n *Node) combine(op Op, others []*Node) *Node {
	if len(others) == 0 {
		return n
	}
	return Combine(op, append([]*Node{n}, others...)...)
}

// Union returns n joined with others.
func (n *Node) Union(others ...*Node) *Node { return n.combine(OpUnion, others) }

// Difference returns n with the volume of others removed.
func (n *Node) Difference(others ...*Node) *Node { return n.combine(OpDifference, others) }

// Intersect returns the volume common to n and all others.
func (n *Node) Intersect(others ...*Node) *Node { return n.combine(OpIntersection, others) }

// Hull returns the convex hull of children.
func Hull(children ...*Node) *Node {
	return &Node{kind: KindHull, children: append([]*Node(nil), children...)}
}

// Transform returns n placed by t. Transforming a transformed node folds t
// into its accumulated transform instead of nesting.
func (n *Node) Transform(t xform.Transform) *Node {
	if n.kind == KindTransformed {
		return &Node{kind: KindTransformed, children: n.children, xf: t.Compose(n.xf)}
	}
	return &Node{kind: KindTransformed, children: []*Node{n}, xf: t}
}

// Untransformed returns the child of a transformed node together with its
// transform, or n and the identity.
func (n *Node) Untransformed() (*Node, xform.Transform) {
	if n.kind == KindTransformed {
		return n.children[0], n.xf
	}
	return n, xform.Identity()
}

func (n *Node) Move(dx, dy, dz float64) *Node { return n.Transform(xform.Translate(dx, dy, dz)) }
func (n *Node) MoveX(d float64) *Node         { return n.Transform(xform.MoveX(d)) }
func (n *Node) MoveY(d float64) *Node         { return n.Transform(xform.MoveY(d)) }
func (n *Node) MoveZ(d float64) *Node         { return n.Transform(xform.MoveZ(d)) }

// Rotate rotates by angle radians about axis through the origin.
func (n *Node) Rotate(angle float64, axis v3.Vec) *Node {
	return n.Transform(xform.Rotate(angle, axis))
}
func (n *Node) RotX(a float64) *Node { return n.Transform(xform.RotX(a)) }
func (n *Node) RotY(a float64) *Node { return n.Transform(xform.RotY(a)) }
func (n *Node) RotZ(a float64) *Node { return n.Transform(xform.RotZ(a)) }

func (n *Node) Scale(sx, sy, sz float64) *Node { return n.Transform(xform.Scale(sx, sy, sz)) }
func (n *Node) ScaleX(s float64) *Node         { return n.Transform(xform.ScaleX(s)) }
func (n *Node) ScaleY(s float64) *Node         { return n.Transform(xform.ScaleY(s)) }
func (n *Node) ScaleZ(s float64) *Node         { return n.Transform(xform.ScaleZ(s)) }

func (n *Node) MirrorX() *Node { return n.Transform(xform.MirrorX()) }
func (n *Node) MirrorY() *Node { return n.Transform(xform.MirrorY()) }
func (n *Node) MirrorZ() *Node { return n.Transform(xform.MirrorZ()) }

// Extrude sweeps a planar profile from z=0 to z=height, rotating it by twist
// radians over the height.
func (n *Node) Extrude(height, twist float64) *Node {
	return &Node{kind: KindExtrusion, children: []*Node{n}, height: height, twist: twist}
}

// Revolve sweeps a planar profile about the Y axis by angle radians. A zero
// angle is a full turn.
func (n *Node) Revolve(angle float64) *Node {
	return &Node{kind: KindRevolution, children: []*Node{n}, angle: angle}
}
