// Package shape defines the immutable expression tree of a model: primitives,
// boolean combinators, accumulated transforms, sweeps, hulls and outline
// profiles. Operators always return new nodes. Geometry is produced lazily by
// a kernel and cached per node.
package shape

import (
	"fmt"
	"sync"

	"github.com/chazu/rcad/pkg/kernel"
	"github.com/chazu/rcad/pkg/outline"
	"github.com/chazu/rcad/pkg/xform"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Kind enumerates the variants of a Node.
type Kind int

const (
	KindPrimitive   Kind = iota // box, cone, sphere, polygon, ...
	KindCombinator              // union, difference, intersection
	KindTransformed             // one child under an accumulated transform
	KindExtrusion               // linear sweep of a 2-D profile
	KindRevolution              // rotational sweep of a 2-D profile
	KindHull                    // convex hull of its children
	KindOutline                 // faces built from drawing instructions
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindCombinator:
		return "combinator"
	case KindTransformed:
		return "transformed"
	case KindExtrusion:
		return "extrusion"
	case KindRevolution:
		return "revolution"
	case KindHull:
		return "hull"
	case KindOutline:
		return "outline"
	default:
		return "unknown"
	}
}

// Op is the boolean operation of a combinator.
type Op int

const (
	OpUnion Op = iota
	OpDifference
	OpIntersection
)

func (o Op) String() string {
	switch o {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// PrimKind distinguishes primitives.
type PrimKind int

const (
	PrimBox        PrimKind = iota // x, y, z
	PrimCylinder                   // d, h
	PrimCone                       // h, d0, dh
	PrimSphere                     // d
	PrimTorus                      // id, od, angle
	PrimPolyhedron                 // points + faces
	PrimPolygon                    // 2-D paths
	PrimCircle                     // 2-D, d
)

func (p PrimKind) String() string {
	switch p {
	case PrimBox:
		return "box"
	case PrimCylinder:
		return "cylinder"
	case PrimCone:
		return "cone"
	case PrimSphere:
		return "sphere"
	case PrimTorus:
		return "torus"
	case PrimPolyhedron:
		return "polyhedron"
	case PrimPolygon:
		return "polygon"
	case PrimCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Dim returns 2 for planar primitives and 3 otherwise.
func (p PrimKind) Dim() int {
	if p == PrimPolygon || p == PrimCircle {
		return 2
	}
	return 3
}

// Node is one element of a shape tree. Nodes are immutable after
// construction and may be shared by several parents.
type Node struct {
	kind     Kind
	prim     PrimKind
	params   []float64
	op       Op
	children []*Node
	xf       xform.Transform
	height   float64 // extrusion
	twist    float64 // extrusion
	angle    float64 // revolution; 0 means a full turn
	points   []v3.Vec
	faces    [][]int
	paths    [][]v2.Vec
	instrs   []outline.Instruction
	label    string

	idOnce sync.Once
	id     ID

	mu     sync.Mutex
	solids map[kernel.Kernel]kernel.Solid
}

func (n *Node) Kind() Kind             { return n.kind }
func (n *Node) Prim() PrimKind         { return n.prim }
func (n *Node) Op() Op                 { return n.op }
func (n *Node) Label() string          { return n.label }
func (n *Node) Height() float64        { return n.height }
func (n *Node) Twist() float64         { return n.twist }
func (n *Node) Angle() float64         { return n.angle }
func (n *Node) Xform() xform.Transform { return n.xf }

// Params returns a copy of the resolved primitive parameters.
func (n *Node) Params() []float64 { return append([]float64(nil), n.params...) }

// Children returns the node's children in order.
func (n *Node) Children() []*Node { return append([]*Node(nil), n.children...) }

// Instructions returns the drawing instructions of an outline node.
func (n *Node) Instructions() []outline.Instruction {
	return append([]outline.Instruction(nil), n.instrs...)
}

// Dim is 2 for planar profiles and 3 for solids.
func (n *Node) Dim() int {
	switch n.kind {
	case KindPrimitive:
		return n.prim.Dim()
	case KindExtrusion, KindRevolution:
		return 3
	case KindOutline:
		return 2
	case KindHull:
		// Any solid part lifts the hull out of the plane.
		for _, c := range n.children {
			if c.Dim() == 3 {
				return 3
			}
		}
	}
	if len(n.children) == 0 {
		return 3
	}
	return n.children[0].Dim()
}

// Count returns the number of distinct nodes in the tree rooted at n.
func (n *Node) Count() int {
	seen := map[*Node]bool{}
	var walk func(*Node)
	walk = func(m *Node) {
		if seen[m] {
			return
		}
		seen[m] = true
		for _, c := range m.children {
			walk(c)
		}
	}
	walk(n)
	return len(seen)
}

func (n *Node) String() string {
	switch n.kind {
	case KindPrimitive:
		return fmt.Sprintf("%s%v", n.prim, n.params)
	case KindCombinator:
		return fmt.Sprintf("%s(%d)", n.op, len(n.children))
	case KindTransformed:
		return fmt.Sprintf("transformed(%s)", n.children[0])
	case KindExtrusion:
		return fmt.Sprintf("extrude(%s, h=%g, twist=%g)", n.children[0], n.height, n.twist)
	case KindRevolution:
		return fmt.Sprintf("revolve(%s, angle=%g)", n.children[0], n.angle)
	case KindHull:
		return fmt.Sprintf("hull(%d)", len(n.children))
	case KindOutline:
		if n.label != "" {
			return fmt.Sprintf("outline(%q)", n.label)
		}
		return fmt.Sprintf("outline(%d)", len(n.instrs))
	}
	return n.kind.String()
}
