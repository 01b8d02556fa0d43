package shape

import (
	"fmt"

	"github.com/chazu/rcad/pkg/kernel"
	"github.com/chazu/rcad/pkg/outline"
)

// Realize evaluates the tree with k. The result is cached on each node per
// kernel, so shared subtrees are evaluated once. Kernel failures are
// returned unchanged.
func (n *Node) Realize(k kernel.Kernel) (kernel.Solid, error) {
	n.mu.Lock()
	s, ok := n.solids[k]
	n.mu.Unlock()
	if ok {
		return s, nil
	}

	s, err := n.realize(k)
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.solids == nil {
		n.solids = make(map[kernel.Kernel]kernel.Solid)
	}
	if cached, ok := n.solids[k]; ok {
		return cached, nil
	}
	n.solids[k] = s
	return s, nil
}

func (n *Node) realizeChildren(k kernel.Kernel) ([]kernel.Solid, error) {
	out := make([]kernel.Solid, len(n.children))
	for i, c := range n.children {
		s, err := c.Realize(k)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (n *Node) realize(k kernel.Kernel) (kernel.Solid, error) {
	switch n.kind {
	case KindPrimitive:
		return n.realizePrimitive(k)

	case KindCombinator:
		parts, err := n.realizeChildren(k)
		if err != nil {
			return nil, err
		}
		if len(parts) == 0 {
			return nil, fmt.Errorf("shape: %s of no shapes", n.op)
		}
		acc := parts[0]
		for _, p := range parts[1:] {
			switch n.op {
			case OpUnion:
				acc, err = k.Union(acc, p)
			case OpDifference:
				acc, err = k.Difference(acc, p)
			case OpIntersection:
				acc, err = k.Intersection(acc, p)
			default:
				err = fmt.Errorf("shape: unknown operation %v", n.op)
			}
			if err != nil {
				return nil, err
			}
		}
		return acc, nil

	case KindTransformed:
		s, err := n.children[0].Realize(k)
		if err != nil {
			return nil, err
		}
		return k.Transform(s, n.xf)

	case KindExtrusion:
		s, err := n.children[0].Realize(k)
		if err != nil {
			return nil, err
		}
		return k.Extrude(s, n.height, n.twist)

	case KindRevolution:
		s, err := n.children[0].Realize(k)
		if err != nil {
			return nil, err
		}
		return k.Revolve(s, n.angle)

	case KindHull:
		if len(n.children) == 0 {
			return nil, fmt.Errorf("shape: hull of no shapes")
		}
		parts, err := n.realizeChildren(k)
		if err != nil {
			return nil, err
		}
		return k.Hull(parts)

	case KindOutline:
		return outline.Build(k, n.instrs)
	}
	return nil, fmt.Errorf("shape: cannot realize %v", n.kind)
}

func (n *Node) realizePrimitive(k kernel.Kernel) (kernel.Solid, error) {
	p := n.params
	switch n.prim {
	case PrimBox:
		return k.Box(p[0], p[1], p[2])
	case PrimCylinder:
		return k.Cone(p[1], p[0]/2, p[0]/2)
	case PrimCone:
		return k.Cone(p[0], p[1]/2, p[2]/2)
	case PrimSphere:
		return k.Sphere(p[0] / 2)
	case PrimTorus:
		id, od := p[0], p[1]
		return k.Torus((id+od)/4, (od-id)/4, p[2])
	case PrimPolyhedron:
		return k.Polyhedron(n.points, n.faces)
	case PrimPolygon:
		return k.Polygon(n.paths)
	case PrimCircle:
		return k.Circle(p[0] / 2)
	}
	return nil, fmt.Errorf("shape: unknown primitive %v", n.prim)
}

// BoundingBox returns the axis-aligned bounds of the realized tree.
func (n *Node) BoundingBox(k kernel.Kernel) (kernel.Box, error) {
	s, err := n.Realize(k)
	if err != nil {
		return kernel.Box{}, err
	}
	return s.BoundingBox(), nil
}

// Bounds is a bounding box with per-axis accessors.
type Bounds struct {
	kernel.Box
}

// Bounds returns the node's bounding box with its derived queries.
func (n *Node) Bounds(k kernel.Kernel) (Bounds, error) {
	b, err := n.BoundingBox(k)
	return Bounds{b}, err
}

func (b Bounds) MinX() float64  { return b.Min.X }
func (b Bounds) MinY() float64  { return b.Min.Y }
func (b Bounds) MinZ() float64  { return b.Min.Z }
func (b Bounds) MaxX() float64  { return b.Max.X }
func (b Bounds) MaxY() float64  { return b.Max.Y }
func (b Bounds) MaxZ() float64  { return b.Max.Z }
func (b Bounds) XSize() float64 { return b.Max.X - b.Min.X }
func (b Bounds) YSize() float64 { return b.Max.Y - b.Min.Y }
func (b Bounds) ZSize() float64 { return b.Max.Z - b.Min.Z }
func (b Bounds) CX() float64    { return (b.Min.X + b.Max.X) / 2 }
func (b Bounds) CY() float64    { return (b.Min.Y + b.Max.Y) / 2 }
func (b Bounds) CZ() float64    { return (b.Min.Z + b.Max.Z) / 2 }
