// Package tessellate realizes finished shape trees through a geometry
// kernel and produces triangle meshes. Top-level unions are split into one
// mesh per part.
package tessellate

import (
	"fmt"

	"github.com/chazu/rcad/pkg/kernel"
	"github.com/chazu/rcad/pkg/log"
	"github.com/chazu/rcad/pkg/shape"
	"github.com/chazu/rcad/pkg/xform"
)

// transformStack accumulates the transforms above the current node during
// traversal.
type transformStack struct {
	xfs []xform.Transform
}

func (ts *transformStack) push(t xform.Transform) { ts.xfs = append(ts.xfs, t) }

func (ts *transformStack) pop() {
	if len(ts.xfs) > 0 {
		ts.xfs = ts.xfs[:len(ts.xfs)-1]
	}
}

// accumulated returns the outermost transform composed with every inner one.
func (ts *transformStack) accumulated() xform.Transform {
	acc := xform.Identity()
	for _, t := range ts.xfs {
		acc = acc.Compose(t)
	}
	return acc
}

// Parts returns the parts of root: the operands of top-level unions, each
// carrying the transforms applied above it. A tree that is not a union is
// one part.
func Parts(root *shape.Node) []*shape.Node {
	var parts []*shape.Node
	ts := &transformStack{}
	var walk func(n *shape.Node)
	walk = func(n *shape.Node) {
		switch {
		case n.Kind() == shape.KindTransformed:
			child, xf := n.Untransformed()
			ts.push(xf)
			walk(child)
			ts.pop()
		case n.Kind() == shape.KindCombinator && n.Op() == shape.OpUnion:
			for _, c := range n.Children() {
				walk(c)
			}
		default:
			if acc := ts.accumulated(); !acc.IsIdentity(0) {
				n = n.Transform(acc)
			}
			parts = append(parts, n)
		}
	}
	walk(root)
	return parts
}

// Tessellate produces one mesh per part of root, named by the part's short
// content ID.
func Tessellate(root *shape.Node, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if root == nil {
		return nil, nil
	}
	lg := log.WithComponent("tessellate")
	var meshes []*kernel.Mesh
	for _, p := range Parts(root) {
		m, err := Mesh(p, k)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
		lg.Debug("part tessellated", "part", m.Name, "triangles", m.TriangleCount())
	}
	lg.Info("tessellated", "parts", len(meshes), "kernel", k.Name())
	return meshes, nil
}

// Mesh realizes the whole tree and returns its mesh.
func Mesh(root *shape.Node, k kernel.Kernel) (*kernel.Mesh, error) {
	s, err := root.Realize(k)
	if err != nil {
		return nil, fmt.Errorf("tessellate: realize %s: %w", root.ID().Short(), err)
	}
	if s.Dim() != 3 {
		return nil, fmt.Errorf("tessellate: %s is a %d-D profile, extrude or revolve it first",
			root.ID().Short(), s.Dim())
	}
	m, err := k.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", root.ID().Short(), err)
	}
	m.Name = root.ID().Short()
	return m, nil
}
