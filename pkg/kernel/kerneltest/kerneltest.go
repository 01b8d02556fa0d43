// Package kerneltest provides a bounding-box kernel for tests. It computes
// exact boxes for primitives, conservative boxes for booleans and records a
// textual expression of every solid, so tests can compare tree structure
// without real geometry.
package kerneltest

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/chazu/rcad/pkg/kernel"
	"github.com/chazu/rcad/pkg/xform"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Solid is the fake kernel's solid.
type Solid struct {
	Expr  string
	box   kernel.Box
	dim   int
	rings [][]v2.Vec
}

func (s *Solid) BoundingBox() kernel.Box { return s.box }
func (s *Solid) Dim() int                { return s.dim }
func (s *Solid) String() string          { return s.Expr }

// Kernel implements kernel.Kernel on bounding boxes. Calls counts every
// realization request per operation name.
type Kernel struct {
	mu    sync.Mutex
	Calls map[string]int
}

var _ kernel.Kernel = (*Kernel)(nil)

// New returns an empty fake kernel.
func New() *Kernel {
	return &Kernel{Calls: map[string]int{}}
}

func (k *Kernel) count(op string) {
	k.mu.Lock()
	k.Calls[op]++
	k.mu.Unlock()
}

// Count returns how many times op was called.
func (k *Kernel) Count(op string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Calls[op]
}

func (k *Kernel) Name() string { return "fake" }

func box3(min, max v3.Vec) kernel.Box { return kernel.Box{Min: min, Max: max} }

func (k *Kernel) Box(x, y, z float64) (kernel.Solid, error) {
	k.count("box")
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, kernel.Errorf(k.Name(), "box", "non-positive size %g,%g,%g", x, y, z)
	}
	return &Solid{Expr: fmt.Sprintf("box(%g,%g,%g)", x, y, z), dim: 3,
		box: box3(v3.Vec{}, v3.Vec{X: x, Y: y, Z: z})}, nil
}

func (k *Kernel) Cone(h, r0, r1 float64) (kernel.Solid, error) {
	k.count("cone")
	r := math.Max(r0, r1)
	return &Solid{Expr: fmt.Sprintf("cone(%g,%g,%g)", h, r0, r1), dim: 3,
		box: box3(v3.Vec{X: -r, Y: -r}, v3.Vec{X: r, Y: r, Z: h})}, nil
}

func (k *Kernel) Sphere(r float64) (kernel.Solid, error) {
	k.count("sphere")
	return &Solid{Expr: fmt.Sprintf("sphere(%g)", r), dim: 3,
		box: box3(v3.Vec{X: -r, Y: -r, Z: -r}, v3.Vec{X: r, Y: r, Z: r})}, nil
}

func (k *Kernel) Torus(major, minor, angle float64) (kernel.Solid, error) {
	k.count("torus")
	r := major + minor
	return &Solid{Expr: fmt.Sprintf("torus(%g,%g,%g)", major, minor, angle), dim: 3,
		box: box3(v3.Vec{X: -r, Y: -r, Z: -minor}, v3.Vec{X: r, Y: r, Z: minor})}, nil
}

func (k *Kernel) Polyhedron(points []v3.Vec, faces [][]int) (kernel.Solid, error) {
	k.count("polyhedron")
	b := kernel.EmptyBox()
	for _, p := range points {
		b = b.Extend(p)
	}
	return &Solid{Expr: fmt.Sprintf("polyhedron(%d,%d)", len(points), len(faces)), dim: 3, box: b}, nil
}

func ringsBox(rings [][]v2.Vec) kernel.Box {
	b := kernel.EmptyBox()
	for _, r := range rings {
		for _, p := range r {
			b = b.Extend(v3.Vec{X: p.X, Y: p.Y})
		}
	}
	return b
}

func (k *Kernel) Polygon(paths [][]v2.Vec) (kernel.Solid, error) {
	k.count("polygon")
	return &Solid{Expr: fmt.Sprintf("polygon(%d)", len(paths)), dim: 2, box: ringsBox(paths), rings: paths}, nil
}

func (k *Kernel) Circle(r float64) (kernel.Solid, error) {
	k.count("circle")
	return &Solid{Expr: fmt.Sprintf("circle(%g)", r), dim: 2,
		box: box3(v3.Vec{X: -r, Y: -r}, v3.Vec{X: r, Y: r})}, nil
}

func (k *Kernel) Face(wires []kernel.Wire) (kernel.Solid, error) {
	k.count("face")
	rings := make([][]v2.Vec, len(wires))
	for i, w := range wires {
		rings[i] = w.Points(0.01)
	}
	return &Solid{Expr: fmt.Sprintf("face(%d)", len(wires)), dim: 2, box: ringsBox(rings), rings: rings}, nil
}

func (k *Kernel) Contains(face kernel.Solid, p v2.Vec) (bool, error) {
	k.count("contains")
	return kernel.InsidePolygons(face.(*Solid).rings, p), nil
}

func (k *Kernel) Compound(parts []kernel.Solid) (kernel.Solid, error) {
	k.count("compound")
	return k.combine("compound", parts)
}

func (k *Kernel) combine(op string, parts []kernel.Solid) (kernel.Solid, error) {
	if len(parts) == 0 {
		return nil, kernel.Errorf(k.Name(), op, "no parts")
	}
	exprs := make([]string, len(parts))
	b := kernel.EmptyBox()
	var rings [][]v2.Vec
	for i, p := range parts {
		s := p.(*Solid)
		exprs[i] = s.Expr
		b = b.Union(s.box)
		rings = append(rings, s.rings...)
	}
	return &Solid{Expr: op + "(" + strings.Join(exprs, ",") + ")", dim: parts[0].Dim(), box: b, rings: rings}, nil
}

func (k *Kernel) binary(op string, a, b kernel.Solid) (*Solid, *Solid, error) {
	k.count(op)
	if a.Dim() != b.Dim() {
		return nil, nil, kernel.Wrap(k.Name(), op, kernel.ErrDimension)
	}
	return a.(*Solid), b.(*Solid), nil
}

func (k *Kernel) Union(a, b kernel.Solid) (kernel.Solid, error) {
	sa, sb, err := k.binary("union", a, b)
	if err != nil {
		return nil, err
	}
	return &Solid{Expr: "union(" + sa.Expr + "," + sb.Expr + ")", dim: sa.dim,
		box: sa.box.Union(sb.box), rings: append(append([][]v2.Vec{}, sa.rings...), sb.rings...)}, nil
}

func (k *Kernel) Difference(a, b kernel.Solid) (kernel.Solid, error) {
	sa, sb, err := k.binary("difference", a, b)
	if err != nil {
		return nil, err
	}
	return &Solid{Expr: "difference(" + sa.Expr + "," + sb.Expr + ")", dim: sa.dim, box: sa.box}, nil
}

func (k *Kernel) Intersection(a, b kernel.Solid) (kernel.Solid, error) {
	sa, sb, err := k.binary("intersection", a, b)
	if err != nil {
		return nil, err
	}
	bb := kernel.Box{
		Min: v3.Vec{X: math.Max(sa.box.Min.X, sb.box.Min.X), Y: math.Max(sa.box.Min.Y, sb.box.Min.Y), Z: math.Max(sa.box.Min.Z, sb.box.Min.Z)},
		Max: v3.Vec{X: math.Min(sa.box.Max.X, sb.box.Max.X), Y: math.Min(sa.box.Max.Y, sb.box.Max.Y), Z: math.Min(sa.box.Max.Z, sb.box.Max.Z)},
	}
	return &Solid{Expr: "intersection(" + sa.Expr + "," + sb.Expr + ")", dim: sa.dim, box: bb}, nil
}

func (k *Kernel) Transform(s kernel.Solid, t xform.Transform) (kernel.Solid, error) {
	k.count("transform")
	ss := s.(*Solid)
	out := &Solid{Expr: fmt.Sprintf("transform(%s,%v)", ss.Expr, t), dim: ss.dim, box: ss.box.Transform(t)}
	for _, r := range ss.rings {
		nr := make([]v2.Vec, len(r))
		for i, p := range r {
			q := t.Apply(v3.Vec{X: p.X, Y: p.Y})
			nr[i] = v2.Vec{X: q.X, Y: q.Y}
		}
		out.rings = append(out.rings, nr)
	}
	return out, nil
}

func (k *Kernel) Hull(parts []kernel.Solid) (kernel.Solid, error) {
	k.count("hull")
	s, err := k.combine("hull", parts)
	if err != nil {
		return nil, err
	}
	h := s.(*Solid)
	for _, p := range parts {
		if p.Dim() == 3 {
			h.dim = 3
		}
	}
	return h, nil
}

func (k *Kernel) Extrude(profile kernel.Solid, height, twist float64) (kernel.Solid, error) {
	k.count("extrude")
	p := profile.(*Solid)
	if p.dim != 2 {
		return nil, kernel.Wrap(k.Name(), "extrude", kernel.ErrDimension)
	}
	b := p.box
	if twist != 0 {
		r := math.Max(math.Max(math.Abs(b.Min.X), math.Abs(b.Max.X)), math.Max(math.Abs(b.Min.Y), math.Abs(b.Max.Y)))
		b = kernel.Box{Min: v3.Vec{X: -r, Y: -r}, Max: v3.Vec{X: r, Y: r}}
	}
	b.Max.Z = height
	return &Solid{Expr: fmt.Sprintf("extrude(%s,%g,%g)", p.Expr, height, twist), dim: 3, box: b}, nil
}

func (k *Kernel) Revolve(profile kernel.Solid, angle float64) (kernel.Solid, error) {
	k.count("revolve")
	p := profile.(*Solid)
	if p.dim != 2 {
		return nil, kernel.Wrap(k.Name(), "revolve", kernel.ErrDimension)
	}
	r := math.Max(math.Abs(p.box.Min.X), math.Abs(p.box.Max.X))
	b := kernel.Box{Min: v3.Vec{X: -r, Y: p.box.Min.Y, Z: -r}, Max: v3.Vec{X: r, Y: p.box.Max.Y, Z: r}}
	return &Solid{Expr: fmt.Sprintf("revolve(%s,%g)", p.Expr, angle), dim: 3, box: b}, nil
}

// ToMesh returns a mesh of the bounding box's 12 triangles.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	k.count("mesh")
	b := s.BoundingBox()
	m := &kernel.Mesh{}
	c := b.Corners()
	quads := [6][4]int{{0, 2, 3, 1}, {4, 5, 7, 6}, {0, 1, 5, 4}, {2, 6, 7, 3}, {0, 4, 6, 2}, {1, 3, 7, 5}}
	for _, q := range quads {
		for _, tri := range [2][3]int{{q[0], q[1], q[2]}, {q[0], q[2], q[3]}} {
			for _, i := range tri {
				m.Indices = append(m.Indices, uint32(m.VertexCount()))
				m.Vertices = append(m.Vertices, float32(c[i].X), float32(c[i].Y), float32(c[i].Z))
				m.Normals = append(m.Normals, 0, 0, 0)
			}
		}
	}
	return m, nil
}
