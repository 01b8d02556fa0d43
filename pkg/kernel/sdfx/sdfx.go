// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/chazu/rcad/pkg/kernel"
	"github.com/chazu/rcad/pkg/log"
	"github.com/chazu/rcad/pkg/xform"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

const (
	name = "sdfx"

	// defaultMeshCells controls marching cubes tessellation resolution.
	defaultMeshCells = 200
	// hullCells is the resolution used to sample solids whose hull points
	// are not known exactly.
	hullCells = 64
	// circleSegments approximates round primitives when they feed a hull.
	circleSegments = 64
)

// sdfxSolid wraps an sdf.SDF3 or sdf.SDF2. pts, when set, are points whose
// convex hull equals the solid's convex hull.
type sdfxSolid struct {
	s3  sdf.SDF3
	s2  sdf.SDF2
	pts []v3.Vec
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() kernel.Box {
	if s.s2 != nil {
		return fromSdfBox2(s.s2.BoundingBox())
	}
	return fromSdfBox3(s.s3.BoundingBox())
}

// Dim returns 2 for planar profiles and 3 for volumes.
func (s *sdfxSolid) Dim() int {
	if s.s2 != nil {
		return 2
	}
	return 3
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
	tol   float64
	log   *slog.Logger
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithMeshCells sets the marching cubes resolution along the longest axis.
func WithMeshCells(n int) Option {
	return func(k *SdfxKernel) {
		if n > 0 {
			k.cells = n
		}
	}
}

// WithTolerance sets the chord tolerance used to flatten curved wires.
func WithTolerance(tol float64) Option {
	return func(k *SdfxKernel) {
		if tol > 0 {
			k.tol = tol
		}
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{cells: defaultMeshCells, tol: 0.05}
	for _, o := range opts {
		o(k)
	}
	k.log = log.WithComponent("kernel.sdfx")
	return k
}

// Name returns "sdfx".
func (k *SdfxKernel) Name() string { return name }

func unwrap(s kernel.Solid) *sdfxSolid {
	return s.(*sdfxSolid)
}

func wrap3(s sdf.SDF3, pts []v3.Vec) kernel.Solid {
	return &sdfxSolid{s3: s, pts: pts}
}

func wrap2(s sdf.SDF2, pts []v3.Vec) kernel.Solid {
	return &sdfxSolid{s2: s, pts: pts}
}

func fail(op string, err error) error {
	return kernel.Wrap(name, op, err)
}

func need3(op string, ss ...kernel.Solid) error {
	for _, s := range ss {
		if s.Dim() != 3 {
			return kernel.Errorf(name, op, "%w: want a 3-D solid", kernel.ErrDimension)
		}
	}
	return nil
}

func need2(op string, s kernel.Solid) error {
	if s.Dim() != 2 {
		return kernel.Errorf(name, op, "%w: want a 2-D profile", kernel.ErrDimension)
	}
	return nil
}

func translateZ(s sdf.SDF3, dz float64) sdf.SDF3 {
	return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: dz}))
}

// Box creates a box with the given dimensions. The resulting solid has its
// minimum corner at the origin. sdf.Box3D centers the box at the origin, so
// we translate by half-dimensions.
func (k *SdfxKernel) Box(x, y, z float64) (kernel.Solid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, kernel.Errorf(name, "box", "non-positive size %g x %g x %g", x, y, z)
	}
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fail("box", err)
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	b := kernel.Box{Max: v3.Vec{X: x, Y: y, Z: z}}
	c := b.Corners()
	return wrap3(sdf.Transform3D(s, m), c[:]), nil
}

// Cone creates a truncated cone standing on z=0 with base radius r0 and top
// radius r1. Equal radii give a cylinder.
func (k *SdfxKernel) Cone(height, r0, r1 float64) (kernel.Solid, error) {
	var (
		s   sdf.SDF3
		err error
	)
	if r0 == r1 {
		s, err = sdf.Cylinder3D(height, r0, 0)
	} else {
		s, err = sdf.Cone3D(height, r0, r1, 0)
	}
	if err != nil {
		return nil, fail("cone", err)
	}
	pts := append(ring3(r0, 0), ring3(r1, height)...)
	return wrap3(translateZ(s, height/2), pts), nil
}

func ring3(r, z float64) []v3.Vec {
	if r == 0 {
		return []v3.Vec{{Z: z}}
	}
	pts := make([]v3.Vec, circleSegments)
	for i := range pts {
		s, c := math.Sincos(2 * math.Pi * float64(i) / circleSegments)
		pts[i] = v3.Vec{X: r * c, Y: r * s, Z: z}
	}
	return pts
}

// Sphere creates a sphere centered on the origin.
func (k *SdfxKernel) Sphere(r float64) (kernel.Solid, error) {
	s, err := sdf.Sphere3D(r)
	if err != nil {
		return nil, fail("sphere", err)
	}
	return wrap3(s, nil), nil
}

// Torus creates a torus in the XY plane, swept through angle radians
// (a full turn when angle is zero or at least 2*pi).
func (k *SdfxKernel) Torus(major, minor, angle float64) (kernel.Solid, error) {
	if minor <= 0 || major < minor {
		return nil, kernel.Errorf(name, "torus", "need 0 < minor <= major, got major %g minor %g", major, minor)
	}
	c, err := sdf.Circle2D(minor)
	if err != nil {
		return nil, fail("torus", err)
	}
	profile := sdf.Transform2D(c, sdf.Translate2d(v2.Vec{X: major}))
	s, err := revolveZ(profile, angle)
	if err != nil {
		return nil, fail("torus", err)
	}
	return wrap3(s, nil), nil
}

func fullTurn(angle float64) bool {
	return angle <= 0 || angle >= 2*math.Pi-1e-9
}

// revolveZ sweeps an XY profile about the Z axis, mapping profile Y to Z.
func revolveZ(profile sdf.SDF2, angle float64) (sdf.SDF3, error) {
	if fullTurn(angle) {
		return sdf.Revolve3D(profile)
	}
	return sdf.RevolveTheta3D(profile, angle)
}

// Polyhedron builds the solid bounded by faces. Realized as the convex hull
// of the points, so non-convex polyhedra are filled in.
func (k *SdfxKernel) Polyhedron(points []v3.Vec, faces [][]int) (kernel.Solid, error) {
	if len(faces) < 4 {
		return nil, kernel.Errorf(name, "polyhedron", "need at least 4 faces, got %d", len(faces))
	}
	for _, f := range faces {
		if len(f) < 3 {
			return nil, kernel.Errorf(name, "polyhedron", "face %v has fewer than 3 points", f)
		}
		for _, i := range f {
			if i < 0 || i >= len(points) {
				return nil, kernel.Errorf(name, "polyhedron", "face index %d out of range", i)
			}
		}
	}
	h, err := convexHull3(points)
	if err != nil {
		return nil, fail("polyhedron", err)
	}
	return wrap3(h, points), nil
}

// Polygon creates a planar region. The first path is the outline; later
// paths are holes (even-odd rule).
func (k *SdfxKernel) Polygon(paths [][]v2.Vec) (kernel.Solid, error) {
	if len(paths) == 0 {
		return nil, kernel.Errorf(name, "polygon", "no paths")
	}
	for i, p := range paths {
		if len(p) < 3 {
			return nil, kernel.Errorf(name, "polygon", "path %d has %d points, need at least 3", i, len(p))
		}
	}
	return wrap2(newPolygonSDF2(paths), flat(paths[0])), nil
}

func flat(pts []v2.Vec) []v3.Vec {
	out := make([]v3.Vec, len(pts))
	for i, p := range pts {
		out[i] = v3.Vec{X: p.X, Y: p.Y}
	}
	return out
}

// Circle creates a disc centered on the origin.
func (k *SdfxKernel) Circle(r float64) (kernel.Solid, error) {
	s, err := sdf.Circle2D(r)
	if err != nil {
		return nil, fail("circle", err)
	}
	return wrap2(s, ring3(r, 0)), nil
}

// Face builds a planar face from closed wires. Nested wires alternate
// between boundary and hole.
func (k *SdfxKernel) Face(wires []kernel.Wire) (kernel.Solid, error) {
	if len(wires) == 0 {
		return nil, kernel.Errorf(name, "face", "no wires")
	}
	rings := make([][]v2.Vec, len(wires))
	for i, w := range wires {
		rings[i] = w.Points(k.tol)
		if len(rings[i]) < 3 {
			return nil, kernel.Errorf(name, "face", "wire %d is degenerate", i)
		}
	}
	return wrap2(newPolygonSDF2(rings), flat(rings[0])), nil
}

// Contains reports whether p lies strictly inside a 2-D solid.
func (k *SdfxKernel) Contains(face kernel.Solid, p v2.Vec) (bool, error) {
	if err := need2("contains", face); err != nil {
		return false, err
	}
	return unwrap(face).s2.Evaluate(p) < 0, nil
}

// Compound joins disjoint parts into one solid.
func (k *SdfxKernel) Compound(parts []kernel.Solid) (kernel.Solid, error) {
	if len(parts) == 0 {
		return nil, kernel.Errorf(name, "compound", "no parts")
	}
	if parts[0].Dim() == 2 {
		s2 := make([]sdf.SDF2, len(parts))
		for i, p := range parts {
			if err := need2("compound", p); err != nil {
				return nil, err
			}
			s2[i] = unwrap(p).s2
		}
		return wrap2(sdf.Union2D(s2...), joinPts(parts)), nil
	}
	s3 := make([]sdf.SDF3, len(parts))
	for i, p := range parts {
		if err := need3("compound", p); err != nil {
			return nil, err
		}
		s3[i] = unwrap(p).s3
	}
	return wrap3(sdf.Union3D(s3...), joinPts(parts)), nil
}

// joinPts concatenates exact hull points, or returns nil if any part lacks them.
func joinPts(parts []kernel.Solid) []v3.Vec {
	var out []v3.Vec
	for _, p := range parts {
		pp := unwrap(p).pts
		if pp == nil {
			return nil
		}
		out = append(out, pp...)
	}
	return out
}

func (k *SdfxKernel) boolean(op string, a, b kernel.Solid) (kernel.Solid, error) {
	if a.Dim() != b.Dim() {
		return nil, kernel.Errorf(name, op, "%w: %d-D and %d-D operands", kernel.ErrDimension, a.Dim(), b.Dim())
	}
	sa, sb := unwrap(a), unwrap(b)
	if a.Dim() == 2 {
		switch op {
		case "union":
			return wrap2(sdf.Union2D(sa.s2, sb.s2), joinPts([]kernel.Solid{a, b})), nil
		case "difference":
			return wrap2(sdf.Difference2D(sa.s2, sb.s2), nil), nil
		default:
			return wrap2(sdf.Intersect2D(sa.s2, sb.s2), nil), nil
		}
	}
	switch op {
	case "union":
		return wrap3(sdf.Union3D(sa.s3, sb.s3), joinPts([]kernel.Solid{a, b})), nil
	case "difference":
		return wrap3(sdf.Difference3D(sa.s3, sb.s3), nil), nil
	default:
		return wrap3(sdf.Intersect3D(sa.s3, sb.s3), nil), nil
	}
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) (kernel.Solid, error) {
	return k.boolean("union", a, b)
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) (kernel.Solid, error) {
	return k.boolean("difference", a, b)
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) (kernel.Solid, error) {
	return k.boolean("intersection", a, b)
}

// Transform applies an affine transform. 2-D profiles only accept
// transforms that keep them in the XY plane.
func (k *SdfxKernel) Transform(s kernel.Solid, t xform.Transform) (kernel.Solid, error) {
	ss := unwrap(s)
	var pts []v3.Vec
	if ss.pts != nil {
		pts = make([]v3.Vec, len(ss.pts))
		for i, p := range ss.pts {
			pts[i] = t.Apply(p)
		}
	}
	if ss.s2 != nil {
		if !planar(t) {
			return nil, kernel.Errorf(name, "transform", "%w: transform %v lifts a 2-D profile out of the XY plane",
				kernel.ErrUnsupported, t)
		}
		out, err := newTransformSDF2(ss.s2, t)
		if err != nil {
			return nil, fail("transform", err)
		}
		return wrap2(out, pts), nil
	}
	out, err := newTransformSDF3(ss.s3, t)
	if err != nil {
		return nil, fail("transform", err)
	}
	return wrap3(out, pts), nil
}

// Hull returns the convex hull of parts. A hull of 2-D profiles is a 2-D
// profile; any 3-D part makes the hull 3-D.
func (k *SdfxKernel) Hull(parts []kernel.Solid) (kernel.Solid, error) {
	if len(parts) == 0 {
		return nil, kernel.Errorf(name, "hull", "no parts")
	}
	var pts []v3.Vec
	all2 := true
	for _, p := range parts {
		pts = append(pts, k.hullPoints(p)...)
		if p.Dim() != 2 {
			all2 = false
		}
	}
	if all2 {
		ring := make([]v2.Vec, len(pts))
		for i, p := range pts {
			ring[i] = v2.Vec{X: p.X, Y: p.Y}
		}
		ring = convexHull2(ring)
		if len(ring) < 3 {
			return nil, kernel.Errorf(name, "hull", "degenerate 2-D hull")
		}
		return wrap2(newPolygonSDF2([][]v2.Vec{ring}), flat(ring)), nil
	}
	h, err := convexHull3(pts)
	if err != nil {
		return nil, fail("hull", err)
	}
	return wrap3(h, pts), nil
}

// hullPoints returns exact support points when known, otherwise the vertices
// of a coarse mesh of the solid.
func (k *SdfxKernel) hullPoints(s kernel.Solid) []v3.Vec {
	ss := unwrap(s)
	if ss.pts != nil {
		return ss.pts
	}
	s3 := ss.s3
	if ss.s2 != nil {
		size := ss.s2.BoundingBox().Size()
		s3 = sdf.Extrude3D(ss.s2, math.Max(size.X, size.Y)/8)
	}
	tris := render.ToTriangles(s3, render.NewMarchingCubesUniform(hullCells))
	k.log.Debug("sampled hull points", "triangles", len(tris))
	pts := make([]v3.Vec, 0, len(tris)*3)
	for _, t := range tris {
		for j := 0; j < 3; j++ {
			p := t[j]
			if ss.s2 != nil {
				p.Z = 0
			}
			pts = append(pts, p)
		}
	}
	return dedupe(pts, 1e-9)
}

// Extrude sweeps a profile from z=0 to z=height, twisting it by twist
// radians about Z along the way.
func (k *SdfxKernel) Extrude(profile kernel.Solid, height, twist float64) (kernel.Solid, error) {
	if err := need2("extrude", profile); err != nil {
		return nil, err
	}
	if height <= 0 {
		return nil, kernel.Errorf(name, "extrude", "non-positive height %g", height)
	}
	p := unwrap(profile)
	var s sdf.SDF3
	var pts []v3.Vec
	if twist == 0 {
		s = sdf.Extrude3D(p.s2, height)
		for _, q := range p.pts {
			pts = append(pts, q, v3.Vec{X: q.X, Y: q.Y, Z: height})
		}
	} else {
		s = sdf.TwistExtrude3D(p.s2, height, twist)
	}
	return wrap3(translateZ(s, height/2), pts), nil
}

// Revolve sweeps a profile drawn in the XY plane about the Y axis through
// angle radians (a full turn when angle is zero or at least 2*pi).
func (k *SdfxKernel) Revolve(profile kernel.Solid, angle float64) (kernel.Solid, error) {
	if err := need2("revolve", profile); err != nil {
		return nil, err
	}
	s, err := revolveZ(unwrap(profile).s2, angle)
	if err != nil {
		return nil, fail("revolve", err)
	}
	// sdfx revolves about Z with profile Y on Z; turn Z onto Y.
	out, err := newTransformSDF3(s, xform.RotX(-math.Pi/2))
	if err != nil {
		return nil, fail("revolve", err)
	}
	return wrap3(out, nil), nil
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	if err := need3("mesh", s); err != nil {
		return nil, err
	}
	sdf3 := unwrap(s).s3

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(sdf3, renderer)
	if len(triangles) == 0 {
		return nil, kernel.Errorf(name, "mesh", "solid produced no triangles")
	}

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}
	k.log.Debug("meshed solid", "cells", k.cells, "triangles", len(triangles))

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

func (k *SdfxKernel) String() string {
	return fmt.Sprintf("sdfx(cells=%d, tol=%g)", k.cells, k.tol)
}
