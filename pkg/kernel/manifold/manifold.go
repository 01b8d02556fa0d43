//go:build manifold

// Package manifold provides a CGo-based geometry kernel binding to the
// Manifold library (https://github.com/elalish/manifold). Manifold provides
// guaranteed-manifold mesh booleans; this binding covers the 3-D subset of
// kernel.Kernel.
//
// This package requires the Manifold C library (manifoldc) to be installed.
// Build with: go build -tags=manifold
//
// See the Makefile in this directory for instructions on building manifoldc
// from source.
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"math"
	"runtime"
	"unsafe"

	"github.com/chazu/rcad/pkg/kernel"
	"github.com/chazu/rcad/pkg/xform"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const name = "manifold"

// Compile-time interface checks.
var _ kernel.Kernel = (*ManifoldKernel)(nil)
var _ kernel.Solid = (*manifoldSolid)(nil)

// manifoldSolid wraps a C ManifoldManifold pointer and implements kernel.Solid.
type manifoldSolid struct {
	ptr *C.ManifoldManifold
}

// BoundingBox returns the axis-aligned bounding box of the solid.
func (s *manifoldSolid) BoundingBox() kernel.Box {
	alloc := C.manifold_alloc_box()
	bbox := C.manifold_bounding_box(alloc, s.ptr)
	defer C.manifold_delete_box(bbox)

	return kernel.Box{
		Min: v3.Vec{
			X: float64(C.manifold_box_min_x(bbox)),
			Y: float64(C.manifold_box_min_y(bbox)),
			Z: float64(C.manifold_box_min_z(bbox)),
		},
		Max: v3.Vec{
			X: float64(C.manifold_box_max_x(bbox)),
			Y: float64(C.manifold_box_max_y(bbox)),
			Z: float64(C.manifold_box_max_z(bbox)),
		},
	}
}

// Dim is always 3; 2-D profiles are not supported by this binding.
func (s *manifoldSolid) Dim() int { return 3 }

// newSolid wraps a C ManifoldManifold pointer with Go-side finalizer
// for automatic memory management.
func newSolid(ptr *C.ManifoldManifold) *manifoldSolid {
	s := &manifoldSolid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *manifoldSolid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

// ManifoldKernel implements the 3-D subset of kernel.Kernel using the
// Manifold C library. Profiles, sweeps, tori and polyhedra return
// kernel.ErrUnsupported.
type ManifoldKernel struct {
	segments int
}

// New creates a new ManifoldKernel.
func New(opts ...Option) (kernel.Kernel, error) {
	s := defaults()
	for _, o := range opts {
		o(&s)
	}
	return &ManifoldKernel{segments: s.segments}, nil
}

// Name returns "manifold".
func (k *ManifoldKernel) Name() string { return name }

func unwrap(s kernel.Solid) (*manifoldSolid, error) {
	ms, ok := s.(*manifoldSolid)
	if !ok {
		return nil, kernel.Errorf(name, "unwrap", "%w: foreign solid %T", kernel.ErrDimension, s)
	}
	return ms, nil
}

// Box creates an axis-aligned box with its minimum corner at the origin.
func (k *ManifoldKernel) Box(x, y, z float64) (kernel.Solid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, kernel.Errorf(name, "box", "non-positive size %g x %g x %g", x, y, z)
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_cube(alloc,
		C.double(x), C.double(y), C.double(z),
		C.int(0), // center=false
	)
	return newSolid(ptr), nil
}

// Cone creates a (truncated) cone along +Z starting at z=0.
func (k *ManifoldKernel) Cone(height, r0, r1 float64) (kernel.Solid, error) {
	if height <= 0 || r0 < 0 || r1 < 0 || (r0 == 0 && r1 == 0) {
		return nil, kernel.Errorf(name, "cone", "invalid height %g radii %g, %g", height, r0, r1)
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_cylinder(alloc,
		C.double(height),
		C.double(r0), // radius_low
		C.double(r1), // radius_high
		C.int(k.segments),
		C.int(0), // center=false
	)
	return newSolid(ptr), nil
}

// Sphere creates a sphere centered on the origin.
func (k *ManifoldKernel) Sphere(r float64) (kernel.Solid, error) {
	if r <= 0 {
		return nil, kernel.Errorf(name, "sphere", "non-positive radius %g", r)
	}
	alloc := C.manifold_alloc_manifold()
	return newSolid(C.manifold_sphere(alloc, C.double(r), C.int(k.segments))), nil
}

func (k *ManifoldKernel) Torus(major, minor, angle float64) (kernel.Solid, error) {
	return nil, kernel.Unsupported(name, "torus")
}

func (k *ManifoldKernel) Polyhedron(points []v3.Vec, faces [][]int) (kernel.Solid, error) {
	return nil, kernel.Unsupported(name, "polyhedron")
}

func (k *ManifoldKernel) Polygon(paths [][]v2.Vec) (kernel.Solid, error) {
	return nil, kernel.Unsupported(name, "polygon")
}

func (k *ManifoldKernel) Circle(r float64) (kernel.Solid, error) {
	return nil, kernel.Unsupported(name, "circle")
}

func (k *ManifoldKernel) Face(wires []kernel.Wire) (kernel.Solid, error) {
	return nil, kernel.Unsupported(name, "face")
}

func (k *ManifoldKernel) Contains(face kernel.Solid, p v2.Vec) (bool, error) {
	return false, kernel.Unsupported(name, "contains")
}

func (k *ManifoldKernel) Extrude(profile kernel.Solid, height, twist float64) (kernel.Solid, error) {
	return nil, kernel.Unsupported(name, "extrude")
}

func (k *ManifoldKernel) Revolve(profile kernel.Solid, angle float64) (kernel.Solid, error) {
	return nil, kernel.Unsupported(name, "revolve")
}

type boolOp func(alloc *C.ManifoldManifold, a, b *C.ManifoldManifold) *C.ManifoldManifold

func (k *ManifoldKernel) boolean(op string, f boolOp, a, b kernel.Solid) (kernel.Solid, error) {
	sa, err := unwrap(a)
	if err != nil {
		return nil, err
	}
	sb, err := unwrap(b)
	if err != nil {
		return nil, err
	}
	return newSolid(f(C.manifold_alloc_manifold(), sa.ptr, sb.ptr)), nil
}

// Union returns the boolean union of two solids.
func (k *ManifoldKernel) Union(a, b kernel.Solid) (kernel.Solid, error) {
	return k.boolean("union", func(m, x, y *C.ManifoldManifold) *C.ManifoldManifold {
		return C.manifold_union(m, x, y)
	}, a, b)
}

// Difference returns the boolean difference (a minus b).
func (k *ManifoldKernel) Difference(a, b kernel.Solid) (kernel.Solid, error) {
	return k.boolean("difference", func(m, x, y *C.ManifoldManifold) *C.ManifoldManifold {
		return C.manifold_difference(m, x, y)
	}, a, b)
}

// Intersection returns the boolean intersection of two solids.
func (k *ManifoldKernel) Intersection(a, b kernel.Solid) (kernel.Solid, error) {
	return k.boolean("intersection", func(m, x, y *C.ManifoldManifold) *C.ManifoldManifold {
		return C.manifold_intersection(m, x, y)
	}, a, b)
}

// Compound unions the parts.
func (k *ManifoldKernel) Compound(parts []kernel.Solid) (kernel.Solid, error) {
	if len(parts) == 0 {
		return nil, kernel.Errorf(name, "compound", "no parts")
	}
	acc := parts[0]
	for _, p := range parts[1:] {
		var err error
		if acc, err = k.Union(acc, p); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// Transform applies an affine transform. Manifold takes the 4x3 matrix
// column by column.
func (k *ManifoldKernel) Transform(s kernel.Solid, t xform.Transform) (kernel.Solid, error) {
	ms, err := unwrap(s)
	if err != nil {
		return nil, err
	}
	l, o := t.Linear(), t.Translation()
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_transform(alloc, ms.ptr,
		C.double(l[0]), C.double(l[3]), C.double(l[6]),
		C.double(l[1]), C.double(l[4]), C.double(l[7]),
		C.double(l[2]), C.double(l[5]), C.double(l[8]),
		C.double(o.X), C.double(o.Y), C.double(o.Z),
	)
	return newSolid(ptr), nil
}

// Hull returns the convex hull of the union of parts.
func (k *ManifoldKernel) Hull(parts []kernel.Solid) (kernel.Solid, error) {
	u, err := k.Compound(parts)
	if err != nil {
		return nil, kernel.Wrap(name, "hull", err)
	}
	ms, err := unwrap(u)
	if err != nil {
		return nil, err
	}
	return newSolid(C.manifold_hull(C.manifold_alloc_manifold(), ms.ptr)), nil
}

// ToMesh extracts a triangle mesh from the solid using Manifold's MeshGL
// format. Vertex positions and normals are interleaved in MeshGL; this
// method separates them into the kernel.Mesh flat-array layout.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	ms, err := unwrap(s)
	if err != nil {
		return nil, err
	}

	// Get MeshGL from the manifold.
	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_get_meshgl(meshAlloc, ms.ptr)
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))

	if numVert == 0 || numTri == 0 {
		return nil, kernel.Errorf(name, "mesh", "solid produced no triangles")
	}

	// MeshGL stores vertex properties in a flat float array.
	// The default layout has numProp properties per vertex.
	// The first 3 are always position (x, y, z).
	// If normals are present, they follow at indices 3, 4, 5.
	numProp := int(C.manifold_meshgl_num_prop(meshGL))

	// Extract the vertex property data.
	propLen := numVert * numProp
	propData := make([]float32, propLen)
	C.manifold_meshgl_vert_properties(
		(*C.float)(unsafe.Pointer(&propData[0])),
		meshGL,
	)

	// Extract triangle indices.
	triLen := numTri * 3
	indices := make([]uint32, triLen)
	C.manifold_meshgl_tri_verts(
		(*C.uint32_t)(unsafe.Pointer(&indices[0])),
		meshGL,
	)

	// Separate positions and normals from the interleaved property array.
	vertices := make([]float32, numVert*3)
	var normals []float32
	hasNormals := numProp >= 6
	if hasNormals {
		normals = make([]float32, numVert*3)
	}

	for i := 0; i < numVert; i++ {
		base := i * numProp
		// Positions are always at indices 0, 1, 2.
		vertices[i*3+0] = propData[base+0]
		vertices[i*3+1] = propData[base+1]
		vertices[i*3+2] = propData[base+2]
		// Normals at indices 3, 4, 5 if present.
		if hasNormals {
			normals[i*3+0] = propData[base+3]
			normals[i*3+1] = propData[base+4]
			normals[i*3+2] = propData[base+5]
		}
	}

	if !hasNormals {
		// Compute flat normals from triangle faces as a fallback.
		normals = computeFlatNormals(vertices, indices)
	}

	mesh := &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}

	if mesh.VertexCount() != numVert {
		return nil, kernel.Errorf(name, "mesh", "vertex count mismatch: got %d, expected %d",
			mesh.VertexCount(), numVert)
	}

	return mesh, nil
}

// computeFlatNormals averages incident face normals per vertex, for meshes
// whose MeshGL carries positions only.
func computeFlatNormals(vertices []float32, indices []uint32) []float32 {
	numVerts := len(vertices) / 3
	normals := make([]float32, numVerts*3)

	numTris := len(indices) / 3
	for t := 0; t < numTris; t++ {
		i0 := indices[t*3+0]
		i1 := indices[t*3+1]
		i2 := indices[t*3+2]

		// Triangle vertex positions.
		ax, ay, az := float64(vertices[i0*3]), float64(vertices[i0*3+1]), float64(vertices[i0*3+2])
		bx, by, bz := float64(vertices[i1*3]), float64(vertices[i1*3+1]), float64(vertices[i1*3+2])
		cx, cy, cz := float64(vertices[i2*3]), float64(vertices[i2*3+1]), float64(vertices[i2*3+2])

		// Edge vectors.
		e1x, e1y, e1z := bx-ax, by-ay, bz-az
		e2x, e2y, e2z := cx-ax, cy-ay, cz-az

		// Cross product (unnormalized face normal).
		nx := float32(e1y*e2z - e1z*e2y)
		ny := float32(e1z*e2x - e1x*e2z)
		nz := float32(e1x*e2y - e1y*e2x)

		// Accumulate into each vertex of this triangle.
		for _, idx := range []uint32{i0, i1, i2} {
			normals[idx*3+0] += nx
			normals[idx*3+1] += ny
			normals[idx*3+2] += nz
		}
	}

	// Normalize.
	for i := 0; i < numVerts; i++ {
		nx := float64(normals[i*3+0])
		ny := float64(normals[i*3+1])
		nz := float64(normals[i*3+2])
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if length > 1e-12 {
			normals[i*3+0] = float32(nx / length)
			normals[i*3+1] = float32(ny / length)
			normals[i*3+2] = float32(nz / length)
		}
	}

	return normals
}
