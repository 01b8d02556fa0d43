//go:build manifold

package manifold

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/rcad/pkg/kernel"
	"github.com/chazu/rcad/pkg/xform"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func mustNew(t *testing.T) kernel.Kernel {
	t.Helper()
	k, err := New(WithSegments(32))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return k
}

// must returns a checker that fails t when a kernel call errors, so calls
// read must(t)(k.Box(1, 2, 3)).
func must(t *testing.T) func(kernel.Solid, error) kernel.Solid {
	return func(s kernel.Solid, err error) kernel.Solid {
		t.Helper()
		if err != nil {
			t.Fatalf("kernel call failed: %v", err)
		}
		return s
	}
}

func near(a, b v3.Vec) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6 && math.Abs(a.Z-b.Z) < 1e-6
}

func TestBox(t *testing.T) {
	k := mustNew(t)
	b := must(t)(k.Box(10, 20, 30)).BoundingBox()
	if !near(b.Min, v3.Vec{}) || !near(b.Max, v3.Vec{X: 10, Y: 20, Z: 30}) {
		t.Errorf("Box bounds = %v, want [0,0,0]-[10,20,30]", b)
	}
}

func TestCone(t *testing.T) {
	k := mustNew(t)
	b := must(t)(k.Cone(20, 5, 5)).BoundingBox()
	if math.Abs(b.Min.Z) > 0.01 || math.Abs(b.Max.Z-20) > 0.01 {
		t.Errorf("Cone z range = [%f, %f], want [0, 20]", b.Min.Z, b.Max.Z)
	}
	if b.Max.X < 4.5 || b.Min.X > -4.5 {
		t.Errorf("Cone x range = [%f, %f], want about [-5, 5]", b.Min.X, b.Max.X)
	}
}

func TestDifference(t *testing.T) {
	k := mustNew(t)
	box := must(t)(k.Box(10, 10, 10))
	hole := must(t)(k.Transform(must(t)(k.Cone(20, 3, 3)), xform.Translate(5, 5, -5)))
	b := must(t)(k.Difference(box, hole)).BoundingBox()
	if !near(b.Min, v3.Vec{}) || !near(b.Max, v3.Vec{X: 10, Y: 10, Z: 10}) {
		t.Errorf("Difference bounds = %v, want the box", b)
	}
}

func TestTransform(t *testing.T) {
	k := mustNew(t)
	moved := must(t)(k.Transform(must(t)(k.Box(10, 10, 10)), xform.Translate(100, 200, 300)))
	b := moved.BoundingBox()
	if !near(b.Min, v3.Vec{X: 100, Y: 200, Z: 300}) || !near(b.Max, v3.Vec{X: 110, Y: 210, Z: 310}) {
		t.Errorf("Transform bounds = %v", b)
	}
	rotated := must(t)(k.Transform(must(t)(k.Box(100, 10, 10)), xform.RotZ(math.Pi/2)))
	if s := rotated.BoundingBox().Size(); math.Abs(s.Y-100) > 1e-6 {
		t.Errorf("rotated Y extent = %f, want 100", s.Y)
	}
}

func TestHull(t *testing.T) {
	k := mustNew(t)
	a := must(t)(k.Box(1, 1, 1))
	b := must(t)(k.Transform(must(t)(k.Box(1, 1, 1)), xform.Translate(10, 0, 0)))
	bb := must(t)(k.Hull([]kernel.Solid{a, b})).BoundingBox()
	if !near(bb.Max, v3.Vec{X: 11, Y: 1, Z: 1}) {
		t.Errorf("Hull max = %v, want (11,1,1)", bb.Max)
	}
}

func TestUnsupported(t *testing.T) {
	k := mustNew(t)
	if _, err := k.Circle(1); !errors.Is(err, kernel.ErrUnsupported) {
		t.Errorf("Circle() error = %v, want ErrUnsupported", err)
	}
}

func TestToMesh(t *testing.T) {
	k := mustNew(t)
	mesh, err := k.ToMesh(must(t)(k.Box(10, 10, 10)))
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if mesh.TriangleCount() < 12 {
		t.Errorf("ToMesh() triangle count = %d, want >= 12", mesh.TriangleCount())
	}
	if len(mesh.Normals) != len(mesh.Vertices) {
		t.Errorf("ToMesh() normals length = %d, vertices length = %d, want equal",
			len(mesh.Normals), len(mesh.Vertices))
	}
}
