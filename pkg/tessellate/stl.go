package tessellate

import (
	"fmt"

	"github.com/chazu/rcad/pkg/kernel"
	"github.com/chazu/rcad/pkg/shape"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Triangles flattens meshes into the sdfx triangle form, in mesh order.
func Triangles(meshes ...*kernel.Mesh) []*sdf.Triangle3 {
	n := 0
	for _, m := range meshes {
		n += m.TriangleCount()
	}
	out := make([]*sdf.Triangle3, 0, n)
	for _, m := range meshes {
		for i := 0; i < m.TriangleCount(); i++ {
			t := m.Triangle(i)
			var tri sdf.Triangle3
			for j, c := range t {
				tri[j] = v3.Vec{X: float64(c[0]), Y: float64(c[1]), Z: float64(c[2])}
			}
			out = append(out, &tri)
		}
	}
	return out
}

// SaveSTL realizes root with k and writes it to path.
func SaveSTL(path string, root *shape.Node, k kernel.Kernel) (*kernel.Mesh, error) {
	m, err := Mesh(root, k)
	if err != nil {
		return nil, err
	}
	if err := SaveMeshes(path, m); err != nil {
		return nil, err
	}
	return m, nil
}

// SaveMeshes writes meshes to path as one binary STL document.
func SaveMeshes(path string, meshes ...*kernel.Mesh) error {
	if err := render.SaveSTL(path, Triangles(meshes...)); err != nil {
		return fmt.Errorf("tessellate: write %s: %w", path, err)
	}
	return nil
}
