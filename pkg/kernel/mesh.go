package kernel

// Mesh is a flat triangle mesh.
// Vertices and Normals hold 3 floats per vertex, Indices 3 per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name,omitempty"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Triangle returns the corner positions of triangle i.
func (m *Mesh) Triangle(i int) [3][3]float32 {
	var t [3][3]float32
	for j := 0; j < 3; j++ {
		v := m.Indices[i*3+j] * 3
		t[j] = [3]float32{m.Vertices[v], m.Vertices[v+1], m.Vertices[v+2]}
	}
	return t
}

// Append adds o's triangles to m, rebasing o's indices.
func (m *Mesh) Append(o *Mesh) {
	base := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, o.Vertices...)
	m.Normals = append(m.Normals, o.Normals...)
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, i+base)
	}
}
