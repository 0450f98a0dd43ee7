package kernel

import (
	"fmt"
	"slices"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ TriMesh = (*Mesh)(nil)

// Mesh is an indexed triangle mesh with one face normal per triangle.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per triangle, indices has 3 uint32s per triangle.
// Triangles wind counter-clockwise when seen from outside.
type Mesh struct {
	Vertices []float32 `json:"vertices"`       // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`        // [nx0,ny0,nz0, ...] per triangle
	Indices  []uint32  `json:"indices"`        // [i0,i1,i2, ...] triangles
	Name     string    `json:"name,omitempty"` // which solid this came from
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

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i uint32) v3.Vec {
	j := int(i) * 3
	return v3.Vec{
		X: float64(m.Vertices[j]),
		Y: float64(m.Vertices[j+1]),
		Z: float64(m.Vertices[j+2]),
	}
}

// Triangle returns the vertex indices of triangle t.
func (m *Mesh) Triangle(t int) (v0, v1, v2 uint32) {
	j := t * 3
	return m.Indices[j], m.Indices[j+1], m.Indices[j+2]
}

// Normal returns the face normal of triangle t. Meshes without stored
// normals get one computed from the winding.
func (m *Mesh) Normal(t int) v3.Vec {
	j := t * 3
	if j+2 >= len(m.Normals) {
		v0, v1, v2 := m.Triangle(t)
		return faceNormal(m.Vertex(v0), m.Vertex(v1), m.Vertex(v2))
	}
	return v3.Vec{
		X: float64(m.Normals[j]),
		Y: float64(m.Normals[j+1]),
		Z: float64(m.Normals[j+2]),
	}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(p v3.Vec) uint32 {
	m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	return uint32(m.VertexCount() - 1)
}

// AddTriangle appends a triangle over existing vertices and stores its face
// normal. It returns the triangle index.
func (m *Mesh) AddTriangle(v0, v1, v2 uint32) int {
	n := faceNormal(m.Vertex(v0), m.Vertex(v1), m.Vertex(v2))
	m.Indices = append(m.Indices, v0, v1, v2)
	m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	return m.TriangleCount() - 1
}

// ComputeNormals recomputes every face normal from the triangle winding.
func (m *Mesh) ComputeNormals() {
	m.Normals = slices.Grow(m.Normals[:0], len(m.Indices))
	for t := 0; t < m.TriangleCount(); t++ {
		v0, v1, v2 := m.Triangle(t)
		n := faceNormal(m.Vertex(v0), m.Vertex(v1), m.Vertex(v2))
		m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
}

// BoundingBox returns the axis-aligned bounding box of the vertices.
func (m *Mesh) BoundingBox() sdf.Box3 {
	return Bounds(m)
}

// Copy returns a deep copy of the mesh.
func (m *Mesh) Copy() *Mesh {
	return &Mesh{
		Vertices: slices.Clone(m.Vertices),
		Normals:  slices.Clone(m.Normals),
		Indices:  slices.Clone(m.Indices),
		Name:     m.Name,
	}
}

// Flip reverses the winding of every triangle and negates its normal,
// turning the mesh inside out.
func (m *Mesh) Flip() {
	for j := 0; j+2 < len(m.Indices); j += 3 {
		m.Indices[j+1], m.Indices[j+2] = m.Indices[j+2], m.Indices[j+1]
	}
	for j := range m.Normals {
		m.Normals[j] = -m.Normals[j]
	}
}

// Validate checks that the flat arrays describe whole vertices and
// triangles and that every index refers to an existing vertex.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return errors.New("vertex array is not a multiple of 3").
			WithTag("length", len(m.Vertices))
	}
	if len(m.Indices)%3 != 0 {
		return errors.New("index array is not a multiple of 3").
			WithTag("length", len(m.Indices))
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Indices) {
		return errors.New("normal count does not match triangle count").
			WithTag("normals", len(m.Normals)/3).
			WithTag("triangles", m.TriangleCount())
	}

	n := uint32(m.VertexCount())
	for j, idx := range m.Indices {
		if idx >= n {
			return errors.New("triangle references a missing vertex").
				WithTag("triangle", j/3).
				WithTag("vertex", idx)
		}
	}
	return nil
}

// TriangleString formats triangle t with its vertex positions.
func (m *Mesh) TriangleString(t int) string {
	v0, v1, v2 := m.Triangle(t)
	p0, p1, p2 := m.Vertex(v0), m.Vertex(v1), m.Vertex(v2)
	return fmt.Sprintf("T%d [%d (%g, %g, %g), %d (%g, %g, %g), %d (%g, %g, %g)]", t,
		v0, p0.X, p0.Y, p0.Z,
		v1, p1.X, p1.Y, p1.Z,
		v2, p2.X, p2.Y, p2.Z)
}

// Merge concatenates meshes into a new mesh, offsetting indices.
func Merge(meshes ...*Mesh) *Mesh {
	out := &Mesh{}
	for _, m := range meshes {
		offset := uint32(out.VertexCount())
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, idx+offset)
		}
		if len(m.Normals) == len(m.Indices) {
			out.Normals = append(out.Normals, m.Normals...)
			continue
		}
		for t := 0; t < m.TriangleCount(); t++ {
			n := m.Normal(t)
			out.Normals = append(out.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
	}
	return out
}

// faceNormal returns the unit normal of a counter-clockwise triangle, or
// the zero vector for a degenerate one.
func faceNormal(a, b, c v3.Vec) v3.Vec {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Length()
	if l == 0 {
		return v3.Vec{}
	}
	return n.MulScalar(1 / l)
}

// Volume returns the signed volume enclosed by the mesh. It is positive
// when the triangles wind outward.
func (m *Mesh) Volume() float64 {
	var v float64
	for t := 0; t < m.TriangleCount(); t++ {
		v0, v1, v2 := m.Triangle(t)
		v += m.Vertex(v0).Dot(m.Vertex(v1).Cross(m.Vertex(v2)))
	}
	return v / 6
}
