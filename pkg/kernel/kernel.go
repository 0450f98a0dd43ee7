// Package kernel defines the triangle mesh consumed by the slicing,
// point-in-mesh and voxelization packages, together with the abstract
// solid-modeling kernel that produces such meshes. Implementations (sdfx)
// provide primitives and boolean operations behind the Kernel interface.
package kernel

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// TriMesh is the read-only view of a triangle mesh used by the query
// packages. A TriMesh must not change while a query built on it is alive.
type TriMesh interface {
	// VertexCount returns the number of vertices.
	VertexCount() int
	// TriangleCount returns the number of triangles.
	TriangleCount() int
	// Vertex returns the position of vertex i.
	Vertex(i uint32) v3.Vec
	// Triangle returns the vertex indices of triangle t in winding order.
	Triangle(t int) (v0, v1, v2 uint32)
	// Normal returns the outward unit normal of triangle t.
	Normal(t int) v3.Vec
}

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() sdf.Box3
	// Distance returns the signed distance from p to the surface,
	// negative inside the solid.
	Distance(p v3.Vec) float64
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives, centered on the origin.
	Box(x, y, z float64) Solid
	Sphere(radius float64) Solid
	Cylinder(height, radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// Bounds returns the axis-aligned bounding box of every vertex of m.
// An empty mesh has a zero box.
func Bounds(m TriMesh) sdf.Box3 {
	n := m.VertexCount()
	if n == 0 {
		return sdf.Box3{}
	}
	bb := sdf.Box3{Min: m.Vertex(0), Max: m.Vertex(0)}
	for i := 1; i < n; i++ {
		p := m.Vertex(uint32(i))
		bb.Min = v3.Vec{X: min(bb.Min.X, p.X), Y: min(bb.Min.Y, p.Y), Z: min(bb.Min.Z, p.Z)}
		bb.Max = v3.Vec{X: max(bb.Max.X, p.X), Y: max(bb.Max.Y, p.Y), Z: max(bb.Max.Z, p.Z)}
	}
	return bb
}

// Clone returns an independent *Mesh holding the same geometry as m.
func Clone(m TriMesh) *Mesh {
	if mesh, ok := m.(*Mesh); ok {
		return mesh.Copy()
	}

	nv, nt := m.VertexCount(), m.TriangleCount()
	c := &Mesh{
		Vertices: make([]float32, 0, nv*3),
		Normals:  make([]float32, 0, nt*3),
		Indices:  make([]uint32, 0, nt*3),
	}
	for i := 0; i < nv; i++ {
		c.AddVertex(m.Vertex(uint32(i)))
	}
	for t := 0; t < nt; t++ {
		v0, v1, v2 := m.Triangle(t)
		n := m.Normal(t)
		c.Indices = append(c.Indices, v0, v1, v2)
		c.Normals = append(c.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	return c
}
