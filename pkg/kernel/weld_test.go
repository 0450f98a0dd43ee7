package kernel

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// unwelded returns m with every triangle given its own three vertices.
func unwelded(m *Mesh) *Mesh {
	out := &Mesh{}
	for t := 0; t < m.TriangleCount(); t++ {
		v0, v1, v2 := m.Triangle(t)
		a := out.AddVertex(m.Vertex(v0))
		b := out.AddVertex(m.Vertex(v1))
		c := out.AddVertex(m.Vertex(v2))
		out.AddTriangle(a, b, c)
	}
	return out
}

func TestWeldRestoresSharedVertices(t *testing.T) {
	soup := unwelded(Icosphere(v3.Vec{}, 2, 2))
	if soup.VertexCount() != soup.TriangleCount()*3 {
		t.Fatalf("unwelded mesh has %d vertices", soup.VertexCount())
	}

	m := soup.Weld(DefaultWeldPrecision)
	if m.VertexCount() != 162 {
		t.Errorf("VertexCount() = %d, want 162", m.VertexCount())
	}
	if m.TriangleCount() != 320 {
		t.Errorf("TriangleCount() = %d, want 320", m.TriangleCount())
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	checkClosed(t, m)
}

func TestWeldFirstOccurrenceWins(t *testing.T) {
	m := &Mesh{}
	m.AddVertex(v3.Vec{X: 1.000001})
	m.AddVertex(v3.Vec{X: 1})
	m.AddVertex(v3.Vec{Y: 1})
	m.AddVertex(v3.Vec{Z: 1})
	m.Indices = []uint32{1, 2, 3}

	w := m.Weld(3)
	if w.VertexCount() != 3 {
		t.Fatalf("VertexCount() = %d, want 3", w.VertexCount())
	}
	if got := w.Vertex(0).X; got != float64(float32(1.000001)) {
		t.Errorf("Vertex(0).X = %v, want the first occurrence", got)
	}
	if v0, _, _ := w.Triangle(0); v0 != 0 {
		t.Errorf("Triangle(0) starts at %d, want 0", v0)
	}
}

func TestWeldDropsCollapsedTriangles(t *testing.T) {
	m := &Mesh{}
	a := m.AddVertex(v3.Vec{})
	b := m.AddVertex(v3.Vec{X: 1})
	c := m.AddVertex(v3.Vec{X: 1e-9})
	d := m.AddVertex(v3.Vec{Y: 1})
	m.AddTriangle(a, b, d)
	m.AddTriangle(a, c, d)

	w := m.Weld(DefaultWeldPrecision)
	if w.TriangleCount() != 1 {
		t.Errorf("TriangleCount() = %d, want 1", w.TriangleCount())
	}
	if len(w.Normals) != 3 {
		t.Errorf("len(Normals) = %d, want 3", len(w.Normals))
	}
}
