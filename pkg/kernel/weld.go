package kernel

import "math"

// DefaultWeldPrecision is the number of decimals compared by Weld.
const DefaultWeldPrecision = 5

type weldKey [3]int64

// Weld returns a copy of m in which vertices whose positions agree to
// precision decimals share one index. The first occurrence of a position
// wins. Triangles that collapse onto fewer than three distinct vertices are
// dropped; surviving triangles keep their face normal.
func (m *Mesh) Weld(precision int) *Mesh {
	scale := math.Pow10(precision)
	key := func(i uint32) weldKey {
		p := m.Vertex(i)
		return weldKey{
			int64(math.Round(p.X * scale)),
			int64(math.Round(p.Y * scale)),
			int64(math.Round(p.Z * scale)),
		}
	}

	out := &Mesh{Name: m.Name}
	seen := make(map[weldKey]uint32, m.VertexCount())
	remap := make([]uint32, m.VertexCount())
	for i := range remap {
		k := key(uint32(i))
		idx, ok := seen[k]
		if !ok {
			idx = out.AddVertex(m.Vertex(uint32(i)))
			seen[k] = idx
		}
		remap[i] = idx
	}

	for t := 0; t < m.TriangleCount(); t++ {
		v0, v1, v2 := m.Triangle(t)
		a, b, c := remap[v0], remap[v1], remap[v2]
		if a == b || b == c || a == c {
			continue
		}
		n := m.Normal(t)
		out.Indices = append(out.Indices, a, b, c)
		out.Normals = append(out.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	return out
}
