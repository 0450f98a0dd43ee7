package kernel

import (
	"math"

	"github.com/chazu/meshvox/pkg/lattice"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Box returns the closed axis-aligned box spanning lo to hi, two triangles
// per face, wound outward.
func Box(lo, hi v3.Vec) *Mesh {
	m := &Mesh{Name: "box"}
	// Vertex i has bit 0 selecting X, bit 1 Y, bit 2 Z.
	for i := 0; i < 8; i++ {
		p := lo
		if i&1 != 0 {
			p.X = hi.X
		}
		if i&2 != 0 {
			p.Y = hi.Y
		}
		if i&4 != 0 {
			p.Z = hi.Z
		}
		m.AddVertex(p)
	}
	for _, f := range boxFaces {
		m.AddTriangle(f[0], f[1], f[2])
	}
	return m
}

var boxFaces = [12][3]uint32{
	{0, 2, 1}, {1, 2, 3}, // -Z
	{4, 5, 6}, {5, 7, 6}, // +Z
	{0, 1, 4}, {1, 5, 4}, // -Y
	{2, 6, 3}, {3, 6, 7}, // +Y
	{0, 4, 2}, {2, 4, 6}, // -X
	{1, 3, 5}, {3, 7, 5}, // +X
}

// Icosphere returns a sphere approximated by an icosahedron whose faces
// are split into four subdivisions times, with every new vertex projected
// onto the sphere.
func Icosphere(center v3.Vec, radius float64, subdivisions int) *Mesh {
	t := (1 + math.Sqrt(5)) / 2
	unit := []v3.Vec{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	for i := range unit {
		unit[i] = unit[i].Normalize()
	}
	faces := [][3]uint32{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	for s := 0; s < subdivisions; s++ {
		midpoints := make(map[lattice.EdgeID]uint32, len(faces)*3/2)
		midpoint := func(a, b uint32) uint32 {
			e := lattice.NewEdgeID(a, b)
			if idx, ok := midpoints[e]; ok {
				return idx
			}
			unit = append(unit, unit[a].Add(unit[b]).MulScalar(0.5).Normalize())
			idx := uint32(len(unit) - 1)
			midpoints[e] = idx
			return idx
		}

		refined := make([][3]uint32, 0, len(faces)*4)
		for _, f := range faces {
			a := midpoint(f[0], f[1])
			b := midpoint(f[1], f[2])
			c := midpoint(f[2], f[0])
			refined = append(refined,
				[3]uint32{f[0], a, c},
				[3]uint32{a, f[1], b},
				[3]uint32{c, b, f[2]},
				[3]uint32{a, b, c},
			)
		}
		faces = refined
	}

	m := &Mesh{Name: "icosphere"}
	for _, u := range unit {
		m.AddVertex(center.Add(u.MulScalar(radius)))
	}
	for _, f := range faces {
		m.AddTriangle(f[0], f[1], f[2])
	}
	return m
}
