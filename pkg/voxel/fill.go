package voxel

import (
	"math"

	"github.com/chazu/meshvox/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// rasterStep is the sampling distance along triangles, in voxels.
const rasterStep = 0.25

var faceNeighbours = [6][3]int{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

// Rasterize stores v in every voxel of g that contains a point of the
// surface of m. Voxel (x, y, z) is the cell of half-width Calibration/2
// centered on (x*Calibration[0], y*Calibration[1], z*Calibration[2]).
// Voxels outside g are skipped. It returns the number of writes.
func Rasterize[T any](g *Grid[T], m kernel.TriMesh, cfg Config, v T) (int, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return 0, err
	}

	scale := v3.Vec{X: 1 / cfg.Calibration[0], Y: 1 / cfg.Calibration[1], Z: 1 / cfg.Calibration[2]}
	toVoxels := func(p v3.Vec) v3.Vec {
		return v3.Vec{X: p.X * scale.X, Y: p.Y * scale.Y, Z: p.Z * scale.Z}
	}

	writes := 0
	for t := 0; t < m.TriangleCount(); t++ {
		i0, i1, i2 := m.Triangle(t)
		a := toVoxels(m.Vertex(i0))
		ab := toVoxels(m.Vertex(i1)).Sub(a)
		ac := toVoxels(m.Vertex(i2)).Sub(a)

		longest := max(ab.Length(), ac.Length(), ac.Sub(ab).Length())
		n := max(1, int(math.Ceil(longest/rasterStep)))
		for i := 0; i <= n; i++ {
			for j := 0; i+j <= n; j++ {
				u, w := float64(i)/float64(n), float64(j)/float64(n)
				p := a.Add(ab.MulScalar(u)).Add(ac.MulScalar(w))
				x := int(math.Floor(p.X + 0.5))
				y := int(math.Floor(p.Y + 0.5))
				z := int(math.Floor(p.Z + 0.5))
				if idx, ok := g.IdxCheck(x, y, z); ok {
					g.Data[idx] = v
					writes++
				}
			}
		}
	}
	return writes, nil
}

// FloodFill stores v in the region of fillable voxels 6-connected to seed
// and returns its size. Nothing is filled when seed is outside g or not
// fillable.
func FloodFill[T any](g *Grid[T], seed [3]int, fillable func(T) bool, v T) int {
	idx, ok := g.IdxCheck(seed[0], seed[1], seed[2])
	if !ok || !fillable(g.Data[idx]) {
		return 0
	}

	searched := make([]bool, g.Volume)
	searched[idx] = true
	next := [][3]int{seed}
	filled := 0

	for len(next) > 0 {
		var pos [3]int
		pos, next = next[0], next[1:]
		g.Data[g.Idx(pos[0], pos[1], pos[2])] = v
		filled++

		for _, d := range faceNeighbours {
			n := [3]int{pos[0] + d[0], pos[1] + d[1], pos[2] + d[2]}
			addr, ok := g.IdxCheck(n[0], n[1], n[2])
			if !ok || searched[addr] || !fillable(g.Data[addr]) {
				continue
			}
			searched[addr] = true
			next = append(next, n)
		}
	}
	return filled
}
