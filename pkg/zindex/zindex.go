// Package zindex answers stabbing queries over the Z extents of mesh
// triangles: given a plane height z, which triangles straddle it.
//
// The index is immutable after construction and may be shared between
// goroutines. Each goroutine passes its own Scratch to Stab.
package zindex

import (
	"cmp"
	"slices"
	"sort"

	"github.com/chazu/meshvox/pkg/kernel"
	"github.com/chazu/meshvox/pkg/lattice"
)

// Index holds per-triangle [minZ, maxZ] intervals computed from vertex Z
// coordinates snapped to the even lattice.
type Index struct {
	minZs []float64 // ascending
	order []int32   // order[i] is the triangle with the i-th smallest minZ
	maxZs []float64 // by triangle
}

// Scratch is the reusable buffer of one caller. It must not be shared
// between concurrent Stab calls.
type Scratch struct {
	candidates []int32
}

// New builds the index for m using lat to snap vertex Z coordinates.
func New(m kernel.TriMesh, lat lattice.Lattice) *Index {
	zs := make([]float64, m.VertexCount())
	for i := range zs {
		zs[i] = lat.Even(m.Vertex(uint32(i)).Z)
	}
	return build(m, zs)
}

// NewFromZ builds the index from already snapped vertex Z coordinates.
func NewFromZ(m kernel.TriMesh, zs []float64) *Index {
	return build(m, zs)
}

func build(m kernel.TriMesh, zs []float64) *Index {
	n := m.TriangleCount()
	ix := &Index{
		minZs: make([]float64, n),
		order: make([]int32, n),
		maxZs: make([]float64, n),
	}

	mins := make([]float64, n)
	for t := 0; t < n; t++ {
		v0, v1, v2 := m.Triangle(t)
		a, b, c := zs[v0], zs[v1], zs[v2]
		mins[t] = min(a, b, c)
		ix.maxZs[t] = max(a, b, c)
		ix.order[t] = int32(t)
	}

	slices.SortFunc(ix.order, func(a, b int32) int {
		return cmp.Compare(mins[a], mins[b])
	})
	for i, t := range ix.order {
		ix.minZs[i] = mins[t]
	}
	return ix
}

// Len returns the number of indexed triangles.
func (ix *Index) Len() int {
	return len(ix.order)
}

// Extent returns the snapped [minZ, maxZ] of the i-th triangle in minZ
// order, together with that triangle's index.
func (ix *Index) Extent(i int) (t int, minZ, maxZ float64) {
	tri := ix.order[i]
	return int(tri), ix.minZs[i], ix.maxZs[tri]
}

// Stab returns the triangles whose interval satisfies minZ < z < maxZ, in
// ascending maxZ order. The returned slice aliases s and is valid until the
// next call with the same Scratch.
func (ix *Index) Stab(s *Scratch, z float64) []int32 {
	// Every triangle before k1 starts below z.
	k1 := sort.SearchFloat64s(ix.minZs, z)

	s.candidates = append(s.candidates[:0], ix.order[:k1]...)
	candidates := s.candidates
	slices.SortFunc(candidates, func(a, b int32) int {
		return cmp.Compare(ix.maxZs[a], ix.maxZs[b])
	})

	// Of those, the ones from k2 on also end above z.
	k2 := sort.Search(len(candidates), func(i int) bool {
		return ix.maxZs[candidates[i]] > z
	})
	return candidates[k2:]
}
