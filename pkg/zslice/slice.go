package zslice

import (
	"cmp"
	"slices"

	"github.com/chazu/meshvox/pkg/lattice"
)

// Slice is the cross-section of a mesh at one Z plane: its contours ordered
// by decreasing signed area, so outer boundaries precede cavities.
type Slice struct {
	z        float64
	fraction float64
	contours []*Contour
}

// NewSlice returns the slice at z over contours. fraction is the lattice
// fraction used by XRayCast; zero selects lattice.DefaultFraction.
func NewSlice(z, fraction float64, contours []*Contour) *Slice {
	if fraction <= 0 {
		fraction = lattice.DefaultFraction
	}
	sorted := slices.Clone(contours)
	slices.SortStableFunc(sorted, func(a, b *Contour) int {
		return cmp.Compare(b.SignedArea(), a.SignedArea())
	})
	return &Slice{z: z, fraction: fraction, contours: sorted}
}

// Z returns the height the slice was requested at.
func (s *Slice) Z() float64 {
	return s.z
}

// Len returns the number of contours.
func (s *Slice) Len() int {
	return len(s.contours)
}

// IsEmpty reports whether the plane missed the mesh.
func (s *Slice) IsEmpty() bool {
	return len(s.contours) == 0
}

// Contour returns contour i.
func (s *Slice) Contour(i int) *Contour {
	return s.contours[i]
}

// Contours returns the contours in slice order.
func (s *Slice) Contours() []*Contour {
	return slices.Clone(s.contours)
}

// XRayCast intersects the line Y = y with every contour edge and appends
// the sorted X coordinates of the crossings to xs[:0]. y is snapped to the
// odd lattice of scale and vertex Y coordinates to the even one, so the
// line never passes through a vertex.
func (s *Slice) XRayCast(y, scale float64, xs []float64) []float64 {
	xs = xs[:0]
	s.cast(y, scale, func(x, _ float64) {
		xs = append(xs, x)
	})
	slices.Sort(xs)
	return xs
}

// XRayCastNormals is XRayCast that also returns, in the same order, the X
// component of the normal of each crossed edge.
func (s *Slice) XRayCastNormals(y, scale float64, xs, nxs []float64) ([]float64, []float64) {
	var hits []crossing
	s.cast(y, scale, func(x, nx float64) {
		hits = append(hits, crossing{x: x, nx: nx})
	})
	slices.SortFunc(hits, func(a, b crossing) int {
		return cmp.Compare(a.x, b.x)
	})

	xs, nxs = xs[:0], nxs[:0]
	for _, h := range hits {
		xs = append(xs, h.x)
		nxs = append(nxs, h.nx)
	}
	return xs, nxs
}

type crossing struct {
	x, nx float64
}

func (s *Slice) cast(y, scale float64, emit func(x, nx float64)) {
	lat := lattice.New(scale, s.fraction)
	yr := lat.Odd(y)

	for _, c := range s.contours {
		n := len(c.points)
		j := n - 1
		for i := 0; i < n; i++ {
			pj, pi := c.points[j], c.points[i]
			yj, yi := lat.Even(pj.Y), lat.Even(pi.Y)
			if (yj > yr && yi > yr) || (yj < yr && yi < yr) {
				j = i
				continue
			}
			t := (yr - yj) / (yi - yj)
			emit(pj.X+t*(pi.X-pj.X), c.normals[j].X)
			j = i
		}
	}
}
