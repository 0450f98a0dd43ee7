package zslice

import v2 "github.com/deadsy/sdfx/vec/v2"

// Simplify returns a copy of s whose contours are reduced with the
// Ramer-Douglas-Peucker algorithm. Contours left with fewer than three
// vertices are dropped.
func Simplify(s *Slice, tolerance float64) *Slice {
	contours := make([]*Contour, 0, len(s.contours))
	for _, c := range s.contours {
		if sc := c.Simplify(tolerance); sc != nil {
			contours = append(contours, sc)
		}
	}
	return NewSlice(s.z, s.fraction, contours)
}

// Simplify returns the contour without the vertices that lie within
// tolerance of the simplified outline, or nil if fewer than three remain.
func (c *Contour) Simplify(tolerance float64) *Contour {
	keep := simplifyRing(c.points, tolerance)

	var points, normals []v2.Vec
	for i, k := range keep {
		if k {
			points = append(points, c.points[i])
			normals = append(normals, c.normals[i])
		}
	}
	if len(points) < 3 {
		return nil
	}
	return NewContour(points, normals, c.interior)
}

// simplifyRing marks the vertices of the closed polygon pts that survive
// simplification. The ring is split at vertex 0 and the vertex farthest
// from it, and each half is reduced as an open polyline.
func simplifyRing(pts []v2.Vec, tolerance float64) []bool {
	n := len(pts)
	keep := make([]bool, n)
	if n <= 3 {
		for i := range keep {
			keep[i] = true
		}
		return keep
	}

	far, best := 0, -1.0
	for i := 1; i < n; i++ {
		v := pts[i].Sub(pts[0])
		if d := v.Dot(v); d > best {
			far, best = i, d
		}
	}
	keep[0], keep[far] = true, true

	at := func(i int) v2.Vec { return pts[i%n] }

	type span struct{ first, last int }
	stack := []span{{0, far}, {far, n}}
	for len(stack) > 0 {
		sp := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx, dmax := -1, tolerance
		a, b := at(sp.first), at(sp.last)
		for i := sp.first + 1; i < sp.last; i++ {
			if d := segmentDistance(at(i), a, b); d > dmax {
				idx, dmax = i, d
			}
		}
		if idx < 0 {
			continue
		}
		keep[idx%n] = true
		stack = append(stack, span{sp.first, idx}, span{idx, sp.last})
	}
	return keep
}

// segmentDistance returns the distance from p to the segment ab.
func segmentDistance(p, a, b v2.Vec) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Length()
	}
	t := p.Sub(a).Dot(ab) / l2
	t = max(0, min(1, t))
	return p.Sub(a.Add(ab.MulScalar(t))).Length()
}
