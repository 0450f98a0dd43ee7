// Package raytri intersects rays with triangles (Möller-Trumbore).
package raytri

import v3 "github.com/deadsy/sdfx/vec/v3"

// DefaultPrecision is the default limit below which a ray counts as
// parallel to a triangle or a hit counts as lying on the ray origin.
const DefaultPrecision = 1e-7

// PlusX is the unit direction of the point-in-mesh ray.
var PlusX = v3.Vec{X: 1}

// Intersect returns the ray parameter t of the hit between the ray o + t*d
// and the triangle (v0, v1, v2). Barycentric bounds are inclusive and
// widened by precision, so a ray through an edge shared by two triangles
// hits both.
func Intersect(o, d, v0, v1, v2 v3.Vec, precision float64) (float64, bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)

	h := d.Cross(e2)
	a := e1.Dot(h)
	if a > -precision && a < precision {
		return 0, false // parallel
	}

	f := 1 / a
	s := o.Sub(v0)
	u := f * s.Dot(h)
	if u < -precision || u > 1+precision {
		return 0, false
	}

	q := s.Cross(e1)
	v := f * d.Dot(q)
	if v < -precision || u+v > 1+precision {
		return 0, false
	}

	t := f * e2.Dot(q)
	if t < precision {
		return 0, false // behind or on the origin
	}
	return t, true
}

// IntersectX intersects the +X ray from o with the triangle and returns the
// X coordinate of the hit.
func IntersectX(o, v0, v1, v2 v3.Vec, precision float64) (float64, bool) {
	t, ok := Intersect(o, PlusX, v0, v1, v2, precision)
	if !ok {
		return 0, false
	}
	return o.X + t, true
}
