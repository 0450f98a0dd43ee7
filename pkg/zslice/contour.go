package zslice

import (
	"math"
	"slices"

	"github.com/chazu/meshvox/pkg/lattice"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Contour is a closed polygon in a Z plane. Every vertex carries the XY
// part of the normal of the triangle whose segment starts there. Outer
// boundaries wind counter-clockwise, cavity boundaries clockwise.
type Contour struct {
	points   []v2.Vec
	normals  []v2.Vec
	interior bool
}

// NewContour returns a contour over points and their normals, which must
// have the same length. The contour takes ownership of both slices.
func NewContour(points, normals []v2.Vec, interior bool) *Contour {
	if len(points) != len(normals) {
		panic("zslice: contour points and normals differ in length")
	}
	return &Contour{points: points, normals: normals, interior: interior}
}

// Len returns the number of vertices.
func (c *Contour) Len() int {
	return len(c.points)
}

// Point returns vertex i.
func (c *Contour) Point(i int) v2.Vec {
	return c.points[i]
}

// Normal returns the normal attached to vertex i.
func (c *Contour) Normal(i int) v2.Vec {
	return c.normals[i]
}

// Points returns a copy of the vertices.
func (c *Contour) Points() []v2.Vec {
	return slices.Clone(c.points)
}

// IsInterior reports whether the contour bounds a cavity.
func (c *Contour) IsInterior() bool {
	return c.interior
}

// SignedArea returns the shoelace area, positive for counter-clockwise
// winding.
func (c *Contour) SignedArea() float64 {
	var a float64
	for i, p := range c.points {
		q := c.points[(i+1)%len(c.points)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// Area returns the enclosed area.
func (c *Contour) Area() float64 {
	return math.Abs(c.SignedArea())
}

// Center returns the mean of the vertices.
func (c *Contour) Center() v2.Vec {
	var sum v2.Vec
	for _, p := range c.points {
		sum = sum.Add(p)
	}
	return sum.MulScalar(1 / float64(len(c.points)))
}

// classifyInterior decides whether a closed chain with outward-facing
// normals bounds a cavity: at the leftmost vertex the solid lies to the
// right of a cavity wall, so the wall normal points into the cavity
// towards +X. Vertices within one lattice step of the minimum X all vote,
// weighted by their normal's X component.
func classifyInterior(points, normals []v2.Vec, lat lattice.Lattice) bool {
	minX := points[0].X
	for _, p := range points[1:] {
		minX = min(minX, p.X)
	}

	var vote float64
	for i, p := range points {
		if lat.Near(p.X, minX) {
			vote += normals[i].X
		}
	}
	return vote > 0
}
