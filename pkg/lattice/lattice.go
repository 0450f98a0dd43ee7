// Package lattice snaps coordinates onto a one-dimensional epsilon lattice.
//
// Mesh vertices are placed on even multiples of eps and query planes or rays
// on odd multiples, so a query can never pass exactly through a vertex along
// the snapped axis.
package lattice

import (
	"fmt"
	"math"
)

// DefaultFraction is the lattice spacing as a fraction of the unit scale.
const DefaultFraction = 4e-4

// Round snaps v to the nearest value congruent to rem*eps modulo mod*eps.
func Round(v, eps float64, mod, rem int) float64 {
	step := float64(mod) * eps
	offset := float64(rem) * eps
	return math.Round((v-offset)/step)*step + offset
}

// Lattice is an epsilon lattice for one unit scale.
type Lattice struct {
	Eps float64
}

// New returns the lattice for the given unit scale. A non-positive fraction
// selects DefaultFraction. It panics if scale is not a positive finite number.
func New(scale, fraction float64) Lattice {
	if !(scale > 0) || math.IsInf(scale, 0) {
		panic(fmt.Sprintf("lattice: invalid scale %v", scale))
	}
	if fraction <= 0 {
		fraction = DefaultFraction
	}
	return Lattice{Eps: fraction * scale}
}

// Even snaps v onto an even multiple of eps.
func (l Lattice) Even(v float64) float64 {
	return Round(v, l.Eps, 2, 0)
}

// Odd snaps v onto an odd multiple of eps.
func (l Lattice) Odd(v float64) float64 {
	return Round(v, l.Eps, 2, 1)
}

// Near reports whether a and b are within one lattice step of each other.
func (l Lattice) Near(a, b float64) bool {
	return math.Abs(a-b) <= l.Eps
}
