// Package interior decides whether points lie inside a closed triangle
// mesh by casting a ray along +X and counting surface crossings.
//
// The ray's Z is snapped to the odd epsilon lattice and vertex Z
// coordinates to the even one, so the ray never passes through a vertex
// height. Hits that still coincide in X, where the ray grazes a shared
// edge, are merged by the sign of their normals before parity is taken.
package interior

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chazu/meshvox/pkg/kernel"
	"github.com/chazu/meshvox/pkg/lattice"
	"github.com/chazu/meshvox/pkg/raytri"
	"github.com/chazu/meshvox/pkg/zindex"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Config configures a Tester.
type Config struct {
	// Scale is the unit size of the mesh. Zero means 1.
	Scale float64
	// Fraction is the lattice spacing relative to Scale. Zero means
	// lattice.DefaultFraction.
	Fraction float64
	// Precision is the ray/triangle rejection limit. Zero means
	// raytri.DefaultPrecision.
	Precision float64
	// Bounds replaces the mesh bounding box for the quick reject test.
	Bounds *sdf.Box3
}

func (c Config) withDefaults() Config {
	if c.Scale == 0 {
		c.Scale = 1
	}
	if c.Fraction == 0 {
		c.Fraction = lattice.DefaultFraction
	}
	if c.Precision == 0 {
		c.Precision = raytri.DefaultPrecision
	}
	return c
}

// Hit is one ray/triangle intersection: its X coordinate and the X
// component of the triangle normal.
type Hit struct {
	X  float64
	NX float64
}

// Scratch holds the buffers of one caller. A zero Scratch is ready to use;
// it must not be shared between concurrent queries.
type Scratch struct {
	index zindex.Scratch
	hits  []Hit
}

// Tester answers point-in-mesh queries for one mesh. It is immutable after
// New and may be shared between goroutines, each with its own Scratch.
type Tester struct {
	mesh      kernel.TriMesh
	lat       lattice.Lattice
	precision float64
	zs        []float64
	index     *zindex.Index
	bounds    sdf.Box3
}

// New prepares m for point queries.
func New(m kernel.TriMesh, cfg Config) (*Tester, error) {
	cfg = cfg.withDefaults()
	if !(cfg.Scale > 0) || math.IsInf(cfg.Scale, 0) {
		return nil, errors.New("invalid tester scale").WithTag("scale", cfg.Scale)
	}
	if !(cfg.Fraction > 0) {
		return nil, errors.New("invalid lattice fraction").WithTag("fraction", cfg.Fraction)
	}
	if !(cfg.Precision > 0) {
		return nil, errors.New("invalid ray precision").WithTag("precision", cfg.Precision)
	}

	lat := lattice.New(cfg.Scale, cfg.Fraction)
	zs := make([]float64, m.VertexCount())
	for i := range zs {
		zs[i] = lat.Even(m.Vertex(uint32(i)).Z)
	}

	bounds := kernel.Bounds(m)
	if cfg.Bounds != nil {
		bounds = *cfg.Bounds
	}

	return &Tester{
		mesh:      m,
		lat:       lat,
		precision: cfg.Precision,
		zs:        zs,
		index:     zindex.NewFromZ(m, zs),
		bounds:    bounds,
	}, nil
}

// IsInside reports whether the point (p[0], p[1], p[2]) lies inside the
// mesh. It panics if p has fewer than three coordinates.
func (t *Tester) IsInside(s *Scratch, p []float64) bool {
	if len(p) < 3 {
		panic(fmt.Sprintf("interior: point needs 3 coordinates, got %d", len(p)))
	}
	return t.Contains(s, v3.Vec{X: p[0], Y: p[1], Z: p[2]})
}

// Contains reports whether p lies inside the mesh.
func (t *Tester) Contains(s *Scratch, p v3.Vec) bool {
	if !t.inBounds(p) {
		return false
	}

	o := v3.Vec{X: p.X, Y: p.Y, Z: t.lat.Odd(p.Z)}
	s.hits = s.hits[:0]
	for _, tri := range t.index.Stab(&s.index, o.Z) {
		i0, i1, i2 := t.mesh.Triangle(int(tri))
		x, ok := raytri.IntersectX(o, t.vertex(i0), t.vertex(i1), t.vertex(i2), t.precision)
		if ok {
			s.hits = append(s.hits, Hit{X: x, NX: t.mesh.Normal(int(tri)).X})
		}
	}
	return CountCrossings(s.hits, t.lat)%2 == 1
}

// Bounds returns the box outside of which every point is rejected.
func (t *Tester) Bounds() sdf.Box3 {
	return t.bounds
}

func (t *Tester) inBounds(p v3.Vec) bool {
	lo, hi := t.bounds.Min, t.bounds.Max
	return p.X >= lo.X && p.X <= hi.X &&
		p.Y >= lo.Y && p.Y <= hi.Y &&
		p.Z >= lo.Z && p.Z <= hi.Z
}

// vertex returns vertex i with its Z snapped to the even lattice.
func (t *Tester) vertex(i uint32) v3.Vec {
	p := t.mesh.Vertex(i)
	p.Z = t.zs[i]
	return p
}

// CountCrossings sorts hits by X and counts surface crossings. Hits within
// one step of lat from the first hit of their group form one group. A group counts once
// when the signs of its normals' X components do not cancel, and not at
// all when they do: a ray through a shared edge of a wall crosses once,
// one grazing a silhouette edge does not cross.
func CountCrossings(hits []Hit, lat lattice.Lattice) int {
	slices.SortFunc(hits, func(a, b Hit) int {
		return cmp.Compare(a.X, b.X)
	})

	crossings := 0
	for i := 0; i < len(hits); {
		sign := 0
		j := i
		for ; j < len(hits) && lat.Near(hits[i].X, hits[j].X); j++ {
			switch {
			case hits[j].NX > 0:
				sign++
			case hits[j].NX < 0:
				sign--
			}
		}
		if sign != 0 {
			crossings++
		}
		i = j
	}
	return crossings
}
