// Package zslice cuts triangle meshes with horizontal planes.
//
// Vertex coordinates are snapped to the even epsilon lattice and planes to
// the odd one, so no vertex ever lies on a plane. Each straddling triangle
// yields one oriented segment between two of its edges; segments are
// chained through shared edges into closed contours.
package zslice

import (
	"cmp"
	"math"
	"slices"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/chazu/meshvox/pkg/kernel"
	"github.com/chazu/meshvox/pkg/lattice"
	"github.com/chazu/meshvox/pkg/zindex"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Config configures a Slicer.
type Config struct {
	// Scale is the unit size of the mesh. Zero means 1.
	Scale float64
	// Fraction is the lattice spacing relative to Scale. Zero means
	// lattice.DefaultFraction.
	Fraction float64
}

func (c Config) withDefaults() Config {
	if c.Scale == 0 {
		c.Scale = 1
	}
	if c.Fraction == 0 {
		c.Fraction = lattice.DefaultFraction
	}
	return c
}

// orientSlack bounds, in lattice steps, how far snapping can move the
// orientation test of a segment.
const orientSlack = 4

// Segment is the piece of a plane cut through one triangle. It runs from
// P, on mesh edge Entry, to a point on mesh edge Exit, such that the solid
// lies to its left.
type Segment struct {
	P      v2.Vec
	Entry  lattice.EdgeID
	Exit   lattice.EdgeID
	Normal v2.Vec
}

// Slicer cuts one mesh. It is immutable and may be shared between
// goroutines, each with its own Scratch.
type Slicer struct {
	mesh   kernel.TriMesh
	cfg    Config
	lat    lattice.Lattice
	points []v3.Vec
	index  *zindex.Index
}

// Scratch holds the buffers of one slicing caller.
type Scratch struct {
	index    zindex.Scratch
	segments []Segment
	byEntry  map[lattice.EdgeID]int
	used     []bool
}

// New indexes m for slicing.
func New(m kernel.TriMesh, cfg Config) (*Slicer, error) {
	cfg = cfg.withDefaults()
	if !(cfg.Scale > 0) || math.IsInf(cfg.Scale, 0) {
		return nil, errors.New("invalid slicing scale").WithTag("scale", cfg.Scale)
	}
	if !(cfg.Fraction > 0) {
		return nil, errors.New("invalid lattice fraction").WithTag("fraction", cfg.Fraction)
	}

	lat := lattice.New(cfg.Scale, cfg.Fraction)
	points := make([]v3.Vec, m.VertexCount())
	zs := make([]float64, len(points))
	for i := range points {
		p := m.Vertex(uint32(i))
		points[i] = v3.Vec{X: lat.Even(p.X), Y: lat.Even(p.Y), Z: lat.Even(p.Z)}
		zs[i] = points[i].Z
	}

	return &Slicer{
		mesh:   m,
		cfg:    cfg,
		lat:    lat,
		points: points,
		index:  zindex.NewFromZ(m, zs),
	}, nil
}

// Lattice returns the lattice the slicer snaps to.
func (sl *Slicer) Lattice() lattice.Lattice {
	return sl.lat
}

// Slice cuts the mesh with the plane Z = z.
func (sl *Slicer) Slice(s *Scratch, z float64) *Slice {
	zr := sl.lat.Odd(z)

	s.segments = s.segments[:0]
	for _, t := range sl.index.Stab(&s.index, zr) {
		if seg, ok := sl.segment(int(t), zr); ok {
			s.segments = append(s.segments, seg)
		}
	}

	instrumentSlice()
	return NewSlice(z, sl.cfg.Fraction, sl.assemble(s, z))
}

// Slices cuts the mesh with every plane in zs.
func (sl *Slicer) Slices(s *Scratch, zs []float64) []*Slice {
	out := make([]*Slice, len(zs))
	for i, z := range zs {
		out[i] = sl.Slice(s, z)
	}
	return out
}

// Of slices m at z with a fresh Slicer.
func Of(m kernel.TriMesh, z, scale float64) (*Slice, error) {
	sl, err := New(m, Config{Scale: scale})
	if err != nil {
		return nil, err
	}
	return sl.Slice(&Scratch{}, z), nil
}

// OfMany slices m at every z in zs with one Slicer.
func OfMany(m kernel.TriMesh, zs []float64, scale float64) ([]*Slice, error) {
	sl, err := New(m, Config{Scale: scale})
	if err != nil {
		return nil, err
	}
	return sl.Slices(&Scratch{}, zs), nil
}

// segment intersects triangle t with the snapped plane z.
func (sl *Slicer) segment(t int, z float64) (Segment, bool) {
	i0, i1, i2 := sl.mesh.Triangle(t)
	z0, z1, z2 := sl.points[i0].Z, sl.points[i1].Z, sl.points[i2].Z
	if !(min(z0, z1, z2) < z && z < max(z0, z1, z2)) {
		return Segment{}, false
	}

	// a lies on the edge from the lone vertex to its successor in winding
	// order, b on the edge from its predecessor back to it.
	var lone, next, prev uint32
	switch {
	case !sl.crosses(i0, i1, z):
		lone, next, prev = i2, i0, i1
	case !sl.crosses(i0, i2, z):
		lone, next, prev = i1, i2, i0
	default:
		lone, next, prev = i0, i1, i2
	}
	a, ea := sl.edgePoint(lone, next, z), lattice.NewEdgeID(lone, next)
	b, eb := sl.edgePoint(prev, lone, z), lattice.NewEdgeID(prev, lone)
	if ea == eb {
		return Segment{}, false
	}

	n3 := sl.mesh.Normal(t)
	n := v2.Vec{X: n3.X, Y: n3.Y}

	// Walk along Z x n, which keeps the solid on the left.
	d := b.Sub(a)
	forward := -n.Y*d.X + n.X*d.Y
	if math.Abs(forward) <= orientSlack*sl.lat.Eps {
		// Too short or too flat after snapping to tell. Counter-clockwise
		// winding seen from outside walks from a to b when the lone vertex
		// lies above the plane.
		forward = sl.points[lone].Z - z
	}
	if forward > 0 {
		return Segment{P: a, Entry: ea, Exit: eb, Normal: n}, true
	}
	return Segment{P: b, Entry: eb, Exit: ea, Normal: n}, true
}

func (sl *Slicer) crosses(i, j uint32, z float64) bool {
	zi, zj := sl.points[i].Z, sl.points[j].Z
	return !((zi > z && zj > z) || (zi < z && zj < z))
}

// edgePoint interpolates from the lower to the higher vertex index so both
// triangles of an edge compute the same point.
func (sl *Slicer) edgePoint(i, j uint32, z float64) v2.Vec {
	if j < i {
		i, j = j, i
	}
	p, q := sl.points[i], sl.points[j]
	t := (z - p.Z) / (q.Z - p.Z)
	return v2.Vec{X: p.X + t*(q.X-p.X), Y: p.Y + t*(q.Y-p.Y)}
}

// assemble chains the segments in s into closed contours.
func (sl *Slicer) assemble(s *Scratch, z float64) []*Contour {
	segs := s.segments
	slices.SortFunc(segs, func(a, b Segment) int {
		return cmp.Compare(a.Entry, b.Entry)
	})

	if s.byEntry == nil {
		s.byEntry = make(map[lattice.EdgeID]int, len(segs))
	}
	clear(s.byEntry)
	for i, seg := range segs {
		s.byEntry[seg.Entry] = i
	}
	s.used = slices.Grow(s.used[:0], len(segs))[:len(segs)]
	clear(s.used)

	var contours []*Contour
	for i := range segs {
		if s.used[i] {
			continue
		}
		s.used[i] = true
		first := segs[i]

		points := []v2.Vec{first.P}
		normals := []v2.Vec{first.Normal}
		exit := first.Exit
		closed := false
		for {
			if exit == first.Entry {
				closed = true
				break
			}
			j, ok := s.byEntry[exit]
			if !ok || s.used[j] {
				break
			}
			s.used[j] = true
			points = append(points, segs[j].P)
			normals = append(normals, segs[j].Normal)
			exit = segs[j].Exit
		}

		if !closed {
			instrumentDiscard(reasonOpen)
			logs.WithTag("z", z).
				WithTag("start", first.Entry.String()).
				WithTag("segments", len(points)).
				Debug("open contour discarded")
			continue
		}
		if len(points) < 3 {
			instrumentDiscard(reasonUndersize)
			logs.WithTag("z", z).
				WithTag("points", len(points)).
				Debug("undersized contour discarded")
			continue
		}

		interior := classifyInterior(points, normals, sl.lat)
		contours = append(contours, NewContour(points, normals, interior))
	}
	return contours
}
