// Package voxel enumerates the voxels of an image that lie inside a
// closed triangle mesh.
//
// A Cursor slices the mesh once per voxel plane and ray casts each row of
// a plane in 2D, so the cost of a sweep is one slice per plane plus one
// scanline per row instead of a 3D query per voxel.
package voxel

import (
	"math"
	"slices"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/chazu/meshvox/pkg/kernel"
	"github.com/chazu/meshvox/pkg/zslice"
	"github.com/deadsy/sdfx/sdf"
)

// DefaultSimplifyFraction is the contour simplification tolerance in
// voxels.
const DefaultSimplifyFraction = 0.25

// Config configures a Cursor.
type Config struct {
	// Calibration is the physical size of a voxel on each axis: voxel
	// (x, y, z) has its center at (x*Calibration[0], y*Calibration[1],
	// z*Calibration[2]) in mesh units. Zero means {1, 1, 1}.
	Calibration [3]float64
	// Fraction is the lattice spacing relative to the voxel size. Zero
	// means lattice.DefaultFraction.
	Fraction float64
	// SimplifyFraction is the contour simplification tolerance relative to
	// the X voxel size. Zero means DefaultSimplifyFraction.
	SimplifyFraction float64
	// Bounds replaces the mesh bounding box.
	Bounds *sdf.Box3
}

func (c Config) withDefaults() Config {
	if c.Calibration == [3]float64{} {
		c.Calibration = [3]float64{1, 1, 1}
	}
	if c.SimplifyFraction == 0 {
		c.SimplifyFraction = DefaultSimplifyFraction
	}
	return c
}

func (c Config) validate() error {
	for d, v := range c.Calibration {
		if !(v > 0) || math.IsInf(v, 0) {
			return errors.New("invalid voxel calibration").
				WithTag("axis", d).
				WithTag("calibration", v)
		}
	}
	if c.Fraction < 0 {
		return errors.New("invalid lattice fraction").WithTag("fraction", c.Fraction)
	}
	if c.SimplifyFraction < 0 {
		return errors.New("invalid simplify fraction").WithTag("fraction", c.SimplifyFraction)
	}
	return nil
}

// Cursor walks, Z outer, Y middle and X inner, over the voxels whose center
// lies inside a mesh, moving a RandomAccess to each. A Cursor is not safe
// for concurrent use.
type Cursor[T any] struct {
	ra     RandomAccess[T]
	mesh   kernel.TriMesh
	cfg    Config
	slicer *zslice.Slicer

	min, max   [3]int
	zmin, zmax int
	planes     map[int]*zslice.Slice
	scratch    zslice.Scratch

	ix, iy, iz int
	slice      *zslice.Slice
	xs         []float64
	hasNext    bool
}

// NewCursor returns a cursor over the voxels of m, positioned before the
// first one.
func NewCursor[T any](ra RandomAccess[T], m kernel.TriMesh, cfg Config) (*Cursor[T], error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	slicer, err := newSlicer(m, cfg)
	if err != nil {
		return nil, err
	}
	return newCursor(ra, m, cfg, slicer), nil
}

func newSlicer(m kernel.TriMesh, cfg Config) (*zslice.Slicer, error) {
	slicer, err := zslice.New(m, zslice.Config{
		Scale:    cfg.Calibration[2],
		Fraction: cfg.Fraction,
	})
	if err != nil {
		return nil, errors.New("creating mesh slicer failed").Wrap(err)
	}
	return slicer, nil
}

func newCursor[T any](ra RandomAccess[T], m kernel.TriMesh, cfg Config, slicer *zslice.Slicer) *Cursor[T] {
	bounds := kernel.Bounds(m)
	if cfg.Bounds != nil {
		bounds = *cfg.Bounds
	}
	c := &Cursor[T]{
		ra:     ra,
		mesh:   m,
		cfg:    cfg,
		slicer: slicer,
		zmin:   int(math.Ceil(bounds.Min.Z / cfg.Calibration[2])),
		zmax:   int(math.Floor(bounds.Max.Z / cfg.Calibration[2])),
		planes: make(map[int]*zslice.Slice),
	}
	c.min, c.max = voxelRange(bounds, cfg.Calibration)
	c.Reset()
	return c
}

// voxelRange returns the inclusive range of voxels touching bounds.
func voxelRange(bounds sdf.Box3, cal [3]float64) (lo, hi [3]int) {
	bmin := [3]float64{bounds.Min.X, bounds.Min.Y, bounds.Min.Z}
	bmax := [3]float64{bounds.Max.X, bounds.Max.Y, bounds.Max.Z}
	for d := range 3 {
		lo[d] = int(math.Floor(bmin[d] / cal[d]))
		hi[d] = int(math.Ceil(bmax[d] / cal[d]))
	}
	return lo, hi
}

// Reset moves the cursor back before the first voxel. Cached slices are
// kept.
func (c *Cursor[T]) Reset() {
	c.ix = c.max[0]
	c.iy = c.max[1]
	c.iz = c.min[2] - 1
	c.slice = nil
	c.prefetch()
}

// HasNext reports whether another inside voxel remains.
func (c *Cursor[T]) HasNext() bool {
	return c.hasNext
}

// Fwd moves the accessor to the next inside voxel. It must only be called
// when HasNext returns true.
func (c *Cursor[T]) Fwd() {
	c.ra.SetPosition(c.ix, c.iy, c.iz)
	c.prefetch()
}

// Next moves to the next inside voxel and returns its value.
func (c *Cursor[T]) Next() T {
	c.Fwd()
	return c.Get()
}

// Get returns the value at the current voxel.
func (c *Cursor[T]) Get() T {
	return c.ra.Get()
}

// Set stores v at the current voxel.
func (c *Cursor[T]) Set(v T) {
	c.ra.Set(v)
}

// Position returns the current voxel coordinates.
func (c *Cursor[T]) Position() [3]int {
	return c.ra.Position()
}

// Min returns the smallest voxel coordinate the cursor can visit on each
// axis.
func (c *Cursor[T]) Min() [3]int {
	return c.min
}

// Max returns the largest voxel coordinate the cursor can visit on each
// axis.
func (c *Cursor[T]) Max() [3]int {
	return c.max
}

// Copy returns an independent cursor, positioned before the first voxel,
// over a copy of the mesh and of the accessor.
func (c *Cursor[T]) Copy() *Cursor[T] {
	m := kernel.Clone(c.mesh)
	slicer, err := newSlicer(m, c.cfg)
	if err != nil {
		// The configuration was accepted by NewCursor.
		panic(err)
	}
	return newCursor(c.ra.Copy(), m, c.cfg, slicer)
}

// prefetch finds the next inside voxel after (ix, iy, iz) without moving
// the accessor.
func (c *Cursor[T]) prefetch() {
	c.hasNext = false
	for {
		c.ix++
		if c.ix > c.max[0] && !c.nextRow() {
			return
		}
		if insideRow(c.xs, float64(c.ix)*c.cfg.Calibration[0]) {
			c.hasNext = true
			instrumentVoxel()
			return
		}
	}
}

// nextRow moves to the start of the next row that crosses the mesh.
func (c *Cursor[T]) nextRow() bool {
	for {
		c.ix = c.min[0]
		c.iy++
		if c.iy > c.max[1] || c.slice == nil {
			if !c.nextPlane() {
				return false
			}
			c.iy = c.min[1]
		}

		cal := c.cfg.Calibration[1]
		c.xs = c.slice.XRayCast(float64(c.iy)*cal, cal, c.xs)
		instrumentScanline()
		if len(c.xs) > 0 {
			return true
		}
	}
}

// nextPlane moves to the next plane with a non-empty slice.
func (c *Cursor[T]) nextPlane() bool {
	for c.iz < c.max[2] {
		c.iz++
		if s := c.plane(c.iz); s != nil && !s.IsEmpty() {
			c.slice = s
			return true
		}
	}
	c.slice = nil
	return false
}

// plane returns the simplified slice of voxel plane iz, computing it on
// first use. Planes outside the mesh have no slice.
func (c *Cursor[T]) plane(iz int) *zslice.Slice {
	if iz < c.zmin || iz > c.zmax {
		return nil
	}
	if s, ok := c.planes[iz]; ok {
		return s
	}

	z := float64(iz) * c.cfg.Calibration[2]
	s := zslice.Simplify(
		c.slicer.Slice(&c.scratch, z),
		c.cfg.Calibration[0]*c.cfg.SimplifyFraction,
	)
	c.planes[iz] = s

	logs.WithTag("z", z).
		WithTag("plane", iz).
		WithTag("contours", s.Len()).
		Debug("voxel plane sliced")
	return s
}

// insideRow applies the crossing parity rule to the sorted crossings xs of
// a row. A voxel on a crossing is inside; a row with a single crossing only
// touches the mesh there.
func insideRow(xs []float64, x float64) bool {
	if len(xs) == 1 {
		return x == xs[0]
	}
	i, found := slices.BinarySearch(xs, x)
	return found || i%2 == 1
}
