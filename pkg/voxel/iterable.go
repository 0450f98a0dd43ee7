package voxel

import (
	"iter"
	"math"

	"github.com/chazu/meshvox/pkg/kernel"
	"github.com/chazu/meshvox/pkg/zslice"
	"github.com/deadsy/sdfx/sdf"
)

// Iterable is the set of voxels of an image that lie inside a mesh. Every
// Cursor it returns walks the set from the start, independently of the
// others.
type Iterable[T any] struct {
	image  Accessible[T]
	mesh   kernel.TriMesh
	cfg    Config
	bounds sdf.Box3
	slicer *zslice.Slicer
}

// NewIterable returns the voxels of image inside m. The image must accept
// positions over the whole bounding box of m.
func NewIterable[T any](image Accessible[T], m kernel.TriMesh, cfg Config) (*Iterable[T], error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	slicer, err := newSlicer(m, cfg)
	if err != nil {
		return nil, err
	}

	bounds := kernel.Bounds(m)
	if cfg.Bounds != nil {
		bounds = *cfg.Bounds
	}
	cfg.Bounds = &bounds

	return &Iterable[T]{
		image:  image,
		mesh:   m,
		cfg:    cfg,
		bounds: bounds,
		slicer: slicer,
	}, nil
}

// Cursor returns a new cursor positioned before the first voxel.
func (it *Iterable[T]) Cursor() *Cursor[T] {
	return newCursor(it.image.RandomAccess(), it.mesh, it.cfg, it.slicer)
}

// First returns the value of the first voxel, or false when no voxel
// center lies inside the mesh.
func (it *Iterable[T]) First() (T, bool) {
	c := it.Cursor()
	if !c.HasNext() {
		var zero T
		return zero, false
	}
	return c.Next(), true
}

// Size returns the number of voxels. It walks the whole set.
func (it *Iterable[T]) Size() int {
	n := 0
	for c := it.Cursor(); c.HasNext(); c.Fwd() {
		n++
	}
	return n
}

// Min returns the mesh bounding box minimum on axis d, in voxels.
func (it *Iterable[T]) Min(d int) int {
	return int(math.Round(axis(it.bounds.Min.X, it.bounds.Min.Y, it.bounds.Min.Z, d) / it.cfg.Calibration[d]))
}

// Max returns the mesh bounding box maximum on axis d, in voxels.
func (it *Iterable[T]) Max(d int) int {
	return int(math.Round(axis(it.bounds.Max.X, it.bounds.Max.Y, it.bounds.Max.Z, d) / it.cfg.Calibration[d]))
}

// Extent returns the box of voxels its cursors may visit.
func (it *Iterable[T]) Extent() Bounds {
	return extent(it.bounds, it.cfg.Calibration)
}

// ExtentOf returns the box of voxels a cursor over m may visit, so that a
// Grid covering it can be allocated before the cursor.
func ExtentOf(m kernel.TriMesh, cfg Config) (Bounds, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return Bounds{}, err
	}
	bounds := kernel.Bounds(m)
	if cfg.Bounds != nil {
		bounds = *cfg.Bounds
	}
	return extent(bounds, cfg.Calibration), nil
}

func extent(bounds sdf.Box3, cal [3]float64) Bounds {
	lo, hi := voxelRange(bounds, cal)
	return Bounds{
		Origin: lo,
		Width:  [3]int{hi[0] - lo[0] + 1, hi[1] - lo[1] + 1, hi[2] - lo[2] + 1},
	}
}

// All iterates over the position and value of every voxel.
func (it *Iterable[T]) All() iter.Seq2[[3]int, T] {
	return func(yield func([3]int, T) bool) {
		for c := it.Cursor(); c.HasNext(); {
			v := c.Next()
			if !yield(c.Position(), v) {
				return
			}
		}
	}
}

func axis(x, y, z float64, d int) float64 {
	switch d {
	case 0:
		return x
	case 1:
		return y
	default:
		return z
	}
}
