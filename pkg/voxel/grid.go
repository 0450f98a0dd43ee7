package voxel

// RandomAccess is a movable position into a voxel image.
type RandomAccess[T any] interface {
	SetPosition(x, y, z int)
	Position() [3]int
	Get() T
	Set(v T)
	// Copy returns an independent accessor at the same position.
	Copy() RandomAccess[T]
}

// Accessible is a voxel image that hands out accessors.
type Accessible[T any] interface {
	RandomAccess() RandomAccess[T]
}

// Bounds is a box of voxels: Width cells starting at Origin on each axis.
type Bounds struct {
	Origin, Width [3]int
}

// Contains reports whether the voxel (x, y, z) lies inside b.
func (b Bounds) Contains(x, y, z int) bool {
	return b.Origin[0] <= x && x < b.Origin[0]+b.Width[0] &&
		b.Origin[1] <= y && y < b.Origin[1]+b.Width[1] &&
		b.Origin[2] <= z && z < b.Origin[2]+b.Width[2]
}

// Grid is a dense voxel image stored as a flat slice in X, then Y, then Z
// order. It reads as the zero value outside its bounds and ignores writes
// there.
type Grid[T any] struct {
	Bounds
	Length, Area, Volume int
	Data                 []T
}

// NewGrid returns a zeroed grid covering width voxels from origin.
func NewGrid[T any](origin, width [3]int) *Grid[T] {
	g := &Grid[T]{
		Bounds: Bounds{Origin: origin, Width: width},
		Length: width[0],
		Area:   width[0] * width[1],
		Volume: width[0] * width[1] * width[2],
	}
	g.Data = make([]T, g.Volume)
	return g
}

// Idx returns the index into Data of the voxel (x, y, z). The voxel must
// be inside the grid.
func (g *Grid[T]) Idx(x, y, z int) int {
	return (x - g.Origin[0]) + (y-g.Origin[1])*g.Length + (z-g.Origin[2])*g.Area
}

// IdxCheck returns the index of (x, y, z) and true, or -1 and false when
// the voxel is outside the grid.
func (g *Grid[T]) IdxCheck(x, y, z int) (int, bool) {
	if !g.Contains(x, y, z) {
		return -1, false
	}
	return g.Idx(x, y, z), true
}

// Coords returns the voxel coordinates of a Data index.
func (g *Grid[T]) Coords(idx int) (x, y, z int) {
	x = idx%g.Length + g.Origin[0]
	y = (idx%g.Area)/g.Length + g.Origin[1]
	z = idx/g.Area + g.Origin[2]
	return x, y, z
}

// At returns the value of voxel (x, y, z).
func (g *Grid[T]) At(x, y, z int) T {
	if i, ok := g.IdxCheck(x, y, z); ok {
		return g.Data[i]
	}
	var zero T
	return zero
}

// SetAt stores v at voxel (x, y, z).
func (g *Grid[T]) SetAt(x, y, z int, v T) {
	if i, ok := g.IdxCheck(x, y, z); ok {
		g.Data[i] = v
	}
}

// Count returns the number of voxels for which keep returns true.
func (g *Grid[T]) Count(keep func(T) bool) int {
	n := 0
	for _, v := range g.Data {
		if keep(v) {
			n++
		}
	}
	return n
}

// RandomAccess returns an accessor positioned at the grid origin.
func (g *Grid[T]) RandomAccess() RandomAccess[T] {
	return &gridAccess[T]{grid: g, pos: g.Origin}
}

type gridAccess[T any] struct {
	grid *Grid[T]
	pos  [3]int
}

func (a *gridAccess[T]) SetPosition(x, y, z int) {
	a.pos = [3]int{x, y, z}
}

func (a *gridAccess[T]) Position() [3]int {
	return a.pos
}

func (a *gridAccess[T]) Get() T {
	return a.grid.At(a.pos[0], a.pos[1], a.pos[2])
}

func (a *gridAccess[T]) Set(v T) {
	a.grid.SetAt(a.pos[0], a.pos[1], a.pos[2], v)
}

func (a *gridAccess[T]) Copy() RandomAccess[T] {
	c := *a
	return &c
}
