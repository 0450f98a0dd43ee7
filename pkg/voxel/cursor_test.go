package voxel

import (
	"math"
	"testing"

	"github.com/chazu/meshvox/pkg/interior"
	"github.com/chazu/meshvox/pkg/kernel"
	"github.com/chazu/meshvox/pkg/kernel/sdfx"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	filled  uint8 = 100
	visited uint8 = 50
)

func cube(lo, hi float64) *kernel.Mesh {
	return kernel.Box(v3.Vec{X: lo, Y: lo, Z: lo}, v3.Vec{X: hi, Y: hi, Z: hi})
}

func hollowCube() *kernel.Mesh {
	inner := cube(15.5, 25.5)
	inner.Flip()
	return kernel.Merge(cube(10.5, 30.5), inner)
}

func fillBox(g *Grid[uint8], lo, hi int, v uint8) {
	for z := lo; z <= hi; z++ {
		for y := lo; y <= hi; y++ {
			for x := lo; x <= hi; x++ {
				g.SetAt(x, y, z, v)
			}
		}
	}
}

// checkCursor walks a cursor over g, which holds filled exactly on the
// voxels expected inside m, and checks that it visits each of them once.
func checkCursor(t *testing.T, g *Grid[uint8], m kernel.TriMesh) int {
	t.Helper()
	want := g.Count(func(v uint8) bool { return v == filled })

	c, err := NewCursor(g.RandomAccess(), m, Config{})
	require.NoError(t, err)

	n := 0
	for c.HasNext() {
		c.Fwd()
		require.Equal(t, filled, c.Get(), "unexpected voxel %v", c.Position())
		c.Set(visited)
		n++
	}
	require.Zero(t, g.Count(func(v uint8) bool { return v == filled }), "voxels left unvisited")
	require.Equal(t, want, n)
	return n
}

// --- Analytic meshes ---

func TestCursorCube(t *testing.T) {
	g := NewGrid[uint8]([3]int{}, [3]int{32, 32, 32})
	fillBox(g, 11, 20, filled)

	assert.Equal(t, 1000, checkCursor(t, g, cube(10.5, 20.5)))
}

func TestCursorSmallCube(t *testing.T) {
	g := NewGrid[uint8]([3]int{}, [3]int{8, 8, 8})
	fillBox(g, 2, 4, filled)

	assert.Equal(t, 27, checkCursor(t, g, cube(1.5, 4.5)))
}

func TestCursorHollowCube(t *testing.T) {
	g := NewGrid[uint8]([3]int{}, [3]int{40, 40, 40})
	fillBox(g, 11, 30, filled)
	fillBox(g, 16, 25, 0)

	assert.Equal(t, 7000, checkCursor(t, g, hollowCube()))
}

func TestCursorSphere(t *testing.T) {
	c := v3.Vec{X: 32.3, Y: 31.7, Z: 30.2}
	const r = 20.0
	g := NewGrid[uint8]([3]int{}, [3]int{64, 64, 64})

	it, err := NewIterable[uint8](g, kernel.Icosphere(c, r, 4), Config{})
	require.NoError(t, err)

	for p := range it.All() {
		d := v3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}.Sub(c).Length()
		require.LessOrEqual(t, d, r+0.1, "%v", p)
		g.SetAt(p[0], p[1], p[2], visited)
	}

	for i, v := range g.Data {
		x, y, z := g.Coords(i)
		d := v3.Vec{X: float64(x), Y: float64(y), Z: float64(z)}.Sub(c).Length()
		if d < r-0.3 {
			require.Equal(t, visited, v, "missed voxel (%d, %d, %d)", x, y, z)
		}
	}
}

func TestCursorRotatedSdfxBox(t *testing.T) {
	k := sdfx.New(sdfx.WithCells(60))
	box := k.Rotate(k.Box(16, 10, 6), 45, 30, 45)
	m, err := k.ToMesh(box)
	require.NoError(t, err)

	cfg := Config{Calibration: [3]float64{0.5, 0.5, 0.7}}
	ext, err := ExtentOf(m, cfg)
	require.NoError(t, err)
	g := NewGrid[bool](ext.Origin, ext.Width)

	c, err := NewCursor(g.RandomAccess(), m, cfg)
	require.NoError(t, err)
	for c.HasNext() {
		c.Fwd()
		c.Set(true)
	}

	tester, err := interior.New(m, interior.Config{Scale: 0.5})
	require.NoError(t, err)
	var s interior.Scratch

	// Marching cubes and contour simplification both move the surface, so
	// voxels near it may go either way.
	const margin = 0.5
	checked := 0
	for i, v := range g.Data {
		x, y, z := g.Coords(i)
		p := v3.Vec{X: float64(x) * 0.5, Y: float64(y) * 0.5, Z: float64(z) * 0.7}
		d := box.Distance(p)
		if math.Abs(d) < margin {
			continue
		}
		checked++
		require.Equal(t, d < 0, v, "voxel %d %d %d at distance %v", x, y, z, d)
		require.Equal(t, tester.Contains(&s, p), v, "voxel %d %d %d at distance %v", x, y, z, d)
	}
	assert.Greater(t, checked, 1000)
	assert.Greater(t, g.Count(func(v bool) bool { return v }), 1000)
}

func TestCursorCalibration(t *testing.T) {
	m := kernel.Box(v3.Vec{X: 1.05, Y: 2.1, Z: 0.55}, v3.Vec{X: 3.05, Y: 6.1, Z: 2.55})
	g := NewGrid[uint8]([3]int{}, [3]int{16, 16, 16})

	c, err := NewCursor(g.RandomAccess(), m, Config{Calibration: [3]float64{0.5, 1, 0.25}})
	require.NoError(t, err)

	n := 0
	for c.HasNext() {
		c.Fwd()
		p := c.Position()
		require.True(t, p[0] >= 3 && p[0] <= 6, "%v", p)
		require.True(t, p[1] >= 3 && p[1] <= 6, "%v", p)
		require.True(t, p[2] >= 3 && p[2] <= 10, "%v", p)
		n++
	}
	assert.Equal(t, 4*4*8, n)
}

func TestCursorScanOrder(t *testing.T) {
	g := NewGrid[uint8]([3]int{}, [3]int{40, 40, 40})
	c, err := NewCursor(g.RandomAccess(), hollowCube(), Config{})
	require.NoError(t, err)

	var last [3]int
	first := true
	for c.HasNext() {
		c.Fwd()
		p := c.Position()
		if !first {
			require.True(t, zyxLess(last, p), "%v after %v", p, last)
		}
		last, first = p, false
	}
}

func zyxLess(a, b [3]int) bool {
	if a[2] != b[2] {
		return a[2] < b[2]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[0] < b[0]
}

func TestCursorEmpty(t *testing.T) {
	g := NewGrid[uint8]([3]int{}, [3]int{16, 16, 16})
	m := cube(10.1, 10.4)

	c, err := NewCursor(g.RandomAccess(), m, Config{})
	require.NoError(t, err)
	assert.False(t, c.HasNext())

	it, err := NewIterable[uint8](g, m, Config{})
	require.NoError(t, err)
	assert.Zero(t, it.Size())
	_, ok := it.First()
	assert.False(t, ok)
}

// --- Traversal contract ---

func positions(c *Cursor[uint8], limit int) [][3]int {
	var ps [][3]int
	for c.HasNext() && len(ps) < limit {
		c.Fwd()
		ps = append(ps, c.Position())
	}
	return ps
}

func TestCursorReset(t *testing.T) {
	g := NewGrid[uint8]([3]int{}, [3]int{32, 32, 32})
	c, err := NewCursor(g.RandomAccess(), cube(10.5, 20.5), Config{})
	require.NoError(t, err)

	all := positions(c, math.MaxInt)
	require.Len(t, all, 1000)
	assert.Equal(t, [3]int{11, 11, 11}, all[0])
	assert.Equal(t, [3]int{20, 20, 20}, all[len(all)-1])
	assert.False(t, c.HasNext())

	c.Reset()
	assert.Equal(t, all[:10], positions(c, 10))
	c.Reset()
	assert.Equal(t, all, positions(c, math.MaxInt))
}

func TestCursorCopy(t *testing.T) {
	g := NewGrid[uint8]([3]int{}, [3]int{32, 32, 32})
	fillBox(g, 11, 20, filled)
	c, err := NewCursor(g.RandomAccess(), cube(10.5, 20.5), Config{})
	require.NoError(t, err)

	head := positions(c, 5)
	cp := c.Copy()
	assert.Equal(t, head[len(head)-1], c.Position())

	assert.Equal(t, head, positions(cp, 5))
	assert.Equal(t, head[len(head)-1], c.Position())

	rest := positions(c, math.MaxInt)
	assert.Len(t, rest, 995)
	assert.Len(t, positions(cp, math.MaxInt), 995)

	cp.Set(visited)
	assert.Equal(t, visited, g.At(20, 20, 20))
}

func TestCursorNext(t *testing.T) {
	g := NewGrid[uint8]([3]int{}, [3]int{8, 8, 8})
	fillBox(g, 2, 4, filled)
	c, err := NewCursor(g.RandomAccess(), cube(1.5, 4.5), Config{})
	require.NoError(t, err)

	for c.HasNext() {
		require.Equal(t, filled, c.Next())
	}
}

func TestCursorBoundsOverride(t *testing.T) {
	g := NewGrid[uint8]([3]int{}, [3]int{32, 32, 32})
	bounds := sdf.Box3{Min: v3.Vec{X: 10.5, Y: 10.5, Z: 10.5}, Max: v3.Vec{X: 20.5, Y: 20.5, Z: 15.5}}

	c, err := NewCursor(g.RandomAccess(), cube(10.5, 20.5), Config{Bounds: &bounds})
	require.NoError(t, err)
	assert.Equal(t, [3]int{10, 10, 10}, c.Min())
	assert.Equal(t, [3]int{21, 21, 16}, c.Max())
	assert.Len(t, positions(c, math.MaxInt), 500)
}

func TestCursorMetrics(t *testing.T) {
	g := NewGrid[uint8]([3]int{}, [3]int{32, 32, 32})
	voxels := testutil.ToFloat64(voxelsVisited)
	rows := testutil.ToFloat64(scanlines)

	c, err := NewCursor(g.RandomAccess(), cube(10.5, 20.5), Config{})
	require.NoError(t, err)
	positions(c, math.MaxInt)

	assert.Equal(t, 1000.0, testutil.ToFloat64(voxelsVisited)-voxels)
	assert.Equal(t, 10.0*12, testutil.ToFloat64(scanlines)-rows)
}

func TestNewCursorRejectsBadConfig(t *testing.T) {
	g := NewGrid[uint8]([3]int{}, [3]int{1, 1, 1})
	for _, cfg := range []Config{
		{Calibration: [3]float64{1, -1, 1}},
		{Calibration: [3]float64{1, 1, math.NaN()}},
		{Calibration: [3]float64{math.Inf(1), 1, 1}},
		{Fraction: -1},
		{SimplifyFraction: -0.5},
	} {
		_, err := NewCursor(g.RandomAccess(), cube(0, 1), cfg)
		assert.Error(t, err, "%+v", cfg)

		_, err = NewIterable[uint8](g, cube(0, 1), cfg)
		assert.Error(t, err, "%+v", cfg)
	}
}

// --- Iterable ---

func TestIterable(t *testing.T) {
	g := NewGrid[uint8]([3]int{}, [3]int{32, 32, 32})
	fillBox(g, 11, 20, filled)
	it, err := NewIterable[uint8](g, cube(10.5, 20.5), Config{})
	require.NoError(t, err)

	assert.Equal(t, 1000, it.Size())
	assert.Equal(t, 1000, it.Size())
	for d := range 3 {
		assert.Equal(t, 11, it.Min(d))
		assert.Equal(t, 21, it.Max(d))
	}

	ext := Bounds{Origin: [3]int{10, 10, 10}, Width: [3]int{12, 12, 12}}
	assert.Equal(t, ext, it.Extent())
	got, err := ExtentOf(cube(10.5, 20.5), Config{})
	require.NoError(t, err)
	assert.Equal(t, ext, got)
	_, err = ExtentOf(cube(10.5, 20.5), Config{Calibration: [3]float64{0, 0, -1}})
	assert.Error(t, err)

	v, ok := it.First()
	require.True(t, ok)
	assert.Equal(t, filled, v)

	n := 0
	for p, v := range it.All() {
		assert.Equal(t, filled, v, "%v", p)
		n++
		if n == 10 {
			break
		}
	}
	assert.Equal(t, 10, n)

	a, b := it.Cursor(), it.Cursor()
	assert.Equal(t, positions(a, 3), positions(b, 3))
}

// --- Row membership ---

func TestInsideRow(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		x    float64
		want bool
	}{
		{name: "single crossing elsewhere", xs: []float64{2}, x: 3, want: false},
		{name: "single crossing hit", xs: []float64{2}, x: 2, want: true},
		{name: "before", xs: []float64{1, 4}, x: 0, want: false},
		{name: "between", xs: []float64{1, 4}, x: 2, want: true},
		{name: "after", xs: []float64{1, 4}, x: 5, want: false},
		{name: "on crossing", xs: []float64{1, 4}, x: 4, want: true},
		{name: "cavity", xs: []float64{1, 2, 3, 4}, x: 2.5, want: false},
		{name: "wall", xs: []float64{1, 2, 3, 4}, x: 3.5, want: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, insideRow(test.xs, test.x))
		})
	}
}
