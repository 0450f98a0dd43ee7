package raytri

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A triangle in the plane x = 2.
var (
	p0 = v3.Vec{X: 2, Y: 0, Z: 0}
	p1 = v3.Vec{X: 2, Y: 1, Z: 0}
	p2 = v3.Vec{X: 2, Y: 0, Z: 1}
)

func TestIntersect(t *testing.T) {
	tests := []struct {
		name  string
		o     v3.Vec
		d     v3.Vec
		hit   bool
		wantT float64
	}{
		{name: "through interior", o: v3.Vec{Y: 0.2, Z: 0.2}, d: PlusX, hit: true, wantT: 2},
		{name: "from behind", o: v3.Vec{X: 3, Y: 0.2, Z: 0.2}, d: PlusX, hit: false},
		{name: "misses beside", o: v3.Vec{Y: 0.8, Z: 0.8}, d: PlusX, hit: false},
		{name: "negative barycentric", o: v3.Vec{Y: -0.1, Z: 0.2}, d: PlusX, hit: false},
		{name: "parallel", o: v3.Vec{Y: 0.2, Z: 0.2}, d: v3.Vec{Y: 1}, hit: false},
		{name: "on the vertex", o: v3.Vec{}, d: PlusX, hit: true, wantT: 2},
		{name: "on the hypotenuse", o: v3.Vec{Y: 0.5, Z: 0.5}, d: PlusX, hit: true, wantT: 2},
		{name: "origin on triangle", o: v3.Vec{X: 2, Y: 0.2, Z: 0.2}, d: PlusX, hit: false},
		{name: "scaled direction", o: v3.Vec{Y: 0.2, Z: 0.2}, d: v3.Vec{X: 2}, hit: true, wantT: 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := Intersect(test.o, test.d, p0, p1, p2, DefaultPrecision)
			require.Equal(t, test.hit, ok)
			if test.hit {
				assert.InDelta(t, test.wantT, got, 1e-12)
			}
		})
	}
}

func TestIntersectIgnoresWinding(t *testing.T) {
	o := v3.Vec{Y: 0.25, Z: 0.25}
	a, okA := Intersect(o, PlusX, p0, p1, p2, DefaultPrecision)
	b, okB := Intersect(o, PlusX, p0, p2, p1, DefaultPrecision)
	require.True(t, okA)
	require.True(t, okB)
	assert.InDelta(t, a, b, 1e-12)
}

func TestSharedEdgeHitsBothTriangles(t *testing.T) {
	// Two triangles of the x = 2 square sharing the diagonal (0,1)-(1,0).
	q := v3.Vec{X: 2, Y: 1, Z: 1}
	o := v3.Vec{Y: 0.3, Z: 0.7}

	_, okA := Intersect(o, PlusX, p0, p1, p2, DefaultPrecision)
	_, okB := Intersect(o, PlusX, p1, q, p2, DefaultPrecision)
	assert.True(t, okA)
	assert.True(t, okB)
}

func TestIntersectX(t *testing.T) {
	x, ok := IntersectX(v3.Vec{X: -1, Y: 0.1, Z: 0.1}, p0, p1, p2, DefaultPrecision)
	require.True(t, ok)
	assert.InDelta(t, 2, x, 1e-12)

	_, ok = IntersectX(v3.Vec{X: 5, Y: 0.1, Z: 0.1}, p0, p1, p2, DefaultPrecision)
	assert.False(t, ok)
}
