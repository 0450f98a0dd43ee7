package lattice

import "fmt"

// EdgeID identifies an undirected mesh edge by its two vertex indices. The
// smaller index occupies the high 32 bits.
type EdgeID uint64

// NewEdgeID returns the key for the edge between v1 and v2 in either order.
func NewEdgeID(v1, v2 uint32) EdgeID {
	if v2 < v1 {
		v1, v2 = v2, v1
	}
	return EdgeID(uint64(v1)<<32 | uint64(v2))
}

// V1 returns the smaller vertex index.
func (e EdgeID) V1() uint32 {
	return uint32(e >> 32)
}

// V2 returns the larger vertex index.
func (e EdgeID) V2() uint32 {
	return uint32(e)
}

func (e EdgeID) String() string {
	return fmt.Sprintf("E: (%d -> %d)", e.V1(), e.V2())
}
