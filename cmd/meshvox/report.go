package main

import (
	"github.com/chazu/meshvox/pkg/zslice"
	"github.com/deadsy/sdfx/sdf"
)

// Report is the JSON document printed for a scene.
type Report struct {
	Parts  []PartReport `json:"parts"`
	Errors []ErrorData  `json:"errors"`
}

// ErrorData is a JSON-serializable failure of one part or of the scene.
type ErrorData struct {
	Part    string `json:"part,omitempty"`
	Message string `json:"message"`
}

// PartReport describes the mesh and the voxelization of one part.
type PartReport struct {
	Name       string  `json:"name"`
	Vertices   int     `json:"vertices"`
	Triangles  int     `json:"triangles"`
	MeshVolume float64 `json:"meshVolume"`
	Bounds     BoxData `json:"bounds"`

	// Voxels is the number of voxel centers inside the mesh and
	// VoxelVolume their total volume.
	Voxels      int     `json:"voxels"`
	VoxelVolume float64 `json:"voxelVolume"`
	// SurfaceVoxels is the number of voxels the surface passes through;
	// EnclosedVoxels the number of other voxels it walls off from the
	// outside.
	SurfaceVoxels  int `json:"surfaceVoxels"`
	EnclosedVoxels int `json:"enclosedVoxels"`

	Slices []SliceData `json:"slices"`
	Probes []ProbeData `json:"probes"`
}

// BoxData is a JSON-serializable bounding box.
type BoxData struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// SliceData is the cross-section of a part at one plane.
type SliceData struct {
	Z        float64       `json:"z"`
	Contours []ContourData `json:"contours"`
}

// ContourData is one closed outline of a cross-section.
type ContourData struct {
	Points   [][2]float64 `json:"points"`
	Area     float64      `json:"area"`
	Center   [2]float64   `json:"center"`
	Interior bool         `json:"interior"`
}

// ProbeData is the classification of one probe point.
type ProbeData struct {
	Name   string     `json:"name"`
	Point  [3]float64 `json:"point"`
	Inside bool       `json:"inside"`
}

func newBoxData(b sdf.Box3) BoxData {
	return BoxData{
		Min: [3]float64{b.Min.X, b.Min.Y, b.Min.Z},
		Max: [3]float64{b.Max.X, b.Max.Y, b.Max.Z},
	}
}

func newSliceData(s *zslice.Slice) SliceData {
	data := SliceData{
		Z:        s.Z(),
		Contours: make([]ContourData, 0, s.Len()),
	}
	for _, c := range s.Contours() {
		points := make([][2]float64, c.Len())
		for i := range points {
			p := c.Point(i)
			points[i] = [2]float64{p.X, p.Y}
		}
		center := c.Center()
		data.Contours = append(data.Contours, ContourData{
			Points:   points,
			Area:     c.Area(),
			Center:   [2]float64{center.X, center.Y},
			Interior: c.IsInterior(),
		})
	}
	return data
}
