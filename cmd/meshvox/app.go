package main

import (
	"context"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/chazu/meshvox/pkg/interior"
	"github.com/chazu/meshvox/pkg/kernel"
	"github.com/chazu/meshvox/pkg/kernel/sdfx"
	"github.com/chazu/meshvox/pkg/tessellate"
	"github.com/chazu/meshvox/pkg/voxel"
	"github.com/chazu/meshvox/pkg/zslice"
)

// cancelCheckInterval is the number of voxels visited between context
// checks.
const cancelCheckInterval = 1 << 12

// App tessellates the parts of a scene and measures them.
type App struct {
	kernel kernel.Kernel
}

// NewApp creates an App with an sdfx kernel configured by the scene.
func NewApp(sc *scene) *App {
	return &App{
		kernel: sdfx.New(
			sdfx.WithCells(sc.Mesh.Cells),
			sdfx.WithWeldPrecision(sc.Mesh.WeldPrecision),
		),
	}
}

// Evaluate builds every part of the scene and reports its mesh, slices,
// probe classifications and voxel counts. Failures are reported in the
// result rather than returned.
func (a *App) Evaluate(ctx context.Context, sc *scene) Report {
	result := Report{
		Parts:  []PartReport{},
		Errors: []ErrorData{},
	}

	// Step 1: Tessellate the scene parts into triangle meshes.
	meshes, err := tessellate.Tessellate(sc.parts(), a.kernel)
	if err != nil {
		logs.Warn(err)
		result.Errors = append(result.Errors, ErrorData{
			Message: err.Error(),
		})
		return result
	}

	// Step 2: Measure each mesh.
	for _, m := range meshes {
		part, err := a.measure(ctx, sc, m)
		if err != nil {
			logs.Warn(errors.New("measuring part failed").
				WithTag("part", m.Name).
				Wrap(err))
			result.Errors = append(result.Errors, ErrorData{
				Part:    m.Name,
				Message: err.Error(),
			})
			if ctx.Err() != nil {
				break
			}
			continue
		}
		result.Parts = append(result.Parts, part)
	}

	return result
}

func (a *App) measure(ctx context.Context, sc *scene, m *kernel.Mesh) (PartReport, error) {
	cfg := sc.voxelConfig()
	part := PartReport{
		Name:       m.Name,
		Vertices:   m.VertexCount(),
		Triangles:  m.TriangleCount(),
		MeshVolume: m.Volume(),
		Bounds:     newBoxData(m.BoundingBox()),
		Slices:     []SliceData{},
		Probes:     []ProbeData{},
	}

	tester, err := interior.New(m, interior.Config{
		Scale:    max(cfg.Calibration[0], cfg.Calibration[1], cfg.Calibration[2]),
		Fraction: cfg.Fraction,
	})
	if err != nil {
		return part, errors.New("creating point tester failed").Wrap(err)
	}
	var ts interior.Scratch
	for _, p := range sc.probes() {
		part.Probes = append(part.Probes, ProbeData{
			Name:   p.name,
			Point:  [3]float64{p.p.X, p.p.Y, p.p.Z},
			Inside: tester.Contains(&ts, p.p),
		})
	}

	if len(sc.Slices.Z) > 0 {
		slicer, err := zslice.New(m, zslice.Config{
			Scale:    cfg.Calibration[2],
			Fraction: cfg.Fraction,
		})
		if err != nil {
			return part, errors.New("creating slicer failed").Wrap(err)
		}
		var ss zslice.Scratch
		for _, s := range slicer.Slices(&ss, sc.Slices.Z) {
			part.Slices = append(part.Slices, newSliceData(s))
		}
	}

	if part.Voxels, err = countVoxels(ctx, m, cfg); err != nil {
		return part, err
	}
	part.VoxelVolume = float64(part.Voxels) * cfg.Calibration[0] * cfg.Calibration[1] * cfg.Calibration[2]

	if part.SurfaceVoxels, part.EnclosedVoxels, err = countShell(m, cfg); err != nil {
		return part, err
	}

	logs.WithTag("part", part.Name).
		WithTag("triangles", part.Triangles).
		WithTag("voxels", part.Voxels).
		Info("part measured")
	return part, nil
}

// countVoxels walks the voxels whose center is inside m.
func countVoxels(ctx context.Context, m *kernel.Mesh, cfg voxel.Config) (int, error) {
	ext, err := voxel.ExtentOf(m, cfg)
	if err != nil {
		return 0, errors.New("sizing voxel grid failed").Wrap(err)
	}
	grid := voxel.NewGrid[uint8](ext.Origin, ext.Width)

	it, err := voxel.NewIterable[uint8](grid, m, cfg)
	if err != nil {
		return 0, errors.New("creating voxel iterable failed").Wrap(err)
	}

	n := 0
	for c := it.Cursor(); c.HasNext(); {
		c.Fwd()
		c.Set(1)
		n++
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return n, errors.New("voxelization interrupted").
					WithTag("voxels", n).
					Wrap(err)
			}
		}
	}
	return n, nil
}

// countShell rasterizes the surface of m and flood fills the outside from
// a corner of a grid padded by one voxel. Voxels neither on the surface
// nor reached from outside are enclosed.
func countShell(m *kernel.Mesh, cfg voxel.Config) (surface, enclosed int, err error) {
	ext, err := voxel.ExtentOf(m, cfg)
	if err != nil {
		return 0, 0, errors.New("sizing voxel grid failed").Wrap(err)
	}
	origin := [3]int{ext.Origin[0] - 1, ext.Origin[1] - 1, ext.Origin[2] - 1}
	width := [3]int{ext.Width[0] + 2, ext.Width[1] + 2, ext.Width[2] + 2}

	const (
		empty uint8 = iota
		wall
		outside
	)
	grid := voxel.NewGrid[uint8](origin, width)
	if _, err := voxel.Rasterize(grid, m, cfg, wall); err != nil {
		return 0, 0, errors.New("rasterizing surface failed").Wrap(err)
	}
	surface = grid.Count(func(v uint8) bool { return v == wall })

	voxel.FloodFill(grid, origin, func(v uint8) bool { return v == empty }, outside)
	enclosed = grid.Count(func(v uint8) bool { return v == empty })
	return surface, enclosed, nil
}
