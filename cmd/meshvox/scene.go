package main

import (
	"slices"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chazu/meshvox/pkg/kernel"
	"github.com/chazu/meshvox/pkg/tessellate"
	"github.com/chazu/meshvox/pkg/voxel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gopkg.in/gcfg.v1"
)

// ExampleSceneFile documents the scene file format.
const ExampleSceneFile = `# Voxel size along each axis, in mesh units.
[Grid]
CalX = 1
CalY = 1
CalZ = 1
# Contour simplification tolerance, in voxels.
Simplify = 0.25

# Marching cubes resolution along the longest axis of each part.
[Mesh]
Cells = 80
WeldPrecision = 5

# Planes to report cross-sections for. Repeat Z for more planes.
[Slices]
Z = 0
Z = 2.5

# One section per part. Kind is one of box, sphere or cylinder.
[Part "shell"]
Kind = sphere
Radius = 10
Wall = 3
X = 0
Y = 0
Z = 0

[Part "plate"]
Kind = box
XWidth = 20
YWidth = 10
ZWidth = 2
RotZ = 30
Z = 20

# Points to classify against every part.
[Probe "center"]
X = 0
Y = 0
Z = 0`

type gridConfig struct {
	CalX, CalY, CalZ float64
	Simplify         float64
	Fraction         float64
}

type meshConfig struct {
	Cells         int
	WeldPrecision int
}

type slicesConfig struct {
	Z []float64
}

type partConfig struct {
	Kind string

	X, Y, Z                float64
	XWidth, YWidth, ZWidth float64
	Radius, Height, Wall   float64
	RotX, RotY, RotZ       float64
}

type probeConfig struct {
	X, Y, Z float64
}

type scene struct {
	Grid   gridConfig
	Mesh   meshConfig
	Slices slicesConfig
	Part   map[string]*partConfig
	Probe  map[string]*probeConfig
}

func defaultScene() *scene {
	return &scene{
		Grid: gridConfig{CalX: 1, CalY: 1, CalZ: 1},
		Mesh: meshConfig{
			Cells:         80,
			WeldPrecision: kernel.DefaultWeldPrecision,
		},
	}
}

// readScene parses the scene file at path on top of the defaults.
func readScene(path string) (*scene, error) {
	sc := defaultScene()
	if err := gcfg.ReadFileInto(sc, path); err != nil {
		return nil, errors.New("reading scene file failed").
			WithTag("path", path).
			Wrap(err)
	}
	if err := sc.validate(); err != nil {
		return nil, errors.New("invalid scene file").
			WithTag("path", path).
			Wrap(err)
	}
	return sc, nil
}

// parseScene parses scene text on top of the defaults.
func parseScene(text string) (*scene, error) {
	sc := defaultScene()
	if err := gcfg.ReadStringInto(sc, text); err != nil {
		return nil, errors.New("parsing scene failed").Wrap(err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *scene) validate() error {
	if sc.Mesh.Cells <= 0 {
		return errors.New("mesh cells must be positive").WithTag("cells", sc.Mesh.Cells)
	}
	if sc.Mesh.WeldPrecision < 0 {
		return errors.New("weld precision must not be negative").
			WithTag("precision", sc.Mesh.WeldPrecision)
	}
	for name, p := range sc.Part {
		switch tessellate.Kind(strings.ToLower(p.Kind)) {
		case tessellate.KindBox, tessellate.KindSphere, tessellate.KindCylinder:
		default:
			return errors.Newf("part %q has unknown kind %q", name, p.Kind)
		}
	}
	return nil
}

// voxelConfig returns the voxelization settings of the scene.
func (sc *scene) voxelConfig() voxel.Config {
	return voxel.Config{
		Calibration:      [3]float64{sc.Grid.CalX, sc.Grid.CalY, sc.Grid.CalZ},
		Fraction:         sc.Grid.Fraction,
		SimplifyFraction: sc.Grid.Simplify,
	}
}

// parts returns the scene parts sorted by name.
func (sc *scene) parts() []tessellate.Part {
	names := make([]string, 0, len(sc.Part))
	for name := range sc.Part {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]tessellate.Part, 0, len(names))
	for _, name := range names {
		p := sc.Part[name]
		parts = append(parts, tessellate.Part{
			Name:     name,
			Kind:     tessellate.Kind(strings.ToLower(p.Kind)),
			Size:     v3.Vec{X: p.XWidth, Y: p.YWidth, Z: p.ZWidth},
			Radius:   p.Radius,
			Height:   p.Height,
			Wall:     p.Wall,
			Rotation: v3.Vec{X: p.RotX, Y: p.RotY, Z: p.RotZ},
			Center:   v3.Vec{X: p.X, Y: p.Y, Z: p.Z},
		})
	}
	return parts
}

type probe struct {
	name string
	p    v3.Vec
}

// probes returns the scene probes sorted by name.
func (sc *scene) probes() []probe {
	probes := make([]probe, 0, len(sc.Probe))
	for name, p := range sc.Probe {
		probes = append(probes, probe{name: name, p: v3.Vec{X: p.X, Y: p.Y, Z: p.Z}})
	}
	slices.SortFunc(probes, func(a, b probe) int {
		return strings.Compare(a.name, b.name)
	})
	return probes
}
