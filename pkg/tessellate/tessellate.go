// Package tessellate builds solids from part descriptions and produces
// triangle meshes using a geometry kernel. One mesh is produced per part.
package tessellate

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chazu/meshvox/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Kind is the primitive shape of a part.
type Kind string

const (
	KindBox      Kind = "box"
	KindSphere   Kind = "sphere"
	KindCylinder Kind = "cylinder"
)

// Part describes one solid, centered on Center.
type Part struct {
	Name string
	Kind Kind

	// Size holds the box edge lengths.
	Size v3.Vec
	// Radius and Height size spheres and Z-aligned cylinders.
	Radius float64
	Height float64
	// Wall, when positive, hollows the part out leaving a shell of this
	// thickness.
	Wall float64

	// Rotation is applied before translation, as Euler angles in degrees.
	Rotation v3.Vec
	Center   v3.Vec
}

// Tessellate produces one triangle mesh per part. Meshes are named after
// their part.
func Tessellate(parts []Part, k kernel.Kernel) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for i, p := range parts {
		s, err := Solid(p, k)
		if err != nil {
			return nil, errors.New("building part solid failed").
				WithTag("part", p.Name).
				WithTag("index", i).
				Wrap(err)
		}

		mesh, err := k.ToMesh(s)
		if err != nil {
			return nil, errors.New("tessellating part failed").
				WithTag("part", p.Name).
				WithTag("index", i).
				Wrap(err)
		}
		mesh.Name = p.Name
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// Solid builds the kernel solid of p.
func Solid(p Part, k kernel.Kernel) (kernel.Solid, error) {
	solid, err := primitive(p, k, 0)
	if err != nil {
		return nil, err
	}

	if p.Wall < 0 {
		return nil, errors.New("negative wall thickness").WithTag("wall", p.Wall)
	}
	if p.Wall > 0 {
		cavity, err := primitive(p, k, p.Wall)
		if err != nil {
			return nil, errors.New("wall leaves no cavity").
				WithTag("wall", p.Wall).
				Wrap(err)
		}
		solid = k.Difference(solid, cavity)
	}

	// Apply rotation first, then translation.
	rot := p.Rotation
	if rot.X != 0 || rot.Y != 0 || rot.Z != 0 {
		solid = k.Rotate(solid, rot.X, rot.Y, rot.Z)
	}

	c := p.Center
	if c.X != 0 || c.Y != 0 || c.Z != 0 {
		solid = k.Translate(solid, c.X, c.Y, c.Z)
	}
	return solid, nil
}

// primitive returns the origin-centered shape of p shrunk by inset on
// every side.
func primitive(p Part, k kernel.Kernel, inset float64) (kernel.Solid, error) {
	switch p.Kind {
	case KindBox:
		size := v3.Vec{X: p.Size.X - 2*inset, Y: p.Size.Y - 2*inset, Z: p.Size.Z - 2*inset}
		if !(size.X > 0 && size.Y > 0 && size.Z > 0) {
			return nil, errors.New("box needs positive edge lengths").
				WithTag("x", size.X).
				WithTag("y", size.Y).
				WithTag("z", size.Z)
		}
		return k.Box(size.X, size.Y, size.Z), nil

	case KindSphere:
		r := p.Radius - inset
		if !(r > 0) {
			return nil, errors.New("sphere needs a positive radius").WithTag("radius", r)
		}
		return k.Sphere(r), nil

	case KindCylinder:
		h, r := p.Height-2*inset, p.Radius-inset
		if !(h > 0 && r > 0) {
			return nil, errors.New("cylinder needs a positive height and radius").
				WithTag("height", h).
				WithTag("radius", r)
		}
		return k.Cylinder(h, r), nil

	default:
		return nil, errors.Newf("unknown part kind %q", p.Kind)
	}
}
