// Package scene is a reference surface service for building navigation
// grids. A scene is a set of tagged horizontal slabs whose footprints are
// indexed in a chipmunk space; vertical probes are answered with the slab top
// they strike first.
package scene

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/jakecoffman/cp"

	"github.com/pdrpinto/surfacenav"
)

// probeTolerance lets a probe that lands exactly on a footprint edge count as
// a hit.
const probeTolerance = 1e-6

// Surface is a horizontal slab with an axis-aligned footprint.
type Surface struct {
	Name string     `yaml:"name" json:"name"`
	Min  [2]float64 `yaml:"min" json:"min"`
	Max  [2]float64 `yaml:"max" json:"max"`
	Top  float64    `yaml:"top" json:"top"`
	Tags []string   `yaml:"tags" json:"tags"`
}

// Definition is the serialisable form of a scene.
type Definition struct {
	Surfaces []Surface `yaml:"surfaces" json:"surfaces"`
}

// Scene answers surface probes against a fixed set of slabs. It is not safe
// for concurrent use because the underlying space locks itself during queries.
type Scene struct {
	space    *cp.Space
	surfaces []Surface
}

var ErrInvalidSurface = errors.New("scene: invalid surface")

// New indexes every surface of the definition.
func New(definition Definition) (*Scene, error) {
	s := &Scene{
		space:    cp.NewSpace(),
		surfaces: make([]Surface, 0, len(definition.Surfaces)),
	}
	for index, surface := range definition.Surfaces {
		if err := validate(surface); err != nil {
			return nil, fmt.Errorf("surface %d (%q): %w", index, surface.Name, err)
		}
		surface.Tags = slices.Clone(surface.Tags)
		s.surfaces = append(s.surfaces, surface)

		bb := cp.BB{L: surface.Min[0], B: surface.Min[1], R: surface.Max[0], T: surface.Max[1]}
		shape := cp.NewBox2(s.space.StaticBody, bb, 0)
		shape.UserData = index
		s.space.AddShape(shape)
	}
	return s, nil
}

func validate(surface Surface) error {
	for axis := 0; axis < 2; axis++ {
		if math.IsNaN(surface.Min[axis]) || math.IsNaN(surface.Max[axis]) || !(surface.Min[axis] < surface.Max[axis]) {
			return fmt.Errorf("%w: empty footprint %v..%v", ErrInvalidSurface, surface.Min, surface.Max)
		}
	}
	if math.IsNaN(surface.Top) || math.IsInf(surface.Top, 0) {
		return fmt.Errorf("%w: top %v", ErrInvalidSurface, surface.Top)
	}
	return nil
}

// Len returns the number of surfaces.
func (s *Scene) Len() int { return len(s.surfaces) }

// Probe reports the first slab top struck travelling from -> to. Only vertical
// probes are supported; any other segment reports no hit. Equal tops resolve
// to the surface defined first.
func (s *Scene) Probe(from, to surfacenav.Vec3) (surfacenav.SurfaceHit, bool) {
	if from.X != to.X || from.Y != to.Y {
		return surfacenav.SurfaceHit{}, false
	}
	low := math.Min(from.Z, to.Z)
	high := math.Max(from.Z, to.Z)

	best := -1
	bestTravel := math.Inf(1)
	point := cp.Vector{X: from.X, Y: from.Y}
	s.space.PointQuery(point, probeTolerance, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ cp.Vector, _ float64, _ interface{}) {
		index, ok := shape.UserData.(int)
		if !ok {
			return
		}
		top := s.surfaces[index].Top
		if top < low || top > high {
			return
		}
		travel := math.Abs(from.Z - top)
		if travel < bestTravel || (travel == bestTravel && index < best) {
			best = index
			bestTravel = travel
		}
	}, nil)

	if best < 0 {
		return surfacenav.SurfaceHit{}, false
	}
	surface := s.surfaces[best]
	return surfacenav.SurfaceHit{
		Position: surfacenav.Vec3{X: from.X, Y: from.Y, Z: surface.Top},
		Tags:     slices.Clone(surface.Tags),
	}, true
}

// Query returns Probe as a surfacenav.SurfaceQuery.
func (s *Scene) Query() surfacenav.SurfaceQuery { return s.Probe }
