package surfacenav

import (
	"errors"
	"fmt"
)

// GridCoordinate identifies a lattice cell. It is the stable key of a node in
// every map, including search back-references.
type GridCoordinate struct {
	I int `json:"i" yaml:"i"`
	J int `json:"j" yaml:"j"`
}

// Add returns the coordinate shifted by offset.
func (c GridCoordinate) Add(offset Offset) GridCoordinate {
	return GridCoordinate{I: c.I + offset.DI, J: c.J + offset.DJ}
}

func (c GridCoordinate) String() string { return fmt.Sprintf("(%d,%d)", c.I, c.J) }

// Offset is a displacement between two grid coordinates.
type Offset struct {
	DI int
	DJ int
}

// AxisAligned reports whether the offset is a single horizontal or vertical step.
func (o Offset) AxisAligned() bool { return abs(o.DI)+abs(o.DJ) == 1 }

// Vec3 is a point in world space.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func (v Vec3) Add(other Vec3) Vec3 { return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z} }

// DistanceSquared returns the squared Euclidean distance between v and other.
func (v Vec3) DistanceSquared(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

func (v Vec3) String() string { return fmt.Sprintf("(%g,%g,%g)", v.X, v.Y, v.Z) }

// Node is a sampled point on the navigable surface.
type Node struct {
	ID       GridCoordinate `json:"id"`
	Position Vec3           `json:"position"`
	Walkable bool           `json:"walkable"`
	// Dilated is set when Walkable was cleared by the obstacle buffer rather
	// than by the surface tags.
	Dilated bool `json:"dilated,omitempty"`
}

// Path is an ordered start-to-goal sequence of node snapshots. An empty Path
// means no path exists.
type Path []Node

// Waypoints returns the world positions of the path in order.
func (p Path) Waypoints() []Vec3 {
	if len(p) == 0 {
		return nil
	}
	waypoints := make([]Vec3, len(p))
	for index, node := range p {
		waypoints[index] = node.Position
	}
	return waypoints
}

var (
	// ErrEmptyRegion means sampling produced no candidates or projection
	// produced no nodes, so there is no navigation surface.
	ErrEmptyRegion = errors.New("surfacenav: region produced no navigation nodes")
	// ErrNoWalkableNode means a query endpoint could not be resolved to a
	// walkable node.
	ErrNoWalkableNode = errors.New("surfacenav: no walkable node")
	// ErrNoPathFound means the search exhausted its open set before reaching
	// the goal.
	ErrNoPathFound = errors.New("surfacenav: no path found")
)

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
