package surfacenav

import (
	"cmp"
	"math"
	"slices"

	"github.com/pdrpinto/surfacenav/astar"
)

const (
	// StraightMoveCost is the cost of an axis-aligned step.
	StraightMoveCost = 10
	// DiagonalMoveCost approximates sqrt(2) * StraightMoveCost.
	DiagonalMoveCost = 14
)

// GraphOptions defines how a PathGraph connects its nodes.
type GraphOptions struct {
	DiagonalMoves bool
}

// GraphOption is a function that modifies GraphOptions.
type GraphOption func(*GraphOptions)

// WithDiagonalMoves connects every node to all eight surrounding cells instead
// of the four cells of CircularOffsets(1).
func WithDiagonalMoves() GraphOption {
	return func(options *GraphOptions) { options.DiagonalMoves = true }
}

// PathGraph is a read-only, indexed view over a built node set. It is safe for
// concurrent queries.
type PathGraph struct {
	nodes         map[GridCoordinate]Node
	order         []GridCoordinate
	connectivity  []Offset
	walkableCount int
	options       GraphOptions
}

// NewPathGraph indexes nodes by ID. When two nodes share an ID the later one
// wins. The input slice is not retained.
func NewPathGraph(nodes []Node, options ...GraphOption) *PathGraph {
	graphOptions := GraphOptions{}
	for _, option := range options {
		option(&graphOptions)
	}

	graph := &PathGraph{
		nodes:   make(map[GridCoordinate]Node, len(nodes)),
		options: graphOptions,
	}
	for _, node := range nodes {
		graph.nodes[node.ID] = node
	}
	graph.order = make([]GridCoordinate, 0, len(graph.nodes))
	for id, node := range graph.nodes {
		graph.order = append(graph.order, id)
		if node.Walkable {
			graph.walkableCount++
		}
	}
	slices.SortFunc(graph.order, func(a, b GridCoordinate) int {
		if c := cmp.Compare(a.I, b.I); c != 0 {
			return c
		}
		return cmp.Compare(a.J, b.J)
	})

	if graphOptions.DiagonalMoves {
		graph.connectivity = squareOffsets()
	} else {
		graph.connectivity = CircularOffsets(1)
	}
	return graph
}

// Options returns the options the graph was built with.
func (g *PathGraph) Options() GraphOptions { return g.options }

// Len returns the number of nodes, walkable or not.
func (g *PathGraph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

// WalkableCount returns the number of walkable nodes.
func (g *PathGraph) WalkableCount() int {
	if g == nil {
		return 0
	}
	return g.walkableCount
}

// Node looks up a node by grid coordinate.
func (g *PathGraph) Node(id GridCoordinate) (Node, bool) {
	if g == nil {
		return Node{}, false
	}
	node, found := g.nodes[id]
	return node, found
}

// Nodes returns a copy of every node ordered by I and then J.
func (g *PathGraph) Nodes() []Node {
	if g == nil {
		return nil
	}
	nodes := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// NearestWalkableNode returns the walkable node closest to point. Ties keep
// the node that comes first in Nodes order. It reports false when the graph
// has no walkable node.
func (g *PathGraph) NearestWalkableNode(point Vec3) (Node, bool) {
	if g == nil {
		return Node{}, false
	}
	var closest Node
	found := false
	closestDistance := math.Inf(1)
	for _, id := range g.order {
		node := g.nodes[id]
		if !node.Walkable {
			continue
		}
		distance := point.DistanceSquared(node.Position)
		if !found || distance < closestDistance {
			closest = node
			closestDistance = distance
			found = true
		}
	}
	return closest, found
}

// NeighborsOf returns the existing walkable nodes adjacent to id.
func (g *PathGraph) NeighborsOf(id GridCoordinate) []Node {
	if g == nil {
		return nil
	}
	neighbors := make([]Node, 0, len(g.connectivity))
	for _, offset := range g.connectivity {
		neighbor, found := g.nodes[id.Add(offset)]
		if found && neighbor.Walkable {
			neighbors = append(neighbors, neighbor)
		}
	}
	return neighbors
}

// Neighbors implements astar.Graph over grid coordinates.
func (g *PathGraph) Neighbors(id GridCoordinate) []astar.Neighbor[GridCoordinate] {
	neighborNodes := g.NeighborsOf(id)
	neighbors := make([]astar.Neighbor[GridCoordinate], 0, len(neighborNodes))
	for _, node := range neighborNodes {
		neighbors = append(neighbors, astar.Neighbor[GridCoordinate]{
			ID:   node.ID,
			Cost: MoveCost(Offset{DI: node.ID.I - id.I, DJ: node.ID.J - id.J}),
		})
	}
	return neighbors
}

// MoveCost returns StraightMoveCost for axis-aligned steps and
// DiagonalMoveCost otherwise.
func MoveCost(offset Offset) int {
	if offset.AxisAligned() {
		return StraightMoveCost
	}
	return DiagonalMoveCost
}

// ManhattanHeuristic is the grid-index Manhattan distance, unscaled.
func ManhattanHeuristic(from, to GridCoordinate) int {
	return abs(from.I-to.I) + abs(from.J-to.J)
}

func squareOffsets() []Offset {
	offsets := make([]Offset, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			offsets = append(offsets, Offset{DI: dx, DJ: dy})
		}
	}
	return offsets
}
