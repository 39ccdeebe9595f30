package surfacenav

import (
	"errors"

	"github.com/pdrpinto/surfacenav/astar"
)

// FindPath returns the path between the walkable nodes nearest to start and
// goal, or an empty Path when either endpoint cannot be resolved or the goal
// is unreachable.
func (g *PathGraph) FindPath(start, goal Vec3) Path {
	path, _, _ := g.FindPathResult(start, goal)
	return path
}

// FindPathResult is FindPath with the search statistics and the reason for an
// empty path. The error is ErrNoWalkableNode or ErrNoPathFound; neither is a
// fault.
func (g *PathGraph) FindPathResult(start, goal Vec3) (Path, astar.Result[GridCoordinate], error) {
	startNode, goalNode, err := g.resolveEndpoints(start, goal)
	if err != nil {
		return nil, astar.Result[GridCoordinate]{}, err
	}

	result, err := astar.Search[GridCoordinate](g, startNode.ID, goalNode.ID, ManhattanHeuristic)
	if errors.Is(err, astar.ErrNoPath) {
		return nil, result, ErrNoPathFound
	}
	if err != nil {
		return nil, result, err
	}

	path := make(Path, 0, len(result.Path))
	for _, id := range result.Path {
		path = append(path, g.nodes[id])
	}
	return path, result, nil
}

// NewStepper prepares a step-by-step search between the walkable nodes
// nearest to start and goal.
func (g *PathGraph) NewStepper(start, goal Vec3) (*astar.Stepper[GridCoordinate], error) {
	startNode, goalNode, err := g.resolveEndpoints(start, goal)
	if err != nil {
		return nil, err
	}
	return astar.NewStepper[GridCoordinate](g, startNode.ID, goalNode.ID, ManhattanHeuristic), nil
}

func (g *PathGraph) resolveEndpoints(start, goal Vec3) (Node, Node, error) {
	startNode, found := g.NearestWalkableNode(start)
	if !found {
		return Node{}, Node{}, ErrNoWalkableNode
	}
	goalNode, found := g.NearestWalkableNode(goal)
	if !found {
		return Node{}, Node{}, ErrNoWalkableNode
	}
	return startNode, goalNode, nil
}
