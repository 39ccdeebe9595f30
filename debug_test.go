package surfacenav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitGridAndPath(t *testing.T) {
	graph := NewPathGraph(testGrid(3, 3, GridCoordinate{I: 1, J: 1}))

	blocked := 0
	walkable := 0
	var waypoints []int
	sink := DebugSinkFuncs{
		Node: func(node Node) {
			if node.Walkable {
				walkable++
			} else {
				blocked++
			}
		},
		Waypoint: func(index int, node Node) { waypoints = append(waypoints, index) },
	}

	EmitGrid(graph, sink)
	assert.Equal(t, 8, walkable)
	assert.Equal(t, 1, blocked)

	path := graph.FindPath(cellCenter(GridCoordinate{I: 0, J: 0}), cellCenter(GridCoordinate{I: 2, J: 2}))
	EmitPath(path, sink)
	assert.Len(t, waypoints, len(path))
	assert.Equal(t, 0, waypoints[0])

	// A nil sink and a sink with missing callbacks are both fine.
	EmitGrid(graph, nil)
	EmitPath(path, DebugSinkFuncs{})
}
