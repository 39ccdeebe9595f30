package vizserver

import (
	"cmp"
	"slices"

	"github.com/pdrpinto/surfacenav"
)

const (
	typeGrid  = "grid"
	typeStep  = "step"
	typePath  = "path"
	typeError = "error"
)

// Node states as drawn by the page.
const (
	stateWalkable = "walkable"
	stateBlocked  = "blocked"
	stateBuffer   = "buffer"
)

type pathRequest struct {
	Type string     `json:"type"`
	From [3]float64 `json:"from"`
	To   [3]float64 `json:"to"`
}

type nodeView struct {
	I     int        `json:"i"`
	J     int        `json:"j"`
	Pos   [3]float64 `json:"pos"`
	State string     `json:"state"`
}

type gridMessage struct {
	Type   string                 `json:"type"`
	Result surfacenav.BuildResult `json:"result"`
	Nodes  []nodeView             `json:"nodes"`
}

type stepMessage struct {
	Type    string   `json:"type"`
	Step    int      `json:"step"`
	Current [2]int   `json:"current"`
	Open    [][2]int `json:"open"`
	Closed  [][2]int `json:"closed"`
	Done    bool     `json:"done"`
	Found   bool     `json:"found"`
}

type pathMessage struct {
	Type      string       `json:"type"`
	Found     bool         `json:"found"`
	TotalCost int          `json:"total_cost"`
	Cells     [][2]int     `json:"cells"`
	Waypoints [][3]float64 `json:"waypoints"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newGridMessage(graph *surfacenav.PathGraph, result surfacenav.BuildResult) gridMessage {
	message := gridMessage{Type: typeGrid, Result: result, Nodes: make([]nodeView, 0, graph.Len())}
	surfacenav.EmitGrid(graph, surfacenav.DebugSinkFuncs{
		Node: func(node surfacenav.Node) {
			message.Nodes = append(message.Nodes, nodeView{
				I:     node.ID.I,
				J:     node.ID.J,
				Pos:   vecToArray(node.Position),
				State: nodeState(node),
			})
		},
	})
	return message
}

func nodeState(node surfacenav.Node) string {
	switch {
	case node.Walkable:
		return stateWalkable
	case node.Dilated:
		return stateBuffer
	default:
		return stateBlocked
	}
}

func newPathMessage(path surfacenav.Path, totalCost int) pathMessage {
	message := pathMessage{
		Type:      typePath,
		Found:     len(path) > 0,
		TotalCost: totalCost,
		Cells:     make([][2]int, 0, len(path)),
		Waypoints: make([][3]float64, 0, len(path)),
	}
	surfacenav.EmitPath(path, surfacenav.DebugSinkFuncs{
		Waypoint: func(_ int, node surfacenav.Node) {
			message.Cells = append(message.Cells, cellOf(node.ID))
			message.Waypoints = append(message.Waypoints, vecToArray(node.Position))
		},
	})
	return message
}

func cellOf(id surfacenav.GridCoordinate) [2]int { return [2]int{id.I, id.J} }

// setToCells lists the members of set ordered by I and then J.
func setToCells(set map[surfacenav.GridCoordinate]bool) [][2]int {
	cells := make([][2]int, 0, len(set))
	for id, member := range set {
		if member {
			cells = append(cells, cellOf(id))
		}
	}
	slices.SortFunc(cells, func(a, b [2]int) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})
	return cells
}

func vecToArray(v surfacenav.Vec3) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func arrayToVec(a [3]float64) surfacenav.Vec3 { return surfacenav.Vec3{X: a[0], Y: a[1], Z: a[2]} }
