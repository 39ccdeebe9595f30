package surfacenav

import "slices"

const testCellSize = 100.0

// testGrid returns a width x height lattice of nodes at z=0 with coordinates
// starting at (0,0). Every node is walkable except the listed ones.
func testGrid(width, height int, blocked ...GridCoordinate) []Node {
	nodes := make([]Node, 0, width*height)
	for i := 0; i < width; i++ {
		for j := 0; j < height; j++ {
			id := GridCoordinate{I: i, J: j}
			nodes = append(nodes, Node{
				ID:       id,
				Position: cellCenter(id),
				Walkable: !slices.Contains(blocked, id),
			})
		}
	}
	return nodes
}

func cellCenter(id GridCoordinate) Vec3 {
	return Vec3{X: float64(id.I) * testCellSize, Y: float64(id.J) * testCellSize}
}

func walkability(nodes []Node) map[GridCoordinate]bool {
	states := make(map[GridCoordinate]bool, len(nodes))
	for _, node := range nodes {
		states[node.ID] = node.Walkable
	}
	return states
}

// flatFloor answers every vertical probe with a hit at z=0 tagged Walkable,
// except inside the listed columns where the hit is tagged Rock.
func flatFloor(calls *int, rock func(x, y float64) bool) SurfaceQuery {
	return func(from, to Vec3) (SurfaceHit, bool) {
		if calls != nil {
			*calls++
		}
		hit := SurfaceHit{Position: Vec3{X: from.X, Y: from.Y, Z: 0}, Tags: []string{WalkableTag}}
		if rock != nil && rock(from.X, from.Y) {
			hit.Tags = []string{"Rock"}
		}
		return hit, true
	}
}
