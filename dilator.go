package surfacenav

// CircularOffsets returns every non-zero offset (dx, dy) with dx*dx+dy*dy <= r*r,
// ordered by dx and then dy. It returns nil for r <= 0.
func CircularOffsets(radius int) []Offset {
	if radius <= 0 {
		return nil
	}
	var offsets []Offset
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if dx*dx+dy*dy <= radius*radius {
				offsets = append(offsets, Offset{DI: dx, DJ: dy})
			}
		}
	}
	return offsets
}

// ThresholdNodes returns the nodes blocked by their surface that touch at
// least one walkable node through CircularOffsets(1). Nodes blocked by an
// earlier dilation are not obstacles and never seed further growth.
func ThresholdNodes(nodes []Node) []Node {
	lookup := indexNodes(nodes)
	immediate := CircularOffsets(1)

	var threshold []Node
	for _, node := range nodes {
		if node.Walkable || node.Dilated {
			continue
		}
		for _, offset := range immediate {
			position, found := lookup[node.ID.Add(offset)]
			if found && nodes[position].Walkable {
				threshold = append(threshold, node)
				break
			}
		}
	}
	return threshold
}

// Dilate marks as blocked every walkable node within radius of a threshold
// node and returns how many nodes it flipped. Threshold nodes are taken from
// the input before any node is flipped. Dilation only flips walkable to
// blocked and every walkable neighbour of an obstacle is flipped on the first
// run, so running it again on its own output changes nothing.
func Dilate(nodes []Node, radius int) int {
	offsets := CircularOffsets(radius)
	if len(offsets) == 0 {
		return 0
	}
	lookup := indexNodes(nodes)

	flipped := 0
	for _, threshold := range ThresholdNodes(nodes) {
		for _, offset := range offsets {
			position, found := lookup[threshold.ID.Add(offset)]
			if !found || !nodes[position].Walkable {
				continue
			}
			nodes[position].Walkable = false
			nodes[position].Dilated = true
			flipped++
		}
	}
	return flipped
}

// indexNodes maps each ID to its slice position. A later duplicate wins.
func indexNodes(nodes []Node) map[GridCoordinate]int {
	lookup := make(map[GridCoordinate]int, len(nodes))
	for position, node := range nodes {
		lookup[node.ID] = position
	}
	return lookup
}
