package internal

// ReconstructPath rebuilds the path ending at current by following parentOf
// back to start, then returns it in start-to-current order.
func ReconstructPath[NodeType comparable](
	parentOf func(NodeType) (NodeType, bool),
	current NodeType,
	start NodeType,
) []NodeType {
	path := []NodeType{current}
	for current != start {
		previousNode, exists := parentOf(current)
		if !exists {
			break
		}
		path = append(path, previousNode)
		current = previousNode
	}
	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}
