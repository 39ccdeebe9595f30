package surfacenav

// DebugSink receives nodes and waypoints for visualisation. It has no effect
// on builds or queries.
type DebugSink interface {
	OnNode(node Node)
	OnWaypoint(index int, node Node)
}

// DebugSinkFuncs adapts plain functions to DebugSink. Nil fields are skipped.
type DebugSinkFuncs struct {
	Node     func(node Node)
	Waypoint func(index int, node Node)
}

func (f DebugSinkFuncs) OnNode(node Node) {
	if f.Node != nil {
		f.Node(node)
	}
}

func (f DebugSinkFuncs) OnWaypoint(index int, node Node) {
	if f.Waypoint != nil {
		f.Waypoint(index, node)
	}
}

// EmitGrid reports every node of the graph to sink in Nodes order.
func EmitGrid(graph *PathGraph, sink DebugSink) {
	if sink == nil {
		return
	}
	for _, node := range graph.Nodes() {
		sink.OnNode(node)
	}
}

// EmitPath reports every waypoint of path to sink in order.
func EmitPath(path Path, sink DebugSink) {
	if sink == nil {
		return
	}
	for index, node := range path {
		sink.OnWaypoint(index, node)
	}
}
