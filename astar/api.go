package astar

import (
	"container/heap"
	"errors"

	"github.com/pdrpinto/surfacenav/internal"
)

// Graph is generic over node type N.
// N must be comparable so it can be used in maps.
type Graph[NodeType comparable] interface {
	Neighbors(node NodeType) []Neighbor[NodeType]
}

// Neighbor represents a reachable node with the cost of the move onto it.
type Neighbor[NodeType comparable] struct {
	ID   NodeType
	Cost int
}

// Heuristic returns the estimated cost from node a to node b
type Heuristic[NodeType comparable] func(from NodeType, to NodeType) int

// SearchState is the per-query bookkeeping for one node. It lives only as long
// as the query that created it.
type SearchState[NodeType comparable] struct {
	GCost     int
	HCost     int
	FCost     int
	Parent    NodeType
	HasParent bool
}

// Result contains the outcome of a search
type Result[NodeType comparable] struct {
	Path []NodeType
	// PathCosts holds the accumulated gCost of each entry of Path.
	PathCosts     []int
	TotalCost     int
	ExpandedNodes int
	Found         bool
}

// ErrNoPath is returned when the open set empties before the goal is reached.
var ErrNoPath = errors.New("no path found")

// Search runs A* from startNode to goalNode until the goal is closed or the
// open set is exhausted. Among open nodes with equal fCost the one that entered
// the open set first is expanded first.
func Search[NodeType comparable](
	graph Graph[NodeType],
	startNode NodeType,
	goalNode NodeType,
	heuristic Heuristic[NodeType],
) (Result[NodeType], error) {
	run := newSearchRun(graph, startNode, goalNode, heuristic)
	for {
		_, outcome := run.expand()
		switch outcome {
		case outcomeFound:
			return run.result(), nil
		case outcomeExhausted:
			return Result[NodeType]{ExpandedNodes: run.expandedNodes}, ErrNoPath
		}
	}
}

type expandOutcome int

const (
	outcomeContinue expandOutcome = iota
	outcomeFound
	outcomeExhausted
)

// searchRun owns the frontier of a single query. Search and Stepper both drive it.
type searchRun[NodeType comparable] struct {
	graph     Graph[NodeType]
	startNode NodeType
	goalNode  NodeType
	heuristic Heuristic[NodeType]

	openSet      PriorityQueue[NodeType]
	openSetMap   map[NodeType]*PriorityQueueItem[NodeType]
	closedSet    map[NodeType]bool
	states       map[NodeType]*SearchState[NodeType]
	nextSequence int

	expandedNodes int
}

func newSearchRun[NodeType comparable](
	graph Graph[NodeType],
	startNode NodeType,
	goalNode NodeType,
	heuristic Heuristic[NodeType],
) *searchRun[NodeType] {
	run := &searchRun[NodeType]{
		graph:      graph,
		startNode:  startNode,
		goalNode:   goalNode,
		heuristic:  heuristic,
		openSet:    make(PriorityQueue[NodeType], 0),
		openSetMap: make(map[NodeType]*PriorityQueueItem[NodeType]),
		closedSet:  make(map[NodeType]bool),
		states:     make(map[NodeType]*SearchState[NodeType]),
	}
	heap.Init(&run.openSet)

	startHeuristic := heuristic(startNode, goalNode)
	run.states[startNode] = &SearchState[NodeType]{
		GCost: 0,
		HCost: startHeuristic,
		FCost: startHeuristic,
	}
	run.pushOpen(startNode, startHeuristic)
	return run
}

func (run *searchRun[NodeType]) pushOpen(node NodeType, fCost int) {
	item := &PriorityQueueItem[NodeType]{
		Node:     node,
		FCost:    fCost,
		Sequence: run.nextSequence,
	}
	run.nextSequence++
	heap.Push(&run.openSet, item)
	run.openSetMap[node] = item
}

// expand closes the best open node and relaxes its neighbours.
func (run *searchRun[NodeType]) expand() (NodeType, expandOutcome) {
	var zero NodeType
	if run.openSet.Len() == 0 {
		return zero, outcomeExhausted
	}

	currentItem := heap.Pop(&run.openSet).(*PriorityQueueItem[NodeType])
	currentNode := currentItem.Node
	delete(run.openSetMap, currentNode)
	run.closedSet[currentNode] = true
	run.expandedNodes++

	if currentNode == run.goalNode {
		return currentNode, outcomeFound
	}

	currentState := run.states[currentNode]
	for _, neighbor := range run.graph.Neighbors(currentNode) {
		if run.closedSet[neighbor.ID] {
			continue
		}
		tentativeG := currentState.GCost + neighbor.Cost

		item, inOpen := run.openSetMap[neighbor.ID]
		if !inOpen {
			hCost := run.heuristic(neighbor.ID, run.goalNode)
			run.states[neighbor.ID] = &SearchState[NodeType]{
				GCost:     tentativeG,
				HCost:     hCost,
				FCost:     tentativeG + hCost,
				Parent:    currentNode,
				HasParent: true,
			}
			run.pushOpen(neighbor.ID, tentativeG+hCost)
			continue
		}

		neighborState := run.states[neighbor.ID]
		if tentativeG >= neighborState.GCost {
			continue
		}
		neighborState.GCost = tentativeG
		neighborState.HCost = run.heuristic(neighbor.ID, run.goalNode)
		neighborState.FCost = neighborState.GCost + neighborState.HCost
		neighborState.Parent = currentNode
		neighborState.HasParent = true
		item.FCost = neighborState.FCost
		heap.Fix(&run.openSet, item.IndexInQueue)
	}
	return currentNode, outcomeContinue
}

func (run *searchRun[NodeType]) parentOf(node NodeType) (NodeType, bool) {
	state, exists := run.states[node]
	if !exists || !state.HasParent {
		var zero NodeType
		return zero, false
	}
	return state.Parent, true
}

func (run *searchRun[NodeType]) result() Result[NodeType] {
	path := internal.ReconstructPath(run.parentOf, run.goalNode, run.startNode)
	costs := make([]int, len(path))
	for index, node := range path {
		costs[index] = run.states[node].GCost
	}
	return Result[NodeType]{
		Path:          path,
		PathCosts:     costs,
		TotalCost:     run.states[run.goalNode].GCost,
		ExpandedNodes: run.expandedNodes,
		Found:         true,
	}
}
