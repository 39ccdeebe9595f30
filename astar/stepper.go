package astar

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot[NodeType comparable] struct {
	Current   NodeType
	Open      map[NodeType]bool
	Closed    map[NodeType]bool
	CameFrom  map[NodeType]NodeType
	Done      bool
	Found     bool
	Path      []NodeType
	TotalCost int
	StepIndex int
}

// Stepper runs the same state machine as Search one expansion at a time, so a
// UI or debugging tool can observe the frontier between steps.
type Stepper[NodeType comparable] struct {
	run       *searchRun[NodeType]
	stepCount int
	done      bool
	found     bool
}

// NewStepper prepares a search from startNode to goalNode. Nothing is expanded
// until the first call to Step.
func NewStepper[NodeType comparable](
	graph Graph[NodeType],
	startNode NodeType,
	goalNode NodeType,
	heuristic Heuristic[NodeType],
) *Stepper[NodeType] {
	return &Stepper[NodeType]{
		run: newSearchRun(graph, startNode, goalNode, heuristic),
	}
}

// Done reports whether the search has reached a terminal state.
func (s *Stepper[NodeType]) Done() bool { return s.done }

// Step advances the search by one node expansion and returns a snapshot.
// Once the search is done every further call returns the terminal snapshot
// again without a path.
func (s *Stepper[NodeType]) Step() StepSnapshot[NodeType] {
	if s.done {
		return s.snapshot(StepSnapshot[NodeType]{Done: true, Found: s.found})
	}

	current, outcome := s.run.expand()
	switch outcome {
	case outcomeExhausted:
		s.done = true
		return s.snapshot(StepSnapshot[NodeType]{Done: true})
	case outcomeFound:
		s.stepCount++
		s.done = true
		s.found = true
		result := s.run.result()
		return s.snapshot(StepSnapshot[NodeType]{
			Current:   current,
			Done:      true,
			Found:     true,
			Path:      result.Path,
			TotalCost: result.TotalCost,
		})
	default:
		s.stepCount++
		return s.snapshot(StepSnapshot[NodeType]{Current: current})
	}
}

func (s *Stepper[NodeType]) snapshot(base StepSnapshot[NodeType]) StepSnapshot[NodeType] {
	base.Open = s.openSetToBoolMap()
	base.Closed = copyBoolMap(s.run.closedSet)
	base.CameFrom = s.cameFrom()
	base.StepIndex = s.stepCount
	return base
}

func (s *Stepper[NodeType]) openSetToBoolMap() map[NodeType]bool {
	m := make(map[NodeType]bool, len(s.run.openSetMap))
	for k := range s.run.openSetMap {
		m[k] = true
	}
	return m
}

func (s *Stepper[NodeType]) cameFrom() map[NodeType]NodeType {
	c := make(map[NodeType]NodeType, len(s.run.states))
	for node, state := range s.run.states {
		if state.HasParent {
			c[node] = state.Parent
		}
	}
	return c
}

func copyBoolMap[T comparable](m map[T]bool) map[T]bool {
	if m == nil {
		return nil
	}
	c := make(map[T]bool, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
