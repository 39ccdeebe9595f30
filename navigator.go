package surfacenav

import (
	"context"
	"sync"

	"github.com/pdrpinto/surfacenav/internal/ctxlog"
)

// GraphCache stores built node sets so a rebuild of an unchanged region can
// skip sampling and projection.
type GraphCache interface {
	LoadGraph(ctx context.Context, key string) ([]Node, BuildResult, bool, error)
	SaveGraph(ctx context.Context, key string, nodes []Node, result BuildResult) error
}

// NavigatorOptions defines parameters for a Navigator.
type NavigatorOptions struct {
	Cache        GraphCache
	GraphOptions []GraphOption
}

// NavigatorOption is a function that modifies NavigatorOptions.
type NavigatorOption func(*NavigatorOptions)

// WithGraphCache makes Rebuild consult cache before building.
func WithGraphCache(cache GraphCache) NavigatorOption {
	return func(options *NavigatorOptions) { options.Cache = cache }
}

// WithGraphOptions passes options to every graph the Navigator builds.
func WithGraphOptions(graphOptions ...GraphOption) NavigatorOption {
	return func(options *NavigatorOptions) {
		options.GraphOptions = append(options.GraphOptions, graphOptions...)
	}
}

// Navigator is the single owner of a PathGraph. Rebuilds replace the graph
// under an exclusive lock and queries hold a shared lock, so a rebuild never
// overlaps a query.
type Navigator struct {
	mu      sync.RWMutex
	graph   *PathGraph
	result  BuildResult
	options NavigatorOptions
}

// NewNavigator returns a Navigator holding an empty, inactive graph.
func NewNavigator(options ...NavigatorOption) *Navigator {
	navigatorOptions := NavigatorOptions{}
	for _, option := range options {
		option(&navigatorOptions)
	}
	return &Navigator{
		graph:   NewPathGraph(nil, navigatorOptions.GraphOptions...),
		options: navigatorOptions,
	}
}

// Rebuild builds a new graph for region and installs it. When a cache is
// configured and cacheKey is not empty the cached node set is used if present,
// and a fresh build is stored under cacheKey. Cache failures are logged and
// never fail the rebuild.
func (n *Navigator) Rebuild(ctx context.Context, region Region, query SurfaceQuery, cacheKey string) BuildResult {
	logger := ctxlog.FromContext(ctx)

	graph, result, cached := n.loadCached(ctx, cacheKey)
	if !cached {
		graph, result = Build(ctx, region, query, n.options.GraphOptions...)
		if n.options.Cache != nil && cacheKey != "" && result.Active {
			if err := n.options.Cache.SaveGraph(ctx, cacheKey, graph.Nodes(), result); err != nil {
				logger.Warn("Failed to store navigation grid.", "key", cacheKey, "error", err)
			}
		}
	}

	n.mu.Lock()
	n.graph = graph
	n.result = result
	n.mu.Unlock()

	logger.Info("Navigation rebuilt.",
		"nodes", result.NodeCount,
		"walkable", result.WalkableCount,
		"active", result.Active,
		"cached", cached,
	)
	return result
}

// Install replaces the graph with one built elsewhere, for example loaded
// from a snapshot.
func (n *Navigator) Install(graph *PathGraph, result BuildResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.graph = graph
	n.result = result
}

func (n *Navigator) loadCached(ctx context.Context, cacheKey string) (*PathGraph, BuildResult, bool) {
	if n.options.Cache == nil || cacheKey == "" {
		return nil, BuildResult{}, false
	}
	nodes, result, found, err := n.options.Cache.LoadGraph(ctx, cacheKey)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to load cached navigation grid.", "key", cacheKey, "error", err)
		return nil, BuildResult{}, false
	}
	if !found {
		return nil, BuildResult{}, false
	}
	return NewPathGraph(nodes, n.options.GraphOptions...), result, true
}

// FindPath runs a query against the current graph.
func (n *Navigator) FindPath(ctx context.Context, start, goal Vec3) Path {
	n.mu.RLock()
	defer n.mu.RUnlock()

	path, result, err := n.graph.FindPathResult(start, goal)
	ctxlog.FromContext(ctx).Debug("Path query finished.",
		"start", start,
		"goal", goal,
		"waypoints", len(path),
		"expanded", result.ExpandedNodes,
		"error", err,
	)
	return path
}

// Graph returns the current graph. The graph itself is immutable, so it stays
// valid after a later rebuild.
func (n *Navigator) Graph() *PathGraph {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.graph
}

// Result returns the BuildResult of the current graph.
func (n *Navigator) Result() BuildResult {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.result
}
