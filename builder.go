package surfacenav

import (
	"context"

	"github.com/pdrpinto/surfacenav/internal/ctxlog"
)

// BuildResult summarises a grid build. Active is false when the build
// produced no nodes, meaning there is no usable navigation surface.
type BuildResult struct {
	CandidateCount int  `json:"candidate_count"`
	NodeCount      int  `json:"node_count"`
	WalkableCount  int  `json:"walkable_count"`
	DilatedCount   int  `json:"dilated_count"`
	Active         bool `json:"active"`
}

// Err returns ErrEmptyRegion for an inactive build and nil otherwise.
func (r BuildResult) Err() error {
	if !r.Active {
		return ErrEmptyRegion
	}
	return nil
}

// Build samples the region, projects the samples through query, dilates the
// obstacles and indexes the result. Misconfigured regions are not errors:
// they produce an empty, inactive graph. The logger is taken from ctx.
func Build(
	ctx context.Context,
	region Region,
	query SurfaceQuery,
	options ...GraphOption,
) (*PathGraph, BuildResult) {
	logger := ctxlog.FromContext(ctx)

	// --- Sample ---
	candidates := Sample(region)
	logger.Debug("Sampled region.", "candidates", len(candidates), "spacing", region.Spacing())

	// --- Project ---
	nodes := Project(candidates, region, query)
	logger.Debug("Projected candidates.", "nodes", len(nodes), "dropped", len(candidates)-len(nodes))

	// --- Dilate ---
	bufferRadius := max(region.BufferRadius, 0)
	dilated := Dilate(nodes, bufferRadius)
	logger.Debug("Applied obstacle buffer.", "radius", bufferRadius, "dilated", dilated)

	graph := NewPathGraph(nodes, options...)
	result := BuildResult{
		CandidateCount: len(candidates),
		NodeCount:      graph.Len(),
		WalkableCount:  graph.WalkableCount(),
		DilatedCount:   dilated,
		Active:         graph.Len() > 0,
	}
	if !result.Active {
		logger.Warn("Navigation not built, region produced no nodes.",
			"extents", region.Extents, "density", region.Density, "spacing_unit", region.SpacingUnit)
	}
	return graph, result
}
