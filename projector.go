package surfacenav

import "slices"

// WalkableTag marks a surface as traversable. Matching is exact.
const WalkableTag = "Walkable"

// SurfaceHit is what a SurfaceQuery reports for a probe that struck geometry.
type SurfaceHit struct {
	Position Vec3
	Tags     []string
}

// SurfaceQuery probes the segment from -> to and reports the first surface
// it strikes. The boolean is false when nothing was hit.
type SurfaceQuery func(from, to Vec3) (SurfaceHit, bool)

// Project probes every candidate vertically through the full height of the
// region and turns each hit into a Node. Candidates with no hit are dropped,
// so the result is sparse.
func Project(candidates []Candidate, region Region, query SurfaceQuery) []Node {
	if query == nil || len(candidates) == 0 {
		return nil
	}
	nodes := make([]Node, 0, len(candidates))
	for _, candidate := range candidates {
		probeFrom := candidate.Position
		probeTo := Vec3{
			X: candidate.Position.X,
			Y: candidate.Position.Y,
			Z: region.Center.Z - region.Extents.Z,
		}
		hit, ok := query(probeFrom, probeTo)
		if !ok {
			continue
		}
		nodes = append(nodes, Node{
			ID:       candidate.ID,
			Position: hit.Position,
			Walkable: slices.Contains(hit.Tags, WalkableTag),
		})
	}
	return nodes
}
