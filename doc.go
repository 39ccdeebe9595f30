// Package surfacenav builds a sampled traversability grid over a 3D surface
// region and answers shortest-path queries on it.
//
// A build runs four stages in order:
//
//   - Sample: lay a lattice of candidate points over the region.
//   - Project: probe each candidate straight down through a SurfaceQuery and
//     classify it walkable or blocked from the tags of the hit.
//   - Dilate: grow blocked areas by a buffer radius so paths keep clear of
//     obstacle edges.
//   - NewPathGraph: index the surviving nodes by grid coordinate.
//
// The resulting PathGraph is read-only. FindPath resolves two world points to
// their nearest walkable nodes and runs A* between them using package astar.
// Navigator owns a graph and serialises rebuilds against queries.
package surfacenav
