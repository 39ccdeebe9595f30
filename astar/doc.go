// Package astar provides a generic, deterministic A* search.
//
// It exposes two main entry points:
//
//   - Search: run the algorithm to completion and get a Result.
//   - Stepper: iterate the search one expansion at a time to drive UIs or debugging tools.
//
// The search is generic over node type and keeps all bookkeeping (costs,
// parents, open and closed sets) in state owned by a single query, so graphs
// can be shared by concurrent read-only searches.
package astar
