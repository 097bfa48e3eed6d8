// Package prim_kruskal computes minimum spanning trees over a core.Graph.
//
// What & Why
//
//   - The relationship graph links requests by affinity distance. Its MST keeps,
//     for every request, the cheapest edges that still connect its component,
//     which is what "related requests" discovery walks.
//
// Algorithms Provided
//
//   - PrimMST(g) / PrimMSTFrom(g, start) ([]core.Edge, int64, error)
//
//   - Strategy: grow a tree from start. Each step scans every visited node's
//     half-edges to unvisited neighbours and takes the globally smallest weight.
//     Nodes are scanned in visit order and edges in list order; only a strictly
//     smaller weight replaces the current candidate, so ties resolve to the
//     first candidate seen.
//
//   - Complexity: O(V·E) time, O(V) memory. Suited to the small per-query graphs
//     this index builds; the scan gives a reproducible tie-break that a heap
//     would not.
//
//   - Disconnected graphs: only the start's component is spanned. No error.
//
//   - Kruskal(g) ([]core.Edge, int64, error)
//
//   - Strategy: stable-sort every edge by weight, then merge components with a
//     disjoint-set (path compression, union by rank).
//
//   - Result: a minimum spanning forest. Used as an independent oracle for the
//     total weight Prim reports.
//
//   - Complexity: O(E log E + α(V)·E) time, O(V + E) memory.
//
// Errors
//
//   - ErrGraphNil          graph pointer is nil.
//   - core.ErrNodeNotFound PrimMSTFrom start is not a node.
//   - ErrUnknownMethod     Compute was asked for an unsupported method.
package prim_kruskal
