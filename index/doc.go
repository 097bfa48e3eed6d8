// Package index builds the in-memory indexes over service requests and
// answers relationship queries against them.
//
// A Builder pulls records from a source.Source and feeds each one, as it
// arrives, into every container:
//
//   - Tree:       tree.BST keyed by request.TimeKey (submission order)
//   - ByTracking: tree.AVL keyed by tracking code (per-user builds)
//   - ByID:       tree.RedBlack keyed by request id (per-user builds)
//   - Queue:      minheap.Heap keyed by request.PriorityKey
//   - Graph:      core.Graph whose edges are chain links (per-user) or
//     affinity distances (global)
//
// Every build is complete and independent: nothing is cached between calls
// and the returned structures belong to the caller. A stream failure aborts
// the build and returns an error wrapping source.ErrRecordSourceUnavailable
// with no partial structures.
//
// Relationship discovery:
//
//	g, _ := b.BuildGlobalIndexes(ctx, request.Filter{})
//	rels := index.Related(g, completedID, 3)
//
// Related computes a Prim MST rooted at the request, keeps the MST edges
// that touch it and ranks the open neighbours by edge weight, priority and
// submission time. Nearby ranks every reachable open request by shortest
// affinity distance instead.
package index
