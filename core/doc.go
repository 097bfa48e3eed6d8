// Package core provides the in-memory relationship graph used by the
// request indexes: an undirected, integer-weighted graph whose nodes carry
// arbitrary values.
//
// Storage model
//
//   - Nodes live in an arena slice and are addressed by NodeID (their index).
//     IDs are dense, start at 0, and never change.
//   - Each node heads an intrusive singly-linked list of half-edges. The
//     half-edges themselves live in a second arena and link to each other by
//     index, so growing either slice never invalidates a link.
//   - Every undirected edge is stored as a mirror pair of half-edges
//     (a→b, w) and (b→a, w) with the same weight.
//
// Edge insertion policies
//
//	AddUndirectedEdge(a, b, w)          always appends a new pair (parallel edges allowed).
//	AddOrUpdateUndirectedEdge(a, b, w)  keeps one pair per endpoint couple, lowering it
//	                                    to the smaller weight when the couple already exists.
//
// Use one policy per graph instance; mixing them can leave parallel edges
// that AddOrUpdateUndirectedEdge only partially collapses.
//
// Determinism
//
//	Neighbors yields half-edges in insertion order and Edges lists pairs by
//	ascending From, then insertion order, so every traversal and MST built on
//	top of a graph is reproducible for the same insertion sequence.
//
// Concurrency
//
//	A Graph is owned by the build that created it and has no internal
//	locking. Concurrent builds must use separate instances.
//
// Complexity (V = nodes, E = undirected edges):
//
//	AddNode                     O(1) amortized
//	AddUndirectedEdge           O(1) amortized
//	AddOrUpdateUndirectedEdge   O(deg(a) + deg(b))
//	Neighbors                   O(deg(v))
//	Edges                       O(V + E)
package core
