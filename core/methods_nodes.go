// File: methods_nodes.go
// Role: Node lifecycle and read-only queries.

package core

import "iter"

// AddNode stores value in a new node and returns its ID.
// IDs are assigned sequentially from 0.
func (g *Graph[V]) AddNode(value V) NodeID {
	g.nodes = append(g.nodes, node[V]{value: value, head: noEdge, tail: noEdge})
	return NodeID(len(g.nodes) - 1)
}

// HasNode reports whether id addresses a node of g.
func (g *Graph[V]) HasNode(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// Value returns the value stored at id.
func (g *Graph[V]) Value(id NodeID) (V, bool) {
	if !g.HasNode(id) {
		var zero V
		return zero, false
	}
	return g.nodes[id].value, true
}

// Len returns the number of nodes.
func (g *Graph[V]) Len() int {
	return len(g.nodes)
}

// Degree returns the number of half-edges leaving id (parallel edges count
// separately). Unknown IDs have degree 0.
func (g *Graph[V]) Degree(id NodeID) int {
	if !g.HasNode(id) {
		return 0
	}
	return g.nodes[id].degree
}

// Nodes yields every (id, value) in ID order.
func (g *Graph[V]) Nodes() iter.Seq2[NodeID, V] {
	return func(yield func(NodeID, V) bool) {
		for i := range g.nodes {
			if !yield(NodeID(i), g.nodes[i].value) {
				return
			}
		}
	}
}

// Neighbors yields (neighbor, weight) for every half-edge leaving id, in
// insertion order. Unknown IDs yield nothing.
func (g *Graph[V]) Neighbors(id NodeID) iter.Seq2[NodeID, int64] {
	return func(yield func(NodeID, int64) bool) {
		if !g.HasNode(id) {
			return
		}
		for e := g.nodes[id].head; e != noEdge; e = g.half[e].next {
			if !yield(g.half[e].to, g.half[e].weight) {
				return
			}
		}
	}
}
