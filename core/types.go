// File: types.go
// Role: Graph, NodeID, Edge and the private arena records; sentinel errors; NewGraph.

package core

import "errors"

// Sentinel errors for graph operations.
var (
	// ErrNodeNotFound indicates an operation referenced a NodeID outside the graph.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrLoopNotAllowed indicates an edge from a node to itself.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")
)

// NodeID addresses a node within one Graph.
type NodeID int

// noEdge terminates an edge list.
const noEdge int32 = -1

// Edge is an undirected edge as reported by Edges and the MST algorithms.
type Edge struct {
	// From is the lower endpoint when returned by Edges; MST results use
	// From for the endpoint that was already in the tree.
	From NodeID

	// To is the other endpoint.
	To NodeID

	// Weight is the edge cost.
	Weight int64
}

// node is one arena slot: the stored value plus its edge-list bounds.
type node[V any] struct {
	value  V
	head   int32 // first half-edge, or noEdge
	tail   int32 // last half-edge, or noEdge
	degree int
}

// halfEdge is one direction of an undirected edge.
type halfEdge struct {
	to     NodeID
	weight int64
	next   int32
}

// Graph is an undirected weighted graph with values of type V on its nodes.
// The zero value is an empty graph ready to use.
type Graph[V any] struct {
	nodes []node[V]
	half  []halfEdge
	pairs int
}

// NewGraph returns an empty graph with room for sizeHint nodes.
func NewGraph[V any](sizeHint int) *Graph[V] {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Graph[V]{
		nodes: make([]node[V], 0, sizeHint),
		half:  make([]halfEdge, 0, 2*sizeHint),
	}
}
