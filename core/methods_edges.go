// File: methods_edges.go
// Role: Edge insertion (append and upsert-with-minimum), lookup and listing.
// Determinism:
//   - Edge lists grow at the tail, so Neighbors follows insertion order.
//   - Edges() lists each pair once, From < To, ordered by From then insertion.

package core

import "fmt"

// AddUndirectedEdge appends the pair (a→b, w) and (b→a, w) unconditionally.
// A second call with the same endpoints creates a parallel edge.
//
// Errors:
//   - ErrNodeNotFound   if either endpoint is not a node of g.
//   - ErrLoopNotAllowed if a == b.
//
// Complexity: O(1) amortized.
func (g *Graph[V]) AddUndirectedEdge(a, b NodeID, weight int64) error {
	if err := g.checkEndpoints(a, b); err != nil {
		return err
	}
	g.link(a, b, weight)
	g.link(b, a, weight)
	g.pairs++
	return nil
}

// AddOrUpdateUndirectedEdge keeps at most one pair between a and b.
//
// Steps:
//  1. Validate both endpoints.
//  2. Scan a's list for the first half-edge to b.
//  3. If none exists, append a new pair exactly like AddUndirectedEdge.
//  4. Otherwise, if weight is smaller than the stored one, lower both the
//     a→b half and the first b→a half so the mirror weights stay equal.
//
// It reports whether a new pair was inserted.
// Complexity: O(deg(a) + deg(b)).
func (g *Graph[V]) AddOrUpdateUndirectedEdge(a, b NodeID, weight int64) (bool, error) {
	if err := g.checkEndpoints(a, b); err != nil {
		return false, err
	}
	ab := g.find(a, b)
	if ab == noEdge {
		g.link(a, b, weight)
		g.link(b, a, weight)
		g.pairs++
		return true, nil
	}
	if weight < g.half[ab].weight {
		g.half[ab].weight = weight
		if ba := g.find(b, a); ba != noEdge {
			g.half[ba].weight = weight
		}
	}
	return false, nil
}

// Weight returns the weight of the first edge between a and b.
func (g *Graph[V]) Weight(a, b NodeID) (int64, bool) {
	if !g.HasNode(a) || !g.HasNode(b) {
		return 0, false
	}
	e := g.find(a, b)
	if e == noEdge {
		return 0, false
	}
	return g.half[e].weight, true
}

// EdgeCount returns the number of undirected edges (mirror pairs).
func (g *Graph[V]) EdgeCount() int {
	return g.pairs
}

// Edges returns every undirected edge once with From < To.
// Complexity: O(V + E).
func (g *Graph[V]) Edges() []Edge {
	out := make([]Edge, 0, g.pairs)
	for i := range g.nodes {
		from := NodeID(i)
		for e := g.nodes[i].head; e != noEdge; e = g.half[e].next {
			if h := g.half[e]; h.to > from {
				out = append(out, Edge{From: from, To: h.to, Weight: h.weight})
			}
		}
	}
	return out
}

func (g *Graph[V]) checkEndpoints(a, b NodeID) error {
	if !g.HasNode(a) {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, a)
	}
	if !g.HasNode(b) {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, b)
	}
	if a == b {
		return fmt.Errorf("%w: %d", ErrLoopNotAllowed, a)
	}
	return nil
}

// link appends one half-edge at the tail of from's list.
func (g *Graph[V]) link(from, to NodeID, weight int64) {
	g.half = append(g.half, halfEdge{to: to, weight: weight, next: noEdge})
	idx := int32(len(g.half) - 1)
	n := &g.nodes[from]
	if n.tail == noEdge {
		n.head = idx
	} else {
		g.half[n.tail].next = idx
	}
	n.tail = idx
	n.degree++
}

// find returns the first half-edge from→to, or noEdge.
func (g *Graph[V]) find(from, to NodeID) int32 {
	for e := g.nodes[from].head; e != noEdge; e = g.half[e].next {
		if g.half[e].to == to {
			return e
		}
	}
	return noEdge
}
