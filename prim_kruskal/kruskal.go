package prim_kruskal

import (
	"cmp"
	"slices"

	"github.com/katalvlaran/civicindex/core"
)

// Kruskal computes the minimum spanning forest of g using a disjoint-set
// (union-find) data structure with path compression and union by rank.
//
// Steps:
//  1. Validate: g != nil. Graphs with fewer than two nodes yield an empty forest.
//  2. Collect edges via g.Edges() (each pair once, From < To).
//  3. Stable-sort by ascending weight, so equal weights keep Edges() order.
//  4. Initialize parent[i] = i, rank[i] = 0.
//  5. For each edge (u,v): if find(u) != find(v), union and include the edge.
//  6. Stop early once |V|−1 edges are selected.
//
// Complexity: O(E log E + α(V)·E). Memory: O(E + V).
func Kruskal[V any](g *core.Graph[V]) ([]core.Edge, int64, error) {
	// 1. Validate
	if g == nil {
		return nil, 0, ErrGraphNil
	}
	n := g.Len()
	if n < 2 {
		return []core.Edge{}, 0, nil
	}

	// 2-3. Collect and sort
	edges := g.Edges()
	slices.SortStableFunc(edges, func(a, b core.Edge) int {
		return cmp.Compare(a.Weight, b.Weight)
	})

	// 4. Disjoint-set over dense NodeIDs
	parent := make([]core.NodeID, n)
	rank := make([]int, n)
	for i := range parent {
		parent[i] = core.NodeID(i)
	}
	find := func(u core.NodeID) core.NodeID {
		for parent[u] != u {
			parent[u] = parent[parent[u]]
			u = parent[u]
		}
		return u
	}
	union := func(ru, rv core.NodeID) {
		switch {
		case rank[ru] < rank[rv]:
			parent[ru] = rv
		case rank[ru] > rank[rv]:
			parent[rv] = ru
		default:
			parent[rv] = ru
			rank[ru]++
		}
	}

	// 5-6. Greedy selection
	var (
		forest = make([]core.Edge, 0, n-1)
		total  int64
	)
	for _, e := range edges {
		ru, rv := find(e.From), find(e.To)
		if ru == rv {
			continue
		}
		union(ru, rv)
		forest = append(forest, e)
		total += e.Weight
		if len(forest) == n-1 {
			break
		}
	}

	return forest, total, nil
}
