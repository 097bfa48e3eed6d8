package prim_kruskal

import (
	"fmt"

	"github.com/katalvlaran/civicindex/core"
)

// PrimMST computes the spanning tree of the component containing NodeID 0.
// An empty graph yields an empty tree with weight 0.
func PrimMST[V any](g *core.Graph[V]) ([]core.Edge, int64, error) {
	if g == nil {
		return nil, 0, ErrGraphNil
	}
	if g.Len() == 0 {
		return []core.Edge{}, 0, nil
	}
	return PrimMSTFrom(g, 0)
}

// PrimMSTFrom computes the minimum spanning tree of start's component.
//
// Steps:
//  1. Validate g and start.
//  2. Mark start visited; it is the first entry of the visit order.
//  3. Repeat: for each visited node in visit order, for each half-edge in list
//     order whose target is unvisited, keep it if its weight is strictly
//     smaller than the best so far.
//  4. If no candidate exists the component is spanned; stop. Otherwise append
//     the edge (From = tree side), mark the target visited, add its weight.
//
// Each returned edge joins a newly reached node; the result has (component
// size − 1) edges.
//
// Complexity: O(V·E) time, O(V) memory.
func PrimMSTFrom[V any](g *core.Graph[V], start core.NodeID) ([]core.Edge, int64, error) {
	// 1. Validate
	if g == nil {
		return nil, 0, ErrGraphNil
	}
	if !g.HasNode(start) {
		return nil, 0, fmt.Errorf("prim_kruskal: start %d: %w", start, core.ErrNodeNotFound)
	}

	// 2. Seed
	visited := make([]bool, g.Len())
	order := make([]core.NodeID, 0, g.Len())
	visited[start] = true
	order = append(order, start)

	var (
		mst   = make([]core.Edge, 0, g.Len()-1)
		total int64
	)
	for {
		// 3. Scan every tree node for the cheapest crossing edge
		var (
			best  core.Edge
			found bool
		)
		for _, u := range order {
			for v, w := range g.Neighbors(u) {
				if visited[v] {
					continue
				}
				if !found || w < best.Weight {
					best = core.Edge{From: u, To: v, Weight: w}
					found = true
				}
			}
		}

		// 4. Component exhausted
		if !found {
			break
		}
		visited[best.To] = true
		order = append(order, best.To)
		mst = append(mst, best)
		total += best.Weight
	}

	return mst, total, nil
}
