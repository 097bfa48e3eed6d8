package index

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/katalvlaran/civicindex/bfs"
	"github.com/katalvlaran/civicindex/core"
	"github.com/katalvlaran/civicindex/dfs"
	"github.com/katalvlaran/civicindex/dijkstra"
	"github.com/katalvlaran/civicindex/prim_kruskal"
	"github.com/katalvlaran/civicindex/request"
)

// Related returns up to limit open requests adjacent to requestID in the
// MST rooted at its node. Results are ordered by edge weight, then
// priority, then submission time, then id. A limit below 1 means
// DefaultRelatedLimit. An unknown id yields nil.
//
// Steps:
//  1. PrimMSTFrom(node) over g.Graph.
//  2. Keep MST edges with node as an endpoint; take the other endpoint.
//  3. Drop Completed requests, sort, truncate, annotate with a reason.
func Related(g *GlobalIndexes, requestID int64, limit int) []Relation {
	if g == nil {
		return nil
	}
	node, ok := g.Nodes[requestID]
	if !ok {
		return nil
	}
	if limit < 1 {
		limit = DefaultRelatedLimit
	}
	edges, _, err := prim_kruskal.PrimMSTFrom(g.Graph, node)
	if err != nil {
		return nil
	}
	src, _ := g.Graph.Value(node)

	var rels []Relation
	for _, e := range edges {
		var other core.NodeID
		switch node {
		case e.From:
			other = e.To
		case e.To:
			other = e.From
		default:
			continue
		}
		r, _ := g.Graph.Value(other)
		if r.IsCompleted() {
			continue
		}
		rels = append(rels, Relation{Request: r, Weight: e.Weight})
	}

	slices.SortStableFunc(rels, compareRelations)
	if len(rels) > limit {
		rels = rels[:limit]
	}
	for i := range rels {
		rels[i].Reason = reason(src, rels[i].Request, rels[i].Weight)
	}
	return rels
}

func compareRelations(a, b Relation) int {
	if c := cmp.Compare(a.Weight, b.Weight); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Request.Priority, b.Request.Priority); c != 0 {
		return c
	}
	if c := a.Request.SubmittedAt.Compare(b.Request.SubmittedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.Request.ID, b.Request.ID)
}

// reason explains a relation by the first matching rule.
func reason(src, r *request.Request, weight int64) string {
	switch {
	case sameText(src.Location, r.Location):
		return "same location: " + strings.TrimSpace(r.Location)
	case sameText(src.Category, r.Category):
		return "same category: " + strings.TrimSpace(r.Category)
	case src.Status == r.Status && withinDay(src.SubmittedAt, r.SubmittedAt):
		return fmt.Sprintf("same status (%s) submitted within a day", r.Status)
	case src.Status == r.Status:
		return fmt.Sprintf("same status (%s)", r.Status)
	case pairs(src.Text(), r.Text(), "electrical", "paint"):
		return "electrical work often precedes painting"
	}
	return fmt.Sprintf("MST-connected (weight %d)", weight)
}

// pairs reports whether one text mentions a and the other mentions b.
func pairs(x, y, a, b string) bool {
	return (strings.Contains(x, a) && strings.Contains(y, b)) ||
		(strings.Contains(x, b) && strings.Contains(y, a))
}

// Nearby ranks the open requests reachable from requestID by shortest
// affinity distance, then priority, then id. Hops counts edges on the
// shortest path. A limit below 1 returns every reachable request.
func Nearby(g *GlobalIndexes, requestID int64, limit int) []Proximity {
	if g == nil {
		return nil
	}
	node, ok := g.Nodes[requestID]
	if !ok {
		return nil
	}
	dist, prev, err := dijkstra.Dijkstra(g.Graph, node, dijkstra.WithReturnPath())
	if err != nil {
		return nil
	}

	var out []Proximity
	for id, r := range g.Graph.Nodes() {
		if id == node || dist[id] == dijkstra.Unreachable || r.IsCompleted() {
			continue
		}
		out = append(out, Proximity{
			Request:  r,
			Distance: dist[id],
			Hops:     len(dijkstra.PathTo(prev, dist, id)) - 1,
		})
	}
	slices.SortFunc(out, func(a, b Proximity) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Request.Priority, b.Request.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.Request.ID, b.Request.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Within returns the requests at most hops edges from requestID in
// breadth-first order, starting with the request itself. hops == 0 means
// no limit.
func Within(g *GlobalIndexes, requestID int64, hops int) ([]*request.Request, error) {
	if g == nil {
		return nil, bfs.ErrGraphNil
	}
	node, ok := g.Nodes[requestID]
	if !ok {
		return nil, fmt.Errorf("%w: request %d", core.ErrNodeNotFound, requestID)
	}
	res, err := bfs.BFS(g.Graph, node, bfs.WithMaxDepth(hops))
	if err != nil {
		return nil, err
	}
	return bfs.Values(g.Graph, res), nil
}

// Clusters groups the indexed requests into connected components, largest
// first. Singletons are requests sharing no attribute with any other.
func Clusters(g *GlobalIndexes) ([][]*request.Request, error) {
	if g == nil {
		return nil, dfs.ErrGraphNil
	}
	comps, err := dfs.Components(g.Graph)
	if err != nil {
		return nil, err
	}
	out := make([][]*request.Request, 0, len(comps))
	for _, comp := range comps {
		reqs := make([]*request.Request, 0, len(comp))
		for _, id := range comp {
			r, _ := g.Graph.Value(id)
			reqs = append(reqs, r)
		}
		out = append(out, reqs)
	}
	slices.SortStableFunc(out, func(a, b []*request.Request) int {
		return cmp.Compare(len(b), len(a))
	})
	return out, nil
}
