// Package dijkstra implements Dijkstra's shortest-path algorithm on a core.Graph.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Each node is settled at most once.
//   - Each edge relaxation may push a new entry into the heap (lazy decrease-key).
//   - Space: O(V + E)
//
// Notes on implementation choices:
//
//   - An upfront scan of all edges (O(E)) detects negative weights and fails fast.
//   - The priority queue is minheap.Heap keyed by distance; stale entries are
//     skipped when popped.
//   - Exploration stops once the smallest queued distance exceeds MaxDistance.
package dijkstra

import (
	"fmt"

	"github.com/katalvlaran/civicindex/core"
	"github.com/katalvlaran/civicindex/minheap"
)

// NoPredecessor marks the source and unreachable nodes in the prev slice.
const NoPredecessor core.NodeID = -1

// Dijkstra computes shortest distances from source to every node of g.
//
// Returns:
//
//   - dist: dist[v] is the minimum distance, or Unreachable.
//   - prev: predecessor slice if WithReturnPath was given (nil otherwise);
//     prev[v] == NoPredecessor for the source and unreachable nodes.
//   - err:  validation failure or ErrNegativeWeight.
//
// Preconditions and validation (in order):
//  1. Options must be valid (ErrBadMaxDistance, ErrBadInfThreshold).
//  2. g must be non-nil (ErrNilGraph).
//  3. g must contain source (ErrNodeNotFound).
//  4. No edge in g can have negative weight (ErrNegativeWeight).
func Dijkstra[V any](g *core.Graph[V], source core.NodeID, opts ...Option) ([]int64, []core.NodeID, error) {
	// 1) Build and validate Options
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return nil, nil, cfg.err
	}

	// 2) Validate graph and source
	if g == nil {
		return nil, nil, ErrNilGraph
	}
	if !g.HasNode(source) {
		return nil, nil, fmt.Errorf("%w: %d", ErrNodeNotFound, source)
	}

	// 3) Pre-scan all edges to detect negative weights
	for _, e := range g.Edges() {
		if e.Weight < 0 {
			return nil, nil, fmt.Errorf("%w: edge %d→%d weight=%d", ErrNegativeWeight, e.From, e.To, e.Weight)
		}
	}

	// 4) Initialize the runner
	r := newRunner(g, cfg)
	r.dist[source] = 0
	r.pq.Insert(0, source)

	// 5) Main loop
	r.run()

	return r.dist, r.prev, nil
}

// runner holds Dijkstra's mutable state.
type runner[V any] struct {
	g       *core.Graph[V]
	cfg     Options
	dist    []int64
	prev    []core.NodeID
	settled []bool
	pq      *minheap.Heap[int64, core.NodeID]
}

func newRunner[V any](g *core.Graph[V], cfg Options) *runner[V] {
	n := g.Len()
	r := &runner[V]{
		g:       g,
		cfg:     cfg,
		dist:    make([]int64, n),
		settled: make([]bool, n),
		pq:      minheap.New[int64, core.NodeID](),
	}
	for i := range r.dist {
		r.dist[i] = Unreachable
	}
	if cfg.ReturnPath {
		r.prev = make([]core.NodeID, n)
		for i := range r.prev {
			r.prev[i] = NoPredecessor
		}
	}
	return r
}

// run settles nodes in increasing distance order.
func (r *runner[V]) run() {
	for r.pq.Len() > 0 {
		d, u, _ := r.pq.ExtractMin()
		if r.settled[u] {
			continue // stale entry
		}
		if d > r.cfg.MaxDistance {
			// Everything still queued is at least as far.
			r.clearBeyondCap()
			return
		}
		r.settled[u] = true
		r.relax(u, d)
	}
}

// relax pushes improved distances for u's neighbours.
func (r *runner[V]) relax(u core.NodeID, du int64) {
	for v, w := range r.g.Neighbors(u) {
		if r.settled[v] || w >= r.cfg.InfEdgeThreshold {
			continue
		}
		nd := du + w
		if nd >= r.dist[v] {
			continue
		}
		r.dist[v] = nd
		if r.prev != nil {
			r.prev[v] = u
		}
		r.pq.Insert(nd, v)
	}
}

// clearBeyondCap resets tentative distances that were never settled.
func (r *runner[V]) clearBeyondCap() {
	for i, s := range r.settled {
		if s {
			continue
		}
		r.dist[i] = Unreachable
		if r.prev != nil {
			r.prev[i] = NoPredecessor
		}
	}
}

// PathTo rebuilds the node sequence source → dest from a prev slice.
// It returns nil if dest is unreachable or out of range.
func PathTo(prev []core.NodeID, dist []int64, dest core.NodeID) []core.NodeID {
	if dest < 0 || int(dest) >= len(dist) || dist[dest] == Unreachable || prev == nil {
		return nil
	}
	var path []core.NodeID
	for cur := dest; cur != NoPredecessor; cur = prev[cur] {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
