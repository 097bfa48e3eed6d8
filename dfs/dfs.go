// File: dfs.go
// Role: Iterative depth-first search (single-source and forest) on core.Graph.
//
// The walker keeps an explicit stack of frames instead of recursing, so deep
// chain graphs (one node per request of a prolific owner) cannot exhaust the
// goroutine stack. Each frame snapshots its neighbor list on entry; the graph
// must not be mutated during traversal.
//
// Complexity:
//   - Time:   O(V + E), plus hook and filter cost.
//   - Memory: O(V + E) for frames and result maps.

package dfs

import (
	"fmt"

	"github.com/katalvlaran/civicindex/core"
)

// neighbor is one snapshotted half-edge.
type neighbor struct {
	id     core.NodeID
	weight int64
}

// frame is one entry of the explicit DFS stack.
type frame struct {
	id    core.NodeID
	depth int
	nbrs  []neighbor
	next  int
}

// walker encapsulates state during DFS.
type walker[V any] struct {
	graph *core.Graph[V]
	opts  Options
	res   *Result
	stack []frame
}

// DFS performs depth-first search on g. With WithFullTraversal it covers all
// components starting from each unvisited node in ID order; otherwise it
// starts only from start.
//
// Errors:
//   - ErrGraphNil, ErrStartNodeNotFound, ErrOptionViolation.
//   - ctx.Err() on cancellation.
//   - any error returned by OnVisit or OnExit (wrapped).
//
// On error the partial Result is returned alongside it.
func DFS[V any](g *core.Graph[V], start core.NodeID, opts ...Option) (*Result, error) {
	// 1. Validate input graph
	if g == nil {
		return nil, ErrGraphNil
	}

	// 2. Apply options
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	// 3. Single-source mode: verify start
	if !o.FullTraversal && !g.HasNode(start) {
		return nil, ErrStartNodeNotFound
	}

	// 4. Initialize result with capacity hint
	n := g.Len()
	w := &walker[V]{
		graph: g,
		opts:  o,
		res: &Result{
			Order:     make([]core.NodeID, 0, n),
			PostOrder: make([]core.NodeID, 0, n),
			Depth:     make(map[core.NodeID]int, n),
			Parent:    make(map[core.NodeID]core.NodeID, n),
			Visited:   make(map[core.NodeID]bool, n),
		},
	}

	// 5. Traverse: forest or single tree
	if !o.FullTraversal {
		return w.res, w.traverse(start)
	}
	for id := range g.Nodes() {
		if w.res.Visited[id] {
			continue
		}
		if err := w.traverse(id); err != nil {
			return w.res, err
		}
	}

	return w.res, nil
}

// Values maps res.Order (pre-order) to the values stored in g.
func Values[V any](g *core.Graph[V], res *Result) []V {
	out := make([]V, 0, len(res.Order))
	for _, id := range res.Order {
		if v, ok := g.Value(id); ok {
			out = append(out, v)
		}
	}
	return out
}

// Components returns the connected components of g. Components are ordered
// by their smallest NodeID and each lists its nodes in DFS pre-order.
func Components[V any](g *core.Graph[V]) ([][]core.NodeID, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	var comps [][]core.NodeID
	_, err := DFS(g, 0, WithFullTraversal(), WithOnVisit(func(id core.NodeID, depth int) error {
		if depth == 0 {
			comps = append(comps, nil)
		}
		comps[len(comps)-1] = append(comps[len(comps)-1], id)
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return comps, nil
}

// traverse runs one DFS tree rooted at root.
func (w *walker[V]) traverse(root core.NodeID) error {
	if err := w.discover(root, 0); err != nil {
		return err
	}
	for len(w.stack) > 0 {
		// 1. Cancellation check
		select {
		case <-w.opts.Ctx.Done():
			return w.opts.Ctx.Err()
		default:
		}

		top := &w.stack[len(w.stack)-1]

		// 2. All neighbors explored: finish the node
		if top.next == len(top.nbrs) {
			id := top.id
			w.stack = w.stack[:len(w.stack)-1]
			if w.opts.OnExit != nil {
				if err := w.opts.OnExit(id); err != nil {
					return fmt.Errorf("dfs: OnExit hook for %d: %w", id, err)
				}
			}
			w.res.PostOrder = append(w.res.PostOrder, id)
			continue
		}

		// 3. Advance to the next neighbor
		nb := top.nbrs[top.next]
		top.next++
		if w.res.Visited[nb.id] {
			continue
		}
		if w.opts.FilterNeighbor != nil && !w.opts.FilterNeighbor(top.id, nb.id, nb.weight) {
			w.res.SkippedNeighbors++
			continue
		}
		w.res.Parent[nb.id] = top.id
		if err := w.discover(nb.id, top.depth+1); err != nil {
			return err
		}
	}
	return nil
}

// discover marks id visited, runs the pre-order hook and pushes its frame.
// Nodes at MaxDepth get an empty neighbor list.
func (w *walker[V]) discover(id core.NodeID, depth int) error {
	w.res.Visited[id] = true
	w.res.Depth[id] = depth
	w.res.Order = append(w.res.Order, id)
	if w.opts.OnVisit != nil {
		if err := w.opts.OnVisit(id, depth); err != nil {
			return fmt.Errorf("dfs: OnVisit hook for %d: %w", id, err)
		}
	}

	var nbrs []neighbor
	if w.opts.MaxDepth == 0 || depth < w.opts.MaxDepth {
		nbrs = make([]neighbor, 0, w.graph.Degree(id))
		for to, wt := range w.graph.Neighbors(id) {
			nbrs = append(nbrs, neighbor{id: to, weight: wt})
		}
	}
	w.stack = append(w.stack, frame{id: id, depth: depth, nbrs: nbrs})
	return nil
}
