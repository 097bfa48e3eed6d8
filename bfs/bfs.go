// Package bfs provides breadth-first search over a core.Graph,
// returning hop distances, parent links, and visit order.
//
// BFS explores nodes in increasing hop distance from a start node, with an
// optional visit hook, depth limiting, and neighbor filtering. A visited set
// guarantees termination on cyclic graphs; edge weights are ignored except
// as an input to the neighbor filter.
//
// Because core.Graph yields neighbors in insertion order, the visit sequence
// is fully reproducible for a given graph.
//
// Complexity: O(V + E) time, O(V) memory.
package bfs

import (
	"context"
	"fmt"

	"github.com/katalvlaran/civicindex/core"
)

// queueItem pairs a node with its BFS depth.
type queueItem struct {
	id    core.NodeID
	depth int
}

// walker encapsulates mutable BFS state.
type walker[V any] struct {
	graph   *core.Graph[V]
	opts    Options
	ctx     context.Context
	queue   []queueItem
	visited map[core.NodeID]bool
	res     *Result
}

// BFS runs breadth-first search on g starting from start,
// applying any number of functional Options.
// Returns ErrGraphNil or ErrStartNodeNotFound for invalid input,
// ErrOptionViolation for bad options, ctx.Err() on cancellation,
// or any user-supplied hook error.
func BFS[V any](g *core.Graph[V], start core.NodeID, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	// Build options and catch any invalid ones immediately
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	// Validate start node
	if !g.HasNode(start) {
		return nil, ErrStartNodeNotFound
	}

	// Prepare walker
	n := g.Len()
	w := &walker[V]{
		graph:   g,
		opts:    o,
		ctx:     o.Ctx,
		queue:   make([]queueItem, 0, n),
		visited: make(map[core.NodeID]bool, n),
		res: &Result{
			Order:  make([]core.NodeID, 0, n),
			Depth:  make(map[core.NodeID]int, n),
			Parent: make(map[core.NodeID]core.NodeID, n),
		},
	}

	// Seed queue with start node (no parent)
	w.enqueue(start, 0)
	// Main loop
	return w.res, w.loop()
}

// Values maps res.Order to the values stored in g.
func Values[V any](g *core.Graph[V], res *Result) []V {
	out := make([]V, 0, len(res.Order))
	for _, id := range res.Order {
		if v, ok := g.Value(id); ok {
			out = append(out, v)
		}
	}
	return out
}

// enqueue marks id visited at depth d and adds it to the queue.
func (w *walker[V]) enqueue(id core.NodeID, d int) {
	w.visited[id] = true
	w.res.Depth[id] = d
	w.queue = append(w.queue, queueItem{id: id, depth: d})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker[V]) loop() error {
	for len(w.queue) > 0 {
		// cancellation check (once per loop)
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		if err := w.visit(item); err != nil {
			return err
		}
		w.enqueueNeighbors(item)
	}
	return nil
}

// visit records the node in Order and calls OnVisit.
func (w *walker[V]) visit(item queueItem) error {
	w.res.Order = append(w.res.Order, item.id)
	if err := w.opts.OnVisit(item.id, item.depth); err != nil {
		return fmt.Errorf("bfs: OnVisit error at %d: %w", item.id, err)
	}
	return nil
}

// enqueueNeighbors applies filtering and MaxDepth, and enqueues each unseen
// neighbor.
func (w *walker[V]) enqueueNeighbors(item queueItem) {
	nextDepth := item.depth + 1
	if w.opts.MaxDepth > 0 && nextDepth > w.opts.MaxDepth {
		return
	}
	for nbr, weight := range w.graph.Neighbors(item.id) {
		if w.visited[nbr] || !w.opts.FilterNeighbor(item.id, nbr, weight) {
			continue
		}
		w.res.Parent[nbr] = item.id
		w.enqueue(nbr, nextDepth)
	}
}
