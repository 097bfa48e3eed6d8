// File: types.go
// Role: BFS options, sentinel errors and the Result type.

package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/civicindex/core"
)

// Sentinel errors for BFS execution.
var (
	// ErrStartNodeNotFound is returned when the start ID is not a node of the graph.
	ErrStartNodeNotFound = errors.New("bfs: start node not found")

	// ErrGraphNil is returned if a nil graph pointer is passed.
	ErrGraphNil = errors.New("bfs: graph is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("bfs: invalid option supplied")
)

// Option configures BFS behavior via functional arguments.
// If an Option is invalid (e.g. negative depth), it will be recorded
// internally and surfaced as ErrOptionViolation when BFS is invoked.
type Option func(*Options)

// Options holds parameters and callbacks to customize BFS execution.
type Options struct {
	// Ctx allows cancellation and deadlines.
	Ctx context.Context

	// OnVisit is called when visiting a node. If it returns an error,
	// BFS aborts and propagates that error.
	OnVisit func(id core.NodeID, depth int) error

	// MaxDepth, if > 0, stops exploring beyond this depth.
	// A value of 0 explicitly disables any depth limit.
	MaxDepth int

	// FilterNeighbor can skip edges by returning false.
	// Called for each half-edge curr→neighbor with its weight.
	FilterNeighbor func(curr, neighbor core.NodeID, weight int64) bool

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with sane defaults:
//   - context.Background()
//   - no depth limit (MaxDepth == 0)
//   - no filtering (all neighbors allowed)
//   - no-op OnVisit hook.
func DefaultOptions() Options {
	return Options{
		Ctx:            context.Background(),
		OnVisit:        func(core.NodeID, int) error { return nil },
		MaxDepth:       0,
		FilterNeighbor: func(_, _ core.NodeID, _ int64) bool { return true },
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit registers a callback to run on visit; returning an error
// from this callback stops the BFS.
func WithOnVisit(fn func(id core.NodeID, depth int) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithMaxDepth stops the search at the given depth (inclusive).
//
//	d > 0: limit to depth d
//	d == 0: explicit no depth limit
//	d < 0: invalid option → ErrOptionViolation
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		switch {
		case d < 0:
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
		default:
			o.MaxDepth = d
		}
	}
}

// WithFilterNeighbor skips neighbors when fn returns false.
func WithFilterNeighbor(fn func(curr, neighbor core.NodeID, weight int64) bool) Option {
	return func(o *Options) {
		if fn != nil {
			o.FilterNeighbor = fn
		}
	}
}

// Result holds the outcome of a BFS traversal:
//   - Order: nodes visited, in visit sequence.
//   - Depth: map from node to its distance (in edges) from the start.
//   - Parent: map from node to its predecessor in the BFS tree.
type Result struct {
	Order  []core.NodeID
	Depth  map[core.NodeID]int
	Parent map[core.NodeID]core.NodeID
}

// PathTo reconstructs the path from the start node to dest.
// Returns an error if dest was not reached.
func (r *Result) PathTo(dest core.NodeID) ([]core.NodeID, error) {
	if _, ok := r.Depth[dest]; !ok {
		return nil, fmt.Errorf("bfs: no path to %d", dest)
	}
	// build reversed path
	path := []core.NodeID{}
	for cur := dest; ; {
		path = append(path, cur)
		prev, ok := r.Parent[cur]
		if !ok {
			break
		}
		cur = prev
	}
	// reverse to get start → dest
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}
