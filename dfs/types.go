// Package dfs defines types and options for depth-first search traversal,
// including cancellation, pre-/post-order hooks, depth limiting, neighbor filtering,
// full-graph (forest) traversal, and basic diagnostics.
package dfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/civicindex/core"
)

var (
	// ErrGraphNil is returned when a nil *core.Graph is passed to DFS or Components.
	ErrGraphNil = errors.New("dfs: graph is nil")

	// ErrStartNodeNotFound indicates that the start ID is not a node of the graph.
	ErrStartNodeNotFound = errors.New("dfs: start node not found")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("dfs: invalid option supplied")
)

// Option configures optional behavior of DFS traversal.
// Use with DFS(g, start, opts...).
type Option func(*Options)

// Options holds configurable parameters for DFS traversal.
// It controls hooks, limits, filtering, full-graph mode, and diagnostics.
// Complexity remains O(V+E) when filters and hooks are O(1).
type Options struct {
	// Ctx allows cancellation or timeouts; defaults to context.Background().
	Ctx context.Context

	// OnVisit, if non-nil, is invoked immediately upon discovering a node (pre-order).
	// Returning an error aborts traversal with that error.
	OnVisit func(id core.NodeID, depth int) error

	// OnExit, if non-nil, is invoked after all descendants of a node
	// have been explored (post-order), before appending to Result.PostOrder.
	OnExit func(id core.NodeID) error

	// MaxDepth, if > 0, stops descending beyond this depth.
	// 0 means no limit.
	MaxDepth int

	// FilterNeighbor, if non-nil, is called for each half-edge curr→neighbor.
	// Return false to skip it; skipped neighbors are counted in SkippedNeighbors.
	FilterNeighbor func(curr, neighbor core.NodeID, weight int64) bool

	// FullTraversal, if true, runs DFS from every unvisited node in ID order,
	// covering disconnected components (forest traversal). The start argument
	// is then ignored.
	FullTraversal bool

	err error
}

// DefaultOptions returns an Options struct with:
//   - Background context
//   - No pre-/post-order hooks
//   - No depth limit
//   - No neighbor filtering
//   - Single-source traversal
func DefaultOptions() Options {
	return Options{Ctx: context.Background()}
}

// WithContext returns an Option that sets the Context for DFS traversal.
// Passing a nil context has no effect (Background is retained).
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit installs fn as a pre-order hook.
func WithOnVisit(fn func(id core.NodeID, depth int) error) Option {
	return func(o *Options) {
		o.OnVisit = fn
	}
}

// WithOnExit installs fn as a post-order hook.
func WithOnExit(fn func(id core.NodeID) error) Option {
	return func(o *Options) {
		o.OnExit = fn
	}
}

// WithMaxDepth limits traversal depth. A negative limit is rejected with
// ErrOptionViolation.
func WithMaxDepth(limit int) Option {
	return func(o *Options) {
		if limit < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, limit)
			return
		}
		o.MaxDepth = limit
	}
}

// WithFilterNeighbor installs a neighbor filter.
func WithFilterNeighbor(fn func(curr, neighbor core.NodeID, weight int64) bool) Option {
	return func(o *Options) {
		o.FilterNeighbor = fn
	}
}

// WithFullTraversal enables forest traversal over all components.
func WithFullTraversal() Option {
	return func(o *Options) {
		o.FullTraversal = true
	}
}

// Result captures the outcome of a depth-first traversal.
type Result struct {
	// Order records nodes in discovery sequence (pre-order).
	Order []core.NodeID

	// PostOrder records nodes in the sequence they finished.
	PostOrder []core.NodeID

	// Depth maps each node to its depth in its DFS tree.
	Depth map[core.NodeID]int

	// Parent maps each node to the node it was discovered from.
	// Tree roots do not appear.
	Parent map[core.NodeID]core.NodeID

	// Visited flags which nodes were reached.
	Visited map[core.NodeID]bool

	// SkippedNeighbors counts neighbors rejected by FilterNeighbor.
	SkippedNeighbors int
}
