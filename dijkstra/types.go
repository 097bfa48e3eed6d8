// Package dijkstra defines core types and configuration options
// for Dijkstra's shortest-path algorithm on a core.Graph.
//
// Dijkstra computes the minimum-cost path from a source node to all other
// reachable nodes when every edge weight is non-negative. In this module the
// weights are affinity distances, so the result ranks requests by how closely
// they relate to the source through chains of shared attributes.
//
// Options:
//
//	– WithReturnPath:       also return the predecessor slice.
//	– WithMaxDistance:      nodes farther than the cap are not settled.
//	– WithInfEdgeThreshold: edges with weight >= threshold are impassable.
//
// Errors (sentinel):
//
//	– ErrNilGraph        if the provided graph pointer is nil.
//	– ErrNodeNotFound    if the source is not a node of the graph.
//	– ErrNegativeWeight  if a negative edge weight is detected in the graph.
//	– ErrBadMaxDistance  if MaxDistance < 0.
//	– ErrBadInfThreshold if InfEdgeThreshold <= 0.
package dijkstra

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by the Dijkstra implementation.
var (
	// ErrNilGraph indicates that a nil *core.Graph was passed to Dijkstra.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrNodeNotFound indicates that the source is not a node of the graph.
	ErrNodeNotFound = errors.New("dijkstra: source node not found in graph")

	// ErrNegativeWeight indicates that a negative edge weight was detected in the graph.
	ErrNegativeWeight = errors.New("dijkstra: negative edge weight encountered")

	// ErrBadMaxDistance indicates that MaxDistance was set to a negative value.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")

	// ErrBadInfThreshold indicates that InfEdgeThreshold was set to zero or negative,
	// which would treat every edge as impassable.
	ErrBadInfThreshold = errors.New("dijkstra: InfEdgeThreshold must be positive")
)

// Unreachable is the distance reported for nodes not settled from the source.
const Unreachable = math.MaxInt64

// Options configures the behavior of the Dijkstra algorithm.
type Options struct {
	ReturnPath       bool  // Whether to return the predecessor slice
	MaxDistance      int64 // Maximum distance to explore
	InfEdgeThreshold int64 // Weight threshold at or above which edges are non-traversable

	err error
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// WithReturnPath enables the predecessor slice in the result.
func WithReturnPath() Option {
	return func(o *Options) {
		o.ReturnPath = true
	}
}

// WithMaxDistance sets a maximum distance threshold.
// Nodes whose shortest distance would exceed this value are not explored.
// A negative value makes Dijkstra fail with ErrBadMaxDistance.
func WithMaxDistance(max int64) Option {
	return func(o *Options) {
		if max < 0 {
			o.err = fmt.Errorf("%w: %d", ErrBadMaxDistance, max)
			return
		}
		o.MaxDistance = max
	}
}

// WithInfEdgeThreshold treats edges with weight >= threshold as walls.
// A non-positive value makes Dijkstra fail with ErrBadInfThreshold.
func WithInfEdgeThreshold(threshold int64) Option {
	return func(o *Options) {
		if threshold <= 0 {
			o.err = fmt.Errorf("%w: %d", ErrBadInfThreshold, threshold)
			return
		}
		o.InfEdgeThreshold = threshold
	}
}

// DefaultOptions returns Options with no path, no distance cap and no walls.
func DefaultOptions() Options {
	return Options{
		ReturnPath:       false,
		MaxDistance:      math.MaxInt64,
		InfEdgeThreshold: math.MaxInt64,
	}
}
