// File: types.go
// Role: Sentinel errors, method selection and the Compute dispatcher.

package prim_kruskal

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/civicindex/core"
)

// ErrGraphNil indicates a nil graph pointer.
var ErrGraphNil = errors.New("prim_kruskal: graph is nil")

// ErrUnknownMethod indicates Compute was given a method it does not implement.
var ErrUnknownMethod = errors.New("prim_kruskal: unknown method")

// MethodPrim selects scan-based Prim grown from a root.
const MethodPrim = "prim"

// MethodKruskal selects Kruskal's sort-and-union spanning forest.
const MethodKruskal = "kruskal"

// MSTOptions configures which MST algorithm Compute runs.
type MSTOptions struct {
	// Method to use: MethodPrim or MethodKruskal.
	Method string

	// Root is the start node for Prim. Unused by Kruskal.
	Root core.NodeID
}

// Option configures MSTOptions.
type Option func(*MSTOptions)

// WithMethod sets the algorithm Method.
func WithMethod(m string) Option {
	return func(opts *MSTOptions) {
		opts.Method = m
	}
}

// WithRoot sets the start node for Prim; ignored by Kruskal.
func WithRoot(root core.NodeID) Option {
	return func(opts *MSTOptions) {
		opts.Root = root
	}
}

// DefaultOptions returns Prim rooted at NodeID 0.
func DefaultOptions() MSTOptions {
	return MSTOptions{Method: MethodPrim, Root: 0}
}

// Compute selects and runs the MST algorithm named by the options.
//
//   - MethodPrim:    PrimMSTFrom(g, Root); an empty graph yields an empty tree.
//   - MethodKruskal: Kruskal(g).
//   - otherwise:     ErrUnknownMethod.
func Compute[V any](g *core.Graph[V], opts ...Option) ([]core.Edge, int64, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	switch o.Method {
	case MethodPrim:
		if g != nil && g.Len() == 0 {
			return []core.Edge{}, 0, nil
		}
		return PrimMSTFrom(g, o.Root)
	case MethodKruskal:
		return Kruskal(g)
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownMethod, o.Method)
	}
}
