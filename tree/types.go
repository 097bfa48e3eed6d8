// Package tree defines the Container contract shared by the ordered indexes,
// the node arena they are built on, and sentinel errors reported by the
// invariant checkers.
package tree

import (
	"cmp"
	"errors"
	"iter"
)

// Sentinel errors returned by Check.
var (
	// ErrOrderViolation indicates an in-order walk produced keys out of order.
	ErrOrderViolation = errors.New("tree: keys out of order")

	// ErrUnbalanced indicates an AVL node with |balance factor| > 1 or a stale height.
	ErrUnbalanced = errors.New("tree: AVL balance violated")

	// ErrRedViolation indicates a red node with a red child.
	ErrRedViolation = errors.New("tree: red node has red child")

	// ErrBlackHeight indicates two root-to-leaf paths with different black counts.
	ErrBlackHeight = errors.New("tree: unequal black height")

	// ErrRedRoot indicates a red root.
	ErrRedRoot = errors.New("tree: root is red")
)

// Container is an ordered key/value index with insert-or-overwrite semantics.
// No variant supports deletion; indexes are rebuilt rather than edited.
type Container[K, V any] interface {
	// Insert stores value under key, overwriting any previous value.
	Insert(key K, value V)

	// Find returns the value stored under key.
	Find(key K) (V, bool)

	// Len returns the number of distinct keys.
	Len() int

	// Height returns the number of nodes on the longest root-to-leaf path.
	Height() int

	// All yields every pair in ascending key order.
	All() iter.Seq2[K, V]

	// Levels yields every pair in level order (root first, left to right).
	Levels() iter.Seq2[K, V]
}

// Compile-time checks.
var (
	_ Container[int, string] = (*BST[int, string])(nil)
	_ Container[int, string] = (*AVL[int, string])(nil)
	_ Container[int, string] = (*RedBlack[int, string])(nil)
)

// nilIndex marks an absent child or an empty root.
const nilIndex int32 = -1

// node is one arena slot. height is used by AVL, red by RedBlack.
type node[K, V any] struct {
	key    K
	value  V
	left   int32
	right  int32
	height int32
	red    bool
}

// arena stores nodes contiguously and addresses them by index, so child
// links never dangle when the backing slice grows.
type arena[K, V any] struct {
	nodes   []node[K, V]
	root    int32
	compare func(a, b K) int
}

func newArena[K, V any](compare func(a, b K) int) arena[K, V] {
	return arena[K, V]{root: nilIndex, compare: compare}
}

// orderedCompare adapts cmp.Compare to the comparator signature.
func orderedCompare[K cmp.Ordered]() func(a, b K) int {
	return func(a, b K) int { return cmp.Compare(a, b) }
}

// alloc appends a leaf and returns its index.
func (a *arena[K, V]) alloc(key K, value V, red bool) int32 {
	a.nodes = append(a.nodes, node[K, V]{
		key:    key,
		value:  value,
		left:   nilIndex,
		right:  nilIndex,
		height: 1,
		red:    red,
	})
	return int32(len(a.nodes) - 1)
}
