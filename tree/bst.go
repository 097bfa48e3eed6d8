package tree

import "cmp"

// BST is an unbalanced binary search tree. Its shape depends entirely on
// insertion order: sorted input degrades it to a list.
type BST[K, V any] struct {
	arena[K, V]
}

// NewBST returns an empty BST over a naturally ordered key type.
func NewBST[K cmp.Ordered, V any]() *BST[K, V] {
	return &BST[K, V]{arena: newArena[K, V](orderedCompare[K]())}
}

// NewBSTFunc returns an empty BST ordered by compare, which must return a
// negative, zero, or positive result as a sorts before, equal to, or after b.
func NewBSTFunc[K, V any](compare func(a, b K) int) *BST[K, V] {
	return &BST[K, V]{arena: newArena[K, V](compare)}
}

// Insert descends from the root to the empty slot where key belongs and
// attaches a new leaf there; an equal key overwrites the stored value.
// Complexity: O(h), worst case O(n).
func (t *BST[K, V]) Insert(key K, value V) {
	if t.root == nilIndex {
		t.root = t.alloc(key, value, false)
		return
	}
	i := t.root
	for {
		c := t.compare(key, t.nodes[i].key)
		switch {
		case c == 0:
			t.nodes[i].value = value
			return
		case c < 0:
			if t.nodes[i].left == nilIndex {
				leaf := t.alloc(key, value, false)
				t.nodes[i].left = leaf
				return
			}
			i = t.nodes[i].left
		default:
			if t.nodes[i].right == nilIndex {
				leaf := t.alloc(key, value, false)
				t.nodes[i].right = leaf
				return
			}
			i = t.nodes[i].right
		}
	}
}

// Check verifies in-order key ordering.
func (t *BST[K, V]) Check() error {
	return t.checkOrder()
}
