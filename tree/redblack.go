package tree

import (
	"cmp"
	"fmt"
)

// RedBlack is a left-leaning red-black tree. New nodes are red; the fix-up
// applied on the way back up keeps red links leaning left, never stacks two
// reds, and splits 4-nodes by flipping colours. The root is always black.
type RedBlack[K, V any] struct {
	arena[K, V]
}

// NewRedBlack returns an empty red-black tree over a naturally ordered key type.
func NewRedBlack[K cmp.Ordered, V any]() *RedBlack[K, V] {
	return &RedBlack[K, V]{arena: newArena[K, V](orderedCompare[K]())}
}

// NewRedBlackFunc returns an empty red-black tree ordered by compare.
func NewRedBlackFunc[K, V any](compare func(a, b K) int) *RedBlack[K, V] {
	return &RedBlack[K, V]{arena: newArena[K, V](compare)}
}

// Insert stores value under key.
//
// Fix-up per node on the insertion path, bottom-up:
//  1. right red, left not red        → rotate left.
//  2. left red and left.left red     → rotate right.
//  3. left red and right red         → flip colours.
//
// Complexity: O(log n).
func (t *RedBlack[K, V]) Insert(key K, value V) {
	t.root = t.insert(t.root, key, value)
	t.nodes[t.root].red = false
}

func (t *RedBlack[K, V]) insert(h int32, key K, value V) int32 {
	if h == nilIndex {
		return t.alloc(key, value, true)
	}

	switch c := t.compare(key, t.nodes[h].key); {
	case c < 0:
		l := t.insert(t.nodes[h].left, key, value)
		t.nodes[h].left = l
	case c > 0:
		r := t.insert(t.nodes[h].right, key, value)
		t.nodes[h].right = r
	default:
		t.nodes[h].value = value
	}

	if t.isRed(t.nodes[h].right) && !t.isRed(t.nodes[h].left) {
		h = t.rotateLeft(h)
	}
	if l := t.nodes[h].left; t.isRed(l) && t.isRed(t.nodes[l].left) {
		h = t.rotateRight(h)
	}
	if t.isRed(t.nodes[h].left) && t.isRed(t.nodes[h].right) {
		t.flipColors(h)
	}
	return h
}

func (t *RedBlack[K, V]) isRed(i int32) bool {
	return i != nilIndex && t.nodes[i].red
}

func (t *RedBlack[K, V]) rotateLeft(h int32) int32 {
	x := t.nodes[h].right
	t.nodes[h].right = t.nodes[x].left
	t.nodes[x].left = h
	t.nodes[x].red = t.nodes[h].red
	t.nodes[h].red = true
	return x
}

func (t *RedBlack[K, V]) rotateRight(h int32) int32 {
	x := t.nodes[h].left
	t.nodes[h].left = t.nodes[x].right
	t.nodes[x].right = h
	t.nodes[x].red = t.nodes[h].red
	t.nodes[h].red = true
	return x
}

func (t *RedBlack[K, V]) flipColors(h int32) {
	t.nodes[h].red = true
	t.nodes[t.nodes[h].left].red = false
	t.nodes[t.nodes[h].right].red = false
}

// BlackHeight returns the number of black nodes on the leftmost
// root-to-leaf path (every path has the same count when Check passes).
func (t *RedBlack[K, V]) BlackHeight() int {
	n := 0
	for i := t.root; i != nilIndex; i = t.nodes[i].left {
		if !t.nodes[i].red {
			n++
		}
	}
	return n
}

// Check verifies key order, a black root, no red-red parent/child pair, and
// equal black height on every root-to-leaf path.
func (t *RedBlack[K, V]) Check() error {
	if err := t.checkOrder(); err != nil {
		return err
	}
	if t.isRed(t.root) {
		return ErrRedRoot
	}
	_, err := t.checkNode(t.root)
	return err
}

func (t *RedBlack[K, V]) checkNode(i int32) (int, error) {
	if i == nilIndex {
		return 1, nil // nil leaves count as black
	}
	n := &t.nodes[i]
	if n.red && (t.isRed(n.left) || t.isRed(n.right)) {
		return 0, fmt.Errorf("%w: at key %v", ErrRedViolation, n.key)
	}
	lb, err := t.checkNode(n.left)
	if err != nil {
		return 0, err
	}
	rb, err := t.checkNode(n.right)
	if err != nil {
		return 0, err
	}
	if lb != rb {
		return 0, fmt.Errorf("%w: %d vs %d below key %v", ErrBlackHeight, lb, rb, n.key)
	}
	if !n.red {
		lb++
	}
	return lb, nil
}
