package tree

import (
	"cmp"
	"fmt"
)

// AVL is a height-balanced binary search tree: after every Insert each
// node's balance factor (left height minus right height) is -1, 0, or 1.
type AVL[K, V any] struct {
	arena[K, V]
}

// NewAVL returns an empty AVL tree over a naturally ordered key type.
func NewAVL[K cmp.Ordered, V any]() *AVL[K, V] {
	return &AVL[K, V]{arena: newArena[K, V](orderedCompare[K]())}
}

// NewAVLFunc returns an empty AVL tree ordered by compare.
func NewAVLFunc[K, V any](compare func(a, b K) int) *AVL[K, V] {
	return &AVL[K, V]{arena: newArena[K, V](compare)}
}

// Insert stores value under key and rebalances on the way back to the root.
//
// Steps (per node on the insertion path, bottom-up):
//  1. Recompute height = 1 + max(h(left), h(right)).
//  2. balance = h(left) - h(right).
//  3. balance > 1 and key < left.key:   left-left   → rotate right.
//  4. balance < -1 and key > right.key: right-right → rotate left.
//  5. balance > 1 and key > left.key:   left-right  → rotate left(left), then right.
//  6. balance < -1 and key < right.key: right-left  → rotate right(right), then left.
//
// An equal key overwrites the value without changing the shape.
// Complexity: O(log n).
func (t *AVL[K, V]) Insert(key K, value V) {
	t.root = t.insert(t.root, key, value)
}

func (t *AVL[K, V]) insert(i int32, key K, value V) int32 {
	if i == nilIndex {
		return t.alloc(key, value, false)
	}

	c := t.compare(key, t.nodes[i].key)
	switch {
	case c < 0:
		// alloc may grow the arena; assign through a temporary.
		l := t.insert(t.nodes[i].left, key, value)
		t.nodes[i].left = l
	case c > 0:
		r := t.insert(t.nodes[i].right, key, value)
		t.nodes[i].right = r
	default:
		t.nodes[i].value = value
		return i
	}

	t.updateHeight(i)
	bf := t.balance(i)

	switch {
	case bf > 1 && t.compare(key, t.nodes[t.nodes[i].left].key) < 0:
		return t.rotateRight(i)
	case bf < -1 && t.compare(key, t.nodes[t.nodes[i].right].key) > 0:
		return t.rotateLeft(i)
	case bf > 1 && t.compare(key, t.nodes[t.nodes[i].left].key) > 0:
		l := t.rotateLeft(t.nodes[i].left)
		t.nodes[i].left = l
		return t.rotateRight(i)
	case bf < -1 && t.compare(key, t.nodes[t.nodes[i].right].key) < 0:
		r := t.rotateRight(t.nodes[i].right)
		t.nodes[i].right = r
		return t.rotateLeft(i)
	}
	return i
}

func (t *AVL[K, V]) h(i int32) int32 {
	if i == nilIndex {
		return 0
	}
	return t.nodes[i].height
}

func (t *AVL[K, V]) updateHeight(i int32) {
	t.nodes[i].height = 1 + max(t.h(t.nodes[i].left), t.h(t.nodes[i].right))
}

func (t *AVL[K, V]) balance(i int32) int32 {
	return t.h(t.nodes[i].left) - t.h(t.nodes[i].right)
}

//	    y            x
//	   / \          / \
//	  x   C  →     A   y
//	 / \              / \
//	A   B            B   C
func (t *AVL[K, V]) rotateRight(y int32) int32 {
	x := t.nodes[y].left
	t.nodes[y].left = t.nodes[x].right
	t.nodes[x].right = y
	t.updateHeight(y)
	t.updateHeight(x)
	return x
}

func (t *AVL[K, V]) rotateLeft(x int32) int32 {
	y := t.nodes[x].right
	t.nodes[x].right = t.nodes[y].left
	t.nodes[y].left = x
	t.updateHeight(x)
	t.updateHeight(y)
	return y
}

// BalanceFactors returns every node's balance factor in level order.
func (t *AVL[K, V]) BalanceFactors() []int {
	out := make([]int, 0, len(t.nodes))
	if t.root == nilIndex {
		return out
	}
	queue := []int32{t.root}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		out = append(out, int(t.balance(i)))
		if l := t.nodes[i].left; l != nilIndex {
			queue = append(queue, l)
		}
		if r := t.nodes[i].right; r != nilIndex {
			queue = append(queue, r)
		}
	}
	return out
}

// Check verifies key order, stored heights, and balance factors.
func (t *AVL[K, V]) Check() error {
	if err := t.checkOrder(); err != nil {
		return err
	}
	_, err := t.checkNode(t.root)
	return err
}

// checkNode recomputes the height of i from scratch and compares it with the
// stored value and the balance bound.
func (t *AVL[K, V]) checkNode(i int32) (int32, error) {
	if i == nilIndex {
		return 0, nil
	}
	lh, err := t.checkNode(t.nodes[i].left)
	if err != nil {
		return 0, err
	}
	rh, err := t.checkNode(t.nodes[i].right)
	if err != nil {
		return 0, err
	}
	if bf := lh - rh; bf < -1 || bf > 1 {
		return 0, fmt.Errorf("%w: balance factor %d at key %v", ErrUnbalanced, bf, t.nodes[i].key)
	}
	height := 1 + max(lh, rh)
	if height != t.nodes[i].height {
		return 0, fmt.Errorf("%w: stored height %d, actual %d at key %v",
			ErrUnbalanced, t.nodes[i].height, height, t.nodes[i].key)
	}
	return height, nil
}
