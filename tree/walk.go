package tree

import (
	"fmt"
	"iter"
)

// Find returns the value stored under key.
// Complexity: O(h) where h is the tree height.
func (a *arena[K, V]) Find(key K) (V, bool) {
	i := a.root
	for i != nilIndex {
		n := &a.nodes[i]
		switch c := a.compare(key, n.key); {
		case c < 0:
			i = n.left
		case c > 0:
			i = n.right
		default:
			return n.value, true
		}
	}
	var zero V
	return zero, false
}

// Len returns the number of distinct keys. Every arena slot holds a
// distinct key because overwrites reuse the existing slot.
func (a *arena[K, V]) Len() int {
	return len(a.nodes)
}

// Height returns the number of nodes on the longest root-to-leaf path,
// measured level by level so degenerate trees do not recurse deeply.
func (a *arena[K, V]) Height() int {
	if a.root == nilIndex {
		return 0
	}
	height := 0
	level := []int32{a.root}
	for len(level) > 0 {
		height++
		next := level[:0:0]
		for _, i := range level {
			if l := a.nodes[i].left; l != nilIndex {
				next = append(next, l)
			}
			if r := a.nodes[i].right; r != nilIndex {
				next = append(next, r)
			}
		}
		level = next
	}
	return height
}

// All yields every pair in ascending key order using an explicit stack.
func (a *arena[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		stack := make([]int32, 0, 32)
		i := a.root
		for i != nilIndex || len(stack) > 0 {
			for i != nilIndex {
				stack = append(stack, i)
				i = a.nodes[i].left
			}
			i = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(a.nodes[i].key, a.nodes[i].value) {
				return
			}
			i = a.nodes[i].right
		}
	}
}

// Levels yields every pair in level order.
func (a *arena[K, V]) Levels() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if a.root == nilIndex {
			return
		}
		queue := []int32{a.root}
		for len(queue) > 0 {
			i := queue[0]
			queue = queue[1:]
			n := &a.nodes[i]
			if !yield(n.key, n.value) {
				return
			}
			if n.left != nilIndex {
				queue = append(queue, n.left)
			}
			if n.right != nilIndex {
				queue = append(queue, n.right)
			}
		}
	}
}

// checkOrder verifies that All yields strictly ascending keys.
func (a *arena[K, V]) checkOrder() error {
	var (
		prev  K
		first = true
		pos   int
	)
	for k := range a.All() {
		if !first && a.compare(prev, k) >= 0 {
			return fmt.Errorf("%w: position %d", ErrOrderViolation, pos)
		}
		prev, first = k, false
		pos++
	}
	return nil
}
