// Package minheap provides a binary min-heap of (key, value) entries.
//
// The heap is array-backed: the entry at index i has children at 2i+1 and
// 2i+2 and its parent at (i-1)/2. Every parent key compares ≤ its children's
// keys, so the minimum is always at index 0.
//
// Equal keys are returned in no particular order; callers that need a
// stable secondary order fold it into the key type (see request.PriorityKey).
//
// Complexity:
//
//   - Insert, ExtractMin: O(log n)
//   - Peek, Len:          O(1)
//   - TopK:               O(n + k log n) (copies the heap first)
package minheap

import "cmp"

// Entry is one (key, value) pair stored in the heap.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Heap is a binary min-heap ordered by a three-way key comparator.
// The zero value is not usable; construct with New or NewFunc.
type Heap[K, V any] struct {
	entries []Entry[K, V]
	compare func(a, b K) int
}

// New returns an empty heap over a naturally ordered key type.
func New[K cmp.Ordered, V any]() *Heap[K, V] {
	return &Heap[K, V]{compare: func(a, b K) int { return cmp.Compare(a, b) }}
}

// NewFunc returns an empty heap ordered by compare.
func NewFunc[K, V any](compare func(a, b K) int) *Heap[K, V] {
	return &Heap[K, V]{compare: compare}
}

// Len returns the number of entries.
func (h *Heap[K, V]) Len() int {
	return len(h.entries)
}

// Insert adds (key, value) and sifts it up to restore heap order.
func (h *Heap[K, V]) Insert(key K, value V) {
	h.entries = append(h.entries, Entry[K, V]{Key: key, Value: value})
	h.up(len(h.entries) - 1)
}

// Peek returns the minimum entry without removing it.
func (h *Heap[K, V]) Peek() (K, V, bool) {
	if len(h.entries) == 0 {
		var (
			k K
			v V
		)
		return k, v, false
	}
	e := h.entries[0]
	return e.Key, e.Value, true
}

// ExtractMin removes and returns the minimum entry.
//
// Steps:
//  1. Save the root.
//  2. Move the last entry to the root and shrink by one.
//  3. Sift the new root down.
func (h *Heap[K, V]) ExtractMin() (K, V, bool) {
	k, v, ok := h.Peek()
	if !ok {
		return k, v, false
	}
	last := len(h.entries) - 1
	h.entries[0] = h.entries[last]
	h.entries[last] = Entry[K, V]{} // release references held by the vacated slot
	h.entries = h.entries[:last]
	if last > 0 {
		h.down(0)
	}
	return k, v, true
}

// TopK returns up to k values in ascending key order. The receiver is not
// modified; extraction runs on a clone.
func (h *Heap[K, V]) TopK(k int) []V {
	if k <= 0 {
		return []V{}
	}
	c := h.Clone()
	out := make([]V, 0, min(k, c.Len()))
	for len(out) < k {
		_, v, ok := c.ExtractMin()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

// Clone returns an independent copy sharing the comparator.
func (h *Heap[K, V]) Clone() *Heap[K, V] {
	entries := make([]Entry[K, V], len(h.entries))
	copy(entries, h.entries)
	return &Heap[K, V]{entries: entries, compare: h.compare}
}

// Entries returns a copy of the entries in heap (array) order.
func (h *Heap[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *Heap[K, V]) less(i, j int) bool {
	return h.compare(h.entries[i].Key, h.entries[j].Key) < 0
}

func (h *Heap[K, V]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			return
		}
		h.entries[i], h.entries[parent] = h.entries[parent], h.entries[i]
		i = parent
	}
}

func (h *Heap[K, V]) down(i int) {
	n := len(h.entries)
	for {
		smallest := i
		if l := 2*i + 1; l < n && h.less(l, smallest) {
			smallest = l
		}
		if r := 2*i + 2; r < n && h.less(r, smallest) {
			smallest = r
		}
		if smallest == i {
			return
		}
		h.entries[i], h.entries[smallest] = h.entries[smallest], h.entries[i]
		i = smallest
	}
}
