package request

import (
	"cmp"
	"time"
)

// TimeKey orders requests by submission time, breaking ties by ID so two
// requests submitted in the same instant never collide in an ordered index.
type TimeKey struct {
	At time.Time
	ID int64
}

// TimeKeyOf returns the TimeKey for r.
func TimeKeyOf(r *Request) TimeKey {
	return TimeKey{At: r.SubmittedAt, ID: r.ID}
}

// Compare returns -1, 0 or +1 as k sorts before, equal to, or after o.
func (k TimeKey) Compare(o TimeKey) int {
	if c := k.At.Compare(o.At); c != 0 {
		return c
	}
	return cmp.Compare(k.ID, o.ID)
}

// PriorityKey orders requests by urgency: priority first, then the earlier
// submission, then ID.
type PriorityKey struct {
	Priority    int
	SubmittedAt time.Time
	ID          int64
}

// PriorityKeyOf returns the PriorityKey for r.
func PriorityKeyOf(r *Request) PriorityKey {
	return PriorityKey{Priority: r.Priority, SubmittedAt: r.SubmittedAt, ID: r.ID}
}

// Compare returns -1, 0 or +1 as k sorts before, equal to, or after o.
func (k PriorityKey) Compare(o PriorityKey) int {
	if c := cmp.Compare(k.Priority, o.Priority); c != 0 {
		return c
	}
	if c := k.SubmittedAt.Compare(o.SubmittedAt); c != 0 {
		return c
	}
	return cmp.Compare(k.ID, o.ID)
}
