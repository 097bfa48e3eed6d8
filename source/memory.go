package source

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/katalvlaran/civicindex/request"
)

// Memory is an in-memory request repository. It owns its records; readers
// always receive copies, so indexes built from a stream are unaffected by
// later status changes.
type Memory struct {
	mu     sync.RWMutex
	items  []*request.Request // ascending ID
	byID   map[int64]*request.Request
	byCode map[string]*request.Request
	nextID int64
	now    func() time.Time
}

// Compile-time check that Memory implements Source.
var _ Source = (*Memory)(nil)

// NewMemory returns an empty repository.
func NewMemory() *Memory {
	return &Memory{
		byID:   make(map[int64]*request.Request),
		byCode: make(map[string]*request.Request),
		now:    time.Now,
	}
}

// Add stores a copy of r and returns the stored copy.
//
// Defaults applied before validation:
//   - ID: next free ID when zero.
//   - TrackingCode: generated when empty.
//   - Priority: request.DefaultPriority when zero.
//   - Status: Submitted when empty.
//   - SubmittedAt: now when zero.
func (m *Memory) Add(r request.Request) (*request.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.Priority == 0 {
		r.Priority = request.DefaultPriority
	}
	if r.Status == "" {
		r.Status = request.StatusSubmitted
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = m.now().UTC()
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	if r.ID == 0 {
		r.ID = m.nextID + 1
	}
	if _, ok := m.byID[r.ID]; ok {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateID, r.ID)
	}

	if r.TrackingCode == "" {
		code, err := m.uniqueCode()
		if err != nil {
			return nil, err
		}
		r.TrackingCode = code
	} else if _, ok := m.byCode[r.TrackingCode]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTrackingCode, r.TrackingCode)
	}

	stored := &r
	m.byID[r.ID] = stored
	m.byCode[r.TrackingCode] = stored
	i, _ := slices.BinarySearchFunc(m.items, r.ID, func(e *request.Request, id int64) int {
		return cmp.Compare(e.ID, id)
	})
	m.items = slices.Insert(m.items, i, stored)
	if r.ID > m.nextID {
		m.nextID = r.ID
	}

	c := *stored
	return &c, nil
}

// uniqueCode generates tracking codes until one is unused.
func (m *Memory) uniqueCode() (string, error) {
	for {
		code, err := request.NewTrackingCode()
		if err != nil {
			return "", err
		}
		if _, taken := m.byCode[code]; !taken {
			return code, nil
		}
	}
}

// Get returns a copy of the request with the given ID.
func (m *Memory) Get(id int64) (*request.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	c := *r
	return &c, nil
}

// ByTrackingCode returns a copy of the request with the given code.
func (m *Memory) ByTrackingCode(code string) (*request.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: tracking code %s", ErrNotFound, code)
	}
	c := *r
	return &c, nil
}

// SetStatus moves a request to status. Entering Completed stamps
// CompletedAt; leaving it clears the stamp.
func (m *Memory) SetStatus(id int64, status request.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", request.ErrInvalidStatus, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	r.Status = status
	if status == request.StatusCompleted {
		at := m.now().UTC()
		r.CompletedAt = &at
	} else {
		r.CompletedAt = nil
	}
	return nil
}

// Complete is SetStatus(id, StatusCompleted).
func (m *Memory) Complete(id int64) error {
	return m.SetStatus(id, request.StatusCompleted)
}

// Len returns the number of stored requests.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Stream yields copies of the matching requests in ascending ID order.
// The set is snapshotted when iteration starts. Cancellation is checked
// before every record.
func (m *Memory) Stream(ctx context.Context, f request.Filter) iter.Seq2[*request.Request, error] {
	return func(yield func(*request.Request, error) bool) {
		m.mu.RLock()
		snapshot := make([]request.Request, 0, len(m.items))
		for _, r := range m.items {
			if f.Match(r) {
				snapshot = append(snapshot, *r)
			}
		}
		m.mu.RUnlock()

		for i := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(&snapshot[i], nil) {
				return
			}
		}
	}
}
