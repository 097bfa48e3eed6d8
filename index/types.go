// File: types.go
// Role: sentinel errors, Builder options, and the built index and result types.

package index

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/katalvlaran/civicindex/core"
	"github.com/katalvlaran/civicindex/minheap"
	"github.com/katalvlaran/civicindex/request"
	"github.com/katalvlaran/civicindex/tree"
)

var (
	// ErrNilSource indicates a Builder without a record source.
	ErrNilSource = errors.New("index: record source is nil")

	// ErrOptionViolation indicates an invalid Builder option.
	ErrOptionViolation = errors.New("index: invalid option")
)

// ChainWeight is the edge weight between consecutive requests in a
// per-user graph.
const ChainWeight int64 = 1

// DefaultRelatedLimit is the number of relations Related keeps by default.
const DefaultRelatedLimit = 3

// DefaultConcurrency bounds BuildForUsers when no option is given.
const DefaultConcurrency = 4

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger for build progress. Nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithAffinity replaces the distance model used by global builds.
func WithAffinity(a Affinity) Option {
	return func(b *Builder) {
		if err := a.Validate(); err != nil {
			b.err = err
			return
		}
		b.affinity = a
	}
}

// WithRelatedLimit sets how many relations RelatedRequests returns.
func WithRelatedLimit(n int) Option {
	return func(b *Builder) {
		if n < 1 {
			b.err = fmt.Errorf("%w: related limit %d", ErrOptionViolation, n)
			return
		}
		b.limit = n
	}
}

// WithConcurrency bounds the number of parallel builds in BuildForUsers.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n < 1 {
			b.err = fmt.Errorf("%w: concurrency %d", ErrOptionViolation, n)
			return
		}
		b.concurrency = n
	}
}

// UserIndexes holds one user's requests in every container.
type UserIndexes struct {
	OwnerID    string
	Tree       *tree.BST[request.TimeKey, *request.Request]
	ByTracking *tree.AVL[string, *request.Request]
	ByID       *tree.RedBlack[int64, *request.Request]
	Queue      *minheap.Heap[request.PriorityKey, *request.Request]
	Graph      *core.Graph[*request.Request]

	// Nodes maps a request id to its graph node.
	Nodes map[int64]core.NodeID
}

// GlobalIndexes holds the system-wide (optionally filtered) request set.
// Graph edges carry Affinity distances.
type GlobalIndexes struct {
	Filter request.Filter
	Tree   *tree.BST[request.TimeKey, *request.Request]
	Queue  *minheap.Heap[request.PriorityKey, *request.Request]
	Graph  *core.Graph[*request.Request]
	Nodes  map[int64]core.NodeID
}

// Relation is one request surfaced by Related.
type Relation struct {
	Request *request.Request `json:"request"`
	Weight  int64            `json:"weight"`
	Reason  string           `json:"reason"`
}

// Field is a name/value pair for presentation layers.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Fields renders r as ordered name/value pairs: id, title, status,
// category, location, priority, submitted_at, weight, reason.
func (r Relation) Fields() []Field {
	req := r.Request
	return []Field{
		{"id", strconv.FormatInt(req.ID, 10)},
		{"title", req.Title},
		{"status", req.Status.String()},
		{"category", req.Category},
		{"location", req.Location},
		{"priority", strconv.Itoa(req.Priority)},
		{"submitted_at", req.SubmittedAt.Format(time.RFC3339)},
		{"weight", strconv.FormatInt(r.Weight, 10)},
		{"reason", r.Reason},
	}
}

// Proximity is one request reported by Nearby.
type Proximity struct {
	Request  *request.Request `json:"request"`
	Distance int64            `json:"distance"`
	Hops     int              `json:"hops"`
}
