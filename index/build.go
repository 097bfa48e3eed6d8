// File: build.go
// Role: Builder construction and the per-user, global and multi-user builds.

package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/civicindex/core"
	"github.com/katalvlaran/civicindex/minheap"
	"github.com/katalvlaran/civicindex/request"
	"github.com/katalvlaran/civicindex/source"
	"github.com/katalvlaran/civicindex/tree"
)

// Builder streams requests from a source into fresh index structures.
// A Builder holds no per-build state and may run builds concurrently.
type Builder struct {
	src         source.Source
	log         *slog.Logger
	affinity    Affinity
	limit       int
	concurrency int
	err         error
}

// New returns a Builder reading from src. Option errors are reported by
// every build.
func New(src source.Source, opts ...Option) *Builder {
	b := &Builder{
		src:         src,
		log:         slog.Default(),
		affinity:    DefaultAffinity(),
		limit:       DefaultRelatedLimit,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Affinity returns the distance model used by global builds.
func (b *Builder) Affinity() Affinity { return b.affinity }

func (b *Builder) ready() error {
	if b.err != nil {
		return b.err
	}
	if b.src == nil {
		return ErrNilSource
	}
	return nil
}

func newTree() *tree.BST[request.TimeKey, *request.Request] {
	return tree.NewBSTFunc[request.TimeKey, *request.Request](request.TimeKey.Compare)
}

func newQueue() *minheap.Heap[request.PriorityKey, *request.Request] {
	return minheap.NewFunc[request.PriorityKey, *request.Request](request.PriorityKey.Compare)
}

// BuildIndexes builds every container over one user's requests. The graph
// chains the requests in stream order with ChainWeight edges.
//
// Steps:
//  1. Stream Filter{OwnerID: userID} from the source.
//  2. Insert each request into Tree, ByTracking, ByID and Queue.
//  3. Add a graph node and link it to the previous request's node.
//
// A stream error discards everything built so far.
func (b *Builder) BuildIndexes(ctx context.Context, userID string) (*UserIndexes, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	start := time.Now()
	b.log.Debug("index: user build started", "owner", userID)

	ix := &UserIndexes{
		OwnerID:    userID,
		Tree:       newTree(),
		ByTracking: tree.NewAVL[string, *request.Request](),
		ByID:       tree.NewRedBlack[int64, *request.Request](),
		Queue:      newQueue(),
		Graph:      core.NewGraph[*request.Request](0),
		Nodes:      make(map[int64]core.NodeID),
	}

	var (
		prev    core.NodeID
		records int
	)
	for r, err := range b.src.Stream(ctx, request.ForOwner(userID)) {
		if err != nil {
			b.log.Error("index: user build aborted", "owner", userID, "records", records, "err", err)
			return nil, unavailable(err)
		}
		records++

		ix.Tree.Insert(request.TimeKeyOf(r), r)
		ix.ByTracking.Insert(r.TrackingCode, r)
		ix.ByID.Insert(r.ID, r)
		ix.Queue.Insert(request.PriorityKeyOf(r), r)

		if _, dup := ix.Nodes[r.ID]; dup {
			b.log.Warn("index: duplicate request id in stream", "id", r.ID)
			continue
		}
		id := ix.Graph.AddNode(r)
		ix.Nodes[r.ID] = id
		if id > 0 {
			if err := ix.Graph.AddUndirectedEdge(prev, id, ChainWeight); err != nil {
				return nil, fmt.Errorf("index: chain %d-%d: %w", prev, id, err)
			}
		}
		prev = id
	}

	b.log.Info("index: user build finished",
		"owner", userID,
		"records", records,
		"nodes", ix.Graph.Len(),
		"edges", ix.Graph.EdgeCount(),
		"elapsed", time.Since(start),
	)
	return ix, nil
}

// BuildGlobalIndexes builds Tree, Queue and an affinity graph over every
// request matching f. Each arriving request is linked to every earlier one
// it shares an attribute with, using the smaller weight if a pair repeats.
func (b *Builder) BuildGlobalIndexes(ctx context.Context, f request.Filter) (*GlobalIndexes, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	start := time.Now()
	b.log.Debug("index: global build started", "filter", f)

	gx := &GlobalIndexes{
		Filter: f,
		Tree:   newTree(),
		Queue:  newQueue(),
		Graph:  core.NewGraph[*request.Request](0),
		Nodes:  make(map[int64]core.NodeID),
	}

	var records int
	for r, err := range b.src.Stream(ctx, f) {
		if err != nil {
			b.log.Error("index: global build aborted", "records", records, "err", err)
			return nil, unavailable(err)
		}
		records++

		gx.Tree.Insert(request.TimeKeyOf(r), r)
		gx.Queue.Insert(request.PriorityKeyOf(r), r)

		if _, dup := gx.Nodes[r.ID]; dup {
			b.log.Warn("index: duplicate request id in stream", "id", r.ID)
			continue
		}
		id := gx.Graph.AddNode(r)
		gx.Nodes[r.ID] = id
		if err := b.link(gx.Graph, id, r); err != nil {
			return nil, err
		}
	}

	b.log.Info("index: global build finished",
		"records", records,
		"nodes", gx.Graph.Len(),
		"edges", gx.Graph.EdgeCount(),
		"elapsed", time.Since(start),
	)
	return gx, nil
}

// link connects node id (holding r) to every earlier node with an affinity.
func (b *Builder) link(g *core.Graph[*request.Request], id core.NodeID, r *request.Request) error {
	for other, o := range g.Nodes() {
		if other == id {
			continue
		}
		w, ok := b.affinity.Distance(r, o)
		if !ok {
			continue
		}
		if _, err := g.AddOrUpdateUndirectedEdge(other, id, w); err != nil {
			return fmt.Errorf("index: link %d-%d: %w", other, id, err)
		}
	}
	return nil
}

// BuildForUsers runs BuildIndexes for each user, at most the configured
// concurrency at a time. The first failure cancels the remaining builds.
func (b *Builder) BuildForUsers(ctx context.Context, userIDs []string) (map[string]*UserIndexes, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	var (
		mu  sync.Mutex
		out = make(map[string]*UserIndexes, len(userIDs))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for _, uid := range userIDs {
		g.Go(func() error {
			ix, err := b.BuildIndexes(gctx, uid)
			if err != nil {
				return fmt.Errorf("user %s: %w", uid, err)
			}
			mu.Lock()
			out[uid] = ix
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// RelatedRequests rebuilds the unfiltered global indexes and returns the
// requests related to requestID.
func (b *Builder) RelatedRequests(ctx context.Context, requestID int64) ([]Relation, error) {
	gx, err := b.BuildGlobalIndexes(ctx, request.Filter{})
	if err != nil {
		return nil, err
	}
	rels := Related(gx, requestID, b.limit)
	b.log.Debug("index: related requests", "id", requestID, "found", len(rels))
	return rels, nil
}

// unavailable tags a stream failure with source.ErrRecordSourceUnavailable
// unless the source already did.
func unavailable(err error) error {
	if errors.Is(err, source.ErrRecordSourceUnavailable) {
		return fmt.Errorf("index: build: %w", err)
	}
	return fmt.Errorf("index: build: %w: %w", source.ErrRecordSourceUnavailable, err)
}
