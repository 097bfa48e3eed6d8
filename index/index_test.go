package index_test

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/civicindex/core"
	"github.com/katalvlaran/civicindex/index"
	"github.com/katalvlaran/civicindex/internal/logging"
	"github.com/katalvlaran/civicindex/request"
	"github.com/katalvlaran/civicindex/source"
)

var base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// city seeds six requests whose default-affinity graph has the edges
// 1-2(1) 1-3(5) 2-3(8) 2-4(6) 1-5(9); request 6 is isolated.
func city(t *testing.T) *source.Memory {
	t.Helper()
	m := source.NewMemory()
	for _, r := range []request.Request{
		{OwnerID: "u1", Title: "Streetlight out", Category: "Electrical", Location: "Main St", Status: request.StatusCompleted, SubmittedAt: base},
		{OwnerID: "u2", Title: "Pothole near streetlight", Category: "Roads", Location: "main st", SubmittedAt: base.Add(time.Hour)},
		{OwnerID: "u1", Title: "Flickering streetlight", Category: "Electrical", Location: "Oak Ave", Priority: 1, SubmittedAt: base.Add(30 * time.Hour)},
		{OwnerID: "u3", Title: "Repaint crosswalk", Category: "Roads", Location: "Elm St", Status: request.StatusInProgress, SubmittedAt: base.Add(72 * time.Hour)},
		{OwnerID: "u3", Title: "Noise complaint", Status: request.StatusCompleted, SubmittedAt: base.Add(100 * time.Hour)},
		{OwnerID: "u4", Title: "Graffiti", Category: "Vandalism", Location: "Pine Rd", Status: request.StatusOnHold, SubmittedAt: base.Add(500 * time.Hour)},
	} {
		_, err := m.Add(r)
		require.NoError(t, err)
	}
	return m
}

func newBuilder(src source.Source, opts ...index.Option) *index.Builder {
	return index.New(src, append([]index.Option{index.WithLogger(logging.Discard())}, opts...)...)
}

// failing yields good records and then err.
type failing struct {
	good int
	err  error
}

func (f failing) Stream(ctx context.Context, _ request.Filter) iter.Seq2[*request.Request, error] {
	return func(yield func(*request.Request, error) bool) {
		for i := 1; i <= f.good; i++ {
			r := &request.Request{ID: int64(i), Title: "r", Priority: 2, Status: request.StatusSubmitted, TrackingCode: "REQ-" + string(rune('A'+i))}
			if !yield(r, nil) {
				return
			}
		}
		yield(nil, f.err)
	}
}

func ids(rs []*request.Request) []int64 {
	out := make([]int64, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestBuildIndexes_User(t *testing.T) {
	b := newBuilder(city(t))
	ix, err := b.BuildIndexes(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", ix.OwnerID)
	assert.Equal(t, 2, ix.Tree.Len())
	assert.Equal(t, 2, ix.ByTracking.Len())
	assert.Equal(t, 2, ix.ByID.Len())
	assert.Equal(t, 2, ix.Queue.Len())

	var order []int64
	for _, r := range ix.Tree.All() {
		order = append(order, r.ID)
	}
	assert.Equal(t, []int64{1, 3}, order)

	_, top, ok := ix.Queue.Peek()
	require.True(t, ok)
	assert.Equal(t, int64(3), top.ID, "priority 1 is most urgent")

	assert.Equal(t, 2, ix.Graph.Len())
	assert.Equal(t, 1, ix.Graph.EdgeCount())
	w, ok := ix.Graph.Weight(ix.Nodes[1], ix.Nodes[3])
	require.True(t, ok)
	assert.Equal(t, index.ChainWeight, w)
}

func TestBuildIndexes_RoundTripFind(t *testing.T) {
	b := newBuilder(city(t))
	for _, owner := range []string{"u1", "u2", "u3", "u4"} {
		ix, err := b.BuildIndexes(context.Background(), owner)
		require.NoError(t, err)
		for id, node := range ix.Nodes {
			r, ok := ix.Graph.Value(node)
			require.True(t, ok)
			require.Equal(t, id, r.ID)

			got, ok := ix.Tree.Find(request.TimeKeyOf(r))
			require.True(t, ok)
			assert.Same(t, r, got)
			got, ok = ix.ByTracking.Find(r.TrackingCode)
			require.True(t, ok)
			assert.Same(t, r, got)
			got, ok = ix.ByID.Find(r.ID)
			require.True(t, ok)
			assert.Same(t, r, got)
		}
	}
}

func TestBuildIndexes_Idempotent(t *testing.T) {
	b := newBuilder(city(t))
	ctx := context.Background()

	snapshot := func(ix *index.UserIndexes) (inOrder, levels []string) {
		for k := range ix.ByTracking.All() {
			inOrder = append(inOrder, k)
		}
		for k := range ix.ByTracking.Levels() {
			levels = append(levels, k)
		}
		for k := range ix.Tree.Levels() {
			levels = append(levels, k.At.String())
		}
		return inOrder, levels
	}

	first, err := b.BuildIndexes(ctx, "u3")
	require.NoError(t, err)
	second, err := b.BuildIndexes(ctx, "u3")
	require.NoError(t, err)

	in1, lv1 := snapshot(first)
	in2, lv2 := snapshot(second)
	assert.Equal(t, in1, in2)
	assert.Equal(t, lv1, lv2)
	assert.NotSame(t, first.Graph, second.Graph)
}

func TestBuildIndexes_Empty(t *testing.T) {
	b := newBuilder(source.NewMemory())
	ix, err := b.BuildIndexes(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, ix.Tree.Len())
	assert.Zero(t, ix.Queue.Len())
	assert.Zero(t, ix.Graph.Len())
	assert.Empty(t, ix.Nodes)

	gx, err := b.BuildGlobalIndexes(context.Background(), request.Filter{})
	require.NoError(t, err)
	assert.Zero(t, gx.Graph.Len())
	assert.Nil(t, index.Related(gx, 1, 3))
}

func TestBuild_SourceFailure(t *testing.T) {
	boom := errors.New("connection reset")
	b := newBuilder(failing{good: 2, err: boom})

	ix, err := b.BuildIndexes(context.Background(), "u1")
	assert.Nil(t, ix)
	assert.ErrorIs(t, err, source.ErrRecordSourceUnavailable)
	assert.ErrorIs(t, err, boom)

	gx, err := b.BuildGlobalIndexes(context.Background(), request.Filter{})
	assert.Nil(t, gx)
	assert.ErrorIs(t, err, source.ErrRecordSourceUnavailable)

	wrapped := newBuilder(failing{err: source.ErrRecordSourceUnavailable})
	_, err = wrapped.RelatedRequests(context.Background(), 1)
	assert.ErrorIs(t, err, source.ErrRecordSourceUnavailable)
}

func TestBuild_Options(t *testing.T) {
	ctx := context.Background()
	_, err := index.New(nil).BuildIndexes(ctx, "u1")
	assert.ErrorIs(t, err, index.ErrNilSource)

	for _, opt := range []index.Option{
		index.WithRelatedLimit(0),
		index.WithConcurrency(0),
		index.WithAffinity(index.Affinity{}),
		index.WithAffinity(index.Affinity{Base: 5, Keyword: -1}),
	} {
		_, err := newBuilder(source.NewMemory(), opt).BuildGlobalIndexes(ctx, request.Filter{})
		assert.ErrorIs(t, err, index.ErrOptionViolation)
	}
}

func TestBuildGlobalIndexes_AffinityGraph(t *testing.T) {
	b := newBuilder(city(t))
	gx, err := b.BuildGlobalIndexes(context.Background(), request.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 6, gx.Tree.Len())
	assert.Equal(t, 6, gx.Graph.Len())
	assert.Equal(t, 5, gx.Graph.EdgeCount())

	for _, e := range []struct {
		a, b int64
		w    int64
	}{{1, 2, 1}, {1, 3, 5}, {2, 3, 8}, {2, 4, 6}, {1, 5, 9}} {
		w, ok := gx.Graph.Weight(gx.Nodes[e.a], gx.Nodes[e.b])
		require.True(t, ok, "%d-%d", e.a, e.b)
		assert.Equal(t, e.w, w, "%d-%d", e.a, e.b)
	}
	assert.Zero(t, gx.Graph.Degree(gx.Nodes[6]))

	open, err := b.BuildGlobalIndexes(context.Background(), request.ForStatus(request.StatusSubmitted))
	require.NoError(t, err)
	assert.Equal(t, 2, open.Graph.Len())
	assert.Equal(t, request.ForStatus(request.StatusSubmitted), open.Filter)
}

func TestRelated(t *testing.T) {
	b := newBuilder(city(t))
	gx, err := b.BuildGlobalIndexes(context.Background(), request.Filter{})
	require.NoError(t, err)

	rels := index.Related(gx, 1, 3)
	require.Len(t, rels, 2, "request 5 is completed")
	assert.Equal(t, int64(2), rels[0].Request.ID)
	assert.Equal(t, int64(1), rels[0].Weight)
	assert.Equal(t, "same location: main st", rels[0].Reason)
	assert.Equal(t, int64(3), rels[1].Request.ID)
	assert.Equal(t, "same category: Electrical", rels[1].Reason)

	rels = index.Related(gx, 4, 0)
	require.Len(t, rels, 1)
	assert.Equal(t, int64(2), rels[0].Request.ID)
	assert.Equal(t, "same category: Roads", rels[0].Reason)

	assert.Nil(t, index.Related(gx, 99, 3))
	assert.Empty(t, index.Related(gx, 6, 3))
	assert.Nil(t, index.Related(nil, 1, 3))
}

func TestRelatedRequests_Limit(t *testing.T) {
	b := newBuilder(city(t), index.WithRelatedLimit(1))
	rels, err := b.RelatedRequests(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, int64(2), rels[0].Request.ID)

	rels, err = b.RelatedRequests(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, rels)
}

// star links a source to neighbours with the given weights and priorities.
func star(weights []int64, priorities []int) *index.GlobalIndexes {
	g := core.NewGraph[*request.Request](len(weights) + 1)
	gx := &index.GlobalIndexes{Graph: g, Nodes: map[int64]core.NodeID{}}
	src := &request.Request{ID: 100, Title: "source", Status: request.StatusCompleted, SubmittedAt: base}
	gx.Nodes[src.ID] = g.AddNode(src)
	for i, w := range weights {
		r := &request.Request{ID: int64(101 + i), Title: "neighbour", Priority: priorities[i], Status: request.StatusSubmitted, SubmittedAt: base}
		n := g.AddNode(r)
		gx.Nodes[r.ID] = n
		if err := g.AddUndirectedEdge(gx.Nodes[src.ID], n, w); err != nil {
			panic(err)
		}
	}
	return gx
}

func TestRelated_TieBreakByPriority(t *testing.T) {
	gx := star([]int64{1, 1, 2}, []int{2, 1, 1})
	rels := index.Related(gx, 100, 3)
	require.Len(t, rels, 3)
	assert.Equal(t, []int64{102, 101, 103}, []int64{rels[0].Request.ID, rels[1].Request.ID, rels[2].Request.ID})
	assert.Equal(t, "MST-connected (weight 1)", rels[0].Reason)
}

func TestRelated_TieBreakBySubmissionThenID(t *testing.T) {
	gx := star([]int64{3, 3, 3, 3}, []int{2, 2, 2, 2})
	later, _ := gx.Graph.Value(gx.Nodes[101])
	later.SubmittedAt = base.Add(time.Minute)

	rels := index.Related(gx, 100, 3)
	require.Len(t, rels, 3)
	assert.Equal(t, []int64{102, 103, 104}, []int64{rels[0].Request.ID, rels[1].Request.ID, rels[2].Request.ID})
}

func TestRelated_Reasons(t *testing.T) {
	mk := func(r request.Request) *request.Request {
		if r.Status == "" {
			r.Status = request.StatusSubmitted
		}
		r.Priority = 2
		return &r
	}
	cases := []struct {
		name   string
		src, r *request.Request
		want   string
	}{
		{"status same day", mk(request.Request{ID: 1, Title: "a", SubmittedAt: base}), mk(request.Request{ID: 2, Title: "b", SubmittedAt: base.Add(2 * time.Hour)}), "same status (Submitted) submitted within a day"},
		{"status", mk(request.Request{ID: 1, Title: "a", SubmittedAt: base}), mk(request.Request{ID: 2, Title: "b", SubmittedAt: base.Add(48 * time.Hour)}), "same status (Submitted)"},
		{"keyword pairing", mk(request.Request{ID: 1, Title: "Electrical panel fixed", Status: request.StatusCompleted}), mk(request.Request{ID: 2, Title: "Paint the wall"}), "electrical work often precedes painting"},
		{"fallback", mk(request.Request{ID: 1, Title: "a", Status: request.StatusCompleted}), mk(request.Request{ID: 2, Title: "b"}), "MST-connected (weight 7)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := core.NewGraph[*request.Request](2)
			a, b := g.AddNode(tc.src), g.AddNode(tc.r)
			require.NoError(t, g.AddUndirectedEdge(a, b, 7))
			gx := &index.GlobalIndexes{Graph: g, Nodes: map[int64]core.NodeID{1: a, 2: b}}
			rels := index.Related(gx, 1, 1)
			require.Len(t, rels, 1)
			assert.Equal(t, tc.want, rels[0].Reason)
		})
	}
}

func TestNearby(t *testing.T) {
	gx, err := newBuilder(city(t)).BuildGlobalIndexes(context.Background(), request.Filter{})
	require.NoError(t, err)

	near := index.Nearby(gx, 4, 0)
	require.Len(t, near, 2)
	assert.Equal(t, int64(2), near[0].Request.ID)
	assert.Equal(t, int64(6), near[0].Distance)
	assert.Equal(t, 1, near[0].Hops)
	assert.Equal(t, int64(3), near[1].Request.ID)
	assert.Equal(t, int64(12), near[1].Distance)
	assert.Equal(t, 3, near[1].Hops)

	assert.Len(t, index.Nearby(gx, 4, 1), 1)
	assert.Empty(t, index.Nearby(gx, 6, 0))
	assert.Nil(t, index.Nearby(gx, 99, 0))
}

func TestWithinAndClusters(t *testing.T) {
	gx, err := newBuilder(city(t)).BuildGlobalIndexes(context.Background(), request.Filter{})
	require.NoError(t, err)

	one, err := index.Within(gx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 5}, ids(one))

	all, err := index.Within(gx, 4, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = index.Within(gx, 99, 1)
	assert.ErrorIs(t, err, core.ErrNodeNotFound)

	clusters, err := index.Clusters(gx)
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	assert.Len(t, clusters[0], 5)
	assert.Equal(t, []int64{6}, ids(clusters[1]))
}

func TestBuildForUsers(t *testing.T) {
	b := newBuilder(city(t), index.WithConcurrency(2))
	got, err := b.BuildForUsers(context.Background(), []string{"u1", "u2", "u3", "u4"})
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, 2, got["u1"].Tree.Len())
	assert.Equal(t, 1, got["u2"].Tree.Len())
	assert.Equal(t, 2, got["u3"].Graph.Len())

	_, err = newBuilder(failing{err: errors.New("down")}).BuildForUsers(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, source.ErrRecordSourceUnavailable)
}

func TestRelationFields(t *testing.T) {
	rel := index.Relation{
		Request: &request.Request{ID: 7, Title: "Leak", Status: request.StatusOnHold, Category: "Utilities", Location: "Oak Ave", Priority: 1, SubmittedAt: base},
		Weight:  4,
		Reason:  "same location: Oak Ave",
	}
	f := rel.Fields()
	names := make([]string, len(f))
	for i, kv := range f {
		names[i] = kv.Name
	}
	assert.Equal(t, []string{"id", "title", "status", "category", "location", "priority", "submitted_at", "weight", "reason"}, names)
	assert.Equal(t, "7", f[0].Value)
	assert.Equal(t, "OnHold", f[2].Value)
	assert.Equal(t, "2024-05-01T09:00:00Z", f[6].Value)
	assert.Equal(t, "4", f[7].Value)
}
