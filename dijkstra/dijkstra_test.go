package dijkstra_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/civicindex/core"
	"github.com/katalvlaran/civicindex/dijkstra"
)

// triangle builds A-B (2), B-C (4), A-C (10).
func triangle() *core.Graph[string] {
	g := core.NewGraph[string](3)
	a, b, c := g.AddNode("A"), g.AddNode("B"), g.AddNode("C")
	_ = g.AddUndirectedEdge(a, b, 2)
	_ = g.AddUndirectedEdge(b, c, 4)
	_ = g.AddUndirectedEdge(a, c, 10)
	return g
}

func TestDijkstra_Validation(t *testing.T) {
	_, _, err := dijkstra.Dijkstra[string](nil, 0)
	assert.ErrorIs(t, err, dijkstra.ErrNilGraph)

	_, _, err = dijkstra.Dijkstra(triangle(), 9)
	assert.ErrorIs(t, err, dijkstra.ErrNodeNotFound)

	_, _, err = dijkstra.Dijkstra(triangle(), 0, dijkstra.WithMaxDistance(-1))
	assert.ErrorIs(t, err, dijkstra.ErrBadMaxDistance)

	_, _, err = dijkstra.Dijkstra(triangle(), 0, dijkstra.WithInfEdgeThreshold(0))
	assert.ErrorIs(t, err, dijkstra.ErrBadInfThreshold)

	g := core.NewGraph[int](2)
	_ = g.AddUndirectedEdge(g.AddNode(0), g.AddNode(1), -3)
	_, _, err = dijkstra.Dijkstra(g, 0)
	assert.True(t, errors.Is(err, dijkstra.ErrNegativeWeight), "got %v", err)
}

func TestDijkstra_TriangleWithPath(t *testing.T) {
	dist, prev, err := dijkstra.Dijkstra(triangle(), 0, dijkstra.WithReturnPath())
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 2, 6}, dist)
	assert.Equal(t, []core.NodeID{dijkstra.NoPredecessor, 0, 1}, prev)
	assert.Equal(t, []core.NodeID{0, 1, 2}, dijkstra.PathTo(prev, dist, 2))
}

func TestDijkstra_NoPathByDefault(t *testing.T) {
	_, prev, err := dijkstra.Dijkstra(triangle(), 0)
	require.NoError(t, err)
	assert.Nil(t, prev)
}

func TestDijkstra_MaxDistance(t *testing.T) {
	dist, _, err := dijkstra.Dijkstra(triangle(), 0, dijkstra.WithMaxDistance(3))
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 2, dijkstra.Unreachable}, dist)

	dist, _, err = dijkstra.Dijkstra(triangle(), 0, dijkstra.WithMaxDistance(0))
	require.NoError(t, err)
	assert.Equal(t, []int64{0, dijkstra.Unreachable, dijkstra.Unreachable}, dist)
}

func TestDijkstra_InfThreshold(t *testing.T) {
	g := triangle()
	dist, _, err := dijkstra.Dijkstra(g, 0, dijkstra.WithInfEdgeThreshold(4))
	require.NoError(t, err)
	// B-C (4) and A-C (10) are both walls.
	assert.Equal(t, []int64{0, 2, dijkstra.Unreachable}, dist)
	assert.Nil(t, dijkstra.PathTo(nil, dist, 2))
}

func TestDijkstra_Disconnected(t *testing.T) {
	g := core.NewGraph[int](3)
	a, b := g.AddNode(0), g.AddNode(1)
	g.AddNode(2)
	_ = g.AddUndirectedEdge(a, b, 1)

	dist, prev, err := dijkstra.Dijkstra(g, a, dijkstra.WithReturnPath())
	require.NoError(t, err)
	assert.Equal(t, int64(dijkstra.Unreachable), dist[2])
	assert.Nil(t, dijkstra.PathTo(prev, dist, 2))
	assert.Nil(t, dijkstra.PathTo(prev, dist, 7))
}
