package dfs_test

import (
	"testing"

	"github.com/katalvlaran/civicindex/core"
	"github.com/katalvlaran/civicindex/dfs"
)

// BenchmarkDFS_Forest measures full traversal over 100 disjoint 100-node chains.
func BenchmarkDFS_Forest(b *testing.B) {
	g := core.NewGraph[int](10_000)
	for c := 0; c < 100; c++ {
		prev := g.AddNode(c * 100)
		for i := 1; i < 100; i++ {
			id := g.AddNode(c*100 + i)
			_ = g.AddUndirectedEdge(prev, id, 1)
			prev = id
		}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := dfs.DFS(g, 0, dfs.WithFullTraversal()); err != nil {
			b.Fatal(err)
		}
	}
}
