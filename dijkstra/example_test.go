package dijkstra_test

import (
	"fmt"

	"github.com/katalvlaran/civicindex/core"
	"github.com/katalvlaran/civicindex/dijkstra"
)

// ExampleDijkstra_thresholds shows how WithInfEdgeThreshold turns heavy edges
// into walls: A-C (10) is skipped, so C is reached via B.
func ExampleDijkstra_thresholds() {
	g := core.NewGraph[string](3)
	a, b, c := g.AddNode("A"), g.AddNode("B"), g.AddNode("C")
	_ = g.AddUndirectedEdge(a, b, 2)
	_ = g.AddUndirectedEdge(b, c, 4)
	_ = g.AddUndirectedEdge(a, c, 10)

	dist, prev, err := dijkstra.Dijkstra(g, a,
		dijkstra.WithInfEdgeThreshold(5),
		dijkstra.WithReturnPath(),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("dist[C]=%d path=%v\n", dist[c], dijkstra.PathTo(prev, dist, c))
	// Output: dist[C]=6 path=[0 1 2]
}
