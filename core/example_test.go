package core_test

import (
	"fmt"

	"github.com/katalvlaran/civicindex/core"
)

// ExampleGraph builds a triangle of requests and lists its edges.
func ExampleGraph() {
	g := core.NewGraph[string](3)
	pothole := g.AddNode("pothole on Main St")
	light := g.AddNode("streetlight out on Main St")
	bin := g.AddNode("overflowing bin in park")

	_ = g.AddUndirectedEdge(pothole, light, 2)
	_, _ = g.AddOrUpdateUndirectedEdge(light, bin, 8)
	_, _ = g.AddOrUpdateUndirectedEdge(bin, light, 5) // lowers 8 → 5
	_ = g.AddUndirectedEdge(pothole, bin, 9)

	for _, e := range g.Edges() {
		from, _ := g.Value(e.From)
		to, _ := g.Value(e.To)
		fmt.Printf("%s -- %s (%d)\n", from, to, e.Weight)
	}
	// Output:
	// pothole on Main St -- streetlight out on Main St (2)
	// pothole on Main St -- overflowing bin in park (9)
	// streetlight out on Main St -- overflowing bin in park (5)
}
