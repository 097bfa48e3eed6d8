package dfs_test

import (
	"fmt"

	"github.com/katalvlaran/civicindex/core"
	"github.com/katalvlaran/civicindex/dfs"
)

// ExampleComponents groups requests that share an affinity link.
func ExampleComponents() {
	g := core.NewGraph[string](5)
	a := g.AddNode("pothole Main St")
	b := g.AddNode("burst pipe Oak Ave")
	c := g.AddNode("sinkhole Main St")
	d := g.AddNode("no water Oak Ave")
	g.AddNode("graffiti at library")
	_ = g.AddUndirectedEdge(a, c, 4)
	_ = g.AddUndirectedEdge(b, d, 3)

	comps, _ := dfs.Components(g)
	for _, comp := range comps {
		var titles []string
		for _, id := range comp {
			v, _ := g.Value(id)
			titles = append(titles, v)
		}
		fmt.Println(titles)
	}
	// Output:
	// [pothole Main St sinkhole Main St]
	// [burst pipe Oak Ave no water Oak Ave]
	// [graffiti at library]
}
