// Package civicindex is an in-memory indexing and relationship-discovery
// engine for municipal service requests.
//
// A snapshot of requests is streamed from a record source and rebuilt into
// fresh structures on every query cycle:
//
//   - ordered containers: BST, AVL and red-black trees
//   - a binary min-heap keyed by (priority, submission time, id)
//   - an undirected weighted graph with BFS, DFS, Prim/Kruskal MST and Dijkstra
//
// When a request is completed, the engine surfaces related open work by
// rooting a minimum spanning tree at it and ranking its MST neighbours.
// A separate heuristic engine infers a priority tier and category from
// free text at creation time.
//
// Everything is organized under these subpackages:
//
//	request/      - the Request record, Status, Filter, ordering keys, tracking codes
//	tree/         - BST, AVL and RedBlack ordered containers (insert/find, no delete)
//	minheap/      - array-backed binary min-heap with TopK
//	core/         - arena graph with mirrored edge pairs and min-weight upsert
//	bfs/, dfs/    - visited-set traversals with depth limits and hooks
//	prim_kruskal/ - scan-based Prim (whole graph or rooted) and Kruskal
//	dijkstra/     - shortest affinity distance on top of minheap
//	infer/        - priority tier and category inference from text
//	source/       - record sources: in-memory, fixture files, SQL (sqlstore/)
//	index/        - the orchestrator: per-user and global builds, Related, Nearby
//	events/       - NATS publisher for discovered relations
//	cmd/civicindex - operator CLI
//
// Quick example:
//
//	b := index.New(source.File{Path: "requests.yaml"})
//	rels, err := b.RelatedRequests(ctx, completedID)
//
//	go install github.com/katalvlaran/civicindex/cmd/civicindex@latest
package civicindex
