// Package hnsw implements a Hierarchical Navigable Small World graph with
// filtered k-nearest-neighbour search.
//
// Points are inserted under caller-chosen labels (model.PointID). The graph
// assigns each a dense internal node id; only labels appear in results and
// only labels are passed to filters.
//
// # Filtered Search
//
// KNNSearch accepts a filter.Filter. The traversal calls Admits once for each
// distinct node it is about to place in the result set. Rejected nodes are
// still expanded, so a filter narrows the result but never cuts the graph.
// Results are ordered by ascending distance with ties broken by ascending
// label. An error from Admits aborts the search and no partial result is
// returned.
//
//	g, _ := hnsw.New(128)
//	_ = g.AddPoint(ctx, vec, 42)
//	res, err := g.KNNSearch(ctx, q, 10, &hnsw.SearchOptions{Filter: f})
//
// # Thread Safety
//
// AddPoint is serialized. Searches run concurrently with each other and wait
// for in-flight insertions.
package hnsw
