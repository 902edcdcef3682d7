// Package vecfilter provides attribute-filtered approximate nearest neighbor
// search over an in-memory HNSW graph.
//
// Every point carries a vector and a set of boolean attributes drawn from a
// fixed universe {0, …, A-1}. A search takes a query vector and a query
// attribute set and returns the nearest points whose attribute sets contain
// every query attribute. Filtering happens inside the graph traversal: each
// candidate is tested once before it may take a result slot, and rejected
// candidates still lead the traversal on. No separate filtered index is built.
//
// # Quick Start
//
//	ctx := context.Background()
//	idx, err := vecfilter.New(16, 64)  // 16-dim vectors, 64 attributes
//	if err != nil {
//	    panic(err)
//	}
//	defer idx.Close()
//
//	attrs, _ := idx.NewAttributeSet(0, 2, 5)
//	_ = idx.AddPoint(ctx, 1, vec, attrs)
//
//	want, _ := idx.NewAttributeSet(2, 5)
//	results, err := idx.Search(ctx, query, 10, want)
//
// # Attribute Set Representations
//
// Package attrset offers three interchangeable representations with
// identical semantics:
//
//   - Linear: one bool per attribute, scanned element by element
//   - Bitset: fixed-width 64-bit words, superset test word by word
//   - Compressed: Roaring bitmap, superset test by intersection
//
// WithRepresentation fixes the kind; by default one is chosen from the
// universe size and the WithExpectedAttributes hint.
//
// # Concurrency
//
// Searches run in parallel; each borrows the attribute catalog read-only.
// AddPoint waits for in-flight searches. BatchSearch fans queries out over
// a bounded errgroup:
//
//	results, err := idx.BatchSearch(ctx, []vecfilter.Query{
//	    {Vector: q1, Attributes: want},
//	    {Vector: q2},  // unfiltered
//	}, 10)
//
// # Observability
//
// WithLogger accepts a *Logger wrapping log/slog. WithMetricsCollector
// accepts any MetricsCollector; BasicMetricsCollector keeps atomic counters
// including filter selectivity.
package vecfilter
