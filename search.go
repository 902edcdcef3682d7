package vecfilter

import (
	"context"
	"iter"
	"time"

	"github.com/hupe1980/vecfilter/attrset"
	"github.com/hupe1980/vecfilter/filter"
	"github.com/hupe1980/vecfilter/hnsw"
	"golang.org/x/sync/errgroup"
)

// Query is one entry of a batch search.
type Query struct {
	Vector []float32

	// Attributes every result must carry. Nil means unfiltered.
	Attributes attrset.Set
}

// Search returns up to k points nearest to q whose attribute sets contain
// every attribute of query, nearest first. A nil query disables filtering.
//
// Example:
//
//	want, _ := idx.NewAttributeSet(2, 5)
//	results, err := idx.Search(ctx, q, 10, want, vecfilter.WithEF(400))
func (i *Index) Search(ctx context.Context, q []float32, k int, query attrset.Set, optFns ...SearchOption) ([]Result, error) {
	start := time.Now()
	opts := applySearchOptions(optFns)

	results, counts, err := i.search(ctx, q, k, query, opts)
	err = translateError(err)

	var admitted, rejected int64
	if counts != nil {
		admitted, rejected = counts.Admitted(), counts.Rejected()
	}
	i.metrics.RecordSearch(k, admitted, rejected, time.Since(start), err)
	i.logger.LogSearch(ctx, k, len(results), admitted, rejected, err)

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (i *Index) search(ctx context.Context, q []float32, k int, query attrset.Set, opts searchOptions) ([]Result, *filter.Counting, error) {
	if i.closed.Load() {
		return nil, nil, ErrClosed
	}
	if k <= 0 {
		return nil, nil, ErrInvalidK
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	view := i.catalog.Borrow()
	defer view.Release()

	searchOpts := &hnsw.SearchOptions{EFSearch: opts.ef}

	var counts *filter.Counting
	if query != nil {
		f, err := filter.NewSuperset(query, view)
		if err != nil {
			return nil, nil, err
		}
		counts = filter.NewCounting(f)
		searchOpts.Filter = counts
	}

	results, err := i.graph.KNNSearch(ctx, q, k, searchOpts)
	return results, counts, err
}

// SearchStream is Search as an iterator. Results are yielded nearest first;
// stop iterating to discard the rest.
//
//	for r, err := range idx.SearchStream(ctx, q, 100, want) {
//	    if err != nil {
//	        return err
//	    }
//	    if r.Distance > threshold {
//	        break
//	    }
//	}
func (i *Index) SearchStream(ctx context.Context, q []float32, k int, query attrset.Set, optFns ...SearchOption) iter.Seq2[Result, error] {
	return func(yield func(Result, error) bool) {
		results, err := i.Search(ctx, q, k, query, optFns...)
		if err != nil {
			yield(Result{}, err)
			return
		}
		for _, r := range results {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// BatchSearch runs independent searches in parallel, bounded by
// WithParallelism. The result at position n answers queries[n]. The first
// failing query cancels the rest and its error is returned.
func (i *Index) BatchSearch(ctx context.Context, queries []Query, k int, optFns ...SearchOption) ([][]Result, error) {
	start := time.Now()

	out := make([][]Result, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.opts.parallelism)

	for n, q := range queries {
		g.Go(func() error {
			res, err := i.Search(gctx, q.Vector, k, q.Attributes, optFns...)
			if err != nil {
				return err
			}
			out[n] = res
			return nil
		})
	}

	err := g.Wait()
	i.metrics.RecordBatchSearch(len(queries), time.Since(start), err)
	i.logger.LogBatchSearch(ctx, len(queries), k, err)

	if err != nil {
		return nil, err
	}
	return out, nil
}

// BruteSearch returns the exact k nearest points admitted by query by
// scanning every point. A nil query disables filtering.
func (i *Index) BruteSearch(ctx context.Context, q []float32, k int, query attrset.Set) ([]Result, error) {
	results, err := i.bruteSearch(ctx, q, k, query)
	return results, translateError(err)
}

func (i *Index) bruteSearch(ctx context.Context, q []float32, k int, query attrset.Set) ([]Result, error) {
	if i.closed.Load() {
		return nil, ErrClosed
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	view := i.catalog.Borrow()
	defer view.Release()

	var f filter.Filter
	if query != nil {
		sup, err := filter.NewSuperset(query, view)
		if err != nil {
			return nil, err
		}
		f = sup
	}

	return i.graph.BruteSearch(ctx, q, k, f)
}
