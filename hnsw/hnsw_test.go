package hnsw

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/hupe1980/vecfilter/attrset"
	"github.com/hupe1980/vecfilter/catalog"
	"github.com/hupe1980/vecfilter/distance"
	"github.com/hupe1980/vecfilter/filter"
	"github.com/hupe1980/vecfilter/model"
	"github.com/hupe1980/vecfilter/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T, vectors [][]float32, label func(i int) model.PointID, optFns ...func(o *Options)) *HNSW {
	t.Helper()

	h, err := New(len(vectors[0]), optFns...)
	require.NoError(t, err)

	for i, v := range vectors {
		require.NoError(t, h.AddPoint(context.Background(), v, label(i)))
	}
	return h
}

func identity(i int) model.PointID { return model.PointID(i) }

func TestNew(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, ErrInvalidDimension)

	_, err = New(4, func(o *Options) { o.EF = 0 })
	assert.Error(t, err)

	_, err = New(4, func(o *Options) { o.DistanceType = distance.Metric(42) })
	assert.Error(t, err)

	h, err := New(4, func(o *Options) { o.M = 1 })
	require.NoError(t, err)
	assert.Equal(t, 2, h.Stats().MMax)
	assert.Equal(t, 4, h.Dimension())
}

func TestAddPoint_Errors(t *testing.T) {
	ctx := context.Background()
	h, err := New(3)
	require.NoError(t, err)

	err = h.AddPoint(ctx, []float32{1, 2}, 1)
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 3, dm.Expected)
	assert.Equal(t, 2, dm.Actual)

	require.NoError(t, h.AddPoint(ctx, []float32{1, 2, 3}, 1))
	assert.ErrorIs(t, h.AddPoint(ctx, []float32{3, 2, 1}, 1), ErrDuplicateLabel)
	assert.Equal(t, 1, h.Len())
	assert.True(t, h.Contains(1))
	assert.False(t, h.Contains(2))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, h.AddPoint(canceled, []float32{0, 0, 0}, 2), context.Canceled)
}

func TestAddPoint_CopiesVector(t *testing.T) {
	h, err := New(2)
	require.NoError(t, err)

	v := []float32{1, 1}
	require.NoError(t, h.AddPoint(context.Background(), v, 7))
	v[0] = 100

	res, err := h.KNNSearch(context.Background(), []float32{1, 1}, 1, nil)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, model.PointID(7), res[0].ID)
	assert.Equal(t, float32(0), res[0].Distance)
}

func TestKNNSearch_Empty(t *testing.T) {
	h, err := New(2)
	require.NoError(t, err)

	res, err := h.KNNSearch(context.Background(), []float32{0, 0}, 3, nil)
	require.NoError(t, err)
	assert.Empty(t, res)

	_, err = h.KNNSearch(context.Background(), []float32{0, 0}, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = h.BruteSearch(context.Background(), []float32{0, 0}, -1, nil)
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = h.KNNSearch(context.Background(), []float32{0}, 3, nil)
	var dm *ErrDimensionMismatch
	assert.ErrorAs(t, err, &dm)
}

func TestKNNSearch_Recall(t *testing.T) {
	rng := testutil.NewRNG(4711)
	vectors := rng.UniformVectors(1000, 16)
	h := buildGraph(t, vectors, identity)

	const k = 10
	var recall float64
	queries := rng.UniformVectors(20, 16)
	for _, q := range queries {
		truth := testutil.BruteForceSearch(vectors, q, k, nil)
		got, err := h.KNNSearch(context.Background(), q, k, nil)
		require.NoError(t, err)
		require.Len(t, got, k)
		recall += testutil.ComputeRecall(truth, got)
	}
	assert.GreaterOrEqual(t, recall/float64(len(queries)), 0.9)
}

func TestKNNSearch_LabelsNotNodeIDs(t *testing.T) {
	rng := testutil.NewRNG(1)
	vectors := rng.UniformVectors(50, 4)
	h := buildGraph(t, vectors, func(i int) model.PointID { return model.PointID(1000 + 3*i) })

	res, err := h.KNNSearch(context.Background(), vectors[17], 1, nil)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, model.PointID(1000+3*17), res[0].ID)

	st := h.Stats()
	assert.Equal(t, 50, st.Nodes)
	assert.True(t, h.Contains(st.EntryPoint))
}

func TestKNNSearch_FilteredMatchesBrute(t *testing.T) {
	const n = 30
	rng := testutil.NewRNG(42)
	vectors := rng.UniformVectors(n, 8)
	attrs := rng.AttributeAssignments(n, 8, 0.5)
	want := []uint32{1}

	h := buildGraph(t, vectors, identity)
	f := filter.Func(func(id model.PointID) (bool, error) {
		return testutil.ContainsAll(attrs[id], want), nil
	})

	for _, q := range rng.UniformVectors(10, 8) {
		got, err := h.KNNSearch(context.Background(), q, n, &SearchOptions{EFSearch: n, Filter: f})
		require.NoError(t, err)

		brute, err := h.BruteSearch(context.Background(), q, n, f)
		require.NoError(t, err)
		assert.Equal(t, brute, got)

		truth := testutil.BruteForceSearch(vectors, q, n, func(i int) bool {
			return testutil.ContainsAll(attrs[i], want)
		})
		assert.Equal(t, truth, got)
	}
}

func TestKNNSearch_FilteredRecall(t *testing.T) {
	rng := testutil.NewRNG(7)
	vectors := rng.UniformVectors(1000, 16)
	attrs := rng.AttributeAssignments(1000, 16, 0.5)
	want := []uint32{2, 5}
	keep := func(i int) bool { return testutil.ContainsAll(attrs[i], want) }

	h := buildGraph(t, vectors, identity)
	f := filter.Func(func(id model.PointID) (bool, error) { return keep(int(id)), nil })

	const k = 10
	var recall float64
	queries := rng.UniformVectors(20, 16)
	for _, q := range queries {
		got, err := h.KNNSearch(context.Background(), q, k, &SearchOptions{Filter: f})
		require.NoError(t, err)
		for _, r := range got {
			assert.True(t, keep(int(r.ID)), "point %d not admitted", r.ID)
		}
		recall += testutil.ComputeRecall(testutil.BruteForceSearch(vectors, q, k, keep), got)
	}
	assert.GreaterOrEqual(t, recall/float64(len(queries)), 0.9)
}

func TestKNNSearch_AdmitsOncePerCandidate(t *testing.T) {
	rng := testutil.NewRNG(3)
	vectors := rng.UniformVectors(500, 8)
	h := buildGraph(t, vectors, identity)

	calls := make(map[model.PointID]int)
	f := filter.Func(func(id model.PointID) (bool, error) {
		calls[id]++
		return id%3 == 0, nil
	})

	got, err := h.KNNSearch(context.Background(), vectors[0], 10, &SearchOptions{EFSearch: 50, Filter: f})
	require.NoError(t, err)
	require.NotEmpty(t, got)

	for id, c := range calls {
		assert.Equal(t, 1, c, "point %d evaluated %d times", id, c)
	}
	for _, r := range got {
		assert.Equal(t, model.PointID(0), r.ID%3)
		assert.Contains(t, calls, r.ID)
	}
}

func TestKNNSearch_RejectAll(t *testing.T) {
	rng := testutil.NewRNG(5)
	vectors := rng.UniformVectors(30, 4)
	h := buildGraph(t, vectors, identity)

	calls := 0
	none := filter.Func(func(model.PointID) (bool, error) {
		calls++
		return false, nil
	})

	got, err := h.KNNSearch(context.Background(), vectors[0], 5, &SearchOptions{Filter: none})
	require.NoError(t, err)
	assert.Empty(t, got)
	// Rejected nodes keep the traversal going through the whole graph.
	assert.Equal(t, 30, calls)
}

func TestKNNSearch_FilterErrorAborts(t *testing.T) {
	rng := testutil.NewRNG(9)
	vectors := rng.UniformVectors(200, 4)
	h := buildGraph(t, vectors, identity)

	boom := errors.New("lookup failed")
	calls := 0
	f := filter.Func(func(model.PointID) (bool, error) {
		calls++
		if calls == 5 {
			return false, boom
		}
		return true, nil
	})

	got, err := h.KNNSearch(context.Background(), vectors[0], 10, &SearchOptions{Filter: f})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
	assert.Equal(t, 5, calls)

	calls = 0
	got, err = h.BruteSearch(context.Background(), vectors[0], 10, f)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestSearch_MissingCatalogEntryAborts(t *testing.T) {
	const missing = model.PointID(7)

	rng := testutil.NewRNG(13)
	vectors := rng.UniformVectors(30, 4)
	h := buildGraph(t, vectors, identity)

	cat := catalog.New(4)
	for i := range vectors {
		if model.PointID(i) == missing {
			continue
		}
		s, err := attrset.Of(attrset.KindBitset, 4, 1)
		require.NoError(t, err)
		require.NoError(t, cat.Put(model.PointID(i), s))
	}

	view := cat.Borrow()
	defer view.Release()

	query, err := attrset.Of(attrset.KindBitset, 4)
	require.NoError(t, err)
	f, err := filter.NewSuperset(query, view)
	require.NoError(t, err)

	// Every node is admitted until the missing one is reached.
	got, err := h.KNNSearch(context.Background(), vectors[0], 30, &SearchOptions{EFSearch: 30, Filter: f})
	var le *catalog.LookupError
	require.ErrorAs(t, err, &le)
	assert.Nil(t, got)

	got, err = h.BruteSearch(context.Background(), vectors[0], 5, f)
	require.ErrorAs(t, err, &le)
	assert.Nil(t, got)
}

func TestBruteSearch_HugeK(t *testing.T) {
	rng := testutil.NewRNG(17)
	vectors := rng.UniformVectors(5, 4)
	h := buildGraph(t, vectors, identity)

	got, err := h.BruteSearch(context.Background(), vectors[0], math.MaxInt, nil)
	require.NoError(t, err)
	assert.Len(t, got, 5)

	knn, err := h.KNNSearch(context.Background(), vectors[0], math.MaxInt, nil)
	require.NoError(t, err)
	assert.Equal(t, got, knn)
}

func TestKNNSearch_TiesOrderedByLabel(t *testing.T) {
	h, err := New(2)
	require.NoError(t, err)

	ctx := context.Background()
	for _, id := range []model.PointID{50, 10, 30, 20} {
		require.NoError(t, h.AddPoint(ctx, []float32{1, 1}, id))
	}
	require.NoError(t, h.AddPoint(ctx, []float32{5, 5}, 1))

	got, err := h.KNNSearch(ctx, []float32{1, 1}, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, []SearchResult{
		{ID: 10}, {ID: 20}, {ID: 30}, {ID: 50}, {ID: 1, Distance: 32},
	}, got)

	top2, err := h.KNNSearch(ctx, []float32{1, 1}, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []SearchResult{{ID: 10}, {ID: 20}}, top2)

	brute, err := h.BruteSearch(ctx, []float32{1, 1}, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, top2, brute)
}

func TestKNNSearch_OrderingNonDecreasing(t *testing.T) {
	rng := testutil.NewRNG(11)
	vectors := rng.UniformVectors(300, 8)
	h := buildGraph(t, vectors, identity, func(o *Options) { o.Heuristic = false })

	got, err := h.KNNSearch(context.Background(), rng.UniformVectors(1, 8)[0], 50, nil)
	require.NoError(t, err)
	require.Len(t, got, 50)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, model.CompareCandidates(got[i-1], got[i]), 0)
	}
}

func TestKNNSearch_ContextCanceled(t *testing.T) {
	rng := testutil.NewRNG(13)
	vectors := rng.UniformVectors(50, 4)
	h := buildGraph(t, vectors, identity)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.KNNSearch(ctx, vectors[0], 5, nil)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = h.BruteSearch(ctx, vectors[0], 5, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKNNSearch_Cosine(t *testing.T) {
	h, err := New(2, func(o *Options) { o.DistanceType = distance.MetricCosine })
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, h.AddPoint(ctx, []float32{10, 0}, 1))
	require.NoError(t, h.AddPoint(ctx, []float32{0, 3}, 2))
	require.NoError(t, h.AddPoint(ctx, []float32{1, 1}, 3))

	got, err := h.KNNSearch(ctx, []float32{0.1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.PointID(1), got[0].ID)
	assert.InDelta(t, 0, got[0].Distance, 1e-6)
}

func TestStats(t *testing.T) {
	h, err := New(4)
	require.NoError(t, err)
	st := h.Stats()
	assert.Equal(t, 0, st.Nodes)
	assert.Empty(t, st.Levels)

	rng := testutil.NewRNG(17)
	for i, v := range rng.UniformVectors(200, 4) {
		require.NoError(t, h.AddPoint(context.Background(), v, model.PointID(i)))
	}

	st = h.Stats()
	assert.Equal(t, 200, st.Nodes)
	assert.Equal(t, 16, st.MMax)
	assert.Equal(t, 32, st.MMax0)
	require.Len(t, st.Levels, st.MaxLevel+1)
	assert.Equal(t, 200, st.Levels[0].Nodes)
	assert.LessOrEqual(t, st.Levels[0].AvgConnections, float64(st.MMax0))
	assert.Greater(t, st.Levels[0].AvgConnections, 0.0)
}

func TestDeterministicConstruction(t *testing.T) {
	rng := testutil.NewRNG(19)
	vectors := rng.UniformVectors(200, 8)
	q := rng.UniformVectors(1, 8)[0]

	a := buildGraph(t, vectors, identity)
	b := buildGraph(t, vectors, identity)

	ra, err := a.KNNSearch(context.Background(), q, 10, nil)
	require.NoError(t, err)
	rb, err := b.KNNSearch(context.Background(), q, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, ra, rb)
	assert.Equal(t, a.Stats(), b.Stats())
}
