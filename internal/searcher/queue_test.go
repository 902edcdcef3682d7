package searcher

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/hupe1980/vecfilter/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueue(t *testing.T) {
	t.Run("MinHeap", func(t *testing.T) {
		pq := NewPriorityQueue(false)
		pq.PushItem(PriorityQueueItem{Node: 1, ID: 1, Distance: 10})
		pq.PushItem(PriorityQueueItem{Node: 2, ID: 2, Distance: 5})
		pq.PushItem(PriorityQueueItem{Node: 3, ID: 3, Distance: 20})

		require.Equal(t, 3, pq.Len())
		top, ok := pq.TopItem()
		require.True(t, ok)
		assert.Equal(t, float32(5), top.Distance)

		for _, want := range []float32{5, 10, 20} {
			item, ok := pq.PopItem()
			require.True(t, ok)
			assert.Equal(t, want, item.Distance)
		}
		_, ok = pq.PopItem()
		assert.False(t, ok)
	})

	t.Run("MaxHeap", func(t *testing.T) {
		pq := NewPriorityQueue(true)
		pq.PushItem(PriorityQueueItem{Node: 1, ID: 1, Distance: 10})
		pq.PushItem(PriorityQueueItem{Node: 2, ID: 2, Distance: 5})
		pq.PushItem(PriorityQueueItem{Node: 3, ID: 3, Distance: 20})

		for _, want := range []float32{20, 10, 5} {
			item, ok := pq.PopItem()
			require.True(t, ok)
			assert.Equal(t, want, item.Distance)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		pq := NewPriorityQueue(true)
		_, ok := pq.TopItem()
		assert.False(t, ok)
	})
}

func TestPriorityQueue_TieBreak(t *testing.T) {
	pq := NewPriorityQueue(false)
	for _, id := range []model.PointID{9, 3, 7, 1} {
		pq.PushItem(PriorityQueueItem{ID: id, Distance: 1})
	}
	var got []model.PointID
	for pq.Len() > 0 {
		item, _ := pq.PopItem()
		got = append(got, item.ID)
	}
	assert.Equal(t, []model.PointID{1, 3, 7, 9}, got)
}

func TestPushItemBounded(t *testing.T) {
	pq := NewPriorityQueue(true)

	assert.True(t, pq.PushItemBounded(PriorityQueueItem{ID: 1, Distance: 3}, 2))
	assert.True(t, pq.PushItemBounded(PriorityQueueItem{ID: 2, Distance: 1}, 2))
	assert.False(t, pq.PushItemBounded(PriorityQueueItem{ID: 3, Distance: 4}, 2))
	assert.True(t, pq.PushItemBounded(PriorityQueueItem{ID: 4, Distance: 2}, 2))

	// Equal distance: the smaller ID wins the slot.
	assert.True(t, pq.PushItemBounded(PriorityQueueItem{ID: 0, Distance: 2}, 2))
	assert.False(t, pq.PushItemBounded(PriorityQueueItem{ID: 5, Distance: 2}, 2))

	assert.False(t, pq.PushItemBounded(PriorityQueueItem{ID: 6, Distance: 0}, 0))

	got := pq.Sorted(nil)
	assert.Equal(t, []model.Candidate{{ID: 2, Distance: 1}, {ID: 0, Distance: 2}}, got)
	assert.Equal(t, 0, pq.Len())
}

func TestSorted_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const k = 25

	for _, isMax := range []bool{true, false} {
		pq := NewPriorityQueue(isMax)
		var all []model.Candidate
		for i := 0; i < 500; i++ {
			c := model.Candidate{ID: model.PointID(i), Distance: float32(rng.Intn(50))}
			all = append(all, c)
			if isMax {
				pq.PushItemBounded(PriorityQueueItem{ID: c.ID, Distance: c.Distance}, k)
			} else {
				pq.PushItem(PriorityQueueItem{ID: c.ID, Distance: c.Distance})
			}
		}
		sort.Slice(all, func(i, j int) bool { return model.CompareCandidates(all[i], all[j]) < 0 })

		got := pq.Sorted(nil)
		if isMax {
			assert.Equal(t, all[:k], got)
		} else {
			assert.Equal(t, all, got)
		}
	}
}

func TestDrain(t *testing.T) {
	pq := NewPriorityQueue(true)
	pq.PushItem(PriorityQueueItem{Node: 4, ID: 40, Distance: 2})
	pq.PushItem(PriorityQueueItem{Node: 1, ID: 10, Distance: 1})

	got := pq.Drain([]PriorityQueueItem{{Node: 9}})
	assert.Equal(t, []PriorityQueueItem{
		{Node: 9},
		{Node: 1, ID: 10, Distance: 1},
		{Node: 4, ID: 40, Distance: 2},
	}, got)
	assert.True(t, Less(got[1], got[2]))
	assert.True(t, Less(PriorityQueueItem{ID: 1, Distance: 2}, PriorityQueueItem{ID: 2, Distance: 2}))
	assert.False(t, Less(PriorityQueueItem{ID: 2, Distance: 2}, PriorityQueueItem{ID: 2, Distance: 2}))
}

func TestPriorityQueue_Reset(t *testing.T) {
	pq := NewPriorityQueueWithCapacity(false, 4)
	pq.PushItem(PriorityQueueItem{ID: 1, Distance: 1})
	pq.Reset()
	assert.Equal(t, 0, pq.Len())
	assert.Empty(t, pq.Items())
}
