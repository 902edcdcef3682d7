package hnsw

import (
	"slices"

	"github.com/hupe1980/vecfilter/internal/searcher"
)

func compareItems(a, b searcher.PriorityQueueItem) int {
	switch {
	case searcher.Less(a, b):
		return -1
	case searcher.Less(b, a):
		return 1
	default:
		return 0
	}
}

// selectNeighbours picks at most m entries of candidates, which must be sorted
// nearest first. The result is a fresh slice, also nearest first.
func (h *HNSW) selectNeighbours(candidates []searcher.PriorityQueueItem, m int) []searcher.PriorityQueueItem {
	if h.opts.Heuristic {
		return h.selectNeighboursHeuristic(candidates, m)
	}
	return selectNeighboursSimple(candidates, m)
}

// selectNeighboursSimple keeps the m nearest candidates.
func selectNeighboursSimple(candidates []searcher.PriorityQueueItem, m int) []searcher.PriorityQueueItem {
	n := min(m, len(candidates))
	out := make([]searcher.PriorityQueueItem, n)
	copy(out, candidates[:n])
	return out
}

// selectNeighboursHeuristic keeps a candidate only if it is closer to the base
// than to every neighbour already kept. Discarded candidates fill any
// remaining slots in distance order.
func (h *HNSW) selectNeighboursHeuristic(candidates []searcher.PriorityQueueItem, m int) []searcher.PriorityQueueItem {
	if len(candidates) <= m {
		return selectNeighboursSimple(candidates, m)
	}

	items := make([]searcher.PriorityQueueItem, 0, m)
	var pruned []searcher.PriorityQueueItem

	for _, item := range candidates {
		if len(items) >= m {
			break
		}

		hit := true
		for _, kept := range items {
			if h.distFunc(h.nodes[kept.Node].vector, h.nodes[item.Node].vector) < item.Distance {
				hit = false
				break
			}
		}

		if hit {
			items = append(items, item)
		} else {
			pruned = append(pruned, item)
		}
	}

	for _, item := range pruned {
		if len(items) >= m {
			break
		}
		items = append(items, item)
	}

	slices.SortFunc(items, compareItems)
	return items
}
