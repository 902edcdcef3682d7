// Package pool provides reusable per-query state for graph search.
// Contexts are recycled through sync.Pool and track visited nodes in a bitset.
package pool

import (
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/vecfilter/internal/searcher"
	"github.com/hupe1980/vecfilter/model"
)

const (
	// DefaultMaxNodes is the initial visited-bitset capacity.
	DefaultMaxNodes = 4096

	// DefaultQueueCapacity is the initial capacity of both heaps.
	DefaultQueueCapacity = 256

	// shrinkFactor bounds how far a pooled bitset may grow past
	// DefaultMaxNodes before it is dropped on Put.
	shrinkFactor = 64
)

// SearchContext holds the buffers of one search.
type SearchContext struct {
	Visited    *bitset.BitSet
	Candidates *searcher.PriorityQueue // min heap, exploration order
	Result     *searcher.PriorityQueue // max heap, admitted candidates

	maxNodes uint32
}

var searchContextPool = sync.Pool{
	New: func() any {
		return &SearchContext{
			Visited:    bitset.New(DefaultMaxNodes),
			Candidates: searcher.NewPriorityQueueWithCapacity(false, DefaultQueueCapacity),
			Result:     searcher.NewPriorityQueueWithCapacity(true, DefaultQueueCapacity),
			maxNodes:   DefaultMaxNodes,
		}
	},
}

// Get retrieves a reset SearchContext.
func Get() *SearchContext {
	sc := searchContextPool.Get().(*SearchContext)
	sc.Reset()
	return sc
}

// Put returns sc to the pool.
func Put(sc *SearchContext) {
	if sc == nil {
		return
	}
	if sc.maxNodes > DefaultMaxNodes*shrinkFactor {
		sc.Visited = bitset.New(DefaultMaxNodes)
		sc.maxNodes = DefaultMaxNodes
	}
	searchContextPool.Put(sc)
}

// Reset clears all state, keeping allocated capacity.
func (sc *SearchContext) Reset() {
	sc.Visited.ClearAll()
	sc.Candidates.Reset()
	sc.Result.Reset()
}

// EnsureCapacity grows the visited bitset to cover n nodes.
func (sc *SearchContext) EnsureCapacity(n int) {
	if n <= int(sc.maxNodes) {
		return
	}
	size := max(uint32(n), sc.maxNodes*2)
	grown := bitset.New(uint(size))
	sc.Visited.Copy(grown)
	sc.Visited = grown
	sc.maxNodes = size
}

// MarkVisited marks node and reports whether it had already been visited.
func (sc *SearchContext) MarkVisited(node model.NodeID) bool {
	sc.EnsureCapacity(int(node) + 1)
	if sc.Visited.Test(uint(node)) {
		return true
	}
	sc.Visited.Set(uint(node))
	return false
}

// IsVisited reports whether node has been visited.
func (sc *SearchContext) IsVisited(node model.NodeID) bool {
	if uint32(node) >= sc.maxNodes {
		return false
	}
	return sc.Visited.Test(uint(node))
}

// Stats describes a SearchContext.
type Stats struct {
	VisitedCapacity uint32
	VisitedCount    uint
	CandidatesCount int
	ResultCount     int
}

// Stats returns current statistics.
func (sc *SearchContext) Stats() Stats {
	return Stats{
		VisitedCapacity: sc.maxNodes,
		VisitedCount:    sc.Visited.Count(),
		CandidatesCount: sc.Candidates.Len(),
		ResultCount:     sc.Result.Len(),
	}
}
