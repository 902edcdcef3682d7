package hnsw

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/vecfilter/distance"
	"github.com/hupe1980/vecfilter/filter"
	"github.com/hupe1980/vecfilter/internal/pool"
	"github.com/hupe1980/vecfilter/internal/searcher"
	"github.com/hupe1980/vecfilter/model"
)

// node represents a node in the HNSW graph.
type node struct {
	connections [][]model.NodeID // links per layer, index 0 is the base layer
	vector      []float32
	level       int
	label       model.PointID
}

// HNSW represents the Hierarchical Navigable Small World graph.
//
// Every node carries a caller-supplied label. Internal node ids are dense and
// never leave the package.
type HNSW struct {
	dimension int
	mmax      int     // Max number of connections per element/per layer
	mmax0     int     // Max for the 0 layer
	ml        float64 // Normalization factor for level generation
	ep        model.NodeID
	maxLevel  int

	nodes  []*node
	labels map[model.PointID]model.NodeID

	distFunc distance.Func
	rng      *rand.Rand
	opts     Options

	mu sync.RWMutex
}

// New creates a new HNSW instance with the given dimension and options.
func New(dimension int, optFns ...func(o *Options)) (*HNSW, error) {
	if dimension <= 0 {
		return nil, ErrInvalidDimension
	}

	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.M < 2 {
		// M == 1 would result in division by zero: 1 / log(1)
		opts.M = 2
	}
	if opts.EF < 1 {
		return nil, fmt.Errorf("hnsw: EF must be positive, got %d", opts.EF)
	}

	distFunc, err := distance.Provider(opts.DistanceType)
	if err != nil {
		return nil, err
	}

	return &HNSW{
		dimension: dimension,
		mmax:      opts.M,
		mmax0:     2 * opts.M,
		ml:        1 / math.Log(float64(opts.M)),
		labels:    make(map[model.PointID]model.NodeID),
		distFunc:  distFunc,
		rng:       rand.New(rand.NewSource(opts.RandomSeed)), // nolint gosec
		opts:      opts,
	}, nil
}

// Dimension returns the vector dimension.
func (h *HNSW) Dimension() int { return h.dimension }

// Len returns the number of inserted points.
func (h *HNSW) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.nodes)
}

// Contains reports whether label has been inserted.
func (h *HNSW) Contains(label model.PointID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.labels[label]
	return ok
}

// prepare validates v and returns the copy the graph works with.
func (h *HNSW) prepare(v []float32) ([]float32, error) {
	if len(v) != h.dimension {
		return nil, &ErrDimensionMismatch{Expected: h.dimension, Actual: len(v)}
	}
	if h.opts.DistanceType == distance.MetricCosine {
		if n, ok := distance.NormalizeL2Copy(v); ok {
			return n, nil
		}
	}
	return slices.Clone(v), nil
}

// AddPoint inserts v under label.
func (h *HNSW) AddPoint(ctx context.Context, v []float32, label model.PointID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	vec, err := h.prepare(v)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.labels[label]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateLabel, label)
	}

	id := model.NodeID(len(h.nodes))
	level := int(math.Floor(-math.Log(1-h.rng.Float64()) * h.ml))
	n := &node{
		connections: make([][]model.NodeID, level+1),
		vector:      vec,
		level:       level,
		label:       label,
	}

	if len(h.nodes) == 0 {
		h.nodes = append(h.nodes, n)
		h.labels[label] = id
		h.ep = id
		h.maxLevel = level
		return nil
	}

	sc := pool.Get()
	defer pool.Put(sc)

	// Find single shortest path from top layers above the new node, which will be our starting point.
	curr := h.greedyClosest(vec, h.entryItem(vec), h.maxLevel, level)

	var selected []searcher.PriorityQueueItem
	for lvl := min(level, h.maxLevel); lvl >= 0; lvl-- {
		if err := h.searchLayer(ctx, sc, vec, curr, h.opts.EF, lvl, nil); err != nil {
			return err
		}
		selected = sc.Result.Drain(selected[:0])
		curr = selected[0]

		neighbours := h.selectNeighbours(selected, h.opts.M)
		n.connections[lvl] = make([]model.NodeID, len(neighbours))
		for i, item := range neighbours {
			n.connections[lvl][i] = item.Node
		}
	}

	h.nodes = append(h.nodes, n)
	h.labels[label] = id

	// Next link the neighbour nodes to our new node, making it visible
	for lvl := min(level, h.maxLevel); lvl >= 0; lvl-- {
		for _, neighbour := range n.connections[lvl] {
			h.link(neighbour, id, lvl)
		}
	}

	if level > h.maxLevel {
		h.ep = id
		h.maxLevel = level
	}

	return nil
}

// KNNSearch returns up to k labels nearest to q, nearest first. Only labels
// admitted by opts.Filter occupy result slots; traversal still passes through
// rejected nodes. A filter error aborts the search.
func (h *HNSW) KNNSearch(ctx context.Context, q []float32, k int, opts *SearchOptions) ([]SearchResult, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	query, err := h.prepare(q)
	if err != nil {
		return nil, err
	}

	ef := h.opts.EF
	var f filter.Filter
	if opts != nil {
		if opts.EFSearch > 0 {
			ef = opts.EFSearch
		}
		f = opts.Filter
	}
	ef = max(ef, k)

	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.nodes) == 0 {
		return []SearchResult{}, nil
	}

	sc := pool.Get()
	defer pool.Put(sc)

	entry := h.greedyClosest(query, h.entryItem(query), h.maxLevel, 0)
	if err := h.searchLayer(ctx, sc, query, entry, ef, 0, f); err != nil {
		return nil, err
	}

	results := sc.Result.Sorted(make([]SearchResult, 0, sc.Result.Len()))
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// BruteSearch scans every point and returns the exact k nearest labels
// admitted by f. A nil filter admits all.
func (h *HNSW) BruteSearch(ctx context.Context, q []float32, k int, f filter.Filter) ([]SearchResult, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	query, err := h.prepare(q)
	if err != nil {
		return nil, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	top := searcher.NewPriorityQueueWithCapacity(true, min(k, len(h.nodes)))
	for i, n := range h.nodes {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if f != nil {
			ok, err := f.Admits(n.label)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		top.PushItemBounded(searcher.PriorityQueueItem{
			Node:     model.NodeID(i),
			ID:       n.label,
			Distance: h.distFunc(query, n.vector),
		}, k)
	}

	return top.Sorted(make([]SearchResult, 0, top.Len())), nil
}

func (h *HNSW) entryItem(q []float32) searcher.PriorityQueueItem {
	ep := h.nodes[h.ep]
	return searcher.PriorityQueueItem{Node: h.ep, ID: ep.label, Distance: h.distFunc(q, ep.vector)}
}

// greedyClosest descends from layer `from` down to, but excluding, layer `to`,
// moving to the closest neighbour until no neighbour improves the distance.
func (h *HNSW) greedyClosest(q []float32, curr searcher.PriorityQueueItem, from, to int) searcher.PriorityQueueItem {
	for level := from; level > to; level-- {
		changed := true
		for changed {
			changed = false

			conns := h.nodes[curr.Node].connections
			if level >= len(conns) {
				break
			}
			for _, id := range conns[level] {
				n := h.nodes[id]
				item := searcher.PriorityQueueItem{Node: id, ID: n.label, Distance: h.distFunc(q, n.vector)}
				if searcher.Less(item, curr) {
					curr = item
					changed = true
				}
			}
		}
	}
	return curr
}

// searchLayer runs a best-first search of one layer starting at entry. The ef
// best admitted nodes are left in sc.Result. A nil filter admits all.
func (h *HNSW) searchLayer(ctx context.Context, sc *pool.SearchContext, q []float32, entry searcher.PriorityQueueItem, ef int, level int, f filter.Filter) error {
	sc.Reset()
	sc.EnsureCapacity(len(h.nodes))

	sc.MarkVisited(entry.Node)
	sc.Candidates.PushItem(entry)
	if err := admit(sc, entry, ef, f); err != nil {
		return err
	}

	for sc.Candidates.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		candidate, _ := sc.Candidates.PopItem()
		if sc.Result.Len() >= ef {
			if worst, _ := sc.Result.TopItem(); searcher.Less(worst, candidate) {
				break
			}
		}

		conns := h.nodes[candidate.Node].connections
		if level >= len(conns) {
			continue
		}

		for _, id := range conns[level] {
			if sc.MarkVisited(id) {
				continue
			}

			n := h.nodes[id]
			item := searcher.PriorityQueueItem{Node: id, ID: n.label, Distance: h.distFunc(q, n.vector)}

			if sc.Result.Len() >= ef {
				if worst, _ := sc.Result.TopItem(); !searcher.Less(item, worst) {
					continue
				}
			}

			// Rejected nodes are still explored.
			sc.Candidates.PushItem(item)
			if err := admit(sc, item, ef, f); err != nil {
				return err
			}
		}
	}

	return nil
}

// admit consults f once for item and keeps it among the ef best on success.
func admit(sc *pool.SearchContext, item searcher.PriorityQueueItem, ef int, f filter.Filter) error {
	if f != nil {
		ok, err := f.Admits(item.ID)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	sc.Result.PushItemBounded(item, ef)
	return nil
}

// link adds a connection from first to second on level, pruning first's
// neighbour list if it grows past the layer maximum.
func (h *HNSW) link(first, second model.NodeID, level int) {
	maxConnections := h.mmax
	// HNSW allows double the connections for the bottom level (0)
	if level == 0 {
		maxConnections = h.mmax0
	}

	n := h.nodes[first]
	n.connections[level] = append(n.connections[level], second)
	if len(n.connections[level]) <= maxConnections {
		return
	}

	candidates := make([]searcher.PriorityQueueItem, len(n.connections[level]))
	for i, id := range n.connections[level] {
		other := h.nodes[id]
		candidates[i] = searcher.PriorityQueueItem{Node: id, ID: other.label, Distance: h.distFunc(n.vector, other.vector)}
	}
	slices.SortFunc(candidates, compareItems)

	selected := h.selectNeighbours(candidates, maxConnections)
	conns := n.connections[level][:0]
	for _, item := range selected {
		conns = append(conns, item.Node)
	}
	n.connections[level] = conns
}
