package hnsw

import (
	"github.com/hupe1980/vecfilter/distance"
	"github.com/hupe1980/vecfilter/filter"
	"github.com/hupe1980/vecfilter/model"
)

// Options represents the options for configuring HNSW.
type Options struct {
	// M specifies the number of established connections for every new element during construction.
	// The range M=12-48 is ok for most use cases. Layer 0 allows 2*M connections.
	M int

	// EF specifies the size of the dynamic candidate list during construction and
	// the default search width. Larger values improve recall at the cost of time.
	EF int

	// Heuristic selects neighbours with the diversity heuristic instead of plain
	// nearest-first selection.
	Heuristic bool

	// DistanceType is the metric used for all distance calculations.
	// Cosine normalizes vectors on insert and query.
	DistanceType distance.Metric

	// RandomSeed seeds level generation, making graph construction reproducible.
	RandomSeed int64
}

// DefaultOptions holds the defaults applied by New.
var DefaultOptions = Options{
	M:            16,
	EF:           200,
	Heuristic:    true,
	DistanceType: distance.MetricL2,
	RandomSeed:   4711,
}

// SearchOptions configures a single KNNSearch call.
type SearchOptions struct {
	// EFSearch overrides Options.EF for this query. It is raised to k if smaller.
	EFSearch int

	// Filter restricts which labels may occupy a result slot. Nil admits all.
	Filter filter.Filter
}

// SearchResult is a label and its distance to the query.
type SearchResult = model.Candidate
