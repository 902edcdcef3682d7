package vecfilter

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/vecfilter/attrset"
	"github.com/hupe1980/vecfilter/catalog"
	"github.com/hupe1980/vecfilter/hnsw"
	"github.com/hupe1980/vecfilter/model"
)

// PointID is the caller-chosen label of a point.
type PointID = model.PointID

// Result is a point and its distance to the query.
type Result = model.Candidate

// Index is an HNSW graph paired with an attribute catalog.
//
// AddPoint and Freeze are serialized. Searches run concurrently with each
// other; each one borrows the catalog read-only for its duration.
type Index struct {
	dimension int
	universe  uint32
	kind      attrset.Kind

	graph   *hnsw.HNSW
	catalog *catalog.Catalog

	metrics MetricsCollector
	logger  *Logger
	opts    options

	mu     sync.RWMutex
	closed atomic.Bool
}

// New creates an Index for vectors of the given dimension and attribute sets
// over universe attributes.
func New(dimension int, universe uint32, optFns ...Option) (*Index, error) {
	if dimension <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dimension, cause: hnsw.ErrInvalidDimension}
	}

	opts := applyOptions(optFns)

	kind := opts.representation
	if kind == attrset.KindAuto {
		kind = attrset.Choose(universe, opts.expectedAttrs)
	}
	if _, err := attrset.New(kind, universe); err != nil {
		return nil, err
	}

	graph, err := hnsw.New(dimension, opts.hnswOptions...)
	if err != nil {
		return nil, translateError(err)
	}

	opts.logger.Debug("index created",
		"dimension", dimension,
		"universe", universe,
		"representation", kind.String(),
	)

	return &Index{
		dimension: dimension,
		universe:  universe,
		kind:      kind,
		graph:     graph,
		catalog:   catalog.New(universe),
		metrics:   opts.metricsCollector,
		logger:    opts.logger,
		opts:      opts,
	}, nil
}

// Dimension returns the vector dimension.
func (i *Index) Dimension() int { return i.dimension }

// Universe returns the attribute universe size.
func (i *Index) Universe() uint32 { return i.universe }

// Representation returns the kind used by NewAttributeSet.
func (i *Index) Representation() attrset.Kind { return i.kind }

// NewAttributeSet builds a set of the index's representation and universe.
func (i *Index) NewAttributeSet(attrs ...uint32) (attrset.Set, error) {
	return attrset.Of(i.kind, i.universe, attrs...)
}

// AddPoint inserts vec under id with the given attributes. A nil attribute
// set stores an empty one. The index takes ownership of attrs.
func (i *Index) AddPoint(ctx context.Context, id PointID, vec []float32, attrs attrset.Set) error {
	start := time.Now()
	err := i.addPoint(ctx, id, vec, attrs)
	err = translateError(err)

	var card uint64
	if attrs != nil {
		card = attrs.Cardinality()
	}
	i.metrics.RecordAddPoint(time.Since(start), err)
	i.logger.LogAddPoint(ctx, id, card, err)
	return err
}

func (i *Index) addPoint(ctx context.Context, id PointID, vec []float32, attrs attrset.Set) error {
	if i.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(vec) != i.dimension {
		return &hnsw.ErrDimensionMismatch{Expected: i.dimension, Actual: len(vec)}
	}
	if attrs == nil {
		var err error
		if attrs, err = i.NewAttributeSet(); err != nil {
			return err
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.catalog.Put(id, attrs); err != nil {
		return err
	}
	if err := i.graph.AddPoint(ctx, vec, id); err != nil {
		// The catalog is not borrowed while the write lock is held.
		_ = i.catalog.Delete(id)
		return err
	}
	return nil
}

// Attributes returns the attribute set stored for id. It must not be mutated.
func (i *Index) Attributes(id PointID) (attrset.Set, error) {
	s, err := i.catalog.Lookup(id)
	return s, translateError(err)
}

// Freeze seals the index against further inserts and compacts compressed
// attribute sets. Searches are unaffected.
func (i *Index) Freeze() error {
	if i.closed.Load() {
		return ErrClosed
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	err := i.catalog.Freeze()
	i.logger.LogFreeze(context.Background(), i.catalog.Len(), err)
	return err
}

// Frozen reports whether Freeze has been called.
func (i *Index) Frozen() bool { return i.catalog.Frozen() }

// Len returns the number of points.
func (i *Index) Len() int { return i.graph.Len() }

// Stats describes the index.
type Stats struct {
	Dimension      int
	Representation attrset.Kind
	Catalog        catalog.Stats
	Graph          hnsw.Stats
}

// Stats returns a snapshot of index statistics.
func (i *Index) Stats() Stats {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return Stats{
		Dimension:      i.dimension,
		Representation: i.kind,
		Catalog:        i.catalog.Stats(),
		Graph:          i.graph.Stats(),
	}
}

// Close marks the index closed. Later calls return ErrClosed; Close itself
// is idempotent.
func (i *Index) Close() error {
	if i == nil {
		return nil
	}
	if !i.closed.Swap(true) {
		i.logger.Debug("index closed", "points", i.graph.Len())
	}
	return nil
}
