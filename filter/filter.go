package filter

import (
	"errors"
	"iter"
	"sync/atomic"

	"github.com/hupe1980/vecfilter/attrset"
	"github.com/hupe1980/vecfilter/catalog"
	"github.com/hupe1980/vecfilter/model"
)

var (
	// ErrNilQuery is returned when a filter is built without a query set.
	ErrNilQuery = errors.New("query attribute set is nil")

	// ErrNilCatalog is returned when a filter is built without a catalog.
	ErrNilCatalog = errors.New("attribute catalog is nil")
)

// Filter is the per-candidate admissibility test used by filtered search.
//
// Implementations must be side-effect free with respect to the index and the
// catalog. An error aborts the search that called Admits.
type Filter interface {
	// Admits reports whether id may occupy a result slot.
	Admits(id model.PointID) (bool, error)
}

// Func adapts a function to the Filter interface.
type Func func(id model.PointID) (bool, error)

// Admits implements Filter.
func (f Func) Admits(id model.PointID) (bool, error) { return f(id) }

type allFilter struct{}

func (allFilter) Admits(model.PointID) (bool, error) { return true, nil }

// All admits every point.
var All Filter = allFilter{}

// Compile time checks to ensure the filters satisfy the Filter interface.
var (
	_ Filter = Func(nil)
	_ Filter = (*Superset)(nil)
	_ Filter = (*Counting)(nil)
	_ Filter = and(nil)
)

// Superset admits points whose attribute set contains the query set.
type Superset struct {
	query   attrset.Set
	catalog catalog.Reader
	empty   bool
}

// NewSuperset binds a copy of query to r. The copy keeps the filter immune to
// later changes of the caller's set.
func NewSuperset(query attrset.Set, r catalog.Reader) (*Superset, error) {
	if query == nil {
		return nil, ErrNilQuery
	}
	if r == nil {
		return nil, ErrNilCatalog
	}
	if query.Universe() != r.Universe() {
		return nil, &attrset.ErrUniverseMismatch{Expected: r.Universe(), Actual: query.Universe()}
	}
	q := query.Clone()
	return &Superset{
		query:   q,
		catalog: r,
		empty:   q.Cardinality() == 0,
	}, nil
}

// Admits implements Filter.
func (f *Superset) Admits(id model.PointID) (bool, error) {
	s, err := f.catalog.Lookup(id)
	if err != nil {
		return false, err
	}
	if f.empty {
		return true, nil
	}
	return s.IsSuperset(f.query)
}

// Query returns the bound query set. It must not be mutated.
func (f *Superset) Query() attrset.Set { return f.query }

// Counting wraps a Filter and counts its decisions.
// The wrapped filter stays stateless; only the counters change.
type Counting struct {
	inner    Filter
	admitted atomic.Int64
	rejected atomic.Int64
}

// NewCounting wraps f.
func NewCounting(f Filter) *Counting {
	return &Counting{inner: f}
}

// Admits implements Filter.
func (c *Counting) Admits(id model.PointID) (bool, error) {
	ok, err := c.inner.Admits(id)
	if err != nil {
		return false, err
	}
	if ok {
		c.admitted.Add(1)
	} else {
		c.rejected.Add(1)
	}
	return ok, nil
}

// Admitted returns the number of admitted candidates.
func (c *Counting) Admitted() int64 { return c.admitted.Load() }

// Rejected returns the number of rejected candidates.
func (c *Counting) Rejected() int64 { return c.rejected.Load() }

type and []Filter

func (fs and) Admits(id model.PointID) (bool, error) {
	for _, f := range fs {
		ok, err := f.Admits(id)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// And admits a point only if every filter admits it. Evaluation stops at the
// first rejection or error. Nil filters are skipped.
func And(filters ...Filter) Filter {
	out := make(and, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			out = append(out, f)
		}
	}
	switch len(out) {
	case 0:
		return All
	case 1:
		return out[0]
	default:
		return out
	}
}

// Select returns the ids admitted by f, in iteration order.
// It stops at the first error.
func Select(f Filter, ids iter.Seq[model.PointID]) ([]model.PointID, error) {
	var out []model.PointID
	for id := range ids {
		ok, err := f.Admits(id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, id)
		}
	}
	return out, nil
}
