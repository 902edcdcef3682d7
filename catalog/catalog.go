package catalog

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/vecfilter/attrset"
	"github.com/hupe1980/vecfilter/model"
)

var (
	// ErrDuplicatePoint is returned when a PointID is added twice.
	ErrDuplicatePoint = errors.New("point already present in catalog")

	// ErrFrozen is returned by Put after Freeze.
	ErrFrozen = errors.New("catalog is frozen")

	// ErrBorrowed is returned by Put while a View is outstanding.
	ErrBorrowed = errors.New("catalog is borrowed for search")

	// ErrNilSet is returned by Put for a nil attribute set.
	ErrNilSet = errors.New("attribute set is nil")

	// ErrViewReleased is returned by lookups through a released View.
	ErrViewReleased = errors.New("catalog view already released")
)

// LookupError indicates a PointID with no entry in the catalog.
type LookupError struct {
	ID model.PointID
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("point %d not found in attribute catalog", e.ID)
}

// Reader resolves point identifiers to attribute sets.
type Reader interface {
	// Lookup returns the attribute set of id, or *LookupError.
	Lookup(id model.PointID) (attrset.Set, error)

	// Universe returns the attribute universe shared by every set.
	Universe() uint32
}

// Compile time checks to ensure Catalog and View satisfy Reader.
var (
	_ Reader = (*Catalog)(nil)
	_ Reader = (*View)(nil)
)

// Catalog maps PointIDs to attribute sets of one universe.
type Catalog struct {
	mu sync.RWMutex

	sets     map[model.PointID]attrset.Set
	universe uint32

	frozen  atomic.Bool
	borrows atomic.Int64
}

// New creates an empty catalog for sets over universe attributes.
func New(universe uint32) *Catalog {
	return &Catalog{
		sets:     make(map[model.PointID]attrset.Set),
		universe: universe,
	}
}

// Universe implements Reader.
func (c *Catalog) Universe() uint32 { return c.universe }

// Put stores the attribute set of id. The catalog takes ownership of s;
// callers must not mutate it afterwards.
func (c *Catalog) Put(id model.PointID, s attrset.Set) error {
	if s == nil {
		return ErrNilSet
	}
	if s.Universe() != c.universe {
		return &attrset.ErrUniverseMismatch{Expected: c.universe, Actual: s.Universe()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen.Load() {
		return ErrFrozen
	}
	if c.borrows.Load() > 0 {
		return ErrBorrowed
	}
	if _, exists := c.sets[id]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicatePoint, id)
	}
	c.sets[id] = s
	return nil
}

// Delete removes the entry of id. It is subject to the same guards as Put.
func (c *Catalog) Delete(id model.PointID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen.Load() {
		return ErrFrozen
	}
	if c.borrows.Load() > 0 {
		return ErrBorrowed
	}
	if _, exists := c.sets[id]; !exists {
		return &LookupError{ID: id}
	}
	delete(c.sets, id)
	return nil
}

// Lookup implements Reader.
func (c *Catalog) Lookup(id model.PointID) (attrset.Set, error) {
	c.mu.RLock()
	s, ok := c.sets[id]
	c.mu.RUnlock()
	if !ok {
		return nil, &LookupError{ID: id}
	}
	return s, nil
}

// Contains reports whether id has an entry.
func (c *Catalog) Contains(id model.PointID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.sets[id]
	return ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sets)
}

// Frozen reports whether Freeze has been called.
func (c *Catalog) Frozen() bool { return c.frozen.Load() }

// Borrows returns the number of outstanding views.
func (c *Catalog) Borrows() int64 { return c.borrows.Load() }

// Freeze seals the catalog against further Put calls and re-encodes
// compressed sets for their final content. It fails with ErrBorrowed while
// views are outstanding, since re-encoding mutates the sets.
func (c *Catalog) Freeze() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen.Load() {
		return nil
	}
	if c.borrows.Load() > 0 {
		return ErrBorrowed
	}
	c.frozen.Store(true)
	for _, s := range c.sets {
		if o, ok := s.(interface{ Optimize() }); ok {
			o.Optimize()
		}
	}
	return nil
}

// Borrow returns a read-only view. Put fails with ErrBorrowed until every
// view has been released.
func (c *Catalog) Borrow() *View {
	c.mu.RLock()
	c.borrows.Add(1)
	c.mu.RUnlock()
	return &View{c: c}
}

// Stats summarizes catalog contents.
type Stats struct {
	Points      int
	Universe    uint32
	SizeInBytes uint64
	ByKind      map[attrset.Kind]int
}

// Stats returns a summary of the catalog.
func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := Stats{
		Points:   len(c.sets),
		Universe: c.universe,
		ByKind:   make(map[attrset.Kind]int),
	}
	for _, s := range c.sets {
		st.SizeInBytes += s.SizeInBytes()
		st.ByKind[s.Kind()]++
	}
	return st
}

// View is a borrowed, read-only handle on a Catalog.
// A View must be released exactly once; it is safe for concurrent use until then.
type View struct {
	c        *Catalog
	released atomic.Bool
}

// Lookup implements Reader without locking.
func (v *View) Lookup(id model.PointID) (attrset.Set, error) {
	if v.released.Load() {
		return nil, ErrViewReleased
	}
	s, ok := v.c.sets[id]
	if !ok {
		return nil, &LookupError{ID: id}
	}
	return s, nil
}

// Universe implements Reader.
func (v *View) Universe() uint32 { return v.c.universe }

// Release ends the borrow. Further calls are no-ops.
func (v *View) Release() {
	if v.released.Swap(true) {
		return
	}
	v.c.borrows.Add(-1)
}
