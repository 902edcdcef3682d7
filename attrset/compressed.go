package attrset

import (
	"iter"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Compile time check to ensure Compressed satisfies the Set interface.
var _ Set = (*Compressed)(nil)

// Compressed is an attribute set backed by a Roaring bitmap.
// Memory and superset cost scale with the present attributes, not with A.
type Compressed struct {
	rb       *roaring.Bitmap
	universe uint32
}

// scratchPool holds intersection buffers for IsSuperset.
// This keeps the per-candidate intersection off the heap in filtered search.
var scratchPool = sync.Pool{
	New: func() any {
		return roaring.New()
	},
}

// getScratch gets an empty bitmap from the pool. Call putScratch when done.
func getScratch() *roaring.Bitmap {
	rb := scratchPool.Get().(*roaring.Bitmap)
	rb.Clear()
	return rb
}

// putScratch returns a bitmap to the pool.
func putScratch(rb *roaring.Bitmap) {
	// Clear before returning to pool to release container memory
	rb.Clear()
	scratchPool.Put(rb)
}

// NewCompressed creates an empty Compressed set over universe attributes.
func NewCompressed(universe uint32) *Compressed {
	return &Compressed{
		rb:       roaring.New(),
		universe: universe,
	}
}

// Kind implements Set.
func (*Compressed) Kind() Kind { return KindCompressed }

// Universe implements Set.
func (s *Compressed) Universe() uint32 { return s.universe }

// Set implements Set. It may re-encode the affected container.
func (s *Compressed) Set(i uint32) error {
	if err := checkIndex(i, s.universe); err != nil {
		return err
	}
	s.rb.Add(i)
	return nil
}

// Add is an alias of Set.
func (s *Compressed) Add(i uint32) error { return s.Set(i) }

// Test implements Set.
func (s *Compressed) Test(i uint32) (bool, error) {
	if err := checkIndex(i, s.universe); err != nil {
		return false, err
	}
	return s.rb.Contains(i), nil
}

// Cardinality implements Set.
func (s *Compressed) Cardinality() uint64 { return s.rb.GetCardinality() }

// IsSuperset computes and(s, q).equals(q).
//
// The intersection is built in a pooled scratch bitmap that is released before
// returning, so nothing outlives a single call.
func (s *Compressed) IsSuperset(q Set) (bool, error) {
	if err := checkUniverse(s, q); err != nil {
		return false, err
	}
	other, ok := q.(*Compressed)
	if !ok {
		return isSupersetGeneric(s, q), nil
	}

	inter := getScratch()
	defer putScratch(inter)

	// Seed with the query (usually the smaller operand), then intersect.
	inter.Or(other.rb)
	inter.And(s.rb)

	return sameContent(inter, other.rb), nil
}

// And implements Set. The result is owned by the caller.
func (s *Compressed) And(q Set) (Set, error) {
	if err := checkUniverse(s, q); err != nil {
		return nil, err
	}
	other, ok := q.(*Compressed)
	if !ok {
		return andGeneric(s, q)
	}
	return &Compressed{rb: roaring.And(s.rb, other.rb), universe: s.universe}, nil
}

// Equals compares logical content, independent of container encoding.
func (s *Compressed) Equals(o Set) (bool, error) {
	if err := checkUniverse(s, o); err != nil {
		return false, err
	}
	other, ok := o.(*Compressed)
	if !ok {
		return equalsGeneric(s, o), nil
	}
	return sameContent(s.rb, other.rb), nil
}

// sameContent reports whether a and b hold the same values. A run container and
// an array container with the same values are equal here.
func sameContent(a, b *roaring.Bitmap) bool {
	n := a.GetCardinality()
	if n != b.GetCardinality() {
		return false
	}
	if a.Equals(b) {
		return true
	}
	return a.AndCardinality(b) == n
}

// Optimize re-encodes containers as runs where that is smaller.
// Call it once population is complete.
func (s *Compressed) Optimize() {
	s.rb.RunOptimize()
}

// Clone implements Set.
func (s *Compressed) Clone() Set {
	return &Compressed{rb: s.rb.Clone(), universe: s.universe}
}

// Attributes implements Set.
func (s *Compressed) Attributes() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// SizeInBytes implements Set.
func (s *Compressed) SizeInBytes() uint64 { return s.rb.GetSizeInBytes() }

func (s *Compressed) String() string { return format(s) }
