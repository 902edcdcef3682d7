package attrset

import (
	"iter"

	"github.com/bits-and-blooms/bitset"
)

// Compile time check to ensure Bitset satisfies the Set interface.
var _ Set = (*Bitset)(nil)

// Bitset is a fixed-width attribute set: ⌈A/64⌉ words, one bit per attribute.
// Memory is A bits per point regardless of how many attributes are present.
type Bitset struct {
	b        *bitset.BitSet
	universe uint32
}

// NewBitset creates an empty Bitset over universe attributes.
func NewBitset(universe uint32) *Bitset {
	return &Bitset{
		b:        bitset.New(uint(universe)),
		universe: universe,
	}
}

// Kind implements Set.
func (*Bitset) Kind() Kind { return KindBitset }

// Universe implements Set.
func (s *Bitset) Universe() uint32 { return s.universe }

// Set implements Set. The range is checked here because the underlying
// bitset grows silently on out-of-range writes.
func (s *Bitset) Set(i uint32) error {
	if err := checkIndex(i, s.universe); err != nil {
		return err
	}
	s.b.Set(uint(i))
	return nil
}

// Test implements Set.
func (s *Bitset) Test(i uint32) (bool, error) {
	if err := checkIndex(i, s.universe); err != nil {
		return false, err
	}
	return s.b.Test(uint(i)), nil
}

// Cardinality implements Set.
func (s *Bitset) Cardinality() uint64 { return uint64(s.b.Count()) }

// IsSuperset computes (s AND q) == q word by word in a single pass.
func (s *Bitset) IsSuperset(q Set) (bool, error) {
	if err := checkUniverse(s, q); err != nil {
		return false, err
	}
	other, ok := q.(*Bitset)
	if !ok {
		return isSupersetGeneric(s, q), nil
	}
	return containsWords(s.b.Words(), other.b.Words()), nil
}

// containsWords reports whether every bit of want is also set in have.
// Words missing from have are treated as zero.
func containsWords(have, want []uint64) bool {
	n := min(len(have), len(want))
	for i := 0; i < n; i++ {
		if have[i]&want[i] != want[i] {
			return false
		}
	}
	for _, w := range want[n:] {
		if w != 0 {
			return false
		}
	}
	return true
}

// And implements Set.
func (s *Bitset) And(q Set) (Set, error) {
	if err := checkUniverse(s, q); err != nil {
		return nil, err
	}
	other, ok := q.(*Bitset)
	if !ok {
		return andGeneric(s, q)
	}
	out := NewBitset(s.universe)
	ow, sw, qw := out.b.Words(), s.b.Words(), other.b.Words()
	for i := range ow {
		if i < len(sw) && i < len(qw) {
			ow[i] = sw[i] & qw[i]
		}
	}
	return out, nil
}

// Equals is bit-exact.
func (s *Bitset) Equals(o Set) (bool, error) {
	if err := checkUniverse(s, o); err != nil {
		return false, err
	}
	other, ok := o.(*Bitset)
	if !ok {
		return equalsGeneric(s, o), nil
	}
	sw, ow := s.b.Words(), other.b.Words()
	return containsWords(sw, ow) && containsWords(ow, sw), nil
}

// Clone implements Set.
func (s *Bitset) Clone() Set {
	return &Bitset{b: s.b.Clone(), universe: s.universe}
}

// Attributes implements Set.
func (s *Bitset) Attributes() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for i, ok := s.b.NextSet(0); ok; i, ok = s.b.NextSet(i + 1) {
			if !yield(uint32(i)) {
				return
			}
		}
	}
}

// SizeInBytes implements Set.
func (s *Bitset) SizeInBytes() uint64 { return uint64(len(s.b.Words())) * 8 }

func (s *Bitset) String() string { return format(s) }
