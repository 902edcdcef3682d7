package attrset

import (
	"iter"
	"slices"
)

// Compile time check to ensure Linear satisfies the Set interface.
var _ Set = (*Linear)(nil)

// Linear is an uncompressed attribute set with one bool per attribute.
// It is the slowest representation and serves as the reference for the others.
type Linear struct {
	bits  []bool
	count uint64
}

// NewLinear creates an empty Linear set over universe attributes.
func NewLinear(universe uint32) *Linear {
	return &Linear{bits: make([]bool, universe)}
}

// Kind implements Set.
func (*Linear) Kind() Kind { return KindLinear }

// Universe implements Set.
func (s *Linear) Universe() uint32 { return uint32(len(s.bits)) }

// Set implements Set.
func (s *Linear) Set(i uint32) error {
	if err := checkIndex(i, s.Universe()); err != nil {
		return err
	}
	if !s.bits[i] {
		s.bits[i] = true
		s.count++
	}
	return nil
}

// Test implements Set.
func (s *Linear) Test(i uint32) (bool, error) {
	if err := checkIndex(i, s.Universe()); err != nil {
		return false, err
	}
	return s.bits[i], nil
}

// Cardinality implements Set.
func (s *Linear) Cardinality() uint64 { return s.count }

// IsSuperset scans the whole universe and stops at the first attribute that
// q requires and s lacks.
func (s *Linear) IsSuperset(q Set) (bool, error) {
	if err := checkUniverse(s, q); err != nil {
		return false, err
	}
	other, ok := q.(*Linear)
	if !ok {
		return isSupersetGeneric(s, q), nil
	}
	for i, want := range other.bits {
		if want && !s.bits[i] {
			return false, nil
		}
	}
	return true, nil
}

// And implements Set.
func (s *Linear) And(q Set) (Set, error) {
	if err := checkUniverse(s, q); err != nil {
		return nil, err
	}
	other, ok := q.(*Linear)
	if !ok {
		return andGeneric(s, q)
	}
	out := NewLinear(s.Universe())
	for i, v := range s.bits {
		if v && other.bits[i] {
			out.bits[i] = true
			out.count++
		}
	}
	return out, nil
}

// Equals implements Set.
func (s *Linear) Equals(o Set) (bool, error) {
	if err := checkUniverse(s, o); err != nil {
		return false, err
	}
	other, ok := o.(*Linear)
	if !ok {
		return equalsGeneric(s, o), nil
	}
	return s.count == other.count && slices.Equal(s.bits, other.bits), nil
}

// Clone implements Set.
func (s *Linear) Clone() Set {
	return &Linear{bits: slices.Clone(s.bits), count: s.count}
}

// Attributes implements Set.
func (s *Linear) Attributes() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for i, v := range s.bits {
			if v && !yield(uint32(i)) {
				return
			}
		}
	}
}

// SizeInBytes implements Set.
func (s *Linear) SizeInBytes() uint64 { return uint64(len(s.bits)) }

func (s *Linear) String() string { return format(s) }
