package attrset

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Set is a subset of the attribute universe {0, …, Universe()-1}.
//
// All binary operations require both operands to share a universe and fail
// with *ErrUniverseMismatch otherwise. Index arguments outside the universe
// fail with *ErrIndexOutOfRange.
type Set interface {
	// Kind reports the representation.
	Kind() Kind

	// Universe returns the number of attributes A.
	Universe() uint32

	// Set marks attribute i as present.
	Set(i uint32) error

	// Test reports whether attribute i is present.
	Test(i uint32) (bool, error)

	// Cardinality returns the number of present attributes.
	Cardinality() uint64

	// IsSuperset reports whether every attribute of q is present in the receiver.
	IsSuperset(q Set) (bool, error)

	// And returns the intersection as a new set of the receiver's kind.
	And(q Set) (Set, error)

	// Equals reports whether both sets hold the same attributes.
	Equals(o Set) (bool, error)

	// Clone returns an independent deep copy.
	Clone() Set

	// Attributes iterates the present attributes in ascending order.
	Attributes() iter.Seq[uint32]

	// SizeInBytes estimates the memory held by the set.
	SizeInBytes() uint64
}

// Kind identifies an attribute set representation.
type Kind uint8

const (
	// KindAuto lets Choose pick the representation.
	KindAuto Kind = iota
	// KindLinear is an uncompressed []bool.
	KindLinear
	// KindBitset is a fixed-width word bitset.
	KindBitset
	// KindCompressed is a Roaring bitmap.
	KindCompressed
)

func (k Kind) String() string {
	switch k {
	case KindAuto:
		return "auto"
	case KindLinear:
		return "linear"
	case KindBitset:
		return "bitset"
	case KindCompressed:
		return "compressed"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// ParseKind parses the String form of a Kind. "roaring" is accepted as an
// alias for compressed.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return KindAuto, nil
	case "linear":
		return KindLinear, nil
	case "bitset":
		return KindBitset, nil
	case "compressed", "roaring":
		return KindCompressed, nil
	default:
		return KindAuto, fmt.Errorf("unknown attribute set kind %q", s)
	}
}

const (
	// smallUniverse fits in 64 words; a single bitset pass beats container dispatch.
	smallUniverse = 64 * 64

	// containerUniverse is the range covered by one Roaring container.
	containerUniverse = 1 << 16

	// denseRatio: at or above 1/denseRatio density, Roaring uses bitmap containers anyway.
	denseRatio = 2
)

// Choose picks a representation from the universe size and the expected number
// of attributes per point (0 if unknown).
//
// The superset test on a bitset always touches every word of the universe,
// while the compressed test only touches containers the query occupies. Large
// universes therefore favor Compressed regardless of density.
func Choose(universe uint32, expectedCardinality uint64) Kind {
	if universe <= smallUniverse {
		return KindBitset
	}
	if universe <= containerUniverse && expectedCardinality*denseRatio >= uint64(universe) {
		return KindBitset
	}
	return KindCompressed
}

// New creates an empty set of the given kind. KindAuto resolves via Choose
// with unknown cardinality.
func New(kind Kind, universe uint32) (Set, error) {
	if kind == KindAuto {
		kind = Choose(universe, 0)
	}
	switch kind {
	case KindLinear:
		return NewLinear(universe), nil
	case KindBitset:
		return NewBitset(universe), nil
	case KindCompressed:
		return NewCompressed(universe), nil
	default:
		return nil, &ErrUnknownKind{Kind: kind}
	}
}

// Of creates a set of the given kind holding attrs.
func Of(kind Kind, universe uint32, attrs ...uint32) (Set, error) {
	s, err := New(kind, universe)
	if err != nil {
		return nil, err
	}
	for _, a := range attrs {
		if err := s.Set(a); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Convert copies s into a new set of the given kind.
func Convert(s Set, kind Kind) (Set, error) {
	out, err := New(kind, s.Universe())
	if err != nil {
		return nil, err
	}
	for a := range s.Attributes() {
		if err := out.Set(a); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// has is Test without the range error; callers have already matched universes.
func has(s Set, i uint32) bool {
	ok, _ := s.Test(i)
	return ok
}

// isSupersetGeneric handles operands of different representations.
func isSupersetGeneric(s, q Set) bool {
	for a := range q.Attributes() {
		if !has(s, a) {
			return false
		}
	}
	return true
}

// andGeneric intersects operands of different representations into the kind of s.
func andGeneric(s, q Set) (Set, error) {
	out, err := New(s.Kind(), s.Universe())
	if err != nil {
		return nil, err
	}
	for a := range q.Attributes() {
		if has(s, a) {
			if err := out.Set(a); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// equalsGeneric compares operands of different representations.
func equalsGeneric(a, b Set) bool {
	if a.Cardinality() != b.Cardinality() {
		return false
	}
	return isSupersetGeneric(b, a)
}

// format renders a set as "{0,2,5}".
func format(s Set) string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for a := range s.Attributes() {
		if !first {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(a), 10))
		first = false
	}
	sb.WriteByte('}')
	return sb.String()
}
