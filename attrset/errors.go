package attrset

import (
	"fmt"
)

// ErrUniverseMismatch indicates that two sets from different attribute
// universes were combined.
type ErrUniverseMismatch struct {
	Expected uint32
	Actual   uint32
}

func (e *ErrUniverseMismatch) Error() string {
	return fmt.Sprintf("attribute universe mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrIndexOutOfRange indicates an attribute index outside [0, Universe).
type ErrIndexOutOfRange struct {
	Index    uint32
	Universe uint32
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("attribute index %d out of range [0, %d)", e.Index, e.Universe)
}

// ErrUnknownKind indicates an unsupported representation kind.
type ErrUnknownKind struct {
	Kind Kind
}

func (e *ErrUnknownKind) Error() string {
	return fmt.Sprintf("unknown attribute set kind: %d", uint8(e.Kind))
}

func checkIndex(i, universe uint32) error {
	if i >= universe {
		return &ErrIndexOutOfRange{Index: i, Universe: universe}
	}
	return nil
}

func checkUniverse(a, b Set) error {
	if a.Universe() != b.Universe() {
		return &ErrUniverseMismatch{Expected: a.Universe(), Actual: b.Universe()}
	}
	return nil
}
