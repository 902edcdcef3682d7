package model

import (
	"cmp"
	"fmt"
)

// PointID is the user-facing stable identifier of a point.
// It is assigned by the caller on insert and never reused.
type PointID uint64

// NodeID is a dense, graph-local identifier for a point.
// It is assigned in insertion order and is never handed to filters.
type NodeID uint32

// AttrIndex identifies one boolean attribute in an attribute universe.
type AttrIndex = uint32

// Candidate represents a match found during search.
type Candidate struct {
	// ID is the label of the matched point.
	ID PointID
	// Distance is the metric-dependent distance to the query (lower is closer).
	Distance float32
}

// String returns a string representation of the Candidate.
func (c Candidate) String() string {
	return fmt.Sprintf("Candidate(%d, %.6f)", c.ID, c.Distance)
}

// CompareCandidates orders candidates closer first.
// Equal distances are ordered by ascending PointID.
func CompareCandidates(a, b Candidate) int {
	if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
