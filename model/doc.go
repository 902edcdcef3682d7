// Package model defines core types used throughout vecfilter.
//
// # Identity Types
//
//   - PointID: caller-assigned, stable label of an indexed point (uint64)
//   - NodeID: dense, graph-local node identifier (uint32)
//   - AttrIndex: index of a boolean attribute inside a universe (uint32)
//
// # Data Types
//
//   - Candidate: search result with label and distance
package model
