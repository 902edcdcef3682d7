// Package attrset provides attribute sets: per-point subsets of a fixed universe
// of boolean attributes, queried with superset tests during filtered search.
//
// # Representations
//
// Three interchangeable representations implement the Set interface:
//
//	Linear:     []bool, one entry per attribute          - O(A) superset test
//	Bitset:     ⌈A/64⌉ words (bits-and-blooms/bitset)    - O(A/64) superset test
//	Compressed: Roaring bitmap (RoaringBitmap/roaring)   - O(compressed size) superset test
//
// Linear is the correctness baseline. Bitset wins on small dense universes.
// Compressed scales with the number of set attributes instead of the universe
// size and is the right choice for large, sparse universes. Choose picks one
// from the universe size and the expected attributes per point.
//
// # Superset Test
//
// A point is admitted for a query when its set contains every attribute of the
// query set:
//
//	Linear:     for each i in query: point[i] must be true (short-circuit)
//	Bitset:     (point AND query) == query, one pass over the words
//	Compressed: and(point, query).equals(query), intersection in pooled scratch
//
// The empty query is a subset of every set, so IsSuperset(empty) is always true.
//
// # Mixing Representations
//
// Operands of the same representation use the fast path above. Mixed operands
// fall back to iterating the query's attributes, with identical results.
// Operands from different universes fail with *ErrUniverseMismatch.
//
// # Thread Safety
//
// Sets are not synchronized. Concurrent reads (Test, IsSuperset, And, Equals)
// are safe once a set is no longer mutated, which is how the catalog uses them.
package attrset
