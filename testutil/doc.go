// Package testutil provides testing utilities for vecfilter.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random vectors and attribute
// assignments, computing exact filtered nearest neighbors, and verifying
// search recall.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.UniformVectors(1000, 16)
//	attrs := rng.AttributeAssignments(1000, 64, 0.5)
//	sets, _ := testutil.BuildSets(attrset.KindBitset, 64, attrs)
//
// # Exact Search (Ground Truth)
//
//	truth := testutil.BruteForceSearch(vecs, query, k, func(i int) bool {
//		return testutil.ContainsAll(attrs[i], want)
//	})
//
// # Recall Verification
//
//	recall := testutil.ComputeRecall(truth, approx)
package testutil
