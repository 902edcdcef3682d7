// Package distance provides vector distance calculations for the HNSW graph.
//
// Every Func returns a distance where lower means closer, so the graph can
// treat all metrics the same way.
//
// # Supported Metrics
//
//   - MetricL2: Squared Euclidean distance (default)
//   - MetricCosine: 1 - cosine similarity (vectors are normalized on insert)
//   - MetricDot: 1 - dot product (inner product space)
//
// # Usage
//
//	dist := distance.SquaredL2(a, b)
//	sim := distance.Dot(a, b)
//	fn, _ := distance.Provider(distance.MetricCosine)
package distance
