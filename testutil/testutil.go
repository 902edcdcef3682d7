package testutil

import (
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/vecfilter/attrset"
	"github.com/hupe1980/vecfilter/distance"
	"github.com/hupe1980/vecfilter/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed)) // nolint gosec
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float32()
		}
		vectors[i] = vec
	}

	return vectors
}

// UnitVectors generates L2-normalized random vectors (on the hypersphere).
func (r *RNG) UnitVectors(num int, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = float32(r.rand.NormFloat64())
		}
		distance.NormalizeL2InPlace(vec)
		vectors[i] = vec
	}

	return vectors
}

// Attributes returns the indices in [0, universe) drawn independently with
// probability p, in ascending order.
func (r *RNG) Attributes(universe uint32, p float64) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attributesLocked(universe, p)
}

func (r *RNG) attributesLocked(universe uint32, p float64) []uint32 {
	var attrs []uint32
	for i := uint32(0); i < universe; i++ {
		if r.rand.Float64() < p {
			attrs = append(attrs, i)
		}
	}
	return attrs
}

// AttributeAssignments draws an attribute list for each of num points.
func (r *RNG) AttributeAssignments(num int, universe uint32, p float64) [][]uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([][]uint32, num)
	for i := range out {
		out[i] = r.attributesLocked(universe, p)
	}
	return out
}

// SparseAttributes returns between 1 and maxCount distinct indices in
// [0, universe), in ascending order.
func (r *RNG) SparseAttributes(universe uint32, maxCount int) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.rand.Intn(maxCount) + 1
	attrs := make([]uint32, 0, n)
	for range n {
		attrs = append(attrs, uint32(r.rand.Int63n(int64(universe))))
	}
	slices.Sort(attrs)
	return slices.Compact(attrs)
}

// BuildSets converts assignments into attribute sets of the given kind.
func BuildSets(kind attrset.Kind, universe uint32, assignments [][]uint32) ([]attrset.Set, error) {
	sets := make([]attrset.Set, len(assignments))
	for i, attrs := range assignments {
		s, err := attrset.Of(kind, universe, attrs...)
		if err != nil {
			return nil, err
		}
		sets[i] = s
	}
	return sets, nil
}

// ContainsAll reports whether have contains every element of want.
// Both must be sorted ascending.
func ContainsAll(have, want []uint32) bool {
	i := 0
	for _, w := range want {
		for i < len(have) && have[i] < w {
			i++
		}
		if i == len(have) || have[i] != w {
			return false
		}
	}
	return true
}

// ComputeRecall computes recall@k by comparing approximate results against ground truth.
func ComputeRecall(groundTruth, approximate []model.Candidate) float64 {
	if len(groundTruth) == 0 || len(approximate) == 0 {
		if len(groundTruth) == 0 && len(approximate) == 0 {
			return 1.0
		}
		return 0.0
	}

	k := min(len(approximate), len(groundTruth))

	truthSet := make(map[model.PointID]struct{}, k)
	for i := range k {
		truthSet[groundTruth[i].ID] = struct{}{}
	}

	hits := 0
	for _, r := range approximate {
		if _, ok := truthSet[r.ID]; ok {
			hits++
		}
	}

	return float64(hits) / float64(k)
}

// BruteForceSearch performs exact squared-L2 search for ground truth. Vector i
// is labelled PointID(i); keep, if non-nil, restricts the candidates.
func BruteForceSearch(vectors [][]float32, query []float32, k int, keep func(i int) bool) []model.Candidate {
	results := make([]model.Candidate, 0, len(vectors))
	for i, v := range vectors {
		if keep != nil && !keep(i) {
			continue
		}
		results = append(results, model.Candidate{ID: model.PointID(i), Distance: distance.SquaredL2(query, v)})
	}

	slices.SortFunc(results, model.CompareCandidates)

	if len(results) > k {
		results = results[:k]
	}
	return results
}
