// Package dataset tracks the labeled/pool partition of a fixed index
// universe during an active-learning run. Labeling is monotonic: indices
// move from the pool into the label set and never back.
package dataset

import (
	"math/rand"
	"sort"
)

// #region pool-struct

// LabeledPool partitions dataset indices [0, N) into a label set and an
// unlabeled pool. The two views always partition the full universe.
type LabeledPool struct {
	n       int
	labeled []bool
	count   int // number of labeled indices
	rng     *rand.Rand
}

// NewLabeledPool creates a pool of size n with an empty label set.
// The seed drives LabelRandomly; runs with the same seed and the same
// labeling sequence select identical indices.
func NewLabeledPool(n int, seed int64) *LabeledPool {
	return &LabeledPool{
		n:       n,
		labeled: make([]bool, n),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// #endregion pool-struct

// #region counts

// Size returns the total number of indices in the universe.
func (p *LabeledPool) Size() int { return p.n }

// LabeledSize returns the number of labeled indices.
func (p *LabeledPool) LabeledSize() int { return p.count }

// PoolSize returns the number of unlabeled indices.
func (p *LabeledPool) PoolSize() int { return p.n - p.count }

// IsLabeled reports whether index i is in the label set.
// Out-of-range indices report false.
func (p *LabeledPool) IsLabeled(i int) bool {
	return i >= 0 && i < p.n && p.labeled[i]
}

// #endregion counts

// #region views

// PoolIndices returns the unlabeled indices in ascending order.
func (p *LabeledPool) PoolIndices() []int {
	out := make([]int, 0, p.PoolSize())
	for i, l := range p.labeled {
		if !l {
			out = append(out, i)
		}
	}
	return out
}

// LabeledIndices returns the labeled indices in ascending order.
func (p *LabeledPool) LabeledIndices() []int {
	out := make([]int, 0, p.count)
	for i, l := range p.labeled {
		if l {
			out = append(out, i)
		}
	}
	return out
}

// #endregion views

// #region label

// Label moves the given dataset indices from the pool into the label set.
// Validation runs before any mutation: on InvalidIndexError the partition
// is unchanged. Duplicate indices within one call are invalid too, since
// the second occurrence no longer names a pool member.
func (p *LabeledPool) Label(indices []int) error {
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= p.n || p.labeled[i] || seen[i] {
			return &InvalidIndexError{Index: i, Size: p.n}
		}
		seen[i] = true
	}
	for _, i := range indices {
		p.labeled[i] = true
	}
	p.count += len(indices)
	return nil
}

// LabelRandomly labels k indices drawn uniformly from the pool without
// replacement and returns them in ascending order. Fails with
// InsufficientPoolError if k exceeds the pool size, leaving the
// partition unchanged.
func (p *LabeledPool) LabelRandomly(k int) ([]int, error) {
	pool := p.PoolIndices()
	if k > len(pool) {
		return nil, &InsufficientPoolError{Requested: k, PoolSize: len(pool)}
	}
	if k < 0 {
		k = 0
	}

	// Partial Fisher-Yates over the pool view: first k slots are the draw.
	for i := 0; i < k; i++ {
		j := i + p.rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	picked := append([]int(nil), pool[:k]...)

	for _, i := range picked {
		p.labeled[i] = true
	}
	p.count += k

	sort.Ints(picked)
	return picked, nil
}

// #endregion label
