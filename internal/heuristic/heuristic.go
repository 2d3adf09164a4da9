// Package heuristic scores pool items by predictive uncertainty and
// ranks them for labeling. All heuristics share one convention: higher
// score = more uncertain, and aggregation across stochastic passes is
// commutative, so pass order never changes a score.
package heuristic

import (
	"math"
	"math/rand"
	"sort"
)

// #region validation

const sumTolerance = 1e-6

// validate checks an item's passes for degenerate input. Every pass
// must be a non-empty distribution of the same width summing to 1.
func validate(passes Passes) error {
	if len(passes) == 0 {
		return degeneratef("item has zero passes")
	}
	classes := len(passes[0])
	if classes == 0 {
		return degeneratef("pass 0 has no classes")
	}
	for m, dist := range passes {
		if len(dist) != classes {
			return degeneratef("pass %d has %d classes, pass 0 has %d", m, len(dist), classes)
		}
		var sum float64
		for c, p := range dist {
			if math.IsNaN(p) || math.IsInf(p, 0) {
				return degeneratef("pass %d class %d is not finite", m, c)
			}
			if p < 0 {
				return degeneratef("pass %d class %d is negative", m, c)
			}
			sum += p
		}
		if math.Abs(sum-1) > sumTolerance {
			return degeneratef("pass %d sums to %g, want 1", m, sum)
		}
	}
	return nil
}

// #endregion validation

// #region bald

// BALD scores by mutual information between predictions and model
// posterior: H(mean over passes) minus the mean per-pass entropy.
// Single-pass input scores zero (no disagreement observable).
type BALD struct{}

func (BALD) Name() string { return "bald" }

func (BALD) Score(passes Passes) (float64, error) {
	if err := validate(passes); err != nil {
		return 0, err
	}
	mean := meanDistribution(passes)

	var expectedEntropy float64
	for _, dist := range passes {
		expectedEntropy += entropy(dist)
	}
	expectedEntropy /= float64(len(passes))

	score := entropy(mean) - expectedEntropy
	if score < 0 {
		score = 0 // numerical noise; mutual information is non-negative
	}
	return score, nil
}

// #endregion bald

// #region entropy

// Entropy scores by the entropy of the across-pass mean distribution.
type Entropy struct{}

func (Entropy) Name() string { return "entropy" }

func (Entropy) Score(passes Passes) (float64, error) {
	if err := validate(passes); err != nil {
		return 0, err
	}
	return entropy(meanDistribution(passes)), nil
}

// #endregion entropy

// #region margin

// Margin scores by one minus the gap between the two largest class
// probabilities of the mean distribution. A single-class distribution
// has no runner-up and scores zero.
type Margin struct{}

func (Margin) Name() string { return "margin" }

func (Margin) Score(passes Passes) (float64, error) {
	if err := validate(passes); err != nil {
		return 0, err
	}
	mean := meanDistribution(passes)
	if len(mean) < 2 {
		return 0, nil
	}
	first, second := -1.0, -1.0
	for _, p := range mean {
		if p > first {
			first, second = p, first
		} else if p > second {
			second = p
		}
	}
	return 1 - (first - second), nil
}

// #endregion margin

// #region variance

// Variance scores by the mean across classes of the across-pass
// population variance. Zero for single-pass input.
type Variance struct{}

func (Variance) Name() string { return "variance" }

func (Variance) Score(passes Passes) (float64, error) {
	if err := validate(passes); err != nil {
		return 0, err
	}
	mean := meanDistribution(passes)
	m := float64(len(passes))

	var total float64
	for c := range mean {
		var sumSq float64
		for _, dist := range passes {
			d := dist[c] - mean[c]
			sumSq += d * d
		}
		total += sumSq / m
	}
	return total / float64(len(mean)), nil
}

// #endregion variance

// #region random

// Random assigns seeded uniform scores, the baseline sampler for
// comparing informed heuristics against chance.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a Random heuristic with its own seeded source.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (*Random) Name() string { return "random" }

func (r *Random) Score(passes Passes) (float64, error) {
	if err := validate(passes); err != nil {
		return 0, err
	}
	return r.rng.Float64(), nil
}

// #endregion random

// #region score-all

// ScoreAll scores every pool item with h. Fails on the first degenerate
// item with no partial output.
func ScoreAll(h Heuristic, items []Passes) ([]float64, error) {
	scores := make([]float64, len(items))
	for i, passes := range items {
		s, err := h.Score(passes)
		if err != nil {
			return nil, err
		}
		scores[i] = s
	}
	return scores, nil
}

// #endregion score-all

// #region rank

// Rank returns item positions ordered by score descending, ties broken
// by ascending position. The ordering is total and deterministic:
// ranking the same scores twice gives the same permutation.
func Rank(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if scores[order[a]] != scores[order[b]] {
			return scores[order[a]] > scores[order[b]]
		}
		return order[a] < order[b]
	})
	return order
}

// #endregion rank

// #region by-name

// ByName resolves a heuristic from its config name. The random
// heuristic takes the seed; the informed ones ignore it.
func ByName(name string, seed int64) (Heuristic, bool) {
	switch name {
	case "bald":
		return BALD{}, true
	case "entropy":
		return Entropy{}, true
	case "margin":
		return Margin{}, true
	case "variance":
		return Variance{}, true
	case "random":
		return NewRandom(seed), true
	}
	return nil, false
}

// #endregion by-name

// #region math-helpers

// meanDistribution averages the passes element-wise. Assumes validated
// input.
func meanDistribution(passes Passes) []float64 {
	mean := make([]float64, len(passes[0]))
	for _, dist := range passes {
		for c, p := range dist {
			mean[c] += p
		}
	}
	for c := range mean {
		mean[c] /= float64(len(passes))
	}
	return mean
}

// entropy computes Shannon entropy in nats. Zero-probability classes
// contribute nothing.
func entropy(dist []float64) float64 {
	var h float64
	for _, p := range dist {
		if p > 0 {
			h -= p * math.Log(p)
		}
	}
	return h
}

// #endregion math-helpers
