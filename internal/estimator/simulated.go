package estimator

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/danielpatrickdp/active-query/go-loop/internal/heuristic"
)

// #region simulated

// Simulated is a seeded synthetic model for demos and tests: each
// dataset index gets fixed base logits, and every stochastic pass
// perturbs them with Gaussian noise before softmax. Items with flatter
// base logits come out more uncertain, so informed heuristics have
// structure to find.
type Simulated struct {
	classes int
	noise   float64

	mu     sync.Mutex
	rng    *rand.Rand
	logits map[int][]float64
}

// NewSimulated creates a simulated estimator with the given class count
// and per-pass noise scale. The same seed reproduces the same base
// logits and noise sequence.
func NewSimulated(classes int, noise float64, seed int64) *Simulated {
	return &Simulated{
		classes: classes,
		noise:   noise,
		rng:     rand.New(rand.NewSource(seed)),
		logits:  make(map[int][]float64),
	}
}

// PredictPool draws one noisy softmax distribution per index. Callers
// wanting multiple passes wrap it in an MCSampler via SinglePass.
func (s *Simulated) PredictPool(ctx context.Context, indices []int) ([]heuristic.Passes, error) {
	dists, err := s.SinglePass(ctx, indices)
	if err != nil {
		return nil, err
	}
	out := make([]heuristic.Passes, len(dists))
	for i, d := range dists {
		out[i] = heuristic.Passes{d}
	}
	return out, nil
}

// SinglePass is the SinglePassFunc form of the simulated model.
func (s *Simulated) SinglePass(ctx context.Context, indices []int) ([][]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([][]float64, len(indices))
	for i, idx := range indices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		base := s.baseLogits(idx)
		noisy := make([]float64, s.classes)
		for c := range noisy {
			noisy[c] = base[c] + s.rng.NormFloat64()*s.noise
		}
		out[i] = softmax(noisy)
	}
	return out, nil
}

// baseLogits lazily draws and caches the fixed logits for an index.
func (s *Simulated) baseLogits(idx int) []float64 {
	if base, ok := s.logits[idx]; ok {
		return base
	}
	base := make([]float64, s.classes)
	// Per-item sharpness: some items are confidently classified, some
	// sit near the decision boundary.
	sharpness := s.rng.Float64() * 4
	peak := s.rng.Intn(s.classes)
	for c := range base {
		base[c] = s.rng.NormFloat64() * 0.5
	}
	base[peak] += sharpness
	s.logits[idx] = base
	return base
}

// #endregion simulated

// #region softmax

func softmax(logits []float64) []float64 {
	max := logits[0]
	for _, l := range logits[1:] {
		if l > max {
			max = l
		}
	}
	out := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		out[i] = math.Exp(l - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// #endregion softmax
