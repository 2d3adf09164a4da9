// Package estimator defines the probability-estimation collaborator
// consumed by the active-learning loop, plus implementations for
// simulation, replay injection, and Monte-Carlo pass sampling. Real
// model inference lives outside this module; the loop only sees a
// blocking call that returns materialized distributions.
package estimator

import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/active-query/go-loop/internal/heuristic"
)

// #region interface

// Estimator produces, for each requested dataset index, one or more
// stochastic forward-pass distributions. The call blocks until the
// result is fully materialized; any internal batching or parallelism is
// opaque to the caller.
type Estimator interface {
	PredictPool(ctx context.Context, indices []int) ([]heuristic.Passes, error)
}

// SinglePassFunc is one stochastic forward pass over a set of dataset
// indices: one distribution per index.
type SinglePassFunc func(ctx context.Context, indices []int) ([][]float64, error)

// #endregion interface

// #region static

// Static serves fixed predictions keyed by dataset index. Used by the
// replay harness and tests to inject recorded estimator output.
type Static struct {
	predictions map[int]heuristic.Passes
}

// NewStatic creates a Static estimator over recorded predictions.
func NewStatic(predictions map[int]heuristic.Passes) *Static {
	return &Static{predictions: predictions}
}

// PredictPool returns the recorded passes for each index, failing if
// any index has no recording.
func (s *Static) PredictPool(ctx context.Context, indices []int) ([]heuristic.Passes, error) {
	out := make([]heuristic.Passes, len(indices))
	for i, idx := range indices {
		passes, ok := s.predictions[idx]
		if !ok {
			return nil, fmt.Errorf("no recorded prediction for index %d", idx)
		}
		out[i] = passes
	}
	return out, nil
}

// #endregion static

// #region mc-sampler

// MCSampler adapts a single-pass estimation function to a fixed number
// of stochastic iterations per item.
//
// With ReplicateInMemory the index batch is replicated Iterations times
// and submitted as one call, trading memory for a single round trip;
// otherwise the single-pass function runs once per iteration.
type MCSampler struct {
	Pass              SinglePassFunc
	Iterations        int
	ReplicateInMemory bool
}

// PredictPool gathers Iterations passes per index.
func (m *MCSampler) PredictPool(ctx context.Context, indices []int) ([]heuristic.Passes, error) {
	if m.Iterations < 1 {
		return nil, fmt.Errorf("iterations must be >= 1, got %d", m.Iterations)
	}

	out := make([]heuristic.Passes, len(indices))
	for i := range out {
		out[i] = make(heuristic.Passes, 0, m.Iterations)
	}

	if m.ReplicateInMemory {
		replicated := make([]int, 0, len(indices)*m.Iterations)
		for it := 0; it < m.Iterations; it++ {
			replicated = append(replicated, indices...)
		}
		dists, err := m.Pass(ctx, replicated)
		if err != nil {
			return nil, fmt.Errorf("replicated pass: %w", err)
		}
		if len(dists) != len(replicated) {
			return nil, fmt.Errorf("pass returned %d distributions for %d indices", len(dists), len(replicated))
		}
		for it := 0; it < m.Iterations; it++ {
			for i := range indices {
				out[i] = append(out[i], dists[it*len(indices)+i])
			}
		}
		return out, nil
	}

	for it := 0; it < m.Iterations; it++ {
		dists, err := m.Pass(ctx, indices)
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", it, err)
		}
		if len(dists) != len(indices) {
			return nil, fmt.Errorf("pass %d returned %d distributions for %d indices", it, len(dists), len(indices))
		}
		for i := range indices {
			out[i] = append(out[i], dists[i])
		}
	}
	return out, nil
}

// #endregion mc-sampler
