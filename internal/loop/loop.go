// Package loop orchestrates active-learning rounds: score the pool with
// an external probability estimator, rank by an uncertainty heuristic,
// label the top of the ranking, and report whether work remains.
// Training between rounds is the caller's business.
package loop

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/danielpatrickdp/active-query/go-loop/internal/dataset"
	"github.com/danielpatrickdp/active-query/go-loop/internal/estimator"
	"github.com/danielpatrickdp/active-query/go-loop/internal/heuristic"
	"github.com/danielpatrickdp/active-query/go-loop/internal/metrics"
)

// #region loop-struct

// Loop runs the score/rank/label cycle over a labeled pool. Single
// owner, single goroutine: each Step fully completes before returning
// and the loop holds no suspension points.
type Loop struct {
	pool      *dataset.LabeledPool
	heur      heuristic.Heuristic
	est       estimator.Estimator
	querySize int

	state State
	round int
}

// New wires a loop over pool, scoring with h via est, labeling
// querySize items per round.
func New(pool *dataset.LabeledPool, h heuristic.Heuristic, est estimator.Estimator, querySize int) (*Loop, error) {
	if querySize < 1 {
		return nil, fmt.Errorf("query size must be >= 1, got %d", querySize)
	}
	return &Loop{
		pool:      pool,
		heur:      h,
		est:       est,
		querySize: querySize,
		state:     StateReady,
	}, nil
}

// State returns the loop's current state.
func (l *Loop) State() State { return l.state }

// Round returns the number of completed labeling rounds.
func (l *Loop) Round() int { return l.round }

// #endregion loop-struct

// #region step

// Step runs one round. With an empty pool it transitions to done and
// reports no more work; Step on a done loop keeps reporting done.
//
// If the estimator or the heuristic fails, the error propagates, the
// label set is untouched, and the loop returns to ready: a failed round
// never partially labels.
func (l *Loop) Step(ctx context.Context) (StepResult, error) {
	if l.pool.PoolSize() == 0 {
		l.state = StateDone
		return StepResult{Round: l.round, PoolSize: 0, Done: true}, nil
	}

	poolView := l.pool.PoolIndices()

	l.state = StateScoring
	items, err := l.est.PredictPool(ctx, poolView)
	if err != nil {
		l.state = StateReady
		return StepResult{}, fmt.Errorf("estimate pool: %w", err)
	}
	if len(items) != len(poolView) {
		l.state = StateReady
		return StepResult{}, fmt.Errorf("estimator returned %d items for pool of %d", len(items), len(poolView))
	}

	scores, err := heuristic.ScoreAll(l.heur, items)
	if err != nil {
		l.state = StateReady
		return StepResult{}, fmt.Errorf("score pool: %w", err)
	}
	ranking := heuristic.Rank(scores)

	l.state = StateLabeling
	n := l.querySize
	if n > len(poolView) {
		n = len(poolView)
	}
	picked := make([]int, n)
	for i := 0; i < n; i++ {
		picked[i] = poolView[ranking[i]]
	}
	sort.Ints(picked)

	if err := l.pool.Label(picked); err != nil {
		// Pool membership was computed from the same view; reaching
		// here means the dataset was mutated behind the loop's back.
		l.state = StateReady
		return StepResult{}, fmt.Errorf("label selection: %w", err)
	}

	l.round++
	l.state = StateReady
	remaining := l.pool.PoolSize()
	summary := metrics.Summarize(scores)

	log.Printf("[LOOP] round=%d heuristic=%s labeled=%d pool=%d top=%.4f mean=%.4f",
		l.round, l.heur.Name(), len(picked), remaining, summary.Top, summary.Mean)

	return StepResult{
		Round:    l.round,
		Labeled:  picked,
		PoolSize: remaining,
		Done:     remaining == 0,
		Scores:   summary,
	}, nil
}

// #endregion step
