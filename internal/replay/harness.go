// Package replay runs recorded estimator outputs through a real loop,
// fully in memory, and checks the labeling decisions against expected
// results. Fixtures make loop behavior regression-testable without a
// model anywhere near the test.
package replay

import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/active-query/go-loop/internal/dataset"
	"github.com/danielpatrickdp/active-query/go-loop/internal/estimator"
	"github.com/danielpatrickdp/active-query/go-loop/internal/heuristic"
	"github.com/danielpatrickdp/active-query/go-loop/internal/loop"
)

// #region types

// RoundResult captures the outcome of replaying one fixture round.
type RoundResult struct {
	Round    int
	Labeled  []int
	PoolSize int
	Done     bool

	// Expected is nil when the fixture carries no expectation for this
	// round; Matched is meaningful only when Expected is set.
	Expected []int
	Matched  bool
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalRounds int
	Checked     int // rounds with an expectation
	Matches     int
	Mismatches  int
	FinalPool   int
}

// #endregion types

// #region sequenced-estimator

// sequencedEstimator serves each recorded round's predictions in order,
// one PredictPool call per round.
type sequencedEstimator struct {
	rounds []map[int]heuristic.Passes
	cursor int
}

func (s *sequencedEstimator) PredictPool(ctx context.Context, indices []int) ([]heuristic.Passes, error) {
	if s.cursor >= len(s.rounds) {
		return nil, fmt.Errorf("fixture exhausted after %d rounds", len(s.rounds))
	}
	static := estimator.NewStatic(s.rounds[s.cursor])
	s.cursor++
	return static.PredictPool(ctx, indices)
}

// #endregion sequenced-estimator

// #region replay

// Replay runs the fixture through a fresh loop and reports per-round
// results. It stops after the recorded rounds, or earlier if the loop
// reaches done.
func Replay(f *Fixture) ([]RoundResult, error) {
	h, ok := heuristic.ByName(f.Config.Heuristic, f.Config.Seed)
	if !ok {
		return nil, fmt.Errorf("unknown heuristic %q", f.Config.Heuristic)
	}

	pool := dataset.NewLabeledPool(f.DatasetSize, f.Config.Seed)
	if len(f.InitialLabeled) > 0 {
		if err := pool.Label(f.InitialLabeled); err != nil {
			return nil, fmt.Errorf("initial labels: %w", err)
		}
	}

	rounds := make([]map[int]heuristic.Passes, len(f.Rounds))
	for i := range f.Rounds {
		preds, err := f.Rounds[i].ToPredictions()
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", i+1, err)
		}
		rounds[i] = preds
	}

	expected := make(map[int][]int, len(f.ExpectedResults))
	for _, e := range f.ExpectedResults {
		expected[e.Round] = e.Labeled
	}

	l, err := loop.New(pool, h, &sequencedEstimator{rounds: rounds}, f.Config.QuerySize)
	if err != nil {
		return nil, err
	}

	results := make([]RoundResult, 0, len(f.Rounds))
	for i := 0; i < len(f.Rounds); i++ {
		step, err := l.Step(context.Background())
		if err != nil {
			return results, fmt.Errorf("round %d: %w", i+1, err)
		}
		if step.Done && len(step.Labeled) == 0 {
			break // pool exhausted before consuming all rounds
		}

		r := RoundResult{
			Round:    step.Round,
			Labeled:  step.Labeled,
			PoolSize: step.PoolSize,
			Done:     step.Done,
		}
		if exp, ok := expected[step.Round]; ok {
			r.Expected = exp
			r.Matched = equalInts(step.Labeled, exp)
		}
		results = append(results, r)

		if step.Done {
			break
		}
	}
	return results, nil
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []RoundResult) Summary {
	s := Summary{TotalRounds: len(results)}
	for _, r := range results {
		if r.Expected != nil {
			s.Checked++
			if r.Matched {
				s.Matches++
			} else {
				s.Mismatches++
			}
		}
	}
	if len(results) > 0 {
		s.FinalPool = results[len(results)-1].PoolSize
	}
	return s
}

// #endregion replay

// #region helpers

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// #endregion helpers
