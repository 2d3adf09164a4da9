package heuristic

import "fmt"

// #region passes

// Passes holds the stochastic forward-pass distributions for one pool
// item: passes[m][c] is the probability of class c in pass m. A single
// deterministic prediction is the one-pass case.
type Passes [][]float64

// #endregion passes

// #region heuristic-interface

// Heuristic maps one item's stochastic passes to a scalar uncertainty
// score. Higher means more uncertain; the convention is fixed for the
// whole system. Scores must not depend on the order of the passes.
type Heuristic interface {
	Name() string
	Score(passes Passes) (float64, error)
}

// #endregion heuristic-interface

// #region degenerate-error

// DegenerateInputError reports malformed probability input: no passes,
// an empty or shape-mismatched distribution, NaN entries, or a
// distribution that does not sum to 1 within tolerance.
type DegenerateInputError struct {
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return "degenerate probability input: " + e.Reason
}

func degeneratef(format string, args ...interface{}) error {
	return &DegenerateInputError{Reason: fmt.Sprintf(format, args...)}
}

// #endregion degenerate-error
