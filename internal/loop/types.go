package loop

import (
	"github.com/danielpatrickdp/active-query/go-loop/internal/metrics"
)

// #region state

// State is the loop's position in its round cycle.
type State string

const (
	StateReady    State = "ready"
	StateScoring  State = "scoring"
	StateLabeling State = "labeling"
	StateDone     State = "done"
)

// #endregion state

// #region step-result

// StepResult reports one completed round.
type StepResult struct {
	Round    int   // 1-based round number; 0 when no round ran
	Labeled  []int // dataset indices labeled this round, ascending
	PoolSize int   // pool size after labeling
	Done     bool  // true when no further work remains

	// Scores summarizes the pool's uncertainty before labeling.
	Scores metrics.ScoreSummary
}

// #endregion step-result
