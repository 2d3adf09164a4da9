package journal

import "time"

// #region run-record

// RunRecord describes one active-learning run.
type RunRecord struct {
	RunID       string
	Heuristic   string
	QuerySize   int
	Iterations  int
	Seed        int64
	DatasetSize int
	CreatedAt   time.Time
}

// #endregion run-record

// #region round-record

// RoundRecord is a single row of a run's round log.
type RoundRecord struct {
	RunID      string
	Round      int
	Labeled    []int // dataset indices labeled this round
	PoolSize   int   // pool size after labeling
	TopScore   float64
	MeanScore  float64
	DurationMS int64
	CreatedAt  time.Time
}

// #endregion round-record
