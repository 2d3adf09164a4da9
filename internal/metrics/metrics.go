// Package metrics provides streaming accumulators and per-round history
// for tracking active-learning progress: how uncertain the pool remains
// and how the label set grows round over round.
package metrics

// #region mean

// Mean is a streaming arithmetic mean.
type Mean struct {
	sum   float64
	count int
}

// Update folds one observation into the mean.
func (m *Mean) Update(v float64) {
	m.sum += v
	m.count++
}

// Value returns the current mean, zero before any observation.
func (m *Mean) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

// Count returns the number of observations folded in.
func (m *Mean) Count() int { return m.count }

// Reset clears the accumulator.
func (m *Mean) Reset() { *m = Mean{} }

// #endregion mean

// #region max

// Max is a streaming maximum.
type Max struct {
	max   float64
	count int
}

// Update folds one observation into the maximum.
func (m *Max) Update(v float64) {
	if m.count == 0 || v > m.max {
		m.max = v
	}
	m.count++
}

// Value returns the current maximum, zero before any observation.
func (m *Max) Value() float64 { return m.max }

// Reset clears the accumulator.
func (m *Max) Reset() { *m = Max{} }

// #endregion max

// #region score-summary

// ScoreSummary condenses one round's pool score vector.
type ScoreSummary struct {
	Top  float64 // highest uncertainty in the pool
	Mean float64 // mean uncertainty across the pool
}

// Summarize computes the summary for a score vector. An empty vector
// summarizes to zeros.
func Summarize(scores []float64) ScoreSummary {
	var mean Mean
	var max Max
	for _, s := range scores {
		mean.Update(s)
		max.Update(s)
	}
	return ScoreSummary{Top: max.Value(), Mean: mean.Value()}
}

// #endregion score-summary

// #region history

// RoundPoint is one round's entry in a run history.
type RoundPoint struct {
	Round       int
	LabeledSize int
	PoolSize    int
	Scores      ScoreSummary
}

// History accumulates per-round progress for a run.
type History struct {
	points []RoundPoint
}

// Append records one round.
func (h *History) Append(p RoundPoint) {
	h.points = append(h.points, p)
}

// Points returns the recorded rounds in order.
func (h *History) Points() []RoundPoint { return h.points }

// Len returns the number of recorded rounds.
func (h *History) Len() int { return len(h.points) }

// #endregion history
