package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/danielpatrickdp/active-query/go-loop/internal/heuristic"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a
// recorded sequence of estimator outputs plus the labeling decisions
// the loop is expected to reproduce.
type Fixture struct {
	Description     string                  `json:"description"`
	DatasetSize     int                     `json:"dataset_size"`
	InitialLabeled  []int                   `json:"initial_labeled"`
	Config          FixtureConfig           `json:"config"`
	Rounds          []FixtureRound          `json:"rounds"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureConfig selects the heuristic and query size for the replay.
type FixtureConfig struct {
	Heuristic string `json:"heuristic"`
	QuerySize int    `json:"query_size"`
	Seed      int64  `json:"seed"`
}

// FixtureRound holds one round's recorded pool predictions, keyed by
// dataset index (JSON object keys are decimal strings).
type FixtureRound struct {
	Predictions map[string][][]float64 `json:"predictions"`
}

// FixtureExpectedResult captures the expected labeled indices per round.
type FixtureExpectedResult struct {
	Round   int   `json:"round"`
	Labeled []int `json:"labeled"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToPredictions converts a round's JSON predictions to domain form.
func (fr *FixtureRound) ToPredictions() (map[int]heuristic.Passes, error) {
	out := make(map[int]heuristic.Passes, len(fr.Predictions))
	for key, passes := range fr.Predictions {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("prediction key %q is not an index: %w", key, err)
		}
		out[idx] = heuristic.Passes(passes)
	}
	return out, nil
}

// #endregion fixture-loader
