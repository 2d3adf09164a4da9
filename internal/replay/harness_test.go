package replay

import (
	"testing"
)

func loadSample(t *testing.T) *Fixture {
	t.Helper()
	f, err := LoadFixture(writeFixtureFile(t, sampleFixture))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	return f
}

func TestReplayMatchesExpectations(t *testing.T) {
	f := loadSample(t)

	results, err := Replay(f)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(results))
	}

	for _, r := range results {
		if r.Expected == nil {
			t.Fatalf("round %d has no expectation", r.Round)
		}
		if !r.Matched {
			t.Fatalf("round %d mismatch: want %v, got %v", r.Round, r.Expected, r.Labeled)
		}
	}

	s := Summarize(results)
	if s.Checked != 2 || s.Matches != 2 || s.Mismatches != 0 {
		t.Fatalf("summary: %+v", s)
	}
	if s.FinalPool != 1 {
		t.Fatalf("final pool = %d, want 1", s.FinalPool)
	}
}

func TestReplayDetectsMismatch(t *testing.T) {
	f := loadSample(t)
	f.ExpectedResults[1].Labeled = []int{1, 4} // wrong on purpose

	results, err := Replay(f)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	s := Summarize(results)
	if s.Mismatches != 1 || s.Matches != 1 {
		t.Fatalf("summary: %+v", s)
	}
}

func TestReplayDeterministic(t *testing.T) {
	f := loadSample(t)

	first, err := Replay(f)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	second, err := Replay(f)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	for r := range first {
		a, b := first[r].Labeled, second[r].Labeled
		if len(a) != len(b) {
			t.Fatalf("round %d sizes differ", r+1)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("round %d selections differ: %v vs %v", r+1, a, b)
			}
		}
	}
}

func TestReplayExhaustsPool(t *testing.T) {
	f := &Fixture{
		DatasetSize: 2,
		Config:      FixtureConfig{Heuristic: "entropy", QuerySize: 5},
		Rounds: []FixtureRound{
			{Predictions: map[string][][]float64{
				"0": {{0.5, 0.5}},
				"1": {{0.8, 0.2}},
			}},
		},
	}

	results, err := Replay(f)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 round, got %d", len(results))
	}
	if !results[0].Done || results[0].PoolSize != 0 {
		t.Fatalf("expected exhausted pool: %+v", results[0])
	}
}

func TestReplayUnknownHeuristic(t *testing.T) {
	f := loadSample(t)
	f.Config.Heuristic = "gradient"
	if _, err := Replay(f); err == nil {
		t.Fatal("expected error for unknown heuristic")
	}
}

func TestReplayBadInitialLabels(t *testing.T) {
	f := loadSample(t)
	f.InitialLabeled = []int{99}
	if _, err := Replay(f); err == nil {
		t.Fatal("expected error for out-of-range initial label")
	}
}
