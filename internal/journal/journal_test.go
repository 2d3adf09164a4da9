package journal

import (
	"path/filepath"
	"testing"
)

func tempJournal(t *testing.T) *Journal {
	t.Helper()
	dir := t.TempDir()
	j, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestCreateRunAndGet(t *testing.T) {
	j := tempJournal(t)

	rec, err := j.CreateRun("bald", 10, 20, 42, 1000)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if rec.RunID == "" {
		t.Fatal("expected non-empty run ID")
	}

	got, err := j.GetRun(rec.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Heuristic != "bald" || got.QuerySize != 10 || got.Iterations != 20 ||
		got.Seed != 42 || got.DatasetSize != 1000 {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestGetRunMissing(t *testing.T) {
	j := tempJournal(t)
	if _, err := j.GetRun("no-such-run"); err == nil {
		t.Fatal("expected error for missing run")
	}
}

func TestRecordAndListRounds(t *testing.T) {
	j := tempJournal(t)
	run, err := j.CreateRun("entropy", 5, 1, 7, 100)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	for i := 1; i <= 3; i++ {
		err := j.RecordRound(RoundRecord{
			RunID:      run.RunID,
			Round:      i,
			Labeled:    []int{i * 10, i*10 + 1},
			PoolSize:   100 - i*2,
			TopScore:   0.9,
			MeanScore:  0.4,
			DurationMS: 12,
		})
		if err != nil {
			t.Fatalf("RecordRound %d: %v", i, err)
		}
	}

	rounds, err := j.ListRounds(run.RunID)
	if err != nil {
		t.Fatalf("ListRounds: %v", err)
	}
	if len(rounds) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(rounds))
	}
	for i, r := range rounds {
		if r.Round != i+1 {
			t.Fatalf("rounds out of order: %+v", rounds)
		}
		if len(r.Labeled) != 2 || r.Labeled[0] != (i+1)*10 {
			t.Fatalf("labeled indices did not round-trip: %+v", r)
		}
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	j := tempJournal(t)

	first, err := j.CreateRun("bald", 10, 20, 1, 100)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	second, err := j.CreateRun("margin", 10, 20, 2, 100)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	runs, err := j.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != second.RunID || runs[1].RunID != first.RunID {
		t.Fatalf("expected newest first, got %s then %s", runs[0].RunID, runs[1].RunID)
	}
}
