package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/danielpatrickdp/active-query/go-loop/internal/config"
	"github.com/danielpatrickdp/active-query/go-loop/internal/dataset"
	"github.com/danielpatrickdp/active-query/go-loop/internal/estimator"
	"github.com/danielpatrickdp/active-query/go-loop/internal/heuristic"
	"github.com/danielpatrickdp/active-query/go-loop/internal/journal"
	"github.com/danielpatrickdp/active-query/go-loop/internal/loop"
	"github.com/danielpatrickdp/active-query/go-loop/internal/metrics"
	"github.com/danielpatrickdp/active-query/go-loop/internal/replay"
)

// #region collaborators

// Trainer retrains the model on the current label set between rounds.
// The simulated driver only logs; a real integration plugs in here.
type Trainer interface {
	Train(ctx context.Context, labeled []int) error
}

// WeightResetter restores model parameters to a fixed snapshot before
// retraining, keeping rounds independent of prior training state.
type WeightResetter interface {
	Reset(ctx context.Context) error
}

type simTrainer struct{}

func (simTrainer) Train(ctx context.Context, labeled []int) error {
	log.Printf("[TRAIN] simulated training on %d labels", len(labeled))
	return nil
}

type simResetter struct{}

func (simResetter) Reset(ctx context.Context) error {
	log.Printf("[TRAIN] simulated weight reset")
	return nil
}

// #endregion collaborators

// #region recording-estimator

// recordingEstimator captures every round's pool predictions so the run
// can be written out as a replay fixture.
type recordingEstimator struct {
	inner  estimator.Estimator
	rounds []map[string][][]float64
}

func (r *recordingEstimator) PredictPool(ctx context.Context, indices []int) ([]heuristic.Passes, error) {
	items, err := r.inner.PredictPool(ctx, indices)
	if err != nil {
		return nil, err
	}
	preds := make(map[string][][]float64, len(indices))
	for i, idx := range indices {
		preds[strconv.Itoa(idx)] = items[i]
	}
	r.rounds = append(r.rounds, preds)
	return items, nil
}

// #endregion recording-estimator

// #region main

func main() {
	configPath := flag.String("config", "", "path to run config TOML (optional, defaults apply)")
	fixtureOut := flag.String("record-fixture", "", "write the run as a replay fixture JSON")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if v := os.Getenv("QUERYLOOP_DB"); v != "" {
		cfg.DBPath = v
	}

	if err := run(cfg, *fixtureOut); err != nil {
		log.Fatalf("driver: %v", err)
	}
}

// #endregion main

// #region run

func run(cfg config.Config, fixtureOut string) error {
	h, ok := heuristic.ByName(cfg.Heuristic, cfg.Seed)
	if !ok {
		return fmt.Errorf("unknown heuristic %q", cfg.Heuristic)
	}

	jnl, err := journal.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jnl.Close()

	runRec, err := jnl.CreateRun(cfg.Heuristic, cfg.QuerySize, cfg.Iterations, cfg.Seed, cfg.DatasetSize)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	log.Printf("[DRIVER] run=%s heuristic=%s dataset=%d query_size=%d iterations=%d",
		runRec.RunID, cfg.Heuristic, cfg.DatasetSize, cfg.QuerySize, cfg.Iterations)

	pool := dataset.NewLabeledPool(cfg.DatasetSize, cfg.Seed)
	seed, err := pool.LabelRandomly(cfg.InitialLabels)
	if err != nil {
		return fmt.Errorf("seed labels: %w", err)
	}
	log.Printf("[DRIVER] seeded %d random labels", len(seed))

	sim := estimator.NewSimulated(cfg.Simulation.Classes, cfg.Simulation.Noise, cfg.Seed)
	var est estimator.Estimator = &estimator.MCSampler{
		Pass:              sim.SinglePass,
		Iterations:        cfg.Iterations,
		ReplicateInMemory: cfg.ReplicateInMemory,
	}

	var rec *recordingEstimator
	if fixtureOut != "" {
		rec = &recordingEstimator{inner: est}
		est = rec
	}

	l, err := loop.New(pool, h, est, cfg.QuerySize)
	if err != nil {
		return err
	}

	var trainer Trainer = simTrainer{}
	var resetter WeightResetter = simResetter{}
	var history metrics.History
	var expected []replay.FixtureExpectedResult

	ctx := context.Background()
	for {
		if cfg.MaxRounds > 0 && l.Round() >= cfg.MaxRounds {
			log.Printf("[DRIVER] round budget %d reached", cfg.MaxRounds)
			break
		}

		if err := resetter.Reset(ctx); err != nil {
			return fmt.Errorf("reset weights: %w", err)
		}
		if err := trainer.Train(ctx, pool.LabeledIndices()); err != nil {
			return fmt.Errorf("train: %w", err)
		}

		start := time.Now()
		step, err := l.Step(ctx)
		if err != nil {
			return fmt.Errorf("step: %w", err)
		}
		if len(step.Labeled) == 0 && step.Done {
			log.Printf("[DRIVER] pool exhausted after %d rounds", l.Round())
			break
		}

		history.Append(metrics.RoundPoint{
			Round:       step.Round,
			LabeledSize: pool.LabeledSize(),
			PoolSize:    step.PoolSize,
			Scores:      step.Scores,
		})
		expected = append(expected, replay.FixtureExpectedResult{
			Round:   step.Round,
			Labeled: step.Labeled,
		})

		if err := jnl.RecordRound(journal.RoundRecord{
			RunID:      runRec.RunID,
			Round:      step.Round,
			Labeled:    step.Labeled,
			PoolSize:   step.PoolSize,
			TopScore:   step.Scores.Top,
			MeanScore:  step.Scores.Mean,
			DurationMS: time.Since(start).Milliseconds(),
		}); err != nil {
			return fmt.Errorf("record round: %w", err)
		}

		if step.Done {
			log.Printf("[DRIVER] pool exhausted after %d rounds", l.Round())
			break
		}
	}

	fmt.Printf("run %s: %d rounds, %d labeled, %d remaining\n",
		runRec.RunID, history.Len(), pool.LabeledSize(), pool.PoolSize())

	if fixtureOut != "" {
		if err := writeFixture(fixtureOut, cfg, seed, rec.rounds, expected); err != nil {
			return fmt.Errorf("write fixture: %w", err)
		}
		log.Printf("[DRIVER] fixture written to %s", fixtureOut)
	}
	return nil
}

// #endregion run

// #region fixture-writer

func writeFixture(path string, cfg config.Config, initial []int,
	rounds []map[string][][]float64, expected []replay.FixtureExpectedResult) error {

	f := replay.Fixture{
		Description:    fmt.Sprintf("recorded %s run, query_size=%d", cfg.Heuristic, cfg.QuerySize),
		DatasetSize:    cfg.DatasetSize,
		InitialLabeled: initial,
		Config: replay.FixtureConfig{
			Heuristic: cfg.Heuristic,
			QuerySize: cfg.QuerySize,
			Seed:      cfg.Seed,
		},
		ExpectedResults: expected,
	}
	for _, preds := range rounds {
		f.Rounds = append(f.Rounds, replay.FixtureRound{Predictions: preds})
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// #endregion fixture-writer
