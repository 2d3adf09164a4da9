package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/danielpatrickdp/active-query/go-loop/internal/journal"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to active_query.db")
	last := flag.Int("last", 20, "show N most recent runs")
	runID := flag.String("run", "", "show round detail for one run")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		if v := os.Getenv("QUERYLOOP_DB"); v != "" {
			*dbPath = v
		} else {
			fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/active_query.db [--last N] [--run id] [--json]")
			os.Exit(2)
		}
	}

	jnl, err := journal.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer jnl.Close()

	if *runID != "" {
		err = runDetailMode(jnl, *runID, *jsonOut)
	} else {
		err = runListMode(jnl, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

func runListMode(jnl *journal.Journal, last int, jsonOut bool) error {
	runs, err := jnl.ListRuns(last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	fmt.Printf("%-36s %-10s %-6s %-6s %-8s %s\n", "run", "heuristic", "query", "iters", "dataset", "created")
	for _, r := range runs {
		fmt.Printf("%-36s %-10s %-6d %-6d %-8d %s\n",
			r.RunID, r.Heuristic, r.QuerySize, r.Iterations, r.DatasetSize,
			r.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(jnl *journal.Journal, runID string, jsonOut bool) error {
	run, err := jnl.GetRun(runID)
	if err != nil {
		return err
	}
	rounds, err := jnl.ListRounds(runID)
	if err != nil {
		return err
	}

	if jsonOut {
		out := struct {
			Run    journal.RunRecord     `json:"run"`
			Rounds []journal.RoundRecord `json:"rounds"`
		}{run, rounds}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("run %s: heuristic=%s query_size=%d iterations=%d seed=%d dataset=%d\n",
		run.RunID, run.Heuristic, run.QuerySize, run.Iterations, run.Seed, run.DatasetSize)
	fmt.Printf("%-6s %-8s %-10s %-10s %-10s %s\n", "round", "labeled", "pool", "top", "mean", "ms")
	for _, r := range rounds {
		fmt.Printf("%-6d %-8d %-10d %-10.4f %-10.4f %d\n",
			r.Round, len(r.Labeled), r.PoolSize, r.TopScore, r.MeanScore, r.DurationMS)
	}
	return nil
}

// #endregion detail-mode
