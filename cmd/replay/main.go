package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/active-query/go-loop/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	jsonOut := flag.Bool("json", false, "output results as JSON")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--json]")
		os.Exit(2)
	}

	os.Exit(runFixture(*fixturePath, *jsonOut))
}

// #endregion main

// #region run-fixture

func runFixture(path string, jsonOut bool) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	results, err := replay.Replay(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}
	summary := replay.Summarize(results)

	if jsonOut {
		out := struct {
			Description string               `json:"description"`
			Results     []replay.RoundResult `json:"results"`
			Summary     replay.Summary       `json:"summary"`
		}{f.Description, results, summary}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			return 2
		}
	} else {
		if f.Description != "" {
			fmt.Printf("fixture: %s\n", f.Description)
		}
		fmt.Printf("%-6s %-8s %-10s %s\n", "round", "labeled", "pool", "check")
		for _, r := range results {
			check := "-"
			if r.Expected != nil {
				if r.Matched {
					check = "ok"
				} else {
					check = fmt.Sprintf("MISMATCH want=%v got=%v", r.Expected, r.Labeled)
				}
			}
			fmt.Printf("%-6d %-8d %-10d %s\n", r.Round, len(r.Labeled), r.PoolSize, check)
		}
		fmt.Printf("rounds=%d checked=%d matches=%d mismatches=%d final_pool=%d\n",
			summary.TotalRounds, summary.Checked, summary.Matches, summary.Mismatches, summary.FinalPool)
	}

	if summary.Mismatches > 0 {
		return 1
	}
	return 0
}

// #endregion run-fixture
