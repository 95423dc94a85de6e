// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package study runs Monte Carlo simulation studies over a fitted model:
// repeated pattern generation at fixed trait values, tallied into empirical
// category frequencies and compared against the model's own probabilities.
// Results persist to a SQLite store and export to YAML or JSON.
// Implements: prd003-simulation-studies (R1-R5);
//
//	prd004-results-store (R1-R3).
package study

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/pdiddy/irt-engine/internal/pattern"
	"github.com/pdiddy/irt-engine/pkg/types"
)

const (
	defaultReplications = 1000
	defaultWorkers      = 4
)

// Params configures one study run.
type Params struct {
	// BankName labels the study in summaries and the results store.
	BankName string

	// Replications is the number of patterns generated per theta row
	// (default 1000).
	Replications int

	// Workers is the number of concurrent sampling workers (default 4,
	// never more than Replications).
	Workers int

	// Seed is the base seed. Worker k samples from a generator seeded
	// with Seed+k, so a fixed seed reproduces the tallies regardless of
	// scheduling. Zero means time-seeded.
	Seed int64
}

// Run generates Params.Replications patterns at theta, tallies sampled
// categories per (theta row, item, category), and compares the empirical
// frequencies against the model's probabilities. Replications are
// partitioned across workers; each worker owns its generator, so no draw
// ordering is shared. Progress goes to w.
func Run(m pattern.ItemResponseModel, theta pattern.Theta, params Params, w io.Writer) (*types.StudySummary, error) {
	if params.Replications <= 0 {
		params.Replications = defaultReplications
	}
	if params.Workers <= 0 {
		params.Workers = defaultWorkers
	}
	if params.Workers > params.Replications {
		params.Workers = params.Replications
	}
	if params.Seed == 0 {
		params.Seed = time.Now().UnixNano()
	}

	// Expected probabilities double as fail-fast validation: a malformed
	// model or mismatched theta surfaces here, before any worker draws.
	expected, err := expectedProbs(m, theta)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "study: %d replications across %d workers, %d theta rows, %d items\n",
		params.Replications, params.Workers, theta.Rows(), m.ItemCount())

	type workerResult struct {
		counts [][][]int
		err    error
	}

	ch := make(chan workerResult, params.Workers)
	var wg sync.WaitGroup

	share := params.Replications / params.Workers
	extra := params.Replications % params.Workers
	for k := 0; k < params.Workers; k++ {
		reps := share
		if k < extra {
			reps++
		}
		wg.Add(1)
		go func(seed int64, reps int) {
			defer wg.Done()
			counts, err := tally(m, theta, expected, reps, rand.New(rand.NewSource(seed)))
			ch <- workerResult{counts: counts, err: err}
		}(params.Seed+int64(k), reps)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	total := newCounts(expected)
	for wr := range ch {
		if wr.err != nil {
			return nil, wr.err
		}
		addCounts(total, wr.counts)
	}

	return summarize(params, theta, expected, total), nil
}

// expectedProbs evaluates every item's response function over theta.
func expectedProbs(m pattern.ItemResponseModel, theta pattern.Theta) ([][][]float64, error) {
	if m == nil || m.ItemCount() <= 0 {
		return nil, fmt.Errorf("study: %w", pattern.ErrNilModel)
	}
	expected := make([][][]float64, m.ItemCount())
	for item := range expected {
		rf, err := m.ResponseFunc(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", item, err)
		}
		probs, err := rf(theta.Values())
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", item, err)
		}
		expected[item] = probs
	}
	return expected, nil
}

// tally generates reps patterns and counts sampled categories. Sampled
// values come back in native coding, so each item's MinCategory offset is
// removed before counting.
func tally(m pattern.ItemResponseModel, theta pattern.Theta, expected [][][]float64, reps int, rng *rand.Rand) ([][][]int, error) {
	counts := newCounts(expected)
	for r := 0; r < reps; r++ {
		pat, err := pattern.Generate(m, theta, rng)
		if err != nil {
			return nil, err
		}
		for row := range pat.Data {
			for item, v := range pat.Data[row] {
				category := v - m.MinCategory(item)
				if category < 0 || category >= len(counts[row][item]) {
					return nil, fmt.Errorf("item %d: sampled category %d outside [0, %d)",
						item, category, len(counts[row][item]))
				}
				counts[row][item][category]++
			}
		}
	}
	return counts, nil
}

// newCounts allocates a theta-row × item × category tally shaped like the
// expected probability matrices.
func newCounts(expected [][][]float64) [][][]int {
	rows := len(expected[0])
	counts := make([][][]int, rows)
	for row := range counts {
		counts[row] = make([][]int, len(expected))
		for item := range expected {
			counts[row][item] = make([]int, len(expected[item][row]))
		}
	}
	return counts
}

func addCounts(total, part [][][]int) {
	for row := range total {
		for item := range total[row] {
			for c := range total[row][item] {
				total[row][item][c] += part[row][item][c]
			}
		}
	}
}

func summarize(params Params, theta pattern.Theta, expected [][][]float64, counts [][][]int) *types.StudySummary {
	summary := &types.StudySummary{
		Bank:         params.BankName,
		Replications: params.Replications,
		Seed:         params.Seed,
		Theta:        theta.Values(),
		StartedAt:    time.Now(),
	}

	for row := range counts {
		for item := range counts[row] {
			for c, count := range counts[row][item] {
				observed := float64(count) / float64(params.Replications)
				cell := types.CellFrequency{
					ThetaRow: row,
					Item:     item,
					Category: c,
					Count:    count,
					Observed: observed,
					Expected: expected[item][row][c],
				}
				summary.Frequencies = append(summary.Frequencies, cell)
				if dev := math.Abs(cell.Observed - cell.Expected); dev > summary.MaxDeviation {
					summary.MaxDeviation = dev
				}
			}
		}
	}
	return summary
}
