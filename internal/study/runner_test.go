// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package study

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/pdiddy/irt-engine/internal/pattern"
)

// fixedModel returns the same category probabilities for every trait row.
type fixedModel struct {
	probs [][]float64 // per item
	min   []int
}

func (m *fixedModel) ItemCount() int { return len(m.probs) }

func (m *fixedModel) MinCategory(item int) int {
	if m.min == nil {
		return 0
	}
	return m.min[item]
}

func (m *fixedModel) ResponseFunc(item int) (pattern.ResponseFunc, error) {
	p := m.probs[item]
	return func(theta [][]float64) ([][]float64, error) {
		out := make([][]float64, len(theta))
		for i := range out {
			out[i] = p
		}
		return out, nil
	}, nil
}

func TestRunTalliesEveryReplication(t *testing.T) {
	m := &fixedModel{probs: [][]float64{{0.5, 0.5}, {0.2, 0.3, 0.5}}}
	theta, err := pattern.ThetaMatrix([][]float64{{0}, {1}})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	summary, err := Run(m, theta, Params{Replications: 500, Workers: 3, Seed: 11}, &buf)
	if err != nil {
		t.Fatal(err)
	}

	// 2 theta rows x (2 + 3) categories.
	if len(summary.Frequencies) != 10 {
		t.Fatalf("got %d cells, want 10", len(summary.Frequencies))
	}

	// Per (theta row, item), counts must account for every replication.
	totals := map[[2]int]int{}
	for _, cell := range summary.Frequencies {
		totals[[2]int{cell.ThetaRow, cell.Item}] += cell.Count
	}
	for key, total := range totals {
		if total != 500 {
			t.Errorf("theta row %d item %d counted %d draws, want 500", key[0], key[1], total)
		}
	}

	if buf.Len() == 0 {
		t.Error("no progress output written")
	}
}

func TestRunFrequenciesConverge(t *testing.T) {
	m := &fixedModel{probs: [][]float64{{0.3, 0.7}}}
	theta := pattern.ThetaVector([]float64{0})

	summary, err := Run(m, theta, Params{Replications: 10000, Workers: 4, Seed: 42}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	for _, cell := range summary.Frequencies {
		if dev := math.Abs(cell.Observed - cell.Expected); dev > 0.02 {
			t.Errorf("cell (%d,%d,%d): observed %.4f, expected %.4f",
				cell.ThetaRow, cell.Item, cell.Category, cell.Observed, cell.Expected)
		}
	}
	if summary.MaxDeviation > 0.02 {
		t.Errorf("max deviation %.4f exceeds tolerance", summary.MaxDeviation)
	}
}

func TestRunReproducibleWithSeed(t *testing.T) {
	m := &fixedModel{probs: [][]float64{{0.4, 0.6}}}
	theta := pattern.ThetaVector([]float64{0})
	params := Params{Replications: 200, Workers: 2, Seed: 7}

	first, err := Run(m, theta, params, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Run(m, theta, params, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	for i := range first.Frequencies {
		if first.Frequencies[i].Count != second.Frequencies[i].Count {
			t.Fatalf("cell %d diverged under the same seed: %d vs %d",
				i, first.Frequencies[i].Count, second.Frequencies[i].Count)
		}
	}
}

func TestRunRemovesMinCategoryOffset(t *testing.T) {
	m := &fixedModel{probs: [][]float64{{0, 1}}, min: []int{3}}
	theta := pattern.ThetaVector([]float64{0})

	summary, err := Run(m, theta, Params{Replications: 50, Workers: 1, Seed: 1}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	for _, cell := range summary.Frequencies {
		switch cell.Category {
		case 1:
			if cell.Count != 50 {
				t.Errorf("category 1 counted %d, want 50", cell.Count)
			}
		case 0:
			if cell.Count != 0 {
				t.Errorf("category 0 counted %d, want 0", cell.Count)
			}
		default:
			t.Errorf("unexpected category %d", cell.Category)
		}
	}
}

func TestRunDefaults(t *testing.T) {
	m := &fixedModel{probs: [][]float64{{0.5, 0.5}}}
	theta := pattern.ThetaVector([]float64{0})

	summary, err := Run(m, theta, Params{Workers: 8, Seed: 3}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Replications != defaultReplications {
		t.Errorf("replications = %d, want default %d", summary.Replications, defaultReplications)
	}
	if summary.Seed != 3 {
		t.Errorf("seed = %d, want 3", summary.Seed)
	}
}

func TestRunMoreWorkersThanReplications(t *testing.T) {
	m := &fixedModel{probs: [][]float64{{0.5, 0.5}}}
	theta := pattern.ThetaVector([]float64{0})

	summary, err := Run(m, theta, Params{Replications: 3, Workers: 16, Seed: 5}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, cell := range summary.Frequencies {
		total += cell.Count
	}
	if total != 3 {
		t.Errorf("counted %d draws, want 3", total)
	}
}

type failingModel struct{ fixedModel }

func (m *failingModel) ResponseFunc(item int) (pattern.ResponseFunc, error) {
	return nil, fmt.Errorf("corrupt parameters for item %d", item)
}

func TestRunFailsFastOnModelError(t *testing.T) {
	m := &failingModel{fixedModel{probs: [][]float64{{0.5, 0.5}}}}
	theta := pattern.ThetaVector([]float64{0})

	_, err := Run(m, theta, Params{Replications: 100, Seed: 1}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error from a failing model")
	}
}

func TestRunNilModel(t *testing.T) {
	theta := pattern.ThetaVector([]float64{0})
	_, err := Run(nil, theta, Params{Seed: 1}, &bytes.Buffer{})
	if !errors.Is(err, pattern.ErrNilModel) {
		t.Errorf("err = %v, want ErrNilModel", err)
	}
}
