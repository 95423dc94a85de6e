// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pattern generates stochastic item-response patterns from a fitted
// multidimensional IRT model at given latent-trait values. It covers the
// numeric mode (a sampled category matrix for Monte Carlo simulation) and
// the labeled mode (a human-readable response vector resolved against an
// answer key).
// Implements: prd001-pattern-generation (R1-R5);
//
//	docs/ARCHITECTURE § Pattern Generation.
package pattern

import (
	"fmt"
	"math/rand"
	"time"
)

// ResponseFunc evaluates one item's response function over an N×d trait
// matrix and returns an N×K category-probability matrix, rows summing to 1,
// categories zero-based. A trait matrix whose dimensionality does not match
// the model is the ResponseFunc's own error.
type ResponseFunc func(theta [][]float64) ([][]float64, error)

// ItemResponseModel is the capability surface a fitted model must expose
// for pattern generation. The model is read-only and never mutated here.
type ItemResponseModel interface {
	// ItemCount returns the number of items in administration order.
	ItemCount() int

	// ResponseFunc returns the response function for the given item index.
	ResponseFunc(item int) (ResponseFunc, error)

	// MinCategory returns the item's lowest native category code. Sampled
	// zero-based categories are shifted by this offset in numeric output.
	MinCategory(item int) int
}

// Pattern is a numeric response pattern: one sampled category per
// (respondent, item), in the model's native category coding. Theta carries
// the generating trait matrix so simulation drivers can recover it without
// re-threading it through the call chain.
type Pattern struct {
	Data  [][]int
	Theta [][]float64
}

// Generate samples one response pattern per theta row and returns the
// N×ItemCount numeric matrix with each item's MinCategory offset applied.
// Draws across items and rows are mutually independent given theta (local
// independence). rng may be nil, in which case a time-seeded generator is
// used; reproducibility is the caller's concern.
//
// Errors from the model's response functions propagate unmodified beyond
// wrapping with the item index; no draws are retried or recovered.
func Generate(model ItemResponseModel, theta Theta, rng *rand.Rand) (*Pattern, error) {
	if err := checkModel(model); err != nil {
		return nil, err
	}
	if theta.Rows() == 0 {
		return nil, fmt.Errorf("no trait rows: %w", ErrInvalidShape)
	}
	rng = ensureRNG(rng)

	sampled, err := samplePattern(model, theta, rng)
	if err != nil {
		return nil, err
	}

	// Rescale to the model's native coding.
	for item := 0; item < model.ItemCount(); item++ {
		min := model.MinCategory(item)
		if min == 0 {
			continue
		}
		for n := range sampled {
			sampled[n][item] += min
		}
	}

	return &Pattern{Data: sampled, Theta: theta.Values()}, nil
}

// samplePattern draws the zero-based N×ItemCount category matrix, one
// weighted categorical draw per (row, item).
func samplePattern(model ItemResponseModel, theta Theta, rng *rand.Rand) ([][]int, error) {
	n := theta.Rows()
	items := model.ItemCount()

	out := make([][]int, n)
	for i := range out {
		out[i] = make([]int, items)
	}

	for item := 0; item < items; item++ {
		rf, err := model.ResponseFunc(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", item, err)
		}
		probs, err := rf(theta.Values())
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", item, err)
		}
		if len(probs) != n {
			return nil, fmt.Errorf("item %d: probability matrix has %d rows, want %d", item, len(probs), n)
		}
		for row := 0; row < n; row++ {
			category, err := drawCategory(rng, probs[row])
			if err != nil {
				return nil, fmt.Errorf("item %d, row %d: %w", item, row, err)
			}
			out[row][item] = category
		}
	}
	return out, nil
}

// drawCategory draws one zero-based category index weighted by p. The
// weights are renormalized by their sum, so rows that miss 1.0 by floating
// point error sample correctly.
func drawCategory(rng *rand.Rand, p []float64) (int, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("empty probability row")
	}
	total := 0.0
	for _, v := range p {
		if v < 0 {
			return 0, fmt.Errorf("negative probability %g", v)
		}
		total += v
	}
	if total <= 0 {
		return 0, fmt.Errorf("probability row sums to %g", total)
	}

	r := rng.Float64() * total
	cum := 0.0
	for i, v := range p {
		cum += v
		if r < cum {
			return i, nil
		}
	}
	// r landed on the accumulated rounding tail.
	return len(p) - 1, nil
}

func checkModel(model ItemResponseModel) error {
	if model == nil {
		return ErrNilModel
	}
	if model.ItemCount() <= 0 {
		return fmt.Errorf("model has no items: %w", ErrNilModel)
	}
	return nil
}

func ensureRNG(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
