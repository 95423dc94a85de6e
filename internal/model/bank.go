// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model implements pattern.ItemResponseModel over a calibrated
// item bank loaded from YAML. Supported response families: 2pl, 3pl, and
// graded (Samejima cumulative logistic). Calibration itself happens
// elsewhere; this package only evaluates fitted parameters.
// Implements: prd002-item-banks (R1-R4).
package model

import (
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/irt-engine/internal/pattern"
	"github.com/pdiddy/irt-engine/pkg/types"
)

var (
	// ErrInvalidParameters indicates an item bank whose parameters violate
	// the response family's constraints.
	ErrInvalidParameters = errors.New("model: invalid item parameters")

	// ErrDimensionMismatch indicates a trait vector whose length does not
	// match the bank's latent dimensionality. This is the model-side check
	// that pattern generation deliberately defers to.
	ErrDimensionMismatch = errors.New("model: trait dimension mismatch")
)

// Bank is a calibrated item bank. It satisfies pattern.ItemResponseModel.
type Bank struct {
	name  string
	dims  int
	items []types.ItemParameters
}

// LoadBank reads and validates an item bank from a YAML file.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading item bank: %w", err)
	}
	var bf types.BankFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("parsing item bank %s: %w", path, err)
	}
	bank, err := NewBank(bf)
	if err != nil {
		return nil, fmt.Errorf("item bank %s: %w", path, err)
	}
	return bank, nil
}

// NewBank validates the bank file and returns a Bank.
func NewBank(bf types.BankFile) (*Bank, error) {
	if bf.Dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be > 0: %w", ErrInvalidParameters)
	}
	if len(bf.Items) == 0 {
		return nil, fmt.Errorf("bank has no items: %w", ErrInvalidParameters)
	}
	for i, item := range bf.Items {
		if err := validateItem(item, bf.Dimensions); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return &Bank{name: bf.Name, dims: bf.Dimensions, items: bf.Items}, nil
}

func validateItem(p types.ItemParameters, dims int) error {
	if len(p.Slopes) != dims {
		return fmt.Errorf("%d slopes, bank has %d dimensions: %w", len(p.Slopes), dims, ErrInvalidParameters)
	}
	switch p.Type {
	case types.ItemTwoPL, types.ItemThreePL:
		if len(p.Intercepts) > 0 {
			return fmt.Errorf("dichotomous items take a single intercept: %w", ErrInvalidParameters)
		}
		if p.Type == types.ItemTwoPL && p.Guess != 0 {
			return fmt.Errorf("guess parameter on a 2pl item: %w", ErrInvalidParameters)
		}
		if p.Guess < 0 || p.Guess >= 1 {
			return fmt.Errorf("guess %g outside [0, 1): %w", p.Guess, ErrInvalidParameters)
		}
	case types.ItemGraded:
		if p.Intercept != 0 {
			return fmt.Errorf("graded items take intercepts, not intercept: %w", ErrInvalidParameters)
		}
		if p.Guess != 0 {
			return fmt.Errorf("guess parameter on a graded item: %w", ErrInvalidParameters)
		}
		if len(p.Intercepts) == 0 {
			return fmt.Errorf("graded item needs at least one intercept: %w", ErrInvalidParameters)
		}
		for k := 1; k < len(p.Intercepts); k++ {
			if p.Intercepts[k] >= p.Intercepts[k-1] {
				return fmt.Errorf("intercepts must be strictly decreasing: %w", ErrInvalidParameters)
			}
		}
	default:
		return fmt.Errorf("unknown item type %q: %w", p.Type, ErrInvalidParameters)
	}
	return nil
}

// Name returns the bank's identifier, possibly empty.
func (b *Bank) Name() string { return b.name }

// Dimensions returns the latent dimensionality.
func (b *Bank) Dimensions() int { return b.dims }

// ItemCount returns the number of items.
func (b *Bank) ItemCount() int { return len(b.items) }

// Categories returns the number of response categories for the item:
// 2 for dichotomous items, one more than the intercept count for graded.
func (b *Bank) Categories(item int) int {
	p := b.items[item]
	if p.Type == types.ItemGraded {
		return len(p.Intercepts) + 1
	}
	return 2
}

// MinCategory returns the item's lowest native category code.
func (b *Bank) MinCategory(item int) int {
	if item < 0 || item >= len(b.items) {
		return 0
	}
	return b.items[item].MinCategory
}

// ResponseFunc returns the item's response function. The returned function
// rejects trait rows whose length differs from the bank's dimensionality
// with ErrDimensionMismatch.
func (b *Bank) ResponseFunc(item int) (pattern.ResponseFunc, error) {
	if item < 0 || item >= len(b.items) {
		return nil, fmt.Errorf("item %d out of range [0, %d)", item, len(b.items))
	}
	p := b.items[item]
	dims := b.dims

	return func(theta [][]float64) ([][]float64, error) {
		out := make([][]float64, len(theta))
		for i, row := range theta {
			if len(row) != dims {
				return nil, fmt.Errorf("trait row %d has %d dimensions, bank has %d: %w",
					i, len(row), dims, ErrDimensionMismatch)
			}
			out[i] = categoryProbs(p, row)
		}
		return out, nil
	}, nil
}
