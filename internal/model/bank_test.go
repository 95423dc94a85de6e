// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/irt-engine/pkg/types"
)

func twoPL(slope, intercept float64) types.ItemParameters {
	return types.ItemParameters{Type: types.ItemTwoPL, Slopes: []float64{slope}, Intercept: intercept}
}

func testBank(t *testing.T, items ...types.ItemParameters) *Bank {
	t.Helper()
	bank, err := NewBank(types.BankFile{Name: "test", Dimensions: 1, Items: items})
	require.NoError(t, err)
	return bank
}

func TestNewBankValidation(t *testing.T) {
	tests := []struct {
		name string
		bf   types.BankFile
	}{
		{"zero dimensions", types.BankFile{Items: []types.ItemParameters{twoPL(1, 0)}}},
		{"no items", types.BankFile{Dimensions: 1}},
		{"slope count mismatch", types.BankFile{Dimensions: 2, Items: []types.ItemParameters{twoPL(1, 0)}}},
		{"unknown type", types.BankFile{Dimensions: 1, Items: []types.ItemParameters{
			{Type: "rasch", Slopes: []float64{1}},
		}}},
		{"guess on 2pl", types.BankFile{Dimensions: 1, Items: []types.ItemParameters{
			{Type: types.ItemTwoPL, Slopes: []float64{1}, Guess: 0.2},
		}}},
		{"guess out of range", types.BankFile{Dimensions: 1, Items: []types.ItemParameters{
			{Type: types.ItemThreePL, Slopes: []float64{1}, Guess: 1.0},
		}}},
		{"negative guess", types.BankFile{Dimensions: 1, Items: []types.ItemParameters{
			{Type: types.ItemThreePL, Slopes: []float64{1}, Guess: -0.1},
		}}},
		{"intercepts on dichotomous", types.BankFile{Dimensions: 1, Items: []types.ItemParameters{
			{Type: types.ItemTwoPL, Slopes: []float64{1}, Intercepts: []float64{1, 0}},
		}}},
		{"graded without intercepts", types.BankFile{Dimensions: 1, Items: []types.ItemParameters{
			{Type: types.ItemGraded, Slopes: []float64{1}},
		}}},
		{"graded intercepts not decreasing", types.BankFile{Dimensions: 1, Items: []types.ItemParameters{
			{Type: types.ItemGraded, Slopes: []float64{1}, Intercepts: []float64{0, 1}},
		}}},
		{"graded with scalar intercept", types.BankFile{Dimensions: 1, Items: []types.ItemParameters{
			{Type: types.ItemGraded, Slopes: []float64{1}, Intercept: 0.5, Intercepts: []float64{1, 0}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBank(tt.bf)
			require.ErrorIs(t, err, ErrInvalidParameters)
		})
	}
}

func TestBankAccessors(t *testing.T) {
	bank := testBank(t,
		twoPL(1, 0),
		types.ItemParameters{Type: types.ItemThreePL, Slopes: []float64{1}, Guess: 0.25},
		types.ItemParameters{Type: types.ItemGraded, Slopes: []float64{1}, Intercepts: []float64{1, 0, -1}, MinCategory: 1},
	)

	assert.Equal(t, 3, bank.ItemCount())
	assert.Equal(t, 1, bank.Dimensions())
	assert.Equal(t, "test", bank.Name())

	assert.Equal(t, 2, bank.Categories(0))
	assert.Equal(t, 2, bank.Categories(1))
	assert.Equal(t, 4, bank.Categories(2))

	assert.Equal(t, 0, bank.MinCategory(0))
	assert.Equal(t, 1, bank.MinCategory(2))
	assert.Equal(t, 0, bank.MinCategory(99))
}

func TestTwoPLResponseFunc(t *testing.T) {
	bank := testBank(t, twoPL(1, 0))
	rf, err := bank.ResponseFunc(0)
	require.NoError(t, err)

	probs, err := rf([][]float64{{0}, {2}, {-2}})
	require.NoError(t, err)
	require.Len(t, probs, 3)

	// sigma(0) = 0.5 at theta 0; monotone in theta.
	assert.InDelta(t, 0.5, probs[0][1], 1e-12)
	assert.Greater(t, probs[1][1], probs[0][1])
	assert.Less(t, probs[2][1], probs[0][1])

	for _, row := range probs {
		assert.InDelta(t, 1.0, row[0]+row[1], 1e-12)
	}
}

func TestThreePLGuessFloor(t *testing.T) {
	bank := testBank(t, types.ItemParameters{
		Type: types.ItemThreePL, Slopes: []float64{2}, Intercept: 0, Guess: 0.2,
	})
	rf, err := bank.ResponseFunc(0)
	require.NoError(t, err)

	// Far below the item's difficulty the correct probability approaches
	// the guessing floor, never below it.
	probs, err := rf([][]float64{{-10}})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, probs[0][1], 1e-6)
	assert.GreaterOrEqual(t, probs[0][1], 0.2)
}

func TestGradedResponseFunc(t *testing.T) {
	bank := testBank(t, types.ItemParameters{
		Type: types.ItemGraded, Slopes: []float64{1}, Intercepts: []float64{2, 0, -2},
	})
	rf, err := bank.ResponseFunc(0)
	require.NoError(t, err)

	probs, err := rf([][]float64{{0}, {3}})
	require.NoError(t, err)

	for _, row := range probs {
		require.Len(t, row, 4)
		sum := 0.0
		for _, p := range row {
			assert.GreaterOrEqual(t, p, 0.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-12)
	}

	// Higher theta shifts mass toward the top category.
	assert.Greater(t, probs[1][3], probs[0][3])
}

func TestResponseFuncDimensionMismatch(t *testing.T) {
	bank, err := NewBank(types.BankFile{Dimensions: 2, Items: []types.ItemParameters{
		{Type: types.ItemTwoPL, Slopes: []float64{1, 0.5}},
	}})
	require.NoError(t, err)

	rf, err := bank.ResponseFunc(0)
	require.NoError(t, err)

	_, err = rf([][]float64{{0}})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = rf([][]float64{{0, 0}, {1, 1, 1}})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestResponseFuncOutOfRange(t *testing.T) {
	bank := testBank(t, twoPL(1, 0))
	_, err := bank.ResponseFunc(1)
	require.Error(t, err)
	_, err = bank.ResponseFunc(-1)
	require.Error(t, err)
}

func TestMultidimensionalSlopes(t *testing.T) {
	bank, err := NewBank(types.BankFile{Dimensions: 2, Items: []types.ItemParameters{
		{Type: types.ItemTwoPL, Slopes: []float64{1, 1}},
	}})
	require.NoError(t, err)

	rf, err := bank.ResponseFunc(0)
	require.NoError(t, err)

	// Slopes (1,1): theta (1,-1) cancels back to sigma(0).
	probs, err := rf([][]float64{{1, -1}})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, probs[0][1], 1e-12)
}

func TestLoadBank(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.yaml")
	content := `
name: algebra-screening
dimensions: 1
items:
  - id: q1
    type: 2pl
    slopes: [1.2]
    intercept: 0.5
  - id: q2
    type: 3pl
    slopes: [0.9]
    intercept: -0.3
    guess: 0.2
  - id: q3
    type: graded
    slopes: [1.1]
    intercepts: [1.5, 0.0, -1.5]
    min_category: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	bank, err := LoadBank(path)
	require.NoError(t, err)
	assert.Equal(t, "algebra-screening", bank.Name())
	assert.Equal(t, 3, bank.ItemCount())
	assert.Equal(t, 4, bank.Categories(2))
	assert.Equal(t, 1, bank.MinCategory(2))

	_, err = LoadBank(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	badPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("dimensions: [nope]\n"), 0o644))
	_, err = LoadBank(badPath)
	require.Error(t, err)
}

func TestProbabilitiesAreFinite(t *testing.T) {
	bank := testBank(t, twoPL(3, -2))
	rf, err := bank.ResponseFunc(0)
	require.NoError(t, err)

	probs, err := rf([][]float64{{-50}, {50}})
	require.NoError(t, err)
	for _, row := range probs {
		for _, p := range row {
			require.False(t, math.IsNaN(p) || math.IsInf(p, 0))
		}
	}
}
