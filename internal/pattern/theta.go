// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Theta is a canonical N×d latent-trait matrix: N independent respondents,
// d latent dimensions. The zero value has no rows and is rejected by the
// generation entry points.
type Theta struct {
	rows [][]float64
}

// ThetaVector wraps a flat trait vector as a single-respondent 1×d matrix.
func ThetaVector(values []float64) Theta {
	row := make([]float64, len(values))
	copy(row, values)
	return Theta{rows: [][]float64{row}}
}

// ThetaMatrix wraps an N×d trait matrix, one row per respondent. The input
// must be rectangular and non-empty; ragged or empty input returns
// ErrInvalidShape.
func ThetaMatrix(rows [][]float64) (Theta, error) {
	if len(rows) == 0 {
		return Theta{}, fmt.Errorf("empty trait matrix: %w", ErrInvalidShape)
	}
	dims := len(rows[0])
	out := make([][]float64, len(rows))
	for i, r := range rows {
		if len(r) != dims {
			return Theta{}, fmt.Errorf("row %d has %d dimensions, row 0 has %d: %w",
				i, len(r), dims, ErrInvalidShape)
		}
		out[i] = make([]float64, dims)
		copy(out[i], r)
	}
	return Theta{rows: out}, nil
}

// Rows returns the number of respondents N.
func (t Theta) Rows() int { return len(t.rows) }

// Dims returns the latent dimensionality d, or 0 for the zero value.
// Whether d matches the model is the model's own concern; generation does
// not pre-validate it.
func (t Theta) Dims() int {
	if len(t.rows) == 0 {
		return 0
	}
	return len(t.rows[0])
}

// Row returns the i-th trait vector.
func (t Theta) Row(i int) []float64 { return t.rows[i] }

// Values returns the full N×d matrix. The returned slices are the Theta's
// backing storage and must not be modified.
func (t Theta) Values() [][]float64 { return t.rows }

// ReadThetaFile loads a trait matrix from a YAML file holding either a
// flat vector ([0, 1.5]) or a list of rows ([[0], [2], [-2]]).
func ReadThetaFile(path string) (Theta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theta{}, fmt.Errorf("reading theta file: %w", err)
	}

	var matrix [][]float64
	if err := yaml.Unmarshal(data, &matrix); err == nil {
		return ThetaMatrix(matrix)
	}

	var vector []float64
	if err := yaml.Unmarshal(data, &vector); err != nil {
		return Theta{}, fmt.Errorf("parsing theta file %s: %w", path, ErrInvalidShape)
	}
	return ThetaVector(vector), nil
}
