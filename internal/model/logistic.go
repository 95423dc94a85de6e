// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"math"

	"github.com/pdiddy/irt-engine/pkg/types"
)

// categoryProbs evaluates one item's category probabilities at a single
// trait vector. The slice is zero-based and sums to 1.
func categoryProbs(p types.ItemParameters, theta []float64) []float64 {
	if p.Type == types.ItemGraded {
		return gradedProbs(p, theta)
	}
	return dichotomousProbs(p, theta)
}

// dichotomousProbs returns {P(incorrect), P(correct)} under the
// multidimensional logistic P = c + (1-c)·σ(a·θ + d).
func dichotomousProbs(p types.ItemParameters, theta []float64) []float64 {
	z := dot(p.Slopes, theta) + p.Intercept
	correct := p.Guess + (1-p.Guess)*sigmoid(z)
	return []float64{1 - correct, correct}
}

// gradedProbs returns the Samejima graded-response category probabilities:
// adjacent differences of the cumulative curves P*(k) = σ(a·θ + d_k), with
// P*(0) = 1 and P*(K) = 0. Strictly decreasing intercepts keep every
// difference positive.
func gradedProbs(p types.ItemParameters, theta []float64) []float64 {
	z := dot(p.Slopes, theta)
	categories := len(p.Intercepts) + 1

	star := make([]float64, categories+1)
	star[0] = 1
	for k := 1; k < categories; k++ {
		star[k] = sigmoid(z + p.Intercepts[k-1])
	}
	star[categories] = 0

	probs := make([]float64, categories)
	for k := 0; k < categories; k++ {
		probs[k] = math.Max(star[k]-star[k+1], 0)
	}
	return probs
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
