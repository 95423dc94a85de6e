// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// CellFrequency compares the observed sampling frequency of one
// (theta row, item, category) cell against the model probability.
type CellFrequency struct {
	// ThetaRow indexes the generating trait vector within the study's
	// theta matrix.
	ThetaRow int `json:"theta_row" yaml:"theta_row"`

	// Item is the zero-based item index.
	Item int `json:"item" yaml:"item"`

	// Category is the zero-based sampled category.
	Category int `json:"category" yaml:"category"`

	// Count is the number of replications that sampled this category.
	Count int `json:"count" yaml:"count"`

	// Observed is Count divided by the replication total.
	Observed float64 `json:"observed" yaml:"observed"`

	// Expected is the model probability of this category at the theta row.
	Expected float64 `json:"expected" yaml:"expected"`
}

// StudySummary holds the outcome of a Monte Carlo simulation study.
type StudySummary struct {
	// ID is assigned by the results store; zero for unsaved studies.
	ID int64 `json:"id,omitempty" yaml:"id,omitempty"`

	// Bank is the name of the item bank the study sampled from.
	Bank string `json:"bank" yaml:"bank"`

	// Replications is the number of patterns generated per theta row.
	Replications int `json:"replications" yaml:"replications"`

	// Seed is the base seed the study ran with.
	Seed int64 `json:"seed" yaml:"seed"`

	// Theta is the trait matrix the study sampled at.
	Theta [][]float64 `json:"theta" yaml:"theta"`

	// Frequencies holds one entry per (theta row, item, category) cell,
	// ordered by theta row, then item, then category.
	Frequencies []CellFrequency `json:"frequencies" yaml:"frequencies"`

	// MaxDeviation is the largest absolute observed-expected gap across
	// all cells.
	MaxDeviation float64 `json:"max_deviation" yaml:"max_deviation"`

	// StartedAt records when the study ran.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
}
