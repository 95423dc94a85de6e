// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the irt-engine pipeline.
// Implements: prd001-pattern-generation (GenerateConfig);
//
//	prd002-item-banks (BankFile, ItemParameters);
//	prd003-simulation-studies (StudyConfig, StudySummary, CellFrequency);
//	prd004-results-store (StoreConfig).
//
// See docs/ARCHITECTURE § Data Structures.
package types

// GenerateConfig holds settings for one-shot pattern generation.
type GenerateConfig struct {
	// BankPath is the item-parameter YAML file describing the fitted model.
	BankPath string `json:"bank_path" yaml:"bank_path"`

	// KeyPath is an optional answer-key file (CSV or YAML). When set,
	// generation produces labeled responses instead of a numeric matrix.
	KeyPath string `json:"key_path,omitempty" yaml:"key_path,omitempty"`

	// Seed initializes the random source. Zero means time-seeded.
	Seed int64 `json:"seed" yaml:"seed"`
}

// StudyConfig holds settings for a Monte Carlo simulation study.
type StudyConfig struct {
	// BankPath is the item-parameter YAML file describing the fitted model.
	BankPath string `json:"bank_path" yaml:"bank_path"`

	// Replications is the number of patterns generated per theta row
	// (default 1000).
	Replications int `json:"replications" yaml:"replications"`

	// Workers is the number of concurrent sampling workers (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// Seed initializes the base random source. Each worker derives its own
	// generator from this seed. Zero means time-seeded.
	Seed int64 `json:"seed" yaml:"seed"`
}

// StoreConfig holds settings for the study results store.
type StoreConfig struct {
	// ResultsDir is the base directory for the results database
	// (contains index/).
	ResultsDir string `json:"results_dir" yaml:"results_dir"`

	// MaxResults is the default maximum number of listed studies (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// EngineConfig groups all stage configurations.
type EngineConfig struct {
	Generate GenerateConfig `json:"generate" yaml:"generate"`
	Study    StudyConfig    `json:"study" yaml:"study"`
	Store    StoreConfig    `json:"store" yaml:"store"`
}
