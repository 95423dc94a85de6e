// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ItemType identifies the item-response family of a calibrated item.
type ItemType string

const (
	// ItemTwoPL is a dichotomous two-parameter logistic item.
	ItemTwoPL ItemType = "2pl"

	// ItemThreePL is a dichotomous three-parameter logistic item with a
	// lower asymptote (guessing parameter).
	ItemThreePL ItemType = "3pl"

	// ItemGraded is a polytomous graded-response item (cumulative logistic).
	ItemGraded ItemType = "graded"
)

// ItemParameters holds the calibrated parameters for one item, in the
// slope/intercept parameterization.
type ItemParameters struct {
	// ID is an optional human-readable item identifier.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Type selects the response family: 2pl, 3pl, or graded.
	Type ItemType `json:"type" yaml:"type"`

	// Slopes holds the discrimination parameters, one per latent dimension.
	Slopes []float64 `json:"slopes" yaml:"slopes"`

	// Intercept is the easiness intercept for dichotomous items.
	Intercept float64 `json:"intercept,omitempty" yaml:"intercept,omitempty"`

	// Intercepts holds the strictly decreasing category intercepts for
	// graded items; an item with k+1 categories has k intercepts.
	Intercepts []float64 `json:"intercepts,omitempty" yaml:"intercepts,omitempty"`

	// Guess is the lower asymptote for 3pl items, in [0, 1).
	Guess float64 `json:"guess,omitempty" yaml:"guess,omitempty"`

	// MinCategory is the lowest native category code for this item.
	// Sampled zero-based categories are shifted by this offset on output.
	MinCategory int `json:"min_category,omitempty" yaml:"min_category,omitempty"`
}

// BankFile is the on-disk representation of a calibrated item bank.
type BankFile struct {
	// Name is an optional bank identifier recorded in study results.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Dimensions is the latent dimensionality every item's slope vector
	// must match.
	Dimensions int `json:"dimensions" yaml:"dimensions"`

	// Items lists the calibrated items in administration order.
	Items []ItemParameters `json:"items" yaml:"items"`
}
