// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

import (
	"fmt"
	"math/rand"

	"github.com/pdiddy/irt-engine/internal/answerkey"
)

// CorrectCategory is the zero-based category index treated as the correct
// response for scored items in labeled mode. Labeled generation models
// strictly dichotomous scoring: category 1 is correct, every other
// category resolves to a uniformly chosen distractor. Polytomous scored
// items are outside this mode's contract.
const CorrectCategory = 1

// GenerateLabeled samples a single respondent's responses and resolves
// them to option texts against the answer key. theta must have exactly one
// row; more rows return ErrUnsupportedShape. The key is validated before
// any draw, so a failed call never consumes randomness.
//
// For a scored item the label is the designated answer when the sampled
// category equals CorrectCategory, otherwise a uniform draw among that
// item's distractors. For an unscored item the label is the option text at
// the sampled category's position.
func GenerateLabeled(model ItemResponseModel, theta Theta, key *answerkey.Table, rng *rand.Rand) ([]string, error) {
	if err := checkModel(model); err != nil {
		return nil, err
	}
	if theta.Rows() == 0 {
		return nil, fmt.Errorf("no trait rows: %w", ErrInvalidShape)
	}
	if theta.Rows() > 1 {
		return nil, fmt.Errorf("labeled generation is single-respondent, got %d trait rows: %w",
			theta.Rows(), ErrUnsupportedShape)
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}
	items := model.ItemCount()
	if key.Len() != items {
		return nil, fmt.Errorf("answer key has %d items, model has %d: %w",
			key.Len(), items, answerkey.ErrInvalidTable)
	}
	rng = ensureRNG(rng)

	sampled, err := samplePattern(model, theta, rng)
	if err != nil {
		return nil, err
	}

	labels := make([]string, items)
	for i := 0; i < items; i++ {
		label, err := resolveLabel(key.Items[i], sampled[0][i], rng)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		labels[i] = label
	}
	return labels, nil
}

func resolveLabel(item answerkey.Item, category int, rng *rand.Rand) (string, error) {
	if item.HasAnswer {
		if category == CorrectCategory {
			return item.Answer, nil
		}
		distractors := item.Distractors()
		return distractors[rng.Intn(len(distractors))], nil
	}
	if category >= len(item.Options) {
		return "", fmt.Errorf("sampled category %d outside the %d option columns", category, len(item.Options))
	}
	return item.Options[category], nil
}
