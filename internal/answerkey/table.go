// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package answerkey loads and validates answer-key tables: per item an
// ordered set of human-readable option texts and at most one designated
// correct answer. The schema is explicit; loaders reject anything that is
// not a genuine table before pattern generation sees it.
// Implements: prd005-answer-keys (R1-R4).
package answerkey

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTable indicates input that is not a genuine answer-key
	// table: unreadable, ragged, missing options, or an answer that names
	// no option.
	ErrInvalidTable = errors.New("answerkey: invalid table")

	// ErrMultipleAnswers indicates an item whose answer structure resolves
	// to more than one column. Multiple correct answers per item are an
	// unsupported shape.
	ErrMultipleAnswers = errors.New("answerkey: multiple correct answers not supported")

	// ErrDataIntegrity indicates a non-text cell whose coercion to plain
	// text did not round-trip to the original source value.
	ErrDataIntegrity = errors.New("answerkey: text coercion altered a value")
)

// Item holds one item's option texts in column order and its optional
// designated answer.
type Item struct {
	// ID is an optional item identifier carried through from the source file.
	ID string

	// Options lists the option texts in column order. Sampled zero-based
	// categories index into this slice for unscored items.
	Options []string

	// Answer is the correct option's text. Meaningful only when HasAnswer
	// is true.
	Answer string

	// HasAnswer reports whether this item is scored. Unscored items
	// (free-response, survey) resolve labels positionally.
	HasAnswer bool
}

// Distractors returns the option texts that are not the designated answer.
func (it Item) Distractors() []string {
	var out []string
	for _, opt := range it.Options {
		if !it.HasAnswer || opt != it.Answer {
			out = append(out, opt)
		}
	}
	return out
}

// Table is a validated answer key, one Item per model item in
// administration order.
type Table struct {
	Items []Item
}

// Len returns the number of items in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Items)
}

// Validate checks the table's structural invariants: every item has at
// least one option with non-empty text, a scored item's answer names one
// of its options, and a scored item keeps at least one distractor to stand
// in for an incorrect response.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("nil table: %w", ErrInvalidTable)
	}
	if len(t.Items) == 0 {
		return fmt.Errorf("table has no items: %w", ErrInvalidTable)
	}
	for i, item := range t.Items {
		if len(item.Options) == 0 {
			return fmt.Errorf("item %d has no options: %w", i, ErrInvalidTable)
		}
		for j, opt := range item.Options {
			if opt == "" {
				return fmt.Errorf("item %d option %d is empty: %w", i, j, ErrInvalidTable)
			}
		}
		if !item.HasAnswer {
			continue
		}
		if !contains(item.Options, item.Answer) {
			return fmt.Errorf("item %d answer %q is not among its options: %w", i, item.Answer, ErrInvalidTable)
		}
		if len(item.Distractors()) == 0 {
			return fmt.Errorf("item %d has no distractor options: %w", i, ErrInvalidTable)
		}
	}
	return nil
}

func contains(options []string, text string) bool {
	for _, opt := range options {
		if opt == text {
			return true
		}
	}
	return false
}
