// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

import "errors"

var (
	// ErrInvalidShape indicates a theta input that is not a flat vector or
	// a rectangular N×d matrix.
	ErrInvalidShape = errors.New("pattern: invalid theta shape")

	// ErrUnsupportedShape indicates a theta matrix with more than one row
	// in labeled mode, which is defined for a single respondent only.
	ErrUnsupportedShape = errors.New("pattern: unsupported theta shape")

	// ErrNilModel indicates a nil or empty item-response model.
	ErrNilModel = errors.New("pattern: nil model")
)
