// Package domain defines the core entities of the deck: memory items,
// review events, settings, and the errors shared across the engine.
package domain

import "errors"

var (
	// ErrItemNotFound is returned when an operation references an item
	// ID that is not in the store.
	ErrItemNotFound = errors.New("memory item not found")

	// ErrDuplicateID is returned when adding an item whose ID is
	// already taken. IDs are never reused.
	ErrDuplicateID = errors.New("memory item ID already exists")

	// ErrEmptyContent is returned when a candidate has no front or back
	// text after trimming.
	ErrEmptyContent = errors.New("front and back text are required")

	// ErrInvalidQuality is returned when a review rating is outside the
	// 0-5 scale.
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")

	// ErrInvalidSnapshot is returned when an import payload is
	// malformed or carries an unsupported version. No state is touched
	// when it is returned.
	ErrInvalidSnapshot = errors.New("invalid snapshot payload")
)
