package domain

import "errors"

// ErrMissingTourSource is returned by Init when neither a tour id nor inline tour data is given.
var ErrMissingTourSource = errors.New("tour id or tour data is required")

// ErrEmptyTour is returned when a tour definition has no steps.
var ErrEmptyTour = errors.New("tour has no steps")

// ErrInvalidTour is returned when a tour definition cannot be parsed or fails validation.
var ErrInvalidTour = errors.New("invalid tour definition")

// ErrTourNotFound is returned when a tour does not exist or is not active.
// It is distinct from transport errors so callers can tell absence from failure.
var ErrTourNotFound = errors.New("tour not found")

// ErrKeyNotFound is returned by key-value stores when a key has no value.
var ErrKeyNotFound = errors.New("key not found")
