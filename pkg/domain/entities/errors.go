package entities

import "errors"

var (
	// ErrInvalidWheelSize is returned when a wheel size is not in the rim diameter table
	ErrInvalidWheelSize = errors.New("invalid wheel size")
	// ErrIncompleteSetup is returned when crankset, cassette or wheel size is missing
	ErrIncompleteSetup = errors.New("incomplete setup")
	// ErrMissingTeeth is returned by strict helpers when a component has no tooth data
	ErrMissingTeeth = errors.New("component teeth must be provided")
)
