package tennisx

import "errors"

var (
	// ErrInvalidConfig is returned when a player or unit cannot be built from
	// the given arguments.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrFinished is returned when scoring a unit that has already been won.
	ErrFinished = errors.New("unit already finished")
	// ErrUnknownScore is returned when scoring a record the unit does not own.
	ErrUnknownScore = errors.New("score record does not belong to unit")
)
