package simulation

import "errors"

// Parameter validation errors. Each is returned wrapped with the offending
// value; match with errors.Is.
var (
	ErrInvalidSize      = errors.New("grid size out of range")
	ErrInvalidCount     = errors.New("agent counts must be non-negative")
	ErrCapacity         = errors.New("agent counts exceed grid capacity")
	ErrInvalidThreshold = errors.New("threshold must be between 0 and 1")
	ErrInvalidRounds    = errors.New("rounds must be at least 1")
	ErrUnknownMode      = errors.New("unknown relocation mode")
)
