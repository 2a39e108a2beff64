package workout

import (
	"errors"
	"fmt"
)

// MaxSets is the most sets one exercise may ask for.
const MaxSets = 100

var (
	ErrMovementNotFound = errors.New("movement not found")
	ErrInvalidSetCount  = errors.New("must have at least 1 set")
	ErrTooManySets      = fmt.Errorf("must have at most %d sets", MaxSets)
	ErrMissingDuration  = errors.New("duration-based movement requires a duration in seconds")
	ErrMissingReps      = errors.New("reps-based movement requires reps")
	ErrWeightRange      = errors.New("weight must be a percentage between 0 and 100")
)

// ValidationError identifies the exercise that stopped an encode.
type ValidationError struct {
	Index    int    // position in the input list
	Exercise string // movement name as the caller wrote it
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("exercise %d (%q): %v", e.Index+1, e.Exercise, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
