package coach

import "errors"

// Failure causes recorded on fallback outcomes.
var (
	ErrGeneratorPanic = errors.New("plan generator panicked")
	ErrTimeout        = errors.New("plan generation timed out")
)
