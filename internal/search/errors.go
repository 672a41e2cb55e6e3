package search

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is against these rather than matching on the
// concrete types.
var (
	// ErrInput matches every *InputError: an unknown origin or destination,
	// or a node the heuristic needed that has no coordinates.
	ErrInput = errors.New("invalid search input")

	// ErrNoPath matches every *NoPathError. It is an expected outcome, not
	// a fault.
	ErrNoPath = errors.New("no path exists")

	// ErrExpansionLimit matches a *NoPathError produced because the
	// caller's expansion budget ran out.
	ErrExpansionLimit = errors.New("expansion limit reached")

	// ErrInvariant matches every *InvariantError. Seeing one means a
	// strategy produced a path that is not a simple walk over graph edges.
	ErrInvariant = errors.New("search invariant violated")

	ErrNoEstimator = errors.New("heuristic strategy requires an estimator")
)

type InputError struct {
	Node string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %q: %v", e.Node, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

func (e *InputError) Is(target error) bool { return target == ErrInput }

type NoPathError struct {
	From    string
	To      string
	Limited bool
}

func (e *NoPathError) Error() string {
	if e.Limited {
		return fmt.Sprintf("no path from %s to %s within the expansion limit", e.From, e.To)
	}
	return fmt.Sprintf("no path exists between %s and %s", e.From, e.To)
}

func (e *NoPathError) Is(target error) bool {
	return target == ErrNoPath || (e.Limited && target == ErrExpansionLimit)
}

type InvariantError struct {
	From   string
	To     string
	Reason string
}

func (e *InvariantError) Error() string {
	if e.From == "" && e.To == "" {
		return fmt.Sprintf("invalid path: %s", e.Reason)
	}
	return fmt.Sprintf("invalid path at %s-%s: %s", e.From, e.To, e.Reason)
}

func (e *InvariantError) Is(target error) bool { return target == ErrInvariant }

// Outcome labels used in reports and metrics.
const (
	OutcomeOK        = "ok"
	OutcomeInput     = "input_error"
	OutcomeNoPath    = "no_path"
	OutcomeInvariant = "invariant_violation"
	OutcomeError     = "error"
)

// Classify maps a search error to its outcome label.
func Classify(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInput):
		return OutcomeInput
	case errors.Is(err, ErrNoPath):
		return OutcomeNoPath
	case errors.Is(err, ErrInvariant):
		return OutcomeInvariant
	}
	return OutcomeError
}
