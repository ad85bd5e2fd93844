package machine

import (
	"errors"
	"strconv"
)

// Sentinel errors for the small, fixed set of fatal core conditions, so
// callers can compare with errors.Is rather than inspecting a generic
// error-code type.
var (
	// ErrDivisionByZero is returned by Step when an integer or fixed-point
	// division instruction divides by zero. Execution stops; no further
	// state mutation happens after the failing instruction.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrCycleBudgetExceeded is returned by Run when the caller-supplied
	// cycle cap is reached without the program reaching HLT. This is an
	// ambient (CLI-level) safety net, not a core invariant.
	ErrCycleBudgetExceeded = errors.New("cycle budget exceeded")
)

// LoadError reports a problem encountered while parsing a program file.
// Line is 1-based and zero when the error is not tied to a specific line
// (e.g. a file-not-found error).
type LoadError struct {
	Line int
	Msg  string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return "line " + strconv.Itoa(e.Line) + ": " + e.Msg
	}
	return e.Msg
}
