package fsm

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is returned while building a graph when two recognised
	// strings would end on the same final state.
	ErrConflict = errors.New("ambiguous grammar")
	// ErrUnsorted is returned by Insert when keywords are not sorted by
	// descending length.
	ErrUnsorted = errors.New("keywords must be sorted by descending length")

	ErrUnrecognizedToken = errors.New("unrecognized token")
	ErrUnexpectedEnd     = errors.New("unexpected end of input")
	ErrIllegalFinalState = errors.New("illegal final state")
	ErrTruncatedKeyword  = errors.New("keyword must be followed by an expression")
)

// SyntaxError describes why a machine could not consume its input.
type SyntaxError struct {
	Err     error  // one of the sentinel errors above, or an action error
	Machine string // name of the graph that was running
	Input   string // the whole input
	Pos     int    // where the failing token starts
	At      int    // where the machine got stuck
	Tag     Tag    // final tag involved, for illegal and truncated finals
}

func (e *SyntaxError) Error() string {
	switch {
	case errors.Is(e.Err, ErrUnexpectedEnd):
		return fmt.Sprintf("%s: %v after %q", e.Machine, e.Err, e.Input)
	case errors.Is(e.Err, ErrIllegalFinalState), errors.Is(e.Err, ErrTruncatedKeyword):
		return fmt.Sprintf("%s: %v: %s at position %d in %q", e.Machine, e.Err, e.Tag, e.Pos, e.Input)
	default:
		return fmt.Sprintf("%s: %v %q at position %d in %q", e.Machine, e.Err, e.Unmatched(), e.Pos, e.Input)
	}
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Unmatched returns the part of the input starting at the failing token.
func (e *SyntaxError) Unmatched() string {
	if e.Pos < 0 || e.Pos > len(e.Input) {
		return ""
	}
	return e.Input[e.Pos:]
}
