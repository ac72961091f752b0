package parser

import (
	"errors"

	"github.com/gnolang/dynfinder/internal/fsm"
)

// SyntaxError describes where a method name stopped matching the grammar.
// Use errors.As to get at the position and the unmatched input.
type SyntaxError = fsm.SyntaxError

var (
	ErrConflict          = fsm.ErrConflict
	ErrUnrecognizedToken = fsm.ErrUnrecognizedToken
	ErrUnexpectedEnd     = fsm.ErrUnexpectedEnd
	ErrIllegalFinalState = fsm.ErrIllegalFinalState
	ErrTruncatedKeyword  = fsm.ErrTruncatedKeyword

	// ErrArgumentUnderflow is returned when a condition needs more method
	// arguments than are left.
	ErrArgumentUnderflow = errors.New("not enough method arguments")
	// ErrInvalidProperty is returned by Compile for an empty property name.
	ErrInvalidProperty = errors.New("invalid property name")
)
