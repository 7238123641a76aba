package isoerr

import (
	"fmt"
)

// Kind classifies a failure raised while parsing or assembling durations
// and intervals.
type Kind string

const (
	// GrammarMismatch means the text matches none of the accepted literal
	// forms for the role it was parsed in.
	GrammarMismatch Kind = "GRAMMAR_MISMATCH"
	// FractionPlacementViolation means a unit other than the last one
	// carries a decimal fraction.
	FractionPlacementViolation Kind = "FRACTION_PLACEMENT_VIOLATION"
	// UnknownUnitDesignator means a designator letter is not one of
	// Y, M, W, D, H, S.
	UnknownUnitDesignator Kind = "UNKNOWN_UNIT_DESIGNATOR"
	// TypeConstraintViolation means an interval endpoint combination or
	// assignment is illegal.
	TypeConstraintViolation Kind = "TYPE_CONSTRAINT_VIOLATION"
	// DesignatorMismatch means the repetition prefix and the endpoints use
	// different separators.
	DesignatorMismatch Kind = "DESIGNATOR_MISMATCH"
	// UnsupportedCombination means the operation has no defined meaning for
	// the interval's endpoint types or repetition.
	UnsupportedCombination Kind = "UNSUPPORTED_COMBINATION"
	// ImmutabilityViolation means a write into an already constructed value.
	ImmutabilityViolation Kind = "IMMUTABILITY_VIOLATION"
)

// Error implements the error interface for Kind so that a Kind can be used
// as an errors.Is target.
func (k Kind) Error() string {
	return string(k)
}

// Error is the structured error returned by every constructor and setter.
type Error struct {
	Kind    Kind
	Message string
	// Input is the offending literal, if any.
	Input string
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Input != "" {
		msg += fmt.Sprintf(": %q", e.Input)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is this error's Kind, so callers can write
// errors.Is(err, isoerr.GrammarMismatch).
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// New creates an Error of the given kind.
func New(kind Kind, message string, input string) *Error {
	return &Error{Kind: kind, Message: message, Input: input}
}

// Wrap creates an Error of the given kind around cause.
func Wrap(kind Kind, cause error, message string, input string) *Error {
	return &Error{Kind: kind, Message: message, Input: input, Cause: cause}
}

// KindOf returns the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
