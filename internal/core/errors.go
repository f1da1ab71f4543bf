package core

import (
	"errors"
	"fmt"
)

// Code classifies a core failure. Every error leaving this package carries
// exactly one code; HTTP status mapping happens in the handler layer.
type Code int

const (
	CodeValidation Code = iota + 1 // caller input violates a structural or domain rule
	CodeConflict                   // uniqueness or referential invariant would break
	CodeNotFound                   // entity missing or owned by someone else
	CodeStore                      // persistence layer failed
)

// Error is the closed error type for CategoryStore and Ledger operations.
type Error struct {
	Code Code
	Op   string // operation name, e.g. "category.create"
	Msg  string // human-readable, safe for API callers
	Err  error  // underlying cause, store failures only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func validationErr(op, msg string) *Error {
	return &Error{Code: CodeValidation, Op: op, Msg: msg}
}

func conflictErr(op, msg string) *Error {
	return &Error{Code: CodeConflict, Op: op, Msg: msg}
}

func notFoundErr(op, msg string) *Error {
	return &Error{Code: CodeNotFound, Op: op, Msg: msg}
}

func storeErr(op string, err error) *Error {
	return &Error{Code: CodeStore, Op: op, Msg: "storage error", Err: err}
}

// CodeOf extracts the code from err, or CodeStore for unclassified errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStore
}

// Message returns the caller-safe message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}
