// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode is the taxonomy of error conditions a Manager can report. The
// values mirror CUDD's Cudd_ErrorType enum so that callers familiar with
// that library recognize the codes.
type ErrorCode int

// The closed set of error codes an operation can leave on the manager. Every
// operator either returns a valid Ref and leaves the code at ErrNone, or
// returns the invalid Ref and sets exactly one of the other codes.
const (
	ErrNone ErrorCode = iota
	ErrMemoryOut
	ErrTooManyNodes
	ErrMaxMemExceeded
	ErrTimeoutExpired
	ErrTermination
	ErrInvalidArg
	ErrInternal
)

var errCodeNames = [...]string{
	ErrNone:           "no-error",
	ErrMemoryOut:      "memory-out",
	ErrTooManyNodes:   "too-many-nodes",
	ErrMaxMemExceeded: "max-memory-exceeded",
	ErrTimeoutExpired: "timeout-expired",
	ErrTermination:    "termination",
	ErrInvalidArg:     "invalid-argument",
	ErrInternal:       "internal-error",
}

func (c ErrorCode) String() string {
	if int(c) < 0 || int(c) >= len(errCodeNames) {
		return "unknown-error"
	}
	return errCodeNames[c]
}

// Error is the error type set on a Manager when an operation fails. It
// carries the structured ErrorCode in addition to the human-readable cause,
// so callers can branch on Code() without parsing strings.
type Error struct {
	code  ErrorCode
	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.cause)
}

// Code returns the structured error code carried by e.
func (e *Error) Code() ErrorCode {
	if e == nil {
		return ErrNone
	}
	return e.code
}

// Unwrap exposes the wrapped cause so callers can use errors.Is/As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// newError builds a *Error wrapping a formatted cause with pkg/errors so the
// error carries a stack trace for debugging builds.
func newError(code ErrorCode, format string, a ...interface{}) *Error {
	return &Error{code: code, cause: errors.Errorf(format, a...)}
}

// seterror records the first error encountered in the manager. Once an error
// is set it is "sticky": later calls to seterror chain their message onto
// the existing cause instead of discarding it, mirroring the teacher's
// behaviour of keeping the earliest failure visible. It always returns the
// invalid Ref so call sites can write `return m.seterror(...)`.
func (m *Manager) seterror(code ErrorCode, format string, a ...interface{}) Ref {
	next := newError(code, format, a...)
	if m.err != nil {
		next.cause = errors.Wrap(m.err, next.cause.Error())
	}
	m.err = next
	if m.log != nil {
		m.log.Debugw("manager error", "code", code.String(), "error", next.cause.Error())
	}
	return invalidRef
}

// Err returns the error status of the manager, or nil if none was recorded.
func (m *Manager) Err() error {
	if m.err == nil {
		return nil
	}
	return m.err
}

// Errored returns true if an error was recorded since the last ClearError.
func (m *Manager) Errored() bool {
	return m.err != nil
}

// ErrorCode returns the structured code of the last recorded error, or
// ErrNone if there is none.
func (m *Manager) ErrorCode() ErrorCode {
	if m.err == nil {
		return ErrNone
	}
	return m.err.Code()
}

// ClearError resets the manager's error status to ErrNone. No operator does
// this implicitly: the caller must call it before retrying after a failure
// whose cause it has addressed (e.g. raising a time limit).
func (m *Manager) ClearError() {
	m.err = nil
}
