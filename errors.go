// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparselin

import "fmt"

// Code is an integer error code returned through the handle's error slot,
// matching the taxonomy of the external interface: input/configuration
// errors are reported synchronously with no state change, structural
// errors are raised by the symbolic or analysis stages, allocation errors
// leave no partial state, and scheduler errors surface at the next
// barrier with the factorization state discarded.
type Code int

// Recognized error codes.
const (
	Success             Code = 0
	Unknown             Code = 1
	Alloc               Code = 2
	Internal            Code = 7
	BadParameter        Code = 8
	Matrix              Code = 13
	StepOrder           Code = 15
)

func (c Code) String() string {
	switch c {
	case Success:
		return "success"
	case Unknown:
		return "unknown"
	case Alloc:
		return "alloc"
	case Internal:
		return "internal"
	case BadParameter:
		return "bad parameter"
	case Matrix:
		return "matrix"
	case StepOrder:
		return "step order"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Error is the error type returned by every task_* entry point. Op names
// the task that failed (e.g. "task_symbfact"); Err, when non-nil, carries
// the underlying cause.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sparselin: %s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("sparselin: %s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op string, code Code, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}
