// Copyright (c) 2026 The Ahorn Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errs implements Ahorn's error taxonomy (spec §7). Errors of kinds
// IRMalformed and Unsupported indicate a logic bug in the engine itself and
// must be treated as fatal by callers; errors of the remaining kinds are
// properties of the program under analysis and should be isolated to the
// offending context rather than aborting the run.
package errs

import (
	"fmt"
	"runtime/debug"
)

// Kind classifies an Error along the taxonomy of spec §7.
type Kind uint8

const (
	// Usage indicates a bad CLI invocation. Exit 1, human-readable message on stderr.
	Usage Kind = iota
	// IRMalformed indicates an internal invariant of the parsed IR was violated. Fatal.
	IRMalformed
	// Unsupported indicates a construct that is recognised but not implemented. Fatal.
	Unsupported
	// Arithmetic indicates a concrete arithmetic fault (e.g. division by zero). Isolated.
	Arithmetic
	// SolverUnknown indicates the SMT facade returned "unknown". Isolated to the fork attempt.
	SolverUnknown
	// Timeout indicates the per-engine wall-clock budget was exceeded. Graceful termination.
	Timeout
	// CycleBound indicates the configured cycle bound was reached. Graceful termination.
	CycleBound
	// CoverageReached indicates the explorer's coverage goal was satisfied. Graceful termination.
	CoverageReached
)

// String returns a lower_snake_case rendering matching spec §7's vocabulary.
func (k Kind) String() string {
	switch k {
	case Usage:
		return "usage"
	case IRMalformed:
		return "ir_malformed"
	case Unsupported:
		return "unsupported"
	case Arithmetic:
		return "arithmetic_error"
	case SolverUnknown:
		return "solver_unknown"
	case Timeout:
		return "timeout"
	case CycleBound:
		return "cycle_bound"
	case CoverageReached:
		return "coverage_reached"
	default:
		return "unknown"
	}
}

// Fatal reports whether errors of this Kind must abort the run with no recovery attempted.
func (k Kind) Fatal() bool {
	return k == IRMalformed || k == Unsupported
}

// Error is Ahorn's concrete error type, carrying a Kind and an optional wrapped cause.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap allows errors.Is/errors.As to see through to the Cause.
func (e *Error) Unwrap() error { return e.Cause }

// New constructs an Error of the given Kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error of the given Kind wrapping cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// Recover runs fn and converts any panic into an IRMalformed *Error
// carrying a stack trace, rather than letting it crash the CLI process.
// Grounded on util/analysishelper.WrapRun's recover()-to-error idiom,
// generalized from wrapping one go/analysis sub-analyzer run to wrapping
// one top-level engine run (spec §7: "errors that indicate a logic bug in
// the engine are fatal").
func Recover(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = New(IRMalformed, "internal panic: %v\n%s", r, string(debug.Stack()))
		}
	}()
	return fn()
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if ae, ok := err.(*Error); ok {
		e = ae
	} else {
		return false
	}
	return e.Kind == kind
}
