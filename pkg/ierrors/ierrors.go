// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package ierrors defines the typed error taxonomy used across the engine,
// so callers can branch on failure kind with errors.As instead of string
// matching.
package ierrors

import "fmt"

// Kind classifies an Error's origin.
type Kind uint8

const (
	// Decode marks a failure reading a persisted Analysis or APIs file.
	Decode Kind = iota
	// Callback marks a contract violation by an AnalysisCallback consumer
	// (e.g. reporting a dependency on a class never seen via startSource).
	Callback
	// MissingExternal marks a reference to an external class with no
	// recorded API entry.
	MissingExternal
	// CompileFailure marks a failed invocation of the underlying compiler.
	CompileFailure
)

func (k Kind) String() string {
	switch k {
	case Decode:
		return "decode"
	case Callback:
		return "callback"
	case MissingExternal:
		return "missing external"
	case CompileFailure:
		return "compile failure"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned for every Kind above. Wrap with
// fmt.Errorf("...: %w", err) as usual; declaring `var e *ierrors.Error`
// and calling errors.As(err, &e) recovers the Kind.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes Cause to errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// DecodeError wraps a persistence-layer read failure.
func DecodeError(message string, cause error) *Error {
	return &Error{Kind: Decode, Message: message, Cause: cause}
}

// CallbackViolation reports an AnalysisCallback invocation that broke the
// documented contract (e.g. api() called for a source never passed to
// startSource).
func CallbackViolation(message string) *Error {
	return &Error{Kind: Callback, Message: message}
}

// MissingExternalError reports a reference to a class with no recorded
// external API entry, violating the coverage invariant (spec §3).
func MissingExternalError(class string) *Error {
	return &Error{Kind: MissingExternal, Message: "no external API entry for " + class}
}

// CompileFailureError wraps an error returned by the underlying compiler
// invocation.
func CompileFailureError(message string, cause error) *Error {
	return &Error{Kind: CompileFailure, Message: message, Cause: cause}
}
