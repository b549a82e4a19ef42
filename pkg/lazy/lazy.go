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

// Package lazy provides a single-shot memoized thunk, used throughout pkg/api
// to avoid forcing a ClassLike's Structure (parents/declared/inherited defs)
// until something actually needs it.  Most stored APIs are never fully
// walked in a given compile, so forcing eagerly would mean decoding millions
// of nodes for nothing.
package lazy

import (
	"bytes"
	"encoding/gob"
	"sync"
)

// Thunk is a value computed at most once, on first access.  The zero value
// is not usable; construct with New or Of.
type Thunk[T any] struct {
	once  sync.Once
	value T
	fn    func() T
}

// New wraps fn so it is invoked at most once; the result is cached for every
// subsequent call to Force.
func New[T any](fn func() T) *Thunk[T] {
	return &Thunk[T]{fn: fn}
}

// Of wraps an already-computed value as a pre-forced Thunk, useful when a
// caller has the value in hand and doesn't want deferred evaluation (e.g.
// constructing a ClassLike in a test).
func Of[T any](value T) *Thunk[T] {
	t := &Thunk[T]{value: value}
	t.once.Do(func() {})

	return t
}

// Force returns the thunk's value, computing it on the first call only.
// After forcing, the closure captured by fn is released (set to nil) so any
// bytes/decoder it closed over can be garbage collected.
func (t *Thunk[T]) Force() T {
	t.once.Do(func() {
		if t.fn != nil {
			t.value = t.fn()
			t.fn = nil
		}
	})

	return t.value
}

// GobEncode forces the thunk and gob-encodes the result, so a *Thunk[T]
// field serializes as plain data: the codec never needs to know which of a
// ClassLike's fields happen to be deferred.
func (t *Thunk[T]) GobEncode() ([]byte, error) {
	var buf bytes.Buffer

	if err := gob.NewEncoder(&buf).Encode(t.Force()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode reconstructs a pre-forced thunk from bytes written by GobEncode.
// The decoded value is available immediately; no further deferral happens
// once a Thunk has crossed the wire.
func (t *Thunk[T]) GobDecode(data []byte) error {
	var value T

	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&value); err != nil {
		return err
	}

	t.value = value
	t.once.Do(func() {})

	return nil
}
