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
package api

import "github.com/buildtools/incore/pkg/lazy"

// Def describes a single member (method, field, or type member) declared or
// inherited by a class.
type Def struct {
	Name       string
	Access     Access
	Modifiers  Modifiers
	Annotations []Annotation
	Signature  Type
}

// Equal compares two Defs structurally.
func (d Def) Equal(other Def) bool {
	return d.Name == other.Name && d.Modifiers == other.Modifiers &&
		d.Access.Equal(other.Access) && annotationsEqual(d.Annotations, other.Annotations) &&
		d.Signature.Equal(other.Signature)
}

func defsEqual(a, b []Def) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}

	return true
}

// Structure is the lazily-forced body of a ClassLike: its parent types, the
// members it declares itself, and the members it inherits.  Each component
// is a thunk rather than a plain slice so the differ and codec can skip
// forcing structures that never need to be walked.
type Structure struct {
	Parents   *lazy.Thunk[[]Type]
	Declared  *lazy.Thunk[[]Def]
	Inherited *lazy.Thunk[[]Def]
}

// NewStructure constructs a Structure from already-known values (eager, no
// deferred computation); used when building a ClassLike by hand, e.g. in
// tests or when translating freshly-parsed compiler output.
func NewStructure(parents []Type, declared, inherited []Def) *Structure {
	return &Structure{
		Parents:   lazy.Of(parents),
		Declared:  lazy.Of(declared),
		Inherited: lazy.Of(inherited),
	}
}

// Equal compares two Structures structurally.  This forces all three thunks
// on both sides; callers that only need e.g. apiHash equality should prefer
// comparing AnalyzedClass.APIHash instead, which is precomputed.
func (s *Structure) Equal(other *Structure) bool {
	if s == nil || other == nil {
		return s == other
	}

	parents, oparents := s.Parents.Force(), other.Parents.Force()
	if len(parents) != len(oparents) {
		return false
	}

	for i := range parents {
		if !parents[i].Equal(oparents[i]) {
			return false
		}
	}

	return defsEqual(s.Declared.Force(), other.Declared.Force()) &&
		defsEqual(s.Inherited.Force(), other.Inherited.Force())
}
