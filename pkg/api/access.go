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

// Package api holds the structural description of a compiled class (or
// module/trait) that the invalidation engine compares across compiles:
// ClassLike, its Access/Type/DefinitionType sum types, AnalyzedClass, and the
// Analysis aggregate that ties everything together.
package api

import "encoding/gob"

// Qualifier further restricts a Protected or Private Access.
type Qualifier interface {
	isQualifier()
	String() string
}

// ThisQualifier restricts access to the defining instance only
// (`private[this]`).
type ThisQualifier struct{}

func (ThisQualifier) isQualifier()  {}
func (ThisQualifier) String() string { return "this" }

// IDQualifier restricts access to a named enclosing scope
// (`private[some.pkg]`).
type IDQualifier struct{ ID string }

func (IDQualifier) isQualifier()    {}
func (q IDQualifier) String() string { return q.ID }

// UnqualifiedQualifier marks an Access with no further qualification,
// i.e. plain `protected`/`private`.
type UnqualifiedQualifier struct{}

func (UnqualifiedQualifier) isQualifier()  {}
func (UnqualifiedQualifier) String() string { return "" }

// Access is the tagged union of visibility levels a ClassLike or member can
// carry.
type Access interface {
	isAccess()
	// Equal compares two Access values structurally.
	Equal(other Access) bool
}

// PublicAccess marks an unrestricted definition.
type PublicAccess struct{}

func (PublicAccess) isAccess() {}

// Equal implements Access.
func (PublicAccess) Equal(other Access) bool {
	_, ok := other.(PublicAccess)
	return ok
}

// ProtectedAccess marks a definition visible to subclasses and the given
// Qualifier's scope.
type ProtectedAccess struct{ Qualifier Qualifier }

func (ProtectedAccess) isAccess() {}

// Equal implements Access.
func (p ProtectedAccess) Equal(other Access) bool {
	op, ok := other.(ProtectedAccess)
	return ok && qualifierEqual(p.Qualifier, op.Qualifier)
}

// PrivateAccess marks a definition visible only within the given
// Qualifier's scope.
type PrivateAccess struct{ Qualifier Qualifier }

func (PrivateAccess) isAccess() {}

// Equal implements Access.
func (p PrivateAccess) Equal(other Access) bool {
	op, ok := other.(PrivateAccess)
	return ok && qualifierEqual(p.Qualifier, op.Qualifier)
}

func qualifierEqual(a, b Qualifier) bool {
	switch av := a.(type) {
	case ThisQualifier:
		_, ok := b.(ThisQualifier)
		return ok
	case UnqualifiedQualifier:
		_, ok := b.(UnqualifiedQualifier)
		return ok
	case IDQualifier:
		bv, ok := b.(IDQualifier)
		return ok && av.ID == bv.ID
	default:
		return false
	}
}

func init() {
	gob.Register(ThisQualifier{})
	gob.Register(IDQualifier{})
	gob.Register(UnqualifiedQualifier{})
	gob.Register(PublicAccess{})
	gob.Register(ProtectedAccess{})
	gob.Register(PrivateAccess{})
}
