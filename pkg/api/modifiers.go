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

// Modifiers is a bitset of the non-access modifiers a ClassLike or member can
// carry (abstract, final, sealed, implicit, lazy, ...).
type Modifiers uint32

const (
	// ModAbstract marks an abstract definition.
	ModAbstract Modifiers = 1 << iota
	// ModFinal marks a definition that cannot be overridden/extended.
	ModFinal
	// ModSealed marks a definition whose direct children must all be known
	// at compile time (see ClassLike.ChildrenOfSealed).
	ModSealed
	// ModImplicit marks an implicit definition.
	ModImplicit
	// ModLazy marks a lazily-initialised value.
	ModLazy
	// ModOverride marks a member that overrides a parent member.
	ModOverride
	// ModCase marks a case class/object.
	ModCase
)

// Has reports whether m includes every bit set in mask.
func (m Modifiers) Has(mask Modifiers) bool {
	return m&mask == mask
}

// DefinitionType distinguishes the four shapes a top-level or nested
// ClassLike can take.
type DefinitionType uint8

const (
	// ClassDef is an ordinary class.
	ClassDef DefinitionType = iota
	// ModuleDef is a singleton object (`object Foo`).
	ModuleDef
	// TraitDef is a trait/interface.
	TraitDef
	// PackageModuleDef is the synthetic module backing a package object.
	PackageModuleDef
)

// String renders a DefinitionType for logging and diagnostics.
func (d DefinitionType) String() string {
	switch d {
	case ClassDef:
		return "class"
	case ModuleDef:
		return "object"
	case TraitDef:
		return "trait"
	case PackageModuleDef:
		return "package object"
	default:
		return "unknown"
	}
}

// Annotation is a single `@Foo(args...)`-style annotation attached to a
// ClassLike, member, or type.
type Annotation struct {
	Name      string
	Arguments []string
}

// Equal compares two Annotations structurally.
func (a Annotation) Equal(other Annotation) bool {
	if a.Name != other.Name || len(a.Arguments) != len(other.Arguments) {
		return false
	}

	for i := range a.Arguments {
		if a.Arguments[i] != other.Arguments[i] {
			return false
		}
	}

	return true
}

// annotationsEqual compares two annotation lists as unordered sets, per the
// API model's equality rule for ClassLike (structural up to ordering of
// annotations).
func annotationsEqual(a, b []Annotation) bool {
	if len(a) != len(b) {
		return false
	}

	used := make([]bool, len(b))

	for _, ai := range a {
		found := false

		for j, bj := range b {
			if used[j] {
				continue
			}

			if ai.Equal(bj) {
				used[j] = true
				found = true

				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}
