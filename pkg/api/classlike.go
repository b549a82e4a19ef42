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

// ClassLike is the recursive description of a single class, object, trait or
// package object.  Class references inside its Structure are by name only
// (see Type), so the graph of ClassLikes reachable from an Analysis is
// always navigated through APIs, never through a direct pointer between two
// ClassLikes.
type ClassLike struct {
	Name           string
	Access         Access
	Modifiers      Modifiers
	Annotations    []Annotation
	Definition     DefinitionType
	SelfType       Type
	Structure      *Structure
	TypeParameters []TypeParameter
	// ChildrenOfSealed lists the known direct subclasses of a sealed
	// ClassLike; empty for non-sealed definitions.
	ChildrenOfSealed []string
	TopLevel         bool
}

// Equal compares two ClassLikes structurally, up to annotation ordering.
func (c *ClassLike) Equal(other *ClassLike) bool {
	if c == nil || other == nil {
		return c == other
	}

	if c.Name != other.Name || c.Modifiers != other.Modifiers || c.Definition != other.Definition ||
		c.TopLevel != other.TopLevel || !c.Access.Equal(other.Access) ||
		!c.SelfType.Equal(other.SelfType) || !annotationsEqual(c.Annotations, other.Annotations) {
		return false
	}

	if len(c.TypeParameters) != len(other.TypeParameters) {
		return false
	}

	for i := range c.TypeParameters {
		if !c.TypeParameters[i].Equal(other.TypeParameters[i]) {
			return false
		}
	}

	if len(c.ChildrenOfSealed) != len(other.ChildrenOfSealed) {
		return false
	}

	for i := range c.ChildrenOfSealed {
		if c.ChildrenOfSealed[i] != other.ChildrenOfSealed[i] {
			return false
		}
	}

	return c.Structure.Equal(other.Structure)
}

// Companions groups a class's own API with its companion module's API, the
// two being compiled and name-resolved together but kept as distinct
// ClassLikes (mirrors how `class Foo` and `object Foo` are two separate
// definitions sharing one binary name prefix).
type Companions struct {
	ClassAPI  *ClassLike
	ModuleAPI *ClassLike
}

// Equal compares two Companions structurally.
func (c Companions) Equal(other Companions) bool {
	return c.ClassAPI.Equal(other.ClassAPI) && c.ModuleAPI.Equal(other.ModuleAPI)
}
