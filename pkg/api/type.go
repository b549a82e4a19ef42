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

import "encoding/gob"

// Type is the tagged union of type-tree shapes that appear throughout a
// ClassLike's structure (self-type, parent types, member types, type
// parameter bounds, ...).  Class references inside a Type are by name only;
// the in-memory graph never holds a pointer to another ClassLike, which is
// what keeps the model acyclic (see DESIGN.md).
type Type interface {
	isType()
	// Equal compares two Types structurally.
	Equal(other Type) bool
}

// EmptyType denotes the absence of a type (e.g. an inferred-but-not-yet-known
// self type).
type EmptyType struct{}

func (EmptyType) isType() {}

// Equal implements Type.
func (EmptyType) Equal(other Type) bool {
	_, ok := other.(EmptyType)
	return ok
}

// ParameterRefType references a type parameter by its De Bruijn-style index
// within the enclosing definition.
type ParameterRefType struct{ Index int }

func (ParameterRefType) isType() {}

// Equal implements Type.
func (p ParameterRefType) Equal(other Type) bool {
	op, ok := other.(ParameterRefType)
	return ok && p.Index == op.Index
}

// ParameterizedType is a class name applied to a list of type arguments,
// e.g. `List[Int]`.
type ParameterizedType struct {
	Name      string
	Arguments []Type
}

func (ParameterizedType) isType() {}

// Equal implements Type.
func (p ParameterizedType) Equal(other Type) bool {
	op, ok := other.(ParameterizedType)
	if !ok || p.Name != op.Name || len(p.Arguments) != len(op.Arguments) {
		return false
	}

	for i := range p.Arguments {
		if !p.Arguments[i].Equal(op.Arguments[i]) {
			return false
		}
	}

	return true
}

// StructureType embeds a ClassLike's Structure directly (used for structural
// / refinement types, `{ def foo: Int }`).
type StructureType struct{ Structure *Structure }

func (StructureType) isType() {}

// Equal implements Type.
func (s StructureType) Equal(other Type) bool {
	os, ok := other.(StructureType)
	return ok && s.Structure.Equal(os.Structure)
}

// PolymorphicType is a universally-quantified type, e.g. a method's full
// signature `[T] (x: T): T`.
type PolymorphicType struct {
	Parameters []TypeParameter
	Result     Type
}

func (PolymorphicType) isType() {}

// Equal implements Type.
func (p PolymorphicType) Equal(other Type) bool {
	op, ok := other.(PolymorphicType)
	if !ok || len(p.Parameters) != len(op.Parameters) {
		return false
	}

	for i := range p.Parameters {
		if !p.Parameters[i].Equal(op.Parameters[i]) {
			return false
		}
	}

	return p.Result.Equal(op.Result)
}

// ConstantType is a singleton literal type, e.g. the type of `42` used as a
// literal type.
type ConstantType struct{ Literal string }

func (ConstantType) isType() {}

// Equal implements Type.
func (c ConstantType) Equal(other Type) bool {
	oc, ok := other.(ConstantType)
	return ok && c.Literal == oc.Literal
}

// ExistentialType is `T forSome { type U }`-style existential quantification.
type ExistentialType struct {
	Bound     Type
	Variables []string
}

func (ExistentialType) isType() {}

// Equal implements Type.
func (e ExistentialType) Equal(other Type) bool {
	oe, ok := other.(ExistentialType)
	if !ok || len(e.Variables) != len(oe.Variables) {
		return false
	}

	for i := range e.Variables {
		if e.Variables[i] != oe.Variables[i] {
			return false
		}
	}

	return e.Bound.Equal(oe.Bound)
}

// SingletonType is the type of a stable path/value, e.g. `x.type`.
type SingletonType struct{ Path string }

func (SingletonType) isType() {}

// Equal implements Type.
func (s SingletonType) Equal(other Type) bool {
	os, ok := other.(SingletonType)
	return ok && s.Path == os.Path
}

// ProjectionType is a type member projected off a prefix type, e.g.
// `outer.Inner`.
type ProjectionType struct {
	Prefix Type
	Member string
}

func (ProjectionType) isType() {}

// Equal implements Type.
func (p ProjectionType) Equal(other Type) bool {
	op, ok := other.(ProjectionType)
	return ok && p.Member == op.Member && p.Prefix.Equal(op.Prefix)
}

// AnnotatedType wraps another Type with one or more Annotations, e.g.
// `Int @unchecked`.
type AnnotatedType struct {
	Underlying  Type
	Annotations []Annotation
}

func (AnnotatedType) isType() {}

// Equal implements Type.
func (a AnnotatedType) Equal(other Type) bool {
	oa, ok := other.(AnnotatedType)
	return ok && a.Underlying.Equal(oa.Underlying) && annotationsEqual(a.Annotations, oa.Annotations)
}

// TypeParameter is a single formal type parameter, with its variance and
// bounds.
type TypeParameter struct {
	Name        string
	LowerBound  Type
	UpperBound  Type
	Variance    Variance
}

// Equal compares two TypeParameters structurally.
func (t TypeParameter) Equal(other TypeParameter) bool {
	return t.Name == other.Name && t.Variance == other.Variance &&
		t.LowerBound.Equal(other.LowerBound) && t.UpperBound.Equal(other.UpperBound)
}

// Variance of a type parameter.
type Variance uint8

const (
	// Invariant type parameter.
	Invariant Variance = iota
	// Covariant (`+T`) type parameter.
	Covariant
	// Contravariant (`-T`) type parameter.
	Contravariant
)

func init() {
	gob.Register(EmptyType{})
	gob.Register(ParameterRefType{})
	gob.Register(ParameterizedType{})
	gob.Register(StructureType{})
	gob.Register(PolymorphicType{})
	gob.Register(ConstantType{})
	gob.Register(ExistentialType{})
	gob.Register(SingletonType{})
	gob.Register(ProjectionType{})
	gob.Register(AnnotatedType{})
}
