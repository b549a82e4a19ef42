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

import (
	"bytes"
	"encoding/gob"
	"hash/fnv"
	"sort"
	"strconv"

	"github.com/buildtools/incore/pkg/lazy"
	"github.com/buildtools/incore/pkg/relation"
)

// NameHash pairs a simple name and the scope it was referenced/defined in
// with a 32-bit hash of its signature at that point.  This is the unit of
// pruning the invalidation engine's member-reference step operates on.
type NameHash struct {
	Name  string
	Scope relation.UseScope
	Hash  int32
}

// AnalyzedClass is the summarised, diffable API of one compiled class: its
// compilation timestamp, its (lazily grouped) Companions API, a precomputed
// 64-bit digest of that API, the per-name hashes used for pruning, and
// whether the class defines or uses a macro.
type AnalyzedClass struct {
	CompilationTimestamp int64
	Name                 string
	API                  *lazy.Thunk[Companions]
	APIHash              int64
	NameHashes           []NameHash
	HasMacro             bool
}

// ComputeAPIHash derives a deterministic 64-bit hash from a canonical
// gob encoding of the forced Companions value.  Two structurally equal
// Companions values always hash identically, independent of annotation
// order, because gob encodes struct fields positionally and annotations are
// sorted before hashing (see canonicalAnnotations).
//
// hash/fnv is stdlib; no third-party hashing library appears anywhere in the
// example corpus, so there is nothing to ground an alternative on (see
// DESIGN.md).
func ComputeAPIHash(c Companions) int64 {
	canon := canonicalCompanions(c)

	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)
	// Encoding errors here would indicate a bug in the canonical
	// representation (all fields are gob-safe concrete types); there is no
	// sensible recovery, so we fold any error into the hash input instead of
	// panicking, which keeps ComputeAPIHash total.
	if err := enc.Encode(canon); err != nil {
		buf.WriteString(err.Error())
	}

	h := fnv.New64a()
	_, _ = h.Write(buf.Bytes())

	return int64(h.Sum64())
}

// canonicalClassLike is a gob-friendly, order-independent mirror of
// ClassLike used only for hashing.
type canonicalClassLike struct {
	Name             string
	Access           string
	Modifiers        Modifiers
	Annotations      []string
	Definition       DefinitionType
	SelfType         string
	Parents          []string
	Declared         []string
	Inherited        []string
	TypeParameters   []string
	ChildrenOfSealed []string
	TopLevel         bool
}

func canonicalCompanions(c Companions) [2]canonicalClassLike {
	return [2]canonicalClassLike{canonicalize(c.ClassAPI), canonicalize(c.ModuleAPI)}
}

func canonicalize(c *ClassLike) canonicalClassLike {
	if c == nil {
		return canonicalClassLike{}
	}

	out := canonicalClassLike{
		Name:             c.Name,
		Access:           describeAccess(c.Access),
		Modifiers:        c.Modifiers,
		Annotations:      canonicalAnnotations(c.Annotations),
		Definition:       c.Definition,
		SelfType:         describeType(c.SelfType),
		TopLevel:         c.TopLevel,
		ChildrenOfSealed: append([]string(nil), c.ChildrenOfSealed...),
	}
	sort.Strings(out.ChildrenOfSealed)

	for _, tp := range c.TypeParameters {
		out.TypeParameters = append(out.TypeParameters, tp.Name)
	}

	if c.Structure != nil {
		for _, p := range c.Structure.Parents.Force() {
			out.Parents = append(out.Parents, describeType(p))
		}

		for _, d := range c.Structure.Declared.Force() {
			out.Declared = append(out.Declared, describeDef(d))
		}

		for _, d := range c.Structure.Inherited.Force() {
			out.Inherited = append(out.Inherited, describeDef(d))
		}
	}

	sort.Strings(out.Parents)
	sort.Strings(out.Declared)
	sort.Strings(out.Inherited)

	return out
}

func canonicalAnnotations(as []Annotation) []string {
	out := make([]string, 0, len(as))

	for _, a := range as {
		out = append(out, a.Name+"("+joinComma(a.Arguments)+")")
	}

	sort.Strings(out)

	return out
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}

		out += p
	}

	return out
}

func describeAccess(a Access) string {
	switch v := a.(type) {
	case PublicAccess:
		return "public"
	case ProtectedAccess:
		return "protected[" + v.Qualifier.String() + "]"
	case PrivateAccess:
		return "private[" + v.Qualifier.String() + "]"
	default:
		return "?"
	}
}

func describeType(t Type) string {
	if t == nil {
		return ""
	}

	switch v := t.(type) {
	case EmptyType:
		return "<empty>"
	case ParameterRefType:
		return "#" + strconv.Itoa(v.Index)
	case ParameterizedType:
		s := v.Name + "["
		for i, a := range v.Arguments {
			if i > 0 {
				s += ","
			}

			s += describeType(a)
		}

		return s + "]"
	case StructureType:
		return "{...}"
	case PolymorphicType:
		return "poly(" + describeType(v.Result) + ")"
	case ConstantType:
		return "const(" + v.Literal + ")"
	case ExistentialType:
		return "exists(" + describeType(v.Bound) + ")"
	case SingletonType:
		return v.Path + ".type"
	case ProjectionType:
		return describeType(v.Prefix) + "#" + v.Member
	case AnnotatedType:
		return describeType(v.Underlying) + "@" + joinComma(canonicalAnnotations(v.Annotations))
	default:
		return "?"
	}
}

func describeDef(d Def) string {
	return describeAccess(d.Access) + " " + d.Name + ":" + describeType(d.Signature)
}
