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
package relation

import (
	"sort"

	"github.com/buildtools/incore/pkg/fstamp"
)

// Relations aggregates every named relation the engine tracks across a
// single compile unit.
type Relations struct {
	// SrcProd relates a source file to the class files it produced.
	SrcProd *Relation[fstamp.File, fstamp.File]
	// LibraryDep relates a source file to the classpath entries (jars or
	// class directories) it depends upon.
	LibraryDep *Relation[fstamp.File, fstamp.File]
	// LibraryClassName relates a classpath binary file to the binary class
	// names it provides.
	LibraryClassName *Relation[fstamp.File, string]
	// Classes relates a source file to the class names it declares.
	Classes *Relation[fstamp.File, string]
	// ProductClassName relates a binary class name to the source class name
	// that produced it (these coincide except for nested/synthetic names).
	ProductClassName *Relation[string, string]
	// MemberRefInternal relates a class to classes within this module whose
	// member it references.
	MemberRefInternal *Relation[string, string]
	// MemberRefExternal relates a class to classes outside this module whose
	// member it references.
	MemberRefExternal *Relation[string, string]
	// InheritanceInternal relates a class to classes within this module it
	// inherits from.
	InheritanceInternal *Relation[string, string]
	// InheritanceExternal relates a class to classes outside this module it
	// inherits from.
	InheritanceExternal *Relation[string, string]
	// LocalInheritanceInternal is like InheritanceInternal but restricted to
	// inheritance relationships entered into from a local scope.
	LocalInheritanceInternal *Relation[string, string]
	// LocalInheritanceExternal is the external counterpart of
	// LocalInheritanceInternal.
	LocalInheritanceExternal *Relation[string, string]
	// Names maps a class name to the set of simple names (with their use
	// scopes) it referenced.
	Names map[string]map[string]UsedName
}

// NewRelations constructs an empty Relations aggregate.
func NewRelations() *Relations {
	return &Relations{
		SrcProd:                  New[fstamp.File, fstamp.File](),
		LibraryDep:               New[fstamp.File, fstamp.File](),
		LibraryClassName:         New[fstamp.File, string](),
		Classes:                  New[fstamp.File, string](),
		ProductClassName:         New[string, string](),
		MemberRefInternal:        New[string, string](),
		MemberRefExternal:        New[string, string](),
		InheritanceInternal:      New[string, string](),
		InheritanceExternal:      New[string, string](),
		LocalInheritanceInternal: New[string, string](),
		LocalInheritanceExternal: New[string, string](),
		Names:                    make(map[string]map[string]UsedName),
	}
}

// ForContext picks the (internal, external) relation pair matching a
// DependencyContext, so callback handling doesn't need a switch at every
// call site.
func (r *Relations) ForContext(ctx DependencyContext) (internal, external *Relation[string, string]) {
	switch ctx {
	case Inheritance:
		return r.InheritanceInternal, r.InheritanceExternal
	case LocalInheritance:
		return r.LocalInheritanceInternal, r.LocalInheritanceExternal
	default:
		return r.MemberRefInternal, r.MemberRefExternal
	}
}

// AddUsedName records that class referenced name in the given scopes,
// merging with any existing record for the same (class, name) pair.
func (r *Relations) AddUsedName(class, name string, scopes ...UseScope) {
	byName, ok := r.Names[class]
	if !ok {
		byName = make(map[string]UsedName)
		r.Names[class] = byName
	}

	next := NewUsedName(name, scopes...)
	if existing, ok := byName[name]; ok {
		next = existing.Merge(next)
	}

	byName[name] = next
}

// UsedNames returns the UsedName set for class, sorted by name for
// deterministic serialisation.
func (r *Relations) UsedNames(class string) []UsedName {
	byName, ok := r.Names[class]
	if !ok {
		return nil
	}

	out := make([]UsedName, 0, len(byName))
	for _, un := range byName {
		out = append(out, un)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// RemoveClass drops every relation entry that originates from, or is keyed
// by, the given class name.  Used by the driver's Merge step to clear stale
// entries for a class before new callback data for it is folded in.
func (r *Relations) RemoveClass(class string) {
	r.MemberRefInternal.RemoveAllByKey(class)
	r.MemberRefExternal.RemoveAllByKey(class)
	r.InheritanceInternal.RemoveAllByKey(class)
	r.InheritanceExternal.RemoveAllByKey(class)
	r.LocalInheritanceInternal.RemoveAllByKey(class)
	r.LocalInheritanceExternal.RemoveAllByKey(class)
	r.ProductClassName.RemoveAllByKey(class)
	delete(r.Names, class)
}

// Clone returns a deep copy of r: every contained Relation is rebuilt from a
// snapshot of its forward map, and Names is copied entry-by-entry. Used by
// the driver to keep a frozen baseline Analysis while a working copy is
// mutated across compile rounds.
func (r *Relations) Clone() *Relations {
	out := NewRelations()

	out.SrcProd.ReconstructFromForward(r.SrcProd.ForwardMap())
	out.LibraryDep.ReconstructFromForward(r.LibraryDep.ForwardMap())
	out.LibraryClassName.ReconstructFromForward(r.LibraryClassName.ForwardMap())
	out.Classes.ReconstructFromForward(r.Classes.ForwardMap())
	out.ProductClassName.ReconstructFromForward(r.ProductClassName.ForwardMap())
	out.MemberRefInternal.ReconstructFromForward(r.MemberRefInternal.ForwardMap())
	out.MemberRefExternal.ReconstructFromForward(r.MemberRefExternal.ForwardMap())
	out.InheritanceInternal.ReconstructFromForward(r.InheritanceInternal.ForwardMap())
	out.InheritanceExternal.ReconstructFromForward(r.InheritanceExternal.ForwardMap())
	out.LocalInheritanceInternal.ReconstructFromForward(r.LocalInheritanceInternal.ForwardMap())
	out.LocalInheritanceExternal.ReconstructFromForward(r.LocalInheritanceExternal.ForwardMap())

	for class, byName := range r.Names {
		copied := make(map[string]UsedName, len(byName))

		for name, un := range byName {
			scopes := make(map[UseScope]struct{}, len(un.Scopes))
			for s := range un.Scopes {
				scopes[s] = struct{}{}
			}

			copied[name] = UsedName{Name: un.Name, Scopes: scopes}
		}

		out.Names[class] = copied
	}

	return out
}

// RemoveSource drops every relation entry that originates from the given
// source file: its products (and the classes they named), its library
// dependencies, and the classes it declared.  The classes themselves are
// also purged via RemoveClass so dependents can be recomputed cleanly.
func (r *Relations) RemoveSource(src fstamp.File) {
	for _, class := range r.Classes.Forward(src) {
		r.RemoveClass(class)
	}

	r.Classes.RemoveAllByKey(src)
	r.SrcProd.RemoveAllByKey(src)
	r.LibraryDep.RemoveAllByKey(src)
}
