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

// Package apidiff compares an old and a new AnalyzedClass and reports the
// set of (name, scope) pairs whose hash changed, which is the seed data the
// invalidation engine's closure (pkg/invalidate) walks outward from.
package apidiff

import (
	log "github.com/sirupsen/logrus"

	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/relation"
)

// ModifiedName is a single (name, scope) pair whose hash differs between two
// AnalyzedClass snapshots of the same class.
type ModifiedName struct {
	Name  string
	Scope relation.UseScope
}

// ModifiedNames is the symmetric-difference result of comparing two
// AnalyzedClass's NameHashes: present when the hash differs or the pair
// exists on exactly one side.
type ModifiedNames map[ModifiedName]struct{}

// Names returns the set of bare names touched by m, ignoring scope. The
// invalidation engine does not call it: it tests each name in its scope.
func (m ModifiedNames) Names() map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for mn := range m {
		out[mn.Name] = struct{}{}
	}

	return out
}

// Diff compares oldClass and newClass, which must describe the same class
// name across two compiles.  If their APIHash values match, Diff
// short-circuits to an empty ModifiedNames without even looking at
// NameHashes, since an unchanged hash means the API is bit-for-bit
// equivalent under the canonical encoding.
func Diff(oldClass, newClass api.AnalyzedClass) ModifiedNames {
	if oldClass.APIHash == newClass.APIHash {
		log.WithField("class", newClass.Name).Debug("apiHash unchanged, skipping name diff")
		return ModifiedNames{}
	}

	oldIndex := indexNameHashes(oldClass.NameHashes)
	newIndex := indexNameHashes(newClass.NameHashes)

	out := make(ModifiedNames)

	for key, oldHash := range oldIndex {
		newHash, ok := newIndex[key]
		if !ok || newHash != oldHash {
			out[ModifiedName{key.name, key.scope}] = struct{}{}
		}
	}

	for key := range newIndex {
		if _, ok := oldIndex[key]; !ok {
			out[ModifiedName{key.name, key.scope}] = struct{}{}
		}
	}

	log.WithFields(log.Fields{"class": newClass.Name, "modified": len(out)}).Debug("api diff computed")

	return out
}

type nameScopeKey struct {
	name  string
	scope relation.UseScope
}

func indexNameHashes(hashes []api.NameHash) map[nameScopeKey]int32 {
	out := make(map[nameScopeKey]int32, len(hashes))
	for _, h := range hashes {
		out[nameScopeKey{h.Name, h.Scope}] = h.Hash
	}

	return out
}

// AllModified returns a ModifiedNames set containing every (name, scope)
// pair defined on c; used when a class disappears entirely between compiles
// (spec §4.4: "If a whole class disappeared, all of its names are
// considered modified and the class goes into removed").
func AllModified(c api.AnalyzedClass) ModifiedNames {
	out := make(ModifiedNames, len(c.NameHashes))
	for _, h := range c.NameHashes {
		out[ModifiedName{h.Name, h.Scope}] = struct{}{}
	}

	return out
}

// Result is the outcome of diffing two whole API maps: which classes gained
// non-empty ModifiedNames, which classes vanished (present in old, absent in
// new), and which surviving classes changed their parent list or inherited
// member set (their "structure" in spec terms, as opposed to merely
// renaming/retyping a declared member).
type Result struct {
	Modified         map[string]ModifiedNames
	Removed          []string
	StructureChanged map[string]bool
}

// DiffAPIs compares every class present in oldAPIs against its counterpart
// in newAPIs (if any). A class present in oldAPIs but not newAPIs is
// reported as Removed, with AllModified(old) folded into Modified so
// closure treats it the same as any other class with touched names.
func DiffAPIs(oldAPIs, newAPIs map[string]api.AnalyzedClass) Result {
	result := Result{
		Modified:         make(map[string]ModifiedNames),
		StructureChanged: make(map[string]bool),
	}

	for name, oldClass := range oldAPIs {
		newClass, ok := newAPIs[name]
		if !ok {
			result.Removed = append(result.Removed, name)
			result.Modified[name] = AllModified(oldClass)

			continue
		}

		if mn := Diff(oldClass, newClass); len(mn) > 0 {
			result.Modified[name] = mn
		}

		if structureChanged(oldClass, newClass) {
			result.StructureChanged[name] = true
		}
	}

	for name, newClass := range newAPIs {
		if _, existed := oldAPIs[name]; !existed {
			result.Modified[name] = AllModified(newClass)
			result.StructureChanged[name] = true
		}
	}

	return result
}

// structureChanged reports whether a class's parent list or inherited member
// set differs between two snapshots, independent of whether any individual
// declared member was merely renamed or retyped.  The local-inheritance step
// of the invalidation closure (spec §4.5 stage 3.3) keys off this rather
// than off ModifiedNames, since a local subclass re-synthesizes members only
// when what it inherits actually changes shape.
func structureChanged(oldClass, newClass api.AnalyzedClass) bool {
	oldCompanions, newCompanions := oldClass.API.Force(), newClass.API.Force()

	return !structureEqual(oldCompanions.ClassAPI, newCompanions.ClassAPI) ||
		!structureEqual(oldCompanions.ModuleAPI, newCompanions.ModuleAPI)
}

func structureEqual(oldClass, newClass *api.ClassLike) bool {
	if oldClass == nil || newClass == nil {
		return oldClass == newClass
	}

	if oldClass.Structure == nil || newClass.Structure == nil {
		return oldClass.Structure == newClass.Structure
	}

	oldParents, newParents := oldClass.Structure.Parents.Force(), newClass.Structure.Parents.Force()
	if len(oldParents) != len(newParents) {
		return false
	}

	for i := range oldParents {
		if !oldParents[i].Equal(newParents[i]) {
			return false
		}
	}

	oldInherited, newInherited := oldClass.Structure.Inherited.Force(), newClass.Structure.Inherited.Force()
	if len(oldInherited) != len(newInherited) {
		return false
	}

	for i := range oldInherited {
		if !oldInherited[i].Equal(newInherited[i]) {
			return false
		}
	}

	return true
}
