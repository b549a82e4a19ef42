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

// Package namehash provides a compact bitset-backed index of which
// (name, scope) pairs a class uses, so the invalidation engine's
// member-reference step (spec §4.5 stage 3.1) can test "does d use any of
// M_c's modified names, in a matching scope" in O(1) per candidate name
// instead of building and intersecting two sets on every closure iteration.
package namehash

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/buildtools/incore/pkg/relation"
)

// numScopes is the number of relation.UseScope values; kept local so the
// bitset width stays in lockstep with relation.UseScope without exporting a
// count from that package.
const numScopes = 3

// Index answers "does class d reference name n in scope s" queries in
// O(1), for every class known to a Relations aggregate.
type Index struct {
	byClass map[string]map[string]*bitset.BitSet
}

// Build constructs an Index from a Relations aggregate's Names table.
func Build(names map[string]map[string]relation.UsedName) *Index {
	idx := &Index{byClass: make(map[string]map[string]*bitset.BitSet, len(names))}

	for class, byName := range names {
		perName := make(map[string]*bitset.BitSet, len(byName))

		for name, used := range byName {
			bs := bitset.New(numScopes)
			for scope := range used.Scopes {
				bs.Set(uint(scope))
			}

			perName[name] = bs
		}

		idx.byClass[class] = perName
	}

	return idx
}

// Uses reports whether class references name in the given scope.
func (idx *Index) Uses(class, name string, scope relation.UseScope) bool {
	perName, ok := idx.byClass[class]
	if !ok {
		return false
	}

	bs, ok := perName[name]
	if !ok {
		return false
	}

	return bs.Test(uint(scope))
}

// UsesAny reports whether class references name in any scope at all,
// regardless of which scope the modification occurred in: a name-level
// (not scope-level) test. The invalidation closure does not call it; with
// nameHashing disabled it skips name tests altogether.
func (idx *Index) UsesAny(class, name string) bool {
	perName, ok := idx.byClass[class]
	if !ok {
		return false
	}

	bs, ok := perName[name]

	return ok && bs.Any()
}
