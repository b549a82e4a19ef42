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
package invalidate

import (
	log "github.com/sirupsen/logrus"

	"github.com/buildtools/incore/pkg/apidiff"
	"github.com/buildtools/incore/pkg/namehash"
	"github.com/buildtools/incore/pkg/relation"
	"github.com/buildtools/incore/pkg/util/collection/stack"
)

// ClosureInput bundles everything stage 3 needs beyond the seed set itself.
type ClosureInput struct {
	// Modified is the per-class ModifiedNames produced by the API differ
	// for classes recompiled in this round. Classes added to the invalid
	// set purely by the inheritance step have no entry here.
	Modified map[string]apidiff.ModifiedNames
	// StructureChanged flags classes whose parent list or inherited-member
	// set changed, gating the local-inheritance step.
	StructureChanged map[string]bool
	// MacroFlips flags classes that newly gained a macro (hasMacro flipped
	// false->true), forcing unconditional invalidation of their
	// member-reference dependents.
	MacroFlips map[string]bool
	Relations  *relation.Relations
	NameIndex  *namehash.Index
}

// ClosureResult is the outcome of stage 3.
type ClosureResult struct {
	Invalid map[string]struct{}
	// Bailed reports whether the closure hit the TransitiveStep round cap
	// before reaching a fixpoint; the driver should treat this the same as
	// a fraction-gate trip and recompile every source.
	Bailed bool
}

// Closure implements spec §4.5 stage 3: starting from seeds whose
// ModifiedNames is non-empty (or which newly gained a macro), repeatedly
// extend the invalid set along the member-reference, inheritance and
// local-inheritance relations until an iteration adds nothing, capped at
// opts.TransitiveStep rounds.
func Closure(in ClosureInput, opts Options) ClosureResult {
	invalid := make(map[string]struct{})
	worklist := stack.NewStack[string]()

	for class, mn := range in.Modified {
		if len(mn) > 0 || in.MacroFlips[class] {
			invalid[class] = struct{}{}
			worklist.Push(class)
		}
	}

	var rounds uint32

	for !worklist.IsEmpty() {
		if rounds >= opts.TransitiveStep {
			log.WithField("rounds", rounds).Warn("closure exceeded transitive step cap, bailing to full rebuild")
			return ClosureResult{Invalid: invalid, Bailed: true}
		}

		rounds++
		frontier := worklist.Len()

		for i := uint(0); i < frontier; i++ {
			c := worklist.Pop()
			expandFrom(c, in, opts, invalid, worklist)
		}
	}

	log.WithFields(log.Fields{"rounds": rounds, "invalid": len(invalid)}).Debug("stage 3: closure reached fixpoint")

	return ClosureResult{Invalid: invalid}
}

func expandFrom(c string, in ClosureInput, opts Options, invalid map[string]struct{}, worklist *stack.Stack[string]) {
	mc := in.Modified[c]
	forceAll := !opts.NameHashing || len(mc) == 0 || in.MacroFlips[c]

	// Member-reference step (spec §4.5 stage 3.1).
	for d := range mergeReverse(in.Relations.MemberRefInternal, in.Relations.MemberRefExternal, c) {
		if _, already := invalid[d]; already {
			continue
		}

		if forceAll || matchesAnyName(in.NameIndex, d, mc) {
			invalid[d] = struct{}{}
			worklist.Push(d)
		}
	}

	// Inheritance step (spec §4.5 stage 3.2): unconditional.
	for d := range mergeReverse(in.Relations.InheritanceInternal, in.Relations.InheritanceExternal, c) {
		if _, already := invalid[d]; !already {
			invalid[d] = struct{}{}
			worklist.Push(d)
		}
	}

	// Local-inheritance step (spec §4.5 stage 3.3): only when c's structure
	// actually changed shape, not on a mere member rename.
	if in.StructureChanged[c] {
		for d := range mergeReverse(in.Relations.LocalInheritanceInternal, in.Relations.LocalInheritanceExternal, c) {
			if _, already := invalid[d]; !already {
				invalid[d] = struct{}{}
				worklist.Push(d)
			}
		}
	}
}

func matchesAnyName(idx *namehash.Index, class string, mn apidiff.ModifiedNames) bool {
	for m := range mn {
		if idx.Uses(class, m.Name, m.Scope) {
			return true
		}
	}

	return false
}

func mergeReverse(internal, external *relation.Relation[string, string], key string) map[string]struct{} {
	out := make(map[string]struct{})

	for _, d := range internal.Reverse(key) {
		out[d] = struct{}{}
	}

	for _, d := range external.Reverse(key) {
		out[d] = struct{}{}
	}

	return out
}
