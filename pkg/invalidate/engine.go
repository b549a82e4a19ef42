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
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/apidiff"
	"github.com/buildtools/incore/pkg/fstamp"
	"github.com/buildtools/incore/pkg/namehash"
)

// Plan is the output of Run: the sources the compiler must actually see in
// this pass, and whether that set amounts to "everything".
type Plan struct {
	Sources []fstamp.File
	// FullRebuild is set when the fraction gate tripped, the closure bailed
	// out at the TransitiveStep cap, or the caller's MiniSetup comparison
	// forced a clean build; Sources is then every known source regardless of
	// what stage 1/3 computed.
	FullRebuild bool
	// Invalid is the final invalid-class set, for diagnostics and for the
	// driver's eventual Merge step to know which classes' relation entries
	// to drop before folding in fresh callback data.
	Invalid map[string]struct{}
}

// Run ties stages 1 and 3 together: compute the initial invalid set from
// stamp and library changes, diff the APIs of classes recompiled in the
// previous round against prev, extend via transitive closure, and apply the
// fraction gate (spec §4.5, §6).
//
// recompiled carries the AnalyzedClass results for sources already fed
// through the compiler once this run (e.g. by an earlier iteration of the
// driver's own loop); on the very first iteration this is nil and the seed
// set is driven entirely by stage 1's removed/modified bookkeeping.
func Run(prev api.Analysis, current fstamp.Stamps, recompiled map[string]api.AnalyzedClass, opts Options) (Plan, error) {
	var errs error

	init := InitialInvalidClasses(prev, current)

	diff := apidiff.DiffAPIs(subset(prev.APIs.Internal, init.InitialClasses), recompiled)
	macroFlips := detectMacroFlips(prev.APIs.Internal, recompiled)

	idx := namehash.Build(prev.Relations.Names)

	closure := Closure(ClosureInput{
		Modified:         diff.Modified,
		StructureChanged: diff.StructureChanged,
		MacroFlips:       macroFlips,
		Relations:        prev.Relations,
		NameIndex:        idx,
	}, opts)

	for class := range init.InitialClasses {
		closure.Invalid[class] = struct{}{}
	}

	if closure.Bailed {
		errs = multierr.Append(errs, fmt.Errorf("closure exceeded %d rounds without reaching a fixpoint", opts.TransitiveStep))
	}

	total := len(prev.APIs.Internal)
	if total == 0 {
		total = len(closure.Invalid)
	}

	fraction := 0.0
	if total > 0 {
		fraction = float64(len(closure.Invalid)) / float64(total)
	}

	if closure.Bailed || total == 0 || fraction >= opts.RecompileAllFraction {
		log.WithFields(log.Fields{
			"fraction":  fraction,
			"threshold": opts.RecompileAllFraction,
			"bailed":    closure.Bailed,
		}).Info("fraction gate tripped, declaring whole module dirty")

		return Plan{
			Sources:     prev.Stamps.SortedSources(),
			FullRebuild: true,
			Invalid:     closure.Invalid,
		}, errs
	}

	sources := SourcesOf(prev, closure.Invalid)
	sources = append(sources, init.ModifiedSources...)
	sources = dedupeFiles(sources)

	return Plan{Sources: sources, Invalid: closure.Invalid}, errs
}

// ApplyRemovals implements the deletion edge case (spec §4.6): deleting a
// source deletes all the products it declared and every class entry it
// contributed, cleanly, before any new callback data is merged in.
func ApplyRemovals(a *api.Analysis, removed []fstamp.File) {
	for _, src := range removed {
		for _, product := range a.Relations.SrcProd.Forward(src) {
			delete(a.Stamps.Products, product)
		}

		for _, class := range a.Relations.Classes.Forward(src) {
			delete(a.APIs.Internal, class)
			delete(a.APIs.External, class)
		}

		a.Relations.RemoveSource(src)
		delete(a.Stamps.Sources, src)
	}
}

// detectMacroFlips reports classes whose HasMacro flag went from false to
// true between prev and the freshly compiled set; spec §4.6 requires these
// to force invalidation of their member-reference dependents regardless of
// what name hashing would otherwise prune.
func detectMacroFlips(prev, fresh map[string]api.AnalyzedClass) map[string]bool {
	out := make(map[string]bool)

	for name, newClass := range fresh {
		oldClass, existed := prev[name]
		if newClass.HasMacro && (!existed || !oldClass.HasMacro) {
			out[name] = true
		}
	}

	return out
}

func subset(all map[string]api.AnalyzedClass, names map[string]struct{}) map[string]api.AnalyzedClass {
	out := make(map[string]api.AnalyzedClass, len(names))

	for name := range names {
		if c, ok := all[name]; ok {
			out[name] = c
		}
	}

	return out
}

func dedupeFiles(files []fstamp.File) []fstamp.File {
	seen := make(map[fstamp.File]struct{}, len(files))

	var out []fstamp.File

	for _, f := range files {
		if _, ok := seen[f]; !ok {
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}

	return out
}
