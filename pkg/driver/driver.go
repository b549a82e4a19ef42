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
package driver

import (
	"context"
	"fmt"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/fstamp"
	"github.com/buildtools/incore/pkg/ierrors"
	"github.com/buildtools/incore/pkg/invalidate"
	"github.com/buildtools/incore/pkg/util"
)

// CompileFunc invokes the external compiler over sources, reporting every
// dependency, generated product, API and diagnostic it discovers through
// recorder before returning. A non-nil error aborts the Run in progress;
// the driver does not attempt partial recovery of whatever the callback
// already reported for that step.
type CompileFunc func(ctx context.Context, sources []fstamp.File, recorder AnalysisCallback) error

// Driver orchestrates one incremental compile: it runs the invalidation
// engine, feeds its Plan to Compile, folds the reported events back into a
// working Analysis, and repeats until the engine's closure stops growing
// (spec §4.7's CompileStep/Merge/Diff/Closure loop).
type Driver struct {
	// Compile invokes the external compiler. Required.
	Compile CompileFunc
	// Lookup resolves cross-module classpath references. Defaults to
	// NoLookup when nil.
	Lookup Lookup
	// Options configures the invalidation engine driving this Driver.
	Options invalidate.Options
	// Cancel, when non-nil, is polled between compile rounds; a true value
	// aborts Run with ierrors.Callback before the next CompileFunc call.
	Cancel *atomic.Bool
	// Logger receives one entry per state-machine transition. Defaults to
	// zap.NewNop() when nil.
	Logger *zap.Logger
	// MaxRounds caps the CompileStep/Merge/Diff/Closure loop, guarding
	// against a pathological Compile that keeps discovering new sources to
	// invalidate forever. Zero means "use invalidate.Options.TransitiveStep
	// plus one", since a converged closure implies no more than that many
	// additional compile rounds are ever needed.
	MaxRounds int
}

func (d *Driver) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}

	return d.Logger
}

func (d *Driver) lookup() Lookup {
	if d.Lookup == nil {
		return NoLookup{}
	}

	return d.Lookup
}

// Run executes the full state machine against prev (the previously persisted
// Analysis, or api.Empty() for a clean build), current (the freshly computed
// Stamps for this invocation), and setup (the current run's MiniSetup). It
// returns the new Analysis on success; prev is never mutated. Per spec §6,
// a setup that differs from prev.Setup in compiler version, compile order,
// or options (api.RequiresFullRebuild) forces treating prev as empty for
// invalidation purposes, regardless of what stage 1/3 would otherwise
// compute; the returned Analysis always carries setup as its Setup.
func (d *Driver) Run(ctx context.Context, prev api.Analysis, current fstamp.Stamps, setup api.MiniSetup) (api.Analysis, error) {
	logger := d.logger()
	perf := util.NewPerfStats()
	defer perf.Log("driver.Run")

	baseline := prev
	working := cloneAnalysis(prev)
	working.Stamps = current
	working.Setup = setup

	maxRounds := d.MaxRounds
	if maxRounds <= 0 {
		maxRounds = int(d.Options.TransitiveStep) + 1
	}

	compiled := make(map[string]api.AnalyzedClass)

	var plan invalidate.Plan

	if api.RequiresFullRebuild(prev.Setup, setup) {
		logger.Info("setup changed since previous run, forcing full rebuild")
		plan = fullRebuildPlan(baseline, current)
	} else {
		var err error

		plan, err = invalidate.Run(baseline, current, compiled, d.Options)
		if err != nil {
			return api.Analysis{}, err
		}
	}

	invalidate.ApplyRemovals(&working, removedSources(baseline, current))

	if len(plan.Sources) == 0 {
		logger.Info("invalidate-seed: nothing invalid, done")
		return working, nil
	}

	attempted := make(map[string]struct{})

	for round := 0; round < maxRounds; round++ {
		if d.Cancel != nil && d.Cancel.Load() {
			return api.Analysis{}, ierrors.CallbackViolation("compile cancelled")
		}

		logger.Info("compile-step",
			zap.Int("round", round),
			zap.Int("sources", len(plan.Sources)),
			zap.Bool("fullRebuild", plan.FullRebuild))

		internal := internalClassSet(working, plan.Invalid)

		rec := newRecorder(internal)
		if err := d.Compile(ctx, plan.Sources, rec); err != nil {
			return api.Analysis{}, ierrors.CompileFailureError("compile step failed", err)
		}

		for _, src := range plan.Sources {
			attempted[src.String()] = struct{}{}
		}

		fresh, err := mergeStep(&working, rec, plan.Sources)
		if err != nil {
			return api.Analysis{}, err
		}

		for name, class := range fresh {
			compiled[name] = class
		}

		unresolved := resolveExternalAPIs(&working, d.lookup(), logger)

		if err := enforceAPICoverage(plan.Invalid, fresh); err != nil {
			logger.Warn("merge: invalidated class produced no api event, treating as removed", zap.Error(err))
		}

		next, err := invalidate.Run(baseline, current, compiled, d.Options)
		if err != nil {
			return api.Analysis{}, err
		}

		conservativeInvalid := dependentsOfUnresolved(&working, unresolved)
		for class := range conservativeInvalid {
			next.Invalid[class] = struct{}{}
		}

		pendingSources := append([]fstamp.File(nil), next.Sources...)
		pendingSources = append(pendingSources, invalidate.SourcesOf(working, conservativeInvalid)...)

		pending := newSourcesOnly(dedupeSources(pendingSources), attempted)
		if len(pending) == 0 {
			logger.Info("closure: fixpoint reached", zap.Int("rounds", round+1))

			working.Compilations = append(working.Compilations, api.Compilation{Output: d.currentOutput()})

			return working, nil
		}

		plan = invalidate.Plan{Sources: pending, FullRebuild: next.FullRebuild, Invalid: next.Invalid}
	}

	return api.Analysis{}, fmt.Errorf("compile loop did not converge within %d rounds", maxRounds)
}

func (d *Driver) currentOutput() api.Output {
	return api.SingleOutput{}
}

func cloneAnalysis(a api.Analysis) api.Analysis {
	out := api.Empty()
	out.Stamps = a.Stamps
	out.Relations = a.Relations.Clone()
	out.APIs = api.APIs{Internal: copyClassMap(a.APIs.Internal), External: copyClassMap(a.APIs.External)}
	out.SourceInfos = make(map[fstamp.File]api.SourceInfo, len(a.SourceInfos))

	for f, si := range a.SourceInfos {
		out.SourceInfos[f] = si
	}

	out.Compilations = append([]api.Compilation(nil), a.Compilations...)
	out.Setup = a.Setup

	return out
}

func copyClassMap(m map[string]api.AnalyzedClass) map[string]api.AnalyzedClass {
	out := make(map[string]api.AnalyzedClass, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

func removedSources(prev api.Analysis, current fstamp.Stamps) []fstamp.File {
	return fstamp.RemovedSources(prev.Stamps, current)
}

// internalClassSet derives the set of class names the recorder should treat
// as internal for this compile round: every class the working Analysis
// already attributes to any of its sources (not only those being
// recompiled), plus the invalid names themselves (a brand-new class has no prior source attribution yet).
func internalClassSet(working api.Analysis, invalid map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(invalid))
	for name := range invalid {
		out[name] = struct{}{}
	}

	for _, src := range working.Stamps.SortedSources() {
		for _, class := range working.Relations.Classes.Forward(src) {
			out[class] = struct{}{}
		}
	}

	return out
}

// resolveExternalAPIs fills in working.APIs.External for classes referenced
// across a module boundary but not yet on record, by asking lookup for the
// upstream module's Analysis. namehash.Index.Uses/UsesAny return false for
// any class absent from the index, so a class resolveExternalAPIs can't
// resolve would otherwise be silently pruned by stage 3 rather than treated
// conservatively; it is reported back instead so the caller can invalidate
// its dependents directly.
func resolveExternalAPIs(working *api.Analysis, lookup Lookup, logger *zap.Logger) []string {
	missing := externalClassesMissingAPI(working)

	var unresolved []string

	for _, className := range missing {
		binaryFile, ok := lookup.LookupOnClasspath(className)
		if !ok {
			logger.Warn("resolve-external: class not found on classpath",
				zap.String("class", className), zap.Error(ierrors.MissingExternalError(className)))

			unresolved = append(unresolved, className)

			continue
		}

		upstream, ok := lookup.LookupAnalysisByFile(binaryFile, className)
		if !ok {
			logger.Warn("resolve-external: no analysis available for classpath entry",
				zap.String("class", className), zap.String("binary", binaryFile.String()),
				zap.Error(ierrors.MissingExternalError(className)))

			unresolved = append(unresolved, className)

			continue
		}

		class, ok := upstream.APIs.Internal[className]
		if !ok {
			logger.Warn("resolve-external: upstream analysis has no api entry for class",
				zap.String("class", className), zap.Error(ierrors.MissingExternalError(className)))

			unresolved = append(unresolved, className)

			continue
		}

		working.APIs.External[className] = class
	}

	return unresolved
}

// dependentsOfUnresolved collects every internal class that references one of
// unresolved's classes across a module boundary, so the caller can invalidate
// them instead of trusting name-hash pruning to cover a class it has no
// record of.
func dependentsOfUnresolved(working *api.Analysis, unresolved []string) map[string]struct{} {
	out := make(map[string]struct{})

	for _, className := range unresolved {
		for _, dependent := range working.Relations.MemberRefExternal.Reverse(className) {
			out[dependent] = struct{}{}
		}

		for _, dependent := range working.Relations.InheritanceExternal.Reverse(className) {
			out[dependent] = struct{}{}
		}

		for _, dependent := range working.Relations.LocalInheritanceExternal.Reverse(className) {
			out[dependent] = struct{}{}
		}
	}

	return out
}

// fullRebuildPlan builds the Plan forced when the current run's MiniSetup
// differs from the previous one: every known source is recompiled and every
// previously known internal class is treated as invalid.
func fullRebuildPlan(baseline api.Analysis, current fstamp.Stamps) invalidate.Plan {
	invalid := make(map[string]struct{}, len(baseline.APIs.Internal))
	for name := range baseline.APIs.Internal {
		invalid[name] = struct{}{}
	}

	return invalidate.Plan{
		Sources:     current.SortedSources(),
		FullRebuild: true,
		Invalid:     invalid,
	}
}

func dedupeSources(files []fstamp.File) []fstamp.File {
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

func externalClassesMissingAPI(working *api.Analysis) []string {
	seen := make(map[string]struct{})

	var out []string

	add := func(names []string) {
		for _, n := range names {
			if _, ok := working.APIs.External[n]; ok {
				continue
			}

			if _, ok := seen[n]; ok {
				continue
			}

			seen[n] = struct{}{}

			out = append(out, n)
		}
	}

	for _, from := range working.Relations.MemberRefExternal.ForwardKeys(func(a, b string) bool { return a < b }) {
		add(working.Relations.MemberRefExternal.Forward(from))
	}

	for _, from := range working.Relations.InheritanceExternal.ForwardKeys(func(a, b string) bool { return a < b }) {
		add(working.Relations.InheritanceExternal.Forward(from))
	}

	for _, from := range working.Relations.LocalInheritanceExternal.ForwardKeys(func(a, b string) bool { return a < b }) {
		add(working.Relations.LocalInheritanceExternal.Forward(from))
	}

	return out
}

func newSourcesOnly(sources []fstamp.File, attempted map[string]struct{}) []fstamp.File {
	var out []fstamp.File

	for _, s := range sources {
		if _, ok := attempted[s.String()]; !ok {
			out = append(out, s)
		}
	}

	return out
}
