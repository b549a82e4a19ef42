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

// Package driver implements the compile-step state machine of spec §4.7: it
// drives an external compiler through a CompileFunc, consumes its streamed
// callback events into an Analysis, and loops CompileStep/Merge/Diff/Closure
// until the invalidation engine's closure reaches a fixpoint.
package driver

import (
	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/fstamp"
	"github.com/buildtools/incore/pkg/relation"
)

// AnalysisCallback is the event sink an external compiler reports into
// during one CompileStep. A single CompileFunc invocation may report events
// for many sources interleaved; StartSource merely marks that a source began
// compiling, it does not scope subsequent calls to that source.
type AnalysisCallback interface {
	StartSource(source fstamp.File)
	ClassDependency(onClassName, fromClassName string, ctx relation.DependencyContext)
	BinaryDependency(binary fstamp.File, binaryClassName, fromClassName string, ctx relation.DependencyContext)
	GeneratedLocalClass(source, classFile fstamp.File)
	GeneratedNonLocalClass(source, classFile fstamp.File, className string)
	API(source fstamp.File, className string, class *api.ClassLike, isModule bool, hasMacro bool)
	UsedName(className, name string, scopes ...relation.UseScope)
	Problem(source fstamp.File, problem api.Problem, reported bool)
}

// recorder is the driver's own AnalysisCallback implementation. It
// accumulates one CompileStep's events into a Relations/APIs pair that Merge
// then folds into the working Analysis. Whether a ClassDependency/
// BinaryDependency target is internal or external is decided here by
// consulting the set of classes the driver attributes to this module's
// sources, since the callback interface itself carries no such distinction.
type recorder struct {
	internalClasses map[string]struct{}
	relations       *relation.Relations
	sourceInfos     map[fstamp.File]*api.SourceInfo
	companions      map[string]*api.Companions
	hasMacro        map[string]bool
	started         map[fstamp.File]struct{}
}

// newRecorder constructs a recorder scoped to one CompileStep. internalClasses
// is the set of class names the driver attributes to this module (the
// invalid classes plus every class already recorded for any source), used to split each reported dependency into the Internal/External
// relation pair.
func newRecorder(internalClasses map[string]struct{}) *recorder {
	return &recorder{
		internalClasses: internalClasses,
		relations:       relation.NewRelations(),
		sourceInfos:     make(map[fstamp.File]*api.SourceInfo),
		companions:      make(map[string]*api.Companions),
		hasMacro:        make(map[string]bool),
		started:         make(map[fstamp.File]struct{}),
	}
}

func (r *recorder) StartSource(source fstamp.File) {
	r.started[source] = struct{}{}
}

func (r *recorder) ClassDependency(onClassName, fromClassName string, ctx relation.DependencyContext) {
	internal, external := r.relations.ForContext(ctx)

	if _, ok := r.internalClasses[onClassName]; ok {
		internal.Add(fromClassName, onClassName)
	} else {
		external.Add(fromClassName, onClassName)
	}
}

func (r *recorder) BinaryDependency(binary fstamp.File, binaryClassName, fromClassName string, ctx relation.DependencyContext) {
	r.relations.LibraryClassName.Add(binary, binaryClassName)

	// fromClassName's owning source is whatever source already reported
	// declaring it via API/GeneratedNonLocalClass; a local (anonymous)
	// class that never reached Classes has no resolvable owner and is
	// skipped rather than mis-attributed.
	for _, source := range r.relations.Classes.Reverse(fromClassName) {
		r.relations.LibraryDep.Add(source, binary)
	}

	_, external := r.relations.ForContext(ctx)
	external.Add(fromClassName, binaryClassName)
}

func (r *recorder) GeneratedLocalClass(source, classFile fstamp.File) {
	r.relations.SrcProd.Add(source, classFile)
}

func (r *recorder) GeneratedNonLocalClass(source, classFile fstamp.File, className string) {
	r.relations.SrcProd.Add(source, classFile)
	r.relations.Classes.Add(source, className)
	r.relations.ProductClassName.Add(className, className)
}

func (r *recorder) companion(className string) *api.Companions {
	c, ok := r.companions[className]
	if !ok {
		c = &api.Companions{}
		r.companions[className] = c
	}

	return c
}

func (r *recorder) API(source fstamp.File, className string, class *api.ClassLike, isModule bool, hasMacro bool) {
	r.relations.Classes.Add(source, className)

	c := r.companion(className)
	if isModule {
		c.ModuleAPI = class
	} else {
		c.ClassAPI = class
	}

	if hasMacro {
		r.hasMacro[className] = true
	}
}

func (r *recorder) UsedName(className, name string, scopes ...relation.UseScope) {
	r.relations.AddUsedName(className, name, scopes...)
}

func (r *recorder) Problem(source fstamp.File, problem api.Problem, reported bool) {
	info, ok := r.sourceInfos[source]
	if !ok {
		info = &api.SourceInfo{}
		r.sourceInfos[source] = info
	}

	if reported {
		info.ReportedProblems = append(info.ReportedProblems, problem)
	} else {
		info.UnreportedProblems = append(info.UnreportedProblems, problem)
	}
}
