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

	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/fstamp"
)

// InitialResult is the output of stage 1: the sources that must be fed to
// the compiler, the classes they're believed to declare (the seed set for
// stage 3), and the bookkeeping (removed sources, modified binaries) the
// driver needs for the Merge step.
type InitialResult struct {
	ModifiedSources  []fstamp.File
	RemovedSources   []fstamp.File
	ModifiedBinaries []fstamp.File
	InitialClasses   map[string]struct{}
}

// InitialInvalidClasses implements spec §4.5 stage 1. prev is the Analysis
// read from disk (or api.Empty() if none existed / a full rebuild was
// forced); current is the freshly computed Stamps for this run.
func InitialInvalidClasses(prev api.Analysis, current fstamp.Stamps) InitialResult {
	modified := fstamp.ModifiedSources(prev.Stamps, current)
	removed := fstamp.RemovedSources(prev.Stamps, current)
	modifiedBinaries := fstamp.ModifiedBinaries(prev.Stamps, current)

	staleProductSources := sourcesWithStaleProducts(prev, current)
	modified = unionFiles(modified, staleProductSources)

	classes := make(map[string]struct{})

	for _, src := range modified {
		for _, class := range prev.Relations.Classes.Forward(src) {
			classes[class] = struct{}{}
		}
	}

	for _, src := range removed {
		for _, class := range prev.Relations.Classes.Forward(src) {
			classes[class] = struct{}{}
		}
	}

	for _, b := range modifiedBinaries {
		for _, className := range prev.Relations.LibraryClassName.Forward(b) {
			for _, dependent := range prev.Relations.MemberRefExternal.Reverse(className) {
				classes[dependent] = struct{}{}
			}

			for _, dependent := range prev.Relations.InheritanceExternal.Reverse(className) {
				classes[dependent] = struct{}{}
			}
		}
	}

	log.WithFields(log.Fields{
		"modifiedSources":  len(modified),
		"removedSources":   len(removed),
		"modifiedBinaries": len(modifiedBinaries),
		"initialClasses":   len(classes),
	}).Debug("stage 1: initial invalid classes computed")

	return InitialResult{
		ModifiedSources:  modified,
		RemovedSources:   removed,
		ModifiedBinaries: modifiedBinaries,
		InitialClasses:   classes,
	}
}

// sourcesWithStaleProducts implements the edge-case policy "a product file
// missing on disk with an otherwise-unchanged source is treated as
// source-modified."
func sourcesWithStaleProducts(prev api.Analysis, current fstamp.Stamps) []fstamp.File {
	var out []fstamp.File

	for _, src := range prev.Stamps.SortedSources() {
		for _, product := range prev.Relations.SrcProd.Forward(src) {
			stamp, ok := current.Products[product]
			if !ok {
				out = append(out, src)
				break
			}

			if _, isEmpty := stamp.(fstamp.Empty); isEmpty {
				out = append(out, src)
				break
			}
		}
	}

	return out
}

func unionFiles(a, b []fstamp.File) []fstamp.File {
	seen := make(map[fstamp.File]struct{}, len(a)+len(b))

	var out []fstamp.File

	for _, f := range a {
		if _, ok := seen[f]; !ok {
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}

	for _, f := range b {
		if _, ok := seen[f]; !ok {
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}

	return out
}

// SourcesOf maps a set of class names back to the source files that declare
// them, using the Classes relation's reverse side. Used at the end of
// closure to turn an invalid class set into the file set the compiler
// actually operates on.
func SourcesOf(a api.Analysis, classes map[string]struct{}) []fstamp.File {
	seen := make(map[fstamp.File]struct{})

	var out []fstamp.File

	for class := range classes {
		for _, src := range a.Relations.Classes.Reverse(class) {
			if _, ok := seen[src]; !ok {
				seen[src] = struct{}{}
				out = append(out, src)
			}
		}
	}

	return out
}
