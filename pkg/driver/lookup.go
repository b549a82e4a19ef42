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
	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/fstamp"
)

// Lookup resolves cross-module references during a compile: a binary class
// name to the classpath entry providing it, and that entry's Analysis (if
// any is on record) for external-API pruning during closure. Callers
// typically back this with a process-wide cache keyed by classpath entry
// (spec §5's "process-wide analysis-store cache").
type Lookup interface {
	// LookupOnClasspath returns the classpath entry (jar or class
	// directory) providing binaryClassName, if one is known.
	LookupOnClasspath(binaryClassName string) (fstamp.File, bool)
	// LookupAnalysis returns the Analysis of the module that produced
	// binaryClassName, if it was itself built incrementally and its
	// Analysis is available.
	LookupAnalysis(binaryClassName string) (api.Analysis, bool)
	// LookupAnalysisByFile is LookupAnalysis keyed by the already-resolved
	// classpath entry, avoiding a second name lookup when the caller has
	// both in hand.
	LookupAnalysisByFile(binaryFile fstamp.File, binaryClassName string) (api.Analysis, bool)
}

// NoLookup is a Lookup that never resolves anything, suitable for a single
// module with no upstream dependencies.
type NoLookup struct{}

// LookupOnClasspath always reports not-found.
func (NoLookup) LookupOnClasspath(string) (fstamp.File, bool) { return fstamp.File{}, false }

// LookupAnalysis always reports not-found.
func (NoLookup) LookupAnalysis(string) (api.Analysis, bool) { return api.Analysis{}, false }

// LookupAnalysisByFile always reports not-found.
func (NoLookup) LookupAnalysisByFile(fstamp.File, string) (api.Analysis, bool) {
	return api.Analysis{}, false
}
