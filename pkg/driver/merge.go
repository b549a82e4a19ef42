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
	"fmt"

	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/fstamp"
	"github.com/buildtools/incore/pkg/lazy"
)

// mergeStep implements spec §4.7's Merge transition: drop every relation
// entry and API record that belonged to a class declared by one of the
// just-compiled sources, then fold the recorder's freshly-reported data back
// in. It returns the AnalyzedClass built for each class the recorder
// reported an api event for, keyed by class name.
func mergeStep(working *api.Analysis, rec *recorder, compiledSources []fstamp.File) (map[string]api.AnalyzedClass, error) {
	for _, src := range compiledSources {
		for _, class := range working.Relations.Classes.Forward(src) {
			working.Relations.RemoveClass(class)
			delete(working.APIs.Internal, class)
			delete(working.APIs.External, class)
		}

		working.Relations.RemoveSource(src)
		delete(working.SourceInfos, src)
	}

	working.Relations.SrcProd.Union(rec.relations.SrcProd)
	working.Relations.LibraryDep.Union(rec.relations.LibraryDep)
	working.Relations.LibraryClassName.Union(rec.relations.LibraryClassName)
	working.Relations.Classes.Union(rec.relations.Classes)
	working.Relations.ProductClassName.Union(rec.relations.ProductClassName)
	working.Relations.MemberRefInternal.Union(rec.relations.MemberRefInternal)
	working.Relations.MemberRefExternal.Union(rec.relations.MemberRefExternal)
	working.Relations.InheritanceInternal.Union(rec.relations.InheritanceInternal)
	working.Relations.InheritanceExternal.Union(rec.relations.InheritanceExternal)
	working.Relations.LocalInheritanceInternal.Union(rec.relations.LocalInheritanceInternal)
	working.Relations.LocalInheritanceExternal.Union(rec.relations.LocalInheritanceExternal)

	for class, byName := range rec.relations.Names {
		for name, un := range byName {
			for scope := range un.Scopes {
				working.Relations.AddUsedName(class, name, scope)
			}
		}
	}

	for src, info := range rec.sourceInfos {
		working.SourceInfos[src] = *info
	}

	fresh := make(map[string]api.AnalyzedClass, len(rec.companions))

	for className, companions := range rec.companions {
		usedNames := working.Relations.UsedNames(className)

		c := *companions
		analyzed := api.AnalyzedClass{
			Name:       className,
			API:        lazy.Of(c),
			NameHashes: api.ComputeNameHashes(c, usedNames),
			HasMacro:   rec.hasMacro[className],
		}
		analyzed.APIHash = api.ComputeAPIHash(c)

		fresh[className] = analyzed

		if isInternalClass(working, className) {
			working.APIs.Internal[className] = analyzed
		} else {
			working.APIs.External[className] = analyzed
		}
	}

	if err := working.CheckProductUniqueness(); err != nil {
		return nil, fmt.Errorf("merge violated product uniqueness: %w", err)
	}

	return fresh, nil
}

// isInternalClass reports whether className was declared by a source this
// module compiled (the normal case: a CompileFunc always calls API for a
// class it owns). A class reported via an api event but declared by no known
// source is treated as external, guarding against a misbehaving CompileFunc.
func isInternalClass(working *api.Analysis, className string) bool {
	return len(working.Relations.Classes.Reverse(className)) > 0
}

// enforceAPICoverage implements the driver-side half of spec §4.7's
// enforcement rule: every class in invalid must have received an api event
// this round (and thus appear in fresh), or it is treated as removed. It
// never panics; the caller logs the returned error and proceeds, since a
// class with no api event naturally falls out of Merge's delete-then-fold
// already.
func enforceAPICoverage(invalid map[string]struct{}, fresh map[string]api.AnalyzedClass) error {
	var missing []string

	for class := range invalid {
		if _, ok := fresh[class]; !ok {
			missing = append(missing, class)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	return fmt.Errorf("%d invalidated classes received no api event: %v", len(missing), missing)
}
