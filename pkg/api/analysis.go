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
package api

import (
	"fmt"

	"github.com/buildtools/incore/pkg/fstamp"
	"github.com/buildtools/incore/pkg/relation"
)

// Analysis is the full persisted record of one compile unit: fingerprints,
// cross-class relations, summarised APIs, per-source diagnostics, and the
// history of compile passes that produced it.
type Analysis struct {
	Stamps       fstamp.Stamps
	Relations    *relation.Relations
	APIs         APIs
	SourceInfos  map[fstamp.File]SourceInfo
	Compilations []Compilation
	Setup        MiniSetup
}

// Empty constructs an Analysis with no recorded history, the value used
// whenever the previous Analysis is unreadable, missing, or invalidated
// wholesale by a MiniSetup change.
func Empty() Analysis {
	return Analysis{
		Stamps:      fstamp.NewStamps(),
		Relations:   relation.NewRelations(),
		APIs:        NewAPIs(),
		SourceInfos: make(map[fstamp.File]SourceInfo),
	}
}

// CheckCoverage validates the derived invariant from spec §3: every name
// appearing in Relations.Classes.values is a key of APIs.Internal; every
// name appearing in MemberRefExternal/InheritanceExternal/
// LocalInheritanceExternal values is a key of APIs.External.  It returns the
// first violation found, or nil if the invariant holds.
func (a Analysis) CheckCoverage() error {
	for _, src := range a.Relations.Classes.ForwardKeys(func(x, y fstamp.File) bool { return x.Less(y) }) {
		for _, class := range a.Relations.Classes.Forward(src) {
			if _, ok := a.APIs.Internal[class]; !ok {
				return fmt.Errorf("class %q declared in %s has no internal API entry", class, src)
			}
		}
	}

	externalRelations := []*relation.Relation[string, string]{
		a.Relations.MemberRefExternal,
		a.Relations.InheritanceExternal,
		a.Relations.LocalInheritanceExternal,
	}

	for _, rel := range externalRelations {
		for _, from := range rel.ForwardKeys(func(x, y string) bool { return x < y }) {
			for _, to := range rel.Forward(from) {
				if _, ok := a.APIs.External[to]; !ok {
					return fmt.Errorf("external dependency %q referenced from %q has no external API entry", to, from)
				}
			}
		}
	}

	return nil
}

// CheckProductUniqueness validates that every product file has exactly one
// source owner in srcProd.reverse.
func (a Analysis) CheckProductUniqueness() error {
	for _, src := range a.Relations.SrcProd.ForwardKeys(func(x, y fstamp.File) bool { return x.Less(y) }) {
		for _, product := range a.Relations.SrcProd.Forward(src) {
			owners := a.Relations.SrcProd.Reverse(product)
			if len(owners) != 1 {
				return fmt.Errorf("product %s has %d owners, expected exactly 1", product, len(owners))
			}
		}
	}

	return nil
}
