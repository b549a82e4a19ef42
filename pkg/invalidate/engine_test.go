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
	"testing"

	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/fstamp"
	"github.com/buildtools/incore/pkg/lazy"
	"github.com/buildtools/incore/pkg/util/assert"
)

func analyzedClass(name string, hasMacro bool) api.AnalyzedClass {
	return api.AnalyzedClass{
		Name:     name,
		API:      lazy.Of(api.Companions{}),
		HasMacro: hasMacro,
	}
}

func Test_DetectMacroFlips_01(t *testing.T) {
	prev := map[string]api.AnalyzedClass{
		"A": analyzedClass("A", false),
		"B": analyzedClass("B", true),
	}
	fresh := map[string]api.AnalyzedClass{
		"A": analyzedClass("A", true),
		"B": analyzedClass("B", true),
		"C": analyzedClass("C", true),
	}

	flips := detectMacroFlips(prev, fresh)

	assert.True(t, flips["A"])
	assert.True(t, flips["C"])
	_, bFlipped := flips["B"]
	assert.False(t, bFlipped)
}

func Test_ApplyRemovals_01(t *testing.T) {
	a := api.Empty()
	src := fstamp.NewFile("a.scala")
	product := fstamp.NewFile("A.class")

	a.Stamps.Sources[src] = fstamp.Hash{}
	a.Stamps.Products[product] = fstamp.LastModified{Millis: 1}
	a.Relations.SrcProd.Add(src, product)
	a.Relations.Classes.Add(src, "A")
	a.APIs.Internal["A"] = analyzedClass("A", false)

	ApplyRemovals(&a, []fstamp.File{src})

	_, srcStillThere := a.Stamps.Sources[src]
	assert.False(t, srcStillThere)
	_, productStillThere := a.Stamps.Products[product]
	assert.False(t, productStillThere)
	_, classStillThere := a.APIs.Internal["A"]
	assert.False(t, classStillThere)
	assert.True(t, a.Relations.Classes.IsEmpty())
}

func Test_Run_01(t *testing.T) {
	// Three known classes, only one of whose sources changed: the fraction
	// gate (1/3) stays under the 0.5 default threshold, so only that source
	// is planned.
	prev := api.Empty()
	srcA := fstamp.NewFile("a.scala")
	srcB := fstamp.NewFile("b.scala")
	srcC := fstamp.NewFile("c.scala")

	prev.Stamps.Sources[srcA] = fstamp.Hash{Bytes: [32]byte{1}}
	prev.Stamps.Sources[srcB] = fstamp.Hash{Bytes: [32]byte{2}}
	prev.Stamps.Sources[srcC] = fstamp.Hash{Bytes: [32]byte{3}}
	prev.Relations.Classes.Add(srcA, "A")
	prev.Relations.Classes.Add(srcB, "B")
	prev.Relations.Classes.Add(srcC, "C")
	prev.APIs.Internal["A"] = analyzedClass("A", false)
	prev.APIs.Internal["B"] = analyzedClass("B", false)
	prev.APIs.Internal["C"] = analyzedClass("C", false)

	current := fstamp.NewStamps()
	current.Sources[srcA] = fstamp.Hash{Bytes: [32]byte{9}}
	current.Sources[srcB] = fstamp.Hash{Bytes: [32]byte{2}}
	current.Sources[srcC] = fstamp.Hash{Bytes: [32]byte{3}}

	plan, err := Run(prev, current, nil, DefaultOptions())

	assert.True(t, err == nil)
	assert.Equal(t, []fstamp.File{srcA}, plan.Sources)
	assert.False(t, plan.FullRebuild)
	_, ok := plan.Invalid["A"]
	assert.True(t, ok)
}

func Test_Run_02(t *testing.T) {
	// Nothing changed between prev and current: no source is invalid, and the
	// fraction gate never trips because there's nothing to invalidate.
	prev := api.Empty()
	src := fstamp.NewFile("a.scala")
	prev.Stamps.Sources[src] = fstamp.Hash{Bytes: [32]byte{1}}
	prev.Relations.Classes.Add(src, "A")
	prev.APIs.Internal["A"] = analyzedClass("A", false)

	current := fstamp.NewStamps()
	current.Sources[src] = fstamp.Hash{Bytes: [32]byte{1}}

	plan, err := Run(prev, current, nil, DefaultOptions())

	assert.True(t, err == nil)
	assert.Equal(t, 0, len(plan.Sources))
	assert.False(t, plan.FullRebuild)
}

func Test_Run_03(t *testing.T) {
	// A single changed source out of two trips the 0.5 fraction gate, forcing
	// a full rebuild over every known source.
	prev := api.Empty()
	srcA := fstamp.NewFile("a.scala")
	srcB := fstamp.NewFile("b.scala")
	prev.Stamps.Sources[srcA] = fstamp.Hash{Bytes: [32]byte{1}}
	prev.Stamps.Sources[srcB] = fstamp.Hash{Bytes: [32]byte{2}}
	prev.Relations.Classes.Add(srcA, "A")
	prev.Relations.Classes.Add(srcB, "B")
	prev.APIs.Internal["A"] = analyzedClass("A", false)
	prev.APIs.Internal["B"] = analyzedClass("B", false)

	current := fstamp.NewStamps()
	current.Sources[srcA] = fstamp.Hash{Bytes: [32]byte{9}}
	current.Sources[srcB] = fstamp.Hash{Bytes: [32]byte{2}}

	plan, err := Run(prev, current, nil, DefaultOptions())

	assert.True(t, err == nil)
	assert.True(t, plan.FullRebuild)
	assert.Equal(t, 2, len(plan.Sources))
}
