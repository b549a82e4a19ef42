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
	"testing"

	"github.com/buildtools/incore/pkg/apidiff"
	"github.com/buildtools/incore/pkg/namehash"
	"github.com/buildtools/incore/pkg/relation"
	"github.com/buildtools/incore/pkg/util"
	"github.com/buildtools/incore/pkg/util/assert"
)

func Test_Closure_01(t *testing.T) {
	rel := relation.NewRelations()
	rel.MemberRefInternal.Add("B", "A")

	modified := map[string]apidiff.ModifiedNames{
		"A": {{Name: "foo", Scope: relation.Default}: {}},
	}

	idx := namehash.Build(rel.Names)

	result := Closure(ClosureInput{
		Modified:  modified,
		Relations: rel,
		NameIndex: idx,
	}, DefaultOptions())

	assert.False(t, result.Bailed)
	_, ok := result.Invalid["A"]
	assert.True(t, ok)
	// B references A's member but NameHashing prunes it since B never uses
	// "foo" (B has no recorded UsedName at all).
	_, ok = result.Invalid["B"]
	assert.False(t, ok)
}

func Test_Closure_02(t *testing.T) {
	rel := relation.NewRelations()
	rel.MemberRefInternal.Add("B", "A")
	rel.AddUsedName("B", "foo", relation.Default)

	modified := map[string]apidiff.ModifiedNames{
		"A": {{Name: "foo", Scope: relation.Default}: {}},
	}

	idx := namehash.Build(rel.Names)

	result := Closure(ClosureInput{
		Modified:  modified,
		Relations: rel,
		NameIndex: idx,
	}, DefaultOptions())

	_, ok := result.Invalid["B"]
	assert.True(t, ok)
}

func Test_Closure_03(t *testing.T) {
	rel := relation.NewRelations()
	rel.InheritanceInternal.Add("B", "A")

	modified := map[string]apidiff.ModifiedNames{
		"A": {{Name: "foo", Scope: relation.Default}: {}},
	}

	idx := namehash.Build(rel.Names)

	result := Closure(ClosureInput{
		Modified:  modified,
		Relations: rel,
		NameIndex: idx,
	}, DefaultOptions())

	// Inheritance invalidates unconditionally, regardless of name hashing.
	_, ok := result.Invalid["B"]
	assert.True(t, ok)
}

func Test_Closure_04(t *testing.T) {
	rel := relation.NewRelations()
	rel.LocalInheritanceInternal.Add("B", "A")

	modified := map[string]apidiff.ModifiedNames{
		"A": {{Name: "foo", Scope: relation.Default}: {}},
	}

	idx := namehash.Build(rel.Names)

	resultNoStructureChange := Closure(ClosureInput{
		Modified:  modified,
		Relations: rel,
		NameIndex: idx,
	}, DefaultOptions())

	_, ok := resultNoStructureChange.Invalid["B"]
	assert.False(t, ok)

	resultStructureChange := Closure(ClosureInput{
		Modified:         modified,
		StructureChanged: map[string]bool{"A": true},
		Relations:        rel,
		NameIndex:        idx,
	}, DefaultOptions())

	_, ok = resultStructureChange.Invalid["B"]
	assert.True(t, ok)
}

func Test_Closure_05(t *testing.T) {
	rel := relation.NewRelations()
	rel.MemberRefInternal.Add("B", "A")

	modified := map[string]apidiff.ModifiedNames{"A": {}}

	idx := namehash.Build(rel.Names)

	result := Closure(ClosureInput{
		Modified:   modified,
		MacroFlips: map[string]bool{"A": true},
		Relations:  rel,
		NameIndex:  idx,
	}, DefaultOptions())

	_, ok := result.Invalid["A"]
	assert.True(t, ok)
	// MacroFlips forces the member-reference step to invalidate unconditionally.
	_, ok = result.Invalid["B"]
	assert.True(t, ok)
}

// Test_Closure_06 builds a random chain of classes linked by member
// references, none of which record a used name, and checks that the closure
// always bails out to Bailed=true once the chain is longer than
// TransitiveStep, rather than silently under- or over-invalidating.
func Test_Closure_06(t *testing.T) {
	names := make([]string, 20)
	for i := range names {
		names[i] = fmt.Sprintf("C%d", i)
	}

	rel := relation.NewRelations()
	for i := 0; i < len(names)-1; i++ {
		rel.MemberRefInternal.Add(names[i+1], names[i])
	}

	// Restricting the pool to an early prefix guarantees at least
	// len(names)-5 remaining hops from any chosen start, comfortably past
	// TransitiveStep regardless of which index is drawn.
	chosen := util.GenerateRandomElements(1, names[:5])

	modified := map[string]apidiff.ModifiedNames{
		chosen[0]: {{Name: "foo", Scope: relation.Default}: {}},
	}

	idx := namehash.Build(rel.Names)

	opts := DefaultOptions()
	opts.TransitiveStep = 3
	opts.NameHashing = false

	result := Closure(ClosureInput{
		Modified:  modified,
		Relations: rel,
		NameIndex: idx,
	}, opts)

	assert.True(t, result.Bailed)
	assert.True(t, len(result.Invalid) <= len(names))
}
