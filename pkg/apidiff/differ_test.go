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
package apidiff

import (
	"testing"

	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/lazy"
	"github.com/buildtools/incore/pkg/relation"
	"github.com/buildtools/incore/pkg/util/assert"
)

func classWith(parents []api.Type, declared, inherited []api.Def) api.Companions {
	return api.Companions{
		ClassAPI: &api.ClassLike{
			Name:       "A",
			Access:     api.PublicAccess{},
			Definition: api.ClassDef,
			Structure:  api.NewStructure(parents, declared, inherited),
		},
	}
}

func analyzed(name string, hashes []api.NameHash, companions api.Companions) api.AnalyzedClass {
	return api.AnalyzedClass{
		Name:       name,
		API:        lazy.Of(companions),
		APIHash:    api.ComputeAPIHash(companions),
		NameHashes: hashes,
	}
}

func Test_Diff_01(t *testing.T) {
	companions := classWith(nil, nil, nil)
	hashes := []api.NameHash{{Name: "foo", Scope: relation.Default, Hash: 1}}

	oldClass := analyzed("A", hashes, companions)
	newClass := analyzed("A", hashes, companions)

	mn := Diff(oldClass, newClass)
	assert.Equal(t, 0, len(mn))
}

func Test_Diff_02(t *testing.T) {
	oldClass := analyzed("A", []api.NameHash{{Name: "foo", Scope: relation.Default, Hash: 1}}, classWith(nil, nil, nil))
	newClass := analyzed("A", []api.NameHash{{Name: "foo", Scope: relation.Default, Hash: 2}},
		classWith([]api.Type{api.EmptyType{}}, nil, nil))

	mn := Diff(oldClass, newClass)
	_, ok := mn[ModifiedName{"foo", relation.Default}]
	assert.True(t, ok)
}

func Test_Diff_03(t *testing.T) {
	oldClass := analyzed("A", []api.NameHash{{Name: "foo", Scope: relation.Default, Hash: 1}}, classWith(nil, nil, nil))
	newClass := analyzed("A",
		[]api.NameHash{
			{Name: "foo", Scope: relation.Default, Hash: 1},
			{Name: "bar", Scope: relation.Default, Hash: 2},
		},
		classWith([]api.Type{api.EmptyType{}}, nil, nil))

	mn := Diff(oldClass, newClass)
	_, ok := mn[ModifiedName{"bar", relation.Default}]
	assert.True(t, ok)
	_, ok = mn[ModifiedName{"foo", relation.Default}]
	assert.False(t, ok)
}

func Test_AllModified_01(t *testing.T) {
	c := analyzed("A", []api.NameHash{
		{Name: "foo", Scope: relation.Default, Hash: 1},
		{Name: "bar", Scope: relation.Implicit, Hash: 2},
	}, classWith(nil, nil, nil))

	mn := AllModified(c)
	assert.Equal(t, 2, len(mn))
	assert.Equal(t, map[string]struct{}{"foo": {}, "bar": {}}, mn.Names())
}

func Test_DiffAPIs_01(t *testing.T) {
	companions := classWith(nil, nil, nil)
	hashes := []api.NameHash{{Name: "foo", Scope: relation.Default, Hash: 1}}

	oldAPIs := map[string]api.AnalyzedClass{
		"A": analyzed("A", hashes, companions),
		"B": analyzed("B", hashes, companions),
	}
	newAPIs := map[string]api.AnalyzedClass{
		"A": analyzed("A", hashes, companions),
		"C": analyzed("C", hashes, companions),
	}

	result := DiffAPIs(oldAPIs, newAPIs)

	assert.Equal(t, []string{"B"}, result.Removed)
	_, removedModified := result.Modified["B"]
	assert.True(t, removedModified)
	_, newModified := result.Modified["C"]
	assert.True(t, newModified)
	assert.True(t, result.StructureChanged["C"])
	_, aModified := result.Modified["A"]
	assert.False(t, aModified)
}

func Test_StructureChanged_01(t *testing.T) {
	oldAPIs := map[string]api.AnalyzedClass{
		"A": analyzed("A", nil, classWith(nil, nil, []api.Def{{Name: "x", Access: api.PublicAccess{}, Signature: api.EmptyType{}}})),
	}
	newAPIs := map[string]api.AnalyzedClass{
		"A": analyzed("A", nil, classWith(nil, nil, []api.Def{
			{Name: "x", Access: api.PublicAccess{}, Signature: api.EmptyType{}},
			{Name: "y", Access: api.PublicAccess{}, Signature: api.EmptyType{}},
		})),
	}

	result := DiffAPIs(oldAPIs, newAPIs)
	assert.True(t, result.StructureChanged["A"])
}
