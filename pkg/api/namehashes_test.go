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
	"testing"

	"github.com/buildtools/incore/pkg/relation"
	"github.com/buildtools/incore/pkg/util/assert"
)

func Test_ComputeNameHashes_01(t *testing.T) {
	declared := []Def{{Name: "x", Access: PublicAccess{}, Signature: EmptyType{}}}
	companions := Companions{ClassAPI: &ClassLike{
		Name:      "A",
		Access:    PublicAccess{},
		Structure: NewStructure(nil, declared, nil),
	}}

	hashes := ComputeNameHashes(companions, nil)

	assert.Equal(t, 1, len(hashes))
	assert.Equal(t, "x", hashes[0].Name)
	assert.Equal(t, relation.Default, hashes[0].Scope)
}

func Test_ComputeNameHashes_02(t *testing.T) {
	// A used name distinct from every declared member surfaces as its own
	// NameHash, one per scope it was referenced in.
	companions := Companions{ClassAPI: &ClassLike{
		Name:      "A",
		Access:    PublicAccess{},
		Structure: NewStructure(nil, nil, nil),
	}}

	used := []relation.UsedName{relation.NewUsedName("foo", relation.Default, relation.Implicit)}

	hashes := ComputeNameHashes(companions, used)

	assert.Equal(t, 2, len(hashes))
	assert.Equal(t, "foo", hashes[0].Name)
	assert.Equal(t, "foo", hashes[1].Name)
}

func Test_ComputeNameHashes_03(t *testing.T) {
	// A declared member also present in usedNames under the same scope is
	// not duplicated.
	declared := []Def{{Name: "x", Access: PublicAccess{}, Signature: EmptyType{}}}
	companions := Companions{ClassAPI: &ClassLike{
		Name:      "A",
		Access:    PublicAccess{},
		Structure: NewStructure(nil, declared, nil),
	}}

	used := []relation.UsedName{relation.NewUsedName("x", relation.Default)}

	hashes := ComputeNameHashes(companions, used)

	assert.Equal(t, 1, len(hashes))
}

func Test_ComputeNameHashes_04(t *testing.T) {
	hashes := ComputeNameHashes(Companions{}, nil)
	assert.Equal(t, 0, len(hashes))
}

func Test_ComputeAPIHash_01(t *testing.T) {
	a := Companions{ClassAPI: &ClassLike{Name: "A", Access: PublicAccess{}, Structure: NewStructure(nil, nil, nil)}}
	b := Companions{ClassAPI: &ClassLike{Name: "A", Access: PublicAccess{}, Structure: NewStructure(nil, nil, nil)}}
	c := Companions{ClassAPI: &ClassLike{Name: "B", Access: PublicAccess{}, Structure: NewStructure(nil, nil, nil)}}

	assert.Equal(t, ComputeAPIHash(a), ComputeAPIHash(b))
	assert.True(t, ComputeAPIHash(a) != ComputeAPIHash(c))
}

func Test_ComputeAPIHash_AnnotationOrder_01(t *testing.T) {
	// Annotation order must not affect the hash.
	a := Companions{ClassAPI: &ClassLike{
		Name:        "A",
		Access:      PublicAccess{},
		Annotations: []Annotation{{Name: "Foo"}, {Name: "Bar"}},
		Structure:   NewStructure(nil, nil, nil),
	}}
	b := Companions{ClassAPI: &ClassLike{
		Name:        "A",
		Access:      PublicAccess{},
		Annotations: []Annotation{{Name: "Bar"}, {Name: "Foo"}},
		Structure:   NewStructure(nil, nil, nil),
	}}

	assert.Equal(t, ComputeAPIHash(a), ComputeAPIHash(b))
}
