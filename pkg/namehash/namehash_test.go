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
package namehash

import (
	"testing"

	"github.com/buildtools/incore/pkg/relation"
	"github.com/buildtools/incore/pkg/util/assert"
)

func Test_Index_01(t *testing.T) {
	names := map[string]map[string]relation.UsedName{
		"A": {
			"foo": relation.NewUsedName("foo", relation.Default, relation.Implicit),
			"bar": relation.NewUsedName("bar", relation.PatternMatchTarget),
		},
	}

	idx := Build(names)

	assert.True(t, idx.Uses("A", "foo", relation.Default))
	assert.True(t, idx.Uses("A", "foo", relation.Implicit))
	assert.False(t, idx.Uses("A", "foo", relation.PatternMatchTarget))
	assert.True(t, idx.Uses("A", "bar", relation.PatternMatchTarget))
	assert.False(t, idx.Uses("A", "baz", relation.Default))
	assert.False(t, idx.Uses("B", "foo", relation.Default))
}

func Test_Index_02(t *testing.T) {
	names := map[string]map[string]relation.UsedName{
		"A": {"foo": relation.NewUsedName("foo", relation.Default)},
	}

	idx := Build(names)

	assert.True(t, idx.UsesAny("A", "foo"))
	assert.False(t, idx.UsesAny("A", "bar"))
	assert.False(t, idx.UsesAny("B", "foo"))
}

func Test_Index_03(t *testing.T) {
	idx := Build(map[string]map[string]relation.UsedName{})

	assert.False(t, idx.Uses("A", "foo", relation.Default))
	assert.False(t, idx.UsesAny("A", "foo"))
}
