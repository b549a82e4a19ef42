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
package relation

import (
	"slices"
	"testing"

	"github.com/buildtools/incore/pkg/util/assert"
)

func Test_Relation_01(t *testing.T) {
	r := New[string, string]()
	r.Add("a", "x")
	r.Add("a", "y")

	assert.Equal(t, []string{"a"}, r.ForwardKeys(func(x, y string) bool { return x < y }))
	assert.True(t, r.ContainsForward("a", "x"))
	assert.True(t, r.ContainsForward("a", "y"))
	assert.False(t, r.ContainsForward("a", "z"))
	assert.Equal(t, []string{"a"}, r.Reverse("x"))
}

func Test_Relation_02(t *testing.T) {
	r := New[string, string]()
	r.Add("a", "x")
	r.Remove("a", "x")

	assert.True(t, r.IsEmpty())
	assert.Equal(t, []string(nil), r.Forward("a"))
	assert.Equal(t, []string(nil), r.Reverse("x"))
}

func Test_Relation_03(t *testing.T) {
	r := New[string, string]()
	r.AddAll("a", []string{"x", "y", "z"})
	r.RemoveAllByKey("a")

	assert.True(t, r.IsEmpty())

	for _, b := range []string{"x", "y", "z"} {
		assert.Equal(t, []string(nil), r.Reverse(b))
	}
}

func Test_Relation_04(t *testing.T) {
	a := New[string, string]()
	a.Add("p", "1")

	b := New[string, string]()
	b.Add("p", "2")
	b.Add("q", "3")

	a.Union(b)

	got := a.SortedForward("p", func(x, y string) bool { return x < y })
	assert.Equal(t, []string{"1", "2"}, got)
	assert.True(t, a.ContainsForward("q", "3"))
}

func Test_Relation_05(t *testing.T) {
	r := New[string, string]()
	r.Add("a", "x")
	r.Add("a", "y")
	r.Add("b", "y")

	clone := New[string, string]()
	clone.ReconstructFromForward(r.ForwardMap())

	for _, a := range []string{"a", "b"} {
		forward := r.SortedForward(a, func(x, y string) bool { return x < y })
		cloneForward := clone.SortedForward(a, func(x, y string) bool { return x < y })
		assert.Equal(t, forward, cloneForward)
	}

	// Mutating the original must not affect the reconstructed copy.
	r.Add("a", "z")
	assert.False(t, clone.ContainsForward("a", "z"))

	keys := clone.ForwardKeys(func(x, y string) bool { return x < y })
	slices.Sort(keys)
	assert.Equal(t, []string{"a", "b"}, keys)
}
