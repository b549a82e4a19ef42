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
	"testing"

	"github.com/buildtools/incore/pkg/fstamp"
	"github.com/buildtools/incore/pkg/util/assert"
)

func Test_Relations_01(t *testing.T) {
	r := NewRelations()
	src := fstamp.NewFile("a.scala")

	r.Classes.Add(src, "A")
	r.Classes.Add(src, "A$Inner")
	r.SrcProd.Add(src, fstamp.NewFile("A.class"))

	r.AddUsedName("A", "foo", Default)
	r.AddUsedName("A", "foo", Implicit)
	r.AddUsedName("A", "bar", PatternMatchTarget)

	names := r.UsedNames("A")
	assert.Equal(t, 2, len(names))
	assert.Equal(t, "bar", names[0].Name)
	assert.True(t, names[0].HasScope(PatternMatchTarget))
	assert.Equal(t, "foo", names[1].Name)
	assert.True(t, names[1].HasScope(Default))
	assert.True(t, names[1].HasScope(Implicit))
}

func Test_Relations_02(t *testing.T) {
	r := NewRelations()

	internal, external := r.ForContext(Inheritance)
	assert.True(t, internal == r.InheritanceInternal)
	assert.True(t, external == r.InheritanceExternal)

	internal, external = r.ForContext(LocalInheritance)
	assert.True(t, internal == r.LocalInheritanceInternal)
	assert.True(t, external == r.LocalInheritanceExternal)

	internal, external = r.ForContext(MemberRef)
	assert.True(t, internal == r.MemberRefInternal)
	assert.True(t, external == r.MemberRefExternal)
}

func Test_Relations_03(t *testing.T) {
	r := NewRelations()
	r.MemberRefInternal.Add("A", "B")
	r.InheritanceInternal.Add("A", "C")
	r.AddUsedName("A", "foo", Default)
	r.ProductClassName.Add("A", "A")

	r.RemoveClass("A")

	assert.True(t, r.MemberRefInternal.IsEmpty())
	assert.True(t, r.InheritanceInternal.IsEmpty())
	assert.True(t, r.ProductClassName.IsEmpty())
	assert.Equal(t, 0, len(r.UsedNames("A")))
}

func Test_Relations_04(t *testing.T) {
	r := NewRelations()
	src := fstamp.NewFile("a.scala")

	r.Classes.Add(src, "A")
	r.SrcProd.Add(src, fstamp.NewFile("A.class"))
	r.LibraryDep.Add(src, fstamp.NewFile("lib.jar"))
	r.MemberRefInternal.Add("A", "B")
	r.AddUsedName("A", "foo", Default)

	clone := r.Clone()

	// Mutating the original must not be visible in the clone.
	r.MemberRefInternal.Add("A", "D")
	r.AddUsedName("A", "bar", Implicit)

	assert.False(t, clone.MemberRefInternal.ContainsForward("A", "D"))
	assert.Equal(t, 1, len(clone.UsedNames("A")))
	assert.True(t, clone.Classes.ContainsForward(src, "A"))
	assert.True(t, clone.SrcProd.ContainsForward(src, fstamp.NewFile("A.class")))
	assert.True(t, clone.LibraryDep.ContainsForward(src, fstamp.NewFile("lib.jar")))
}

func Test_Relations_05(t *testing.T) {
	r := NewRelations()
	src := fstamp.NewFile("a.scala")

	r.Classes.Add(src, "A")
	r.Classes.Add(src, "A$Inner")
	r.SrcProd.Add(src, fstamp.NewFile("A.class"))
	r.LibraryDep.Add(src, fstamp.NewFile("lib.jar"))
	r.MemberRefInternal.Add("A", "B")
	r.AddUsedName("A", "foo", Default)

	r.RemoveSource(src)

	assert.True(t, r.Classes.IsEmpty())
	assert.True(t, r.SrcProd.IsEmpty())
	assert.True(t, r.LibraryDep.IsEmpty())
	assert.True(t, r.MemberRefInternal.IsEmpty())
	assert.Equal(t, 0, len(r.UsedNames("A")))
}
